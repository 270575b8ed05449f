package e2e

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type testChatSuite struct {
	BaseTCPSuite
}

func TestChatSuite(t *testing.T) {
	suite.Run(t, &testChatSuite{})
}

func (s *testChatSuite) TestFullChatFlow() {
	// Random suffixes keep reruns against a long-lived relay from
	// tripping over usernames still claimed by a previous run.
	suffix := uuid.New().String()[:8]
	aliceName := "alice-" + suffix
	bobName := "bob-" + suffix

	var alice, bob *RelayConn

	// --- STEP 0: AUTHENTICATION ---
	s.Run("Step 0: Both clients authenticate and log in", func() {
		alice = s.Login("Connecting first client", aliceName)
		bob = s.Login("Connecting second client", bobName)

		// The first client observes the second one arriving
		s.Require().Equal(
			fmt.Sprintf("Server: *** %s has joined the chat ***", bobName),
			s.ReadLine(alice),
		)
	})
	defer s.Close(alice)
	defer s.Close(bob)

	// --- STEP 1: BROADCAST ---
	s.Run("Step 1: A message reaches every participant", func() {
		s.SendLine(bob, "MSG:hello from the e2e suite")

		want := fmt.Sprintf("%s: hello from the e2e suite", bobName)
		s.Require().Equal(want, s.ReadLine(alice))
		s.Require().Equal(want, s.ReadLine(bob))
	})

	// --- STEP 2: PROTOCOL ERRORS ARE NON-FATAL ---
	s.Run("Step 2: Unknown command is reported, session survives", func() {
		s.SendLine(alice, "DANCE:now")
		s.Require().Equal("ERR:Unknown command", s.ReadLine(alice))

		s.SendLine(alice, "MSG:still here")
		want := fmt.Sprintf("%s: still here", aliceName)
		s.Require().Equal(want, s.ReadLine(alice))
		s.Require().Equal(want, s.ReadLine(bob))
	})

	// --- STEP 3: DEPARTURE ---
	s.Run("Step 3: QUIT announces the departure to the others", func() {
		s.SendLine(bob, "QUIT")
		s.Require().Equal(
			fmt.Sprintf("Server: *** %s has left the chat ***", bobName),
			s.ReadLine(alice),
		)
	})
}

func (s *testChatSuite) TestRejectedPassword() {
	c := s.Dial("Connecting with a bad password")
	defer s.Close(c)

	s.Require().Equal("PASSWORD:", s.ReadLine(c))
	s.SendLine(c, "PASS:definitely-wrong-"+uuid.New().String())
	s.Require().Equal("ERR:Bad password", s.ReadLine(c))

	// The prompt comes back: attempts are budgeted, not fatal
	s.Require().Equal("PASSWORD:", s.ReadLine(c))
}

func (s *testChatSuite) TestDuplicateUsername() {
	suffix := uuid.New().String()[:8]
	name := "highlander-" + suffix

	first := s.Login("Claiming a username", name)
	defer s.Close(first)

	impostor := s.Dial("Claiming the same username again")
	defer s.Close(impostor)

	s.Require().Equal("PASSWORD:", s.ReadLine(impostor))
	s.SendLine(impostor, "PASS:"+s.Config.RelayPassword)
	s.Require().Equal("OKPASS", s.ReadLine(impostor))
	s.SendLine(impostor, "LOGIN:"+name)
	s.Require().Equal("ERR:Username taken", s.ReadLine(impostor))
}
