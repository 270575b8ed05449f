package e2e

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"
)

// BaseTCPSuite dials a running relay over its plain-text line protocol.
// It is skipped entirely when RELAY_ADDR is not set, so unit test runs
// stay self-contained.
type BaseTCPSuite struct {
	suite.Suite
	Config Config
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseTCPSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.RelayAddr == "" {
		s.T().Skip("RELAY_ADDR not set, skipping e2e suite")
	}
}

// RelayConn is one client-side connection speaking the relay protocol.
type RelayConn struct {
	conn net.Conn
	r    *bufio.Reader
}

// Dial opens a raw connection with a colorized header in the logs.
func (s *BaseTCPSuite) Dial(name string) *RelayConn {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)

	conn, err := net.DialTimeout("tcp", s.Config.RelayAddr, 5*time.Second)
	s.Require().NoError(err, "Failed to connect to relay at "+s.Config.RelayAddr)
	return &RelayConn{conn: conn, r: bufio.NewReader(conn)}
}

// Login runs the full handshake for username and consumes the client's
// own join announcement.
func (s *BaseTCPSuite) Login(name, username string) *RelayConn {
	c := s.Dial(name)
	s.Require().Equal("PASSWORD:", s.ReadLine(c))
	s.SendLine(c, "PASS:"+s.Config.RelayPassword)
	s.Require().Equal("OKPASS", s.ReadLine(c))
	s.SendLine(c, "LOGIN:"+username)
	s.Require().Equal("OK", s.ReadLine(c))
	s.Require().Contains(s.ReadLine(c), username+" has joined the chat")
	return c
}

func (s *BaseTCPSuite) SendLine(c *RelayConn, line string) {
	_, err := c.conn.Write([]byte(line + "\n"))
	s.Require().NoError(err)
	s.T().Logf(">>> %s", line)
}

func (s *BaseTCPSuite) ReadLine(c *RelayConn) string {
	s.Require().NoError(c.conn.SetReadDeadline(time.Now().Add(5 * time.Second)))
	line, err := c.r.ReadString('\n')
	s.Require().NoError(err)
	line = strings.TrimRight(line, "\r\n")
	s.T().Logf("<<< %s", line)
	return line
}

func (s *BaseTCPSuite) Close(c *RelayConn) {
	_ = c.conn.Close()
}
