package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestModerator_Censors_Plain_Word(t *testing.T) {
	req := require.New(t)
	mod, err := NewModerator([]string{"idiot"}, '*')
	req.NoError(err)

	req.Equal("you are an *****", mod.Censor("you are an idiot"))
}

func TestModerator_Censors_Leet_And_Spacing(t *testing.T) {
	req := require.New(t)
	mod, err := NewModerator([]string{"idiot"}, '*')
	req.NoError(err)

	req.Equal("********", mod.Censor("1d.1-0 t"))
	req.Equal("***** uppercase", mod.Censor("IDIOT uppercase"))
}

func TestModerator_Leaves_Clean_Text_Alone(t *testing.T) {
	req := require.New(t)
	mod, err := NewModerator([]string{"idiot"}, '*')
	req.NoError(err)

	clean := "a perfectly fine sentence"
	req.Equal(clean, mod.Censor(clean))
}

func TestModerator_Empty_Wordlist_Passes_Through(t *testing.T) {
	req := require.New(t)
	mod, err := NewModerator(nil, '*')
	req.NoError(err)

	req.Equal("anything at all", mod.Censor("anything at all"))
}
