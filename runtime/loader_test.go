package runtime

import (
	"testing"
	"testing/fstest"

	apperrors "chat-relay/errors"

	"github.com/stretchr/testify/require"
)

func TestWordlistLoader_Merges_Languages(t *testing.T) {
	req := require.New(t)

	// Given two language files sharing one word
	fsys := fstest.MapFS{
		"censored/en.txt": {Data: []byte("idiot\nmoron\n")},
		"censored/fr.txt": {Data: []byte("idiot\ncretin\r\n")},
	}

	// When loading them all
	wordlist, err := NewWordlistLoader(fsys).LoadAll("censored")

	// Then words are deduplicated across languages
	req.NoError(err)
	req.ElementsMatch([]string{"idiot", "moron", "cretin"}, wordlist.Words)
	req.ElementsMatch([]string{"en", "fr"}, wordlist.Languages)
}

func TestWordlistLoader_Skips_Blank_Lines(t *testing.T) {
	req := require.New(t)

	fsys := fstest.MapFS{
		"censored/en.txt": {Data: []byte("\nidiot\n\n  \nmoron\n")},
	}

	wordlist, err := NewWordlistLoader(fsys).LoadAll("censored")

	req.NoError(err)
	req.ElementsMatch([]string{"idiot", "moron"}, wordlist.Words)
}

func TestWordlistLoader_Empty_Folder(t *testing.T) {
	req := require.New(t)

	// Given files with no usable word
	fsys := fstest.MapFS{
		"censored/en.txt": {Data: []byte("\n\n")},
	}

	// When loading them
	_, err := NewWordlistLoader(fsys).LoadAll("censored")

	// Then
	req.ErrorIs(err, apperrors.ErrEmptyWords)
}

func TestWordlistLoader_Missing_Folder(t *testing.T) {
	req := require.New(t)

	_, err := NewWordlistLoader(fstest.MapFS{}).LoadAll("censored")

	req.Error(err)
}
