package runtime

import (
	"bufio"
	"bytes"
	"io/fs"
	"strings"

	apperrors "chat-relay/errors"
)

// Wordlist carries the parsed censored words plus metadata for logging.
type Wordlist struct {
	Words     []string
	Languages []string
}

// WordlistLoader reads blacklisted words from per-language .txt files,
// one word per line, blank lines ignored.
type WordlistLoader struct {
	fsys fs.FS
}

func NewWordlistLoader(fsys fs.FS) *WordlistLoader {
	return &WordlistLoader{fsys: fsys}
}

// LoadAll parses every file directly under dir, deduplicating words across
// languages. The language tag is the filename without its extension.
func (l *WordlistLoader) LoadAll(dir string) (*Wordlist, error) {
	entries, err := fs.ReadDir(l.fsys, dir)
	if err != nil {
		return nil, err
	}

	unique := make(map[string]struct{})
	var languages []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		languages = append(languages, strings.TrimSuffix(entry.Name(), ".txt"))

		data, err := fs.ReadFile(l.fsys, dir+"/"+entry.Name())
		if err != nil {
			return nil, err
		}

		// A scanner copes with \n and \r\n line endings alike.
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			if word := strings.TrimSpace(scanner.Text()); word != "" {
				unique[word] = struct{}{}
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	if len(unique) == 0 {
		return nil, apperrors.ErrEmptyWords
	}

	words := make([]string, 0, len(unique))
	for w := range unique {
		words = append(words, w)
	}
	return &Wordlist{Words: words, Languages: languages}, nil
}
