package moderation

import (
	"bufio"
	"embed"
	"path"
	"strings"
)

//go:embed censored/*.txt
var wordlists embed.FS

// Words loads the embedded censored wordlists: one word per line, blank lines
// and #-comments skipped, duplicates removed.
func Words() ([]string, error) {
	entries, err := wordlists.ReadDir("censored")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var words []string
	for _, entry := range entries {
		f, err := wordlists.Open(path.Join("censored", entry.Name()))
		if err != nil {
			return nil, err
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			word := strings.TrimSpace(scanner.Text())
			if word == "" || strings.HasPrefix(word, "#") {
				continue
			}
			word = strings.ToLower(word)
			if _, ok := seen[word]; ok {
				continue
			}
			seen[word] = struct{}{}
			words = append(words, word)
		}
		if err := scanner.Err(); err != nil {
			_ = f.Close()
			return nil, err
		}
		_ = f.Close()
	}
	return words, nil
}
