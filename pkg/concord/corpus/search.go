package corpus

import "strings"

// MaxSearchKeys is the largest number of keys SentencesWith matches.
const MaxSearchKeys = 2

// SentencesWith returns, in corpus order, the sentences that contain
// every key as a substring. No keys, or more than MaxSearchKeys, match
// nothing.
func (c *Corpus) SentencesWith(keys []string) []string {
	if len(keys) == 0 || len(keys) > MaxSearchKeys {
		return nil
	}
	var out []string
	for _, sent := range c.sentences {
		if containsAll(sent, keys) {
			out = append(out, sent)
		}
	}
	return out
}

func containsAll(s string, keys []string) bool {
	for _, k := range keys {
		if !strings.Contains(s, k) {
			return false
		}
	}
	return true
}
