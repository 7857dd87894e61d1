// Package slug normalizes free-form names into stable lookup keys, so that
// "Eating Out" and "eating out" resolve to the same category.
package slug

import "strings"

// Slugify lowercases s and maps every run of non [a-z0-9] runes to a single
// '_', trimming leading and trailing underscores.
func Slugify(s string) string {
	out := make([]rune, 0, len(s))
	prevUnderscore := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			out = append(out, r)
			prevUnderscore = false
			continue
		}
		if !prevUnderscore {
			out = append(out, '_')
			prevUnderscore = true
		}
	}
	return strings.Trim(string(out), "_")
}
