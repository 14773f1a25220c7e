// Package slug builds URL-safe post slugs.
package slug

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const fallback = "post"

// MaxLength caps the base slug so a "-N" suffix still fits the 255 character
// slug column.
const MaxLength = 240

// Make lowercases title, folds accents, and joins runs of anything that is
// not an ASCII letter or digit with a single '-'. The result only contains
// [a-z0-9-], so it is safe to use in a LIKE pattern without escaping.
// Slugs longer than MaxLength are cut back to the last whole word.
func Make(title string) string {
	var b strings.Builder
	pendingDash := false

	for _, r := range norm.NFKD.String(title) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}

	if b.Len() == 0 {
		return fallback
	}
	return truncate(b.String())
}

func truncate(s string) string {
	if len(s) <= MaxLength {
		return s
	}
	if s[MaxLength] == '-' {
		return s[:MaxLength]
	}
	cut := s[:MaxLength]
	if i := strings.LastIndexByte(cut, '-'); i > 0 {
		return cut[:i]
	}
	return cut
}

// NextFree returns base if it is not taken, otherwise base-N for the
// smallest N >= 1 not in taken. It always terminates since taken is finite.
func NextFree(base string, taken []string) string {
	used := make(map[string]struct{}, len(taken))
	for _, s := range taken {
		used[s] = struct{}{}
	}
	if _, ok := used[base]; !ok {
		return base
	}
	for n := 1; ; n++ {
		candidate := base + "-" + strconv.Itoa(n)
		if _, ok := used[candidate]; !ok {
			return candidate
		}
	}
}
