package quotes

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// normalize lowercases s for topic matching. A Caser keeps state, so a new
// one is built per call instead of sharing one between goroutines.
func normalize(s string) string {
	return cases.Lower(language.Und).String(s)
}
