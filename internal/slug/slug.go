// Package slug derives URL-safe identifiers from work titles.
package slug

import (
	gosimple "github.com/gosimple/slug"
	"golang.org/x/text/unicode/norm"
)

// Make returns a lowercase, hyphen-separated ASCII slug for title.
// Full-width Latin and digits (common in Japanese titles) are folded to
// ASCII before transliteration. The result may be empty when title has no
// transliterable characters.
func Make(title string) string {
	return gosimple.Make(norm.NFKC.String(title))
}
