package importer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const slugSeparator = '-'

// letters without a canonical decomposition, so NFD cannot fold them
var transliterations = strings.NewReplacer(
	"ß", "ss",
	"æ", "ae", "Æ", "ae",
	"œ", "oe", "Œ", "oe",
	"ø", "o", "Ø", "o",
	"đ", "d", "Đ", "d",
	"ð", "d", "Ð", "d",
	"ł", "l", "Ł", "l",
	"þ", "th", "Þ", "th",
)

// Slugify lowercases a label, folds it to ASCII and replaces every run of other
// characters with a single separator. "Éducation cosmique!" becomes
// "education-cosmique".
func Slugify(label string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, transliterations.Replace(label))
	if err != nil {
		folded = transliterations.Replace(label)
	}

	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(folded) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pending && b.Len() > 0 {
				b.WriteRune(slugSeparator)
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}
