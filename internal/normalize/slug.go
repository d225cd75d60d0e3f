package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugExpr = regexp.MustCompile(`[^a-z0-9]+`)

	// Letters that do not decompose into base + combining mark.
	letterFolds = strings.NewReplacer(
		"ı", "i",
		"ß", "ss",
		"æ", "ae",
		"ø", "o",
		"đ", "d",
		"ł", "l",
	)
)

// Slugify lowercases s, folds diacritics to ASCII and joins the remaining
// alphanumeric runs with single dashes. The result has no leading or trailing
// dash and may be empty when s holds no Latin letters or digits.
func Slugify(s string) string {
	lower := letterFolds.Replace(strings.ToLower(s))

	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripMarks, lower)
	if err != nil {
		folded = lower
	}

	return strings.Trim(nonSlugExpr.ReplaceAllString(folded, "-"), "-")
}
