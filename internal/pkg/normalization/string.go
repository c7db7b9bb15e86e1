package normalization

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Email lower-cases and trims an address.
func Email(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// Trim collapses surrounding whitespace.
func Trim(input string) string {
	return strings.TrimSpace(input)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// ContainsPattern builds a lower-cased "%term%" LIKE pattern with the
// wildcards in term escaped. Pair it with ESCAPE '\' in the query.
func ContainsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

func TrimPtr(input *string) *string {
	if input == nil {
		return nil
	}
	v := strings.TrimSpace(*input)
	return &v
}

// Slugify converts text to an ASCII slug: accents are stripped, anything that
// is not a letter, digit, underscore, hyphen or space is dropped, and runs of
// whitespace or hyphens become a single hyphen.
func Slugify(input string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, input)
	if err != nil {
		folded = input
	}
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r > unicode.MaxASCII:
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
			lastDash = false
		case r == '-' || unicode.IsSpace(r):
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-_")
}

// Initials returns the upper-cased first letters of the first two words of
// name, or its first two characters for single words, or "U" when empty.
func Initials(name string) string {
	words := strings.Fields(name)
	if len(words) >= 2 {
		a, _ := firstRune(words[0])
		b, _ := firstRune(words[1])
		return strings.ToUpper(string([]rune{a, b}))
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "U"
	}
	r := []rune(name)
	if len(r) > 2 {
		r = r[:2]
	}
	return strings.ToUpper(string(r))
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}
