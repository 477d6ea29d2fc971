package idgen

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// UntitledSlug is used when a title has no letters or digits at all.
const UntitledSlug = "untitled"

// foldDiacritics decomposes, drops combining marks, and recomposes.
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// transliterations covers letters that survive diacritic folding.
var transliterations = map[rune]string{
	'ß': "ss",
	'æ': "ae",
	'œ': "oe",
	'ø': "o",
	'đ': "d",
	'ð': "d",
	'þ': "th",
	'ł': "l",
	'ı': "i",
}

func isSlugRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// Slugify converts a title to a filename-safe slug.
// The title is folded to lowercase ASCII and every run of characters other
// than a-z and 0-9 collapses to a single hyphen, with no leading or trailing
// hyphen. Letters with no ASCII form act as separators.
//
//	Slugify("Add new feature: User Authentication") == "add-new-feature-user-authentication"
//	Slugify("Straße bauen") == "strasse-bauen"
func Slugify(title string) string {
	folded := strings.ToLower(foldDiacritics(title))

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	emit := func(s string) {
		if pendingHyphen && b.Len() > 0 {
			b.WriteByte('-')
		}
		pendingHyphen = false
		b.WriteString(s)
	}
	for _, r := range folded {
		if isSlugRune(r) {
			emit(string(r))
			continue
		}
		if t, ok := transliterations[r]; ok {
			emit(t)
			continue
		}
		pendingHyphen = true
	}

	if b.Len() == 0 {
		return UntitledSlug
	}
	return b.String()
}
