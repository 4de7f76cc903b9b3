// Package textnorm turns tool names into comparable search keys.
//
// Catalog spreadsheets mix Latin and Cyrillic spellings of the same part
// number ("НК-12" typed on a Russian keyboard vs "HK-12"), and use
// separators inconsistently. Normalize produces the key that is stored next
// to every indexed name and that every query is reduced to before searching.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// separatorRegex matches every character dropped by RemoveSeparators.
var separatorRegex = regexp.MustCompile(`[.,\-\\|/ ]`)

// homoglyphs maps Cyrillic capitals to the Latin letters they are drawn as.
var homoglyphs = map[rune]rune{
	'А': 'A',
	'В': 'B',
	'Е': 'E',
	'К': 'K',
	'М': 'M',
	'Н': 'H',
	'О': 'O',
	'Р': 'P',
	'С': 'C',
	'Т': 'T',
	'Х': 'X',
}

// Normalize reduces text to its search key:
// separators removed, lower-cased, Cyrillic letters dropped.
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	// Step 1: Remove separators
	key := RemoveSeparators(text)

	// Step 2: Lower-case
	key = strings.ToLower(key)

	// Step 3: Drop Cyrillic letters entirely
	return RemoveCyrillic(key)
}

// NormalizePtr is Normalize for optional values; nil yields "".
func NormalizePtr(text *string) string {
	if text == nil {
		return ""
	}
	return Normalize(*text)
}

// RemoveSeparators strips periods, commas, hyphens, slashes, pipes and spaces.
func RemoveSeparators(text string) string {
	return separatorRegex.ReplaceAllString(text, "")
}

// RemoveCyrillic drops every Cyrillic rune and leaves everything else intact.
func RemoveCyrillic(text string) string {
	out, _, err := transform.String(runes.Remove(runes.In(unicode.Cyrillic)), text)
	if err != nil {
		// runes.Remove never reports an error for valid or invalid UTF-8
		return text
	}
	return out
}

// Transliterate replaces Cyrillic capitals that look like Latin ones
// with their Latin twins. Other runes, Cyrillic or not, are kept.
func Transliterate(text string) string {
	return strings.Map(func(r rune) rune {
		if latin, ok := homoglyphs[r]; ok {
			return latin
		}
		return r
	}, text)
}

// queryReserved holds the query_string operators that must be backslash-escaped.
const queryReserved = `+-=&|!(){}[]^"~*?:\\/`

// Stringify wraps every rune in '*' wildcards so that a query_string search
// matches the characters in order with anything in between.
// Stringify("ab") == "*a*b*".
// Reserved query_string characters are escaped; '<' and '>' cannot be
// escaped and are dropped; text made only of them yields "".
func Stringify(text string) string {
	if strings.Trim(text, "<>") == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text)*3 + 1)
	b.WriteByte('*')
	for _, r := range text {
		if r == '<' || r == '>' {
			continue
		}
		if strings.ContainsRune(queryReserved, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
		b.WriteByte('*')
	}
	return b.String()
}
