package highlights

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	titleWords    = 5
	titleMaxRunes = 50
	descMaxRunes  = 100
	ellipsis      = "..."
)

// Title builds a short clip title from the first words of text.
func Title(text string) string {
	words := strings.Fields(text)
	if len(words) > titleWords {
		words = words[:titleWords]
	}
	title := capitalize(strings.Join(words, " "))
	if r := []rune(title); len(r) > titleMaxRunes {
		title = string(r[:titleMaxRunes-len(ellipsis)]) + ellipsis
	}
	return title
}

// Description returns the first 100 characters of text, with an ellipsis when cut.
func Description(text string) string {
	r := []rune(text)
	if len(r) <= descMaxRunes {
		return text
	}
	return string(r[:descMaxRunes]) + ellipsis
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	s = cases.Lower(language.Und).String(s)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToTitle(r)) + s[size:]
}

// Timestamp formats seconds as HH:MM:SS, truncating fractions.
func Timestamp(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	total := int(sec)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
