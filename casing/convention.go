package casing

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"shaper/internal/match"
)

// Func converts a name.
type Func func(string) string

// Convention names.
const (
	Lowercase  = "lowercase"
	Uppercase  = "UPPERCASE"
	Capitalize = "Capitalize"
	Pascal     = "PascalCase"
	Camel      = "camelCase"
	Snake      = "snake_case"
	Const      = "CONST_CASE"
	Ada        = "Ada_Case"
	Kebab      = "kebab-case"
	Cobol      = "COBOL-CASE"
	Train      = "Train-Case"
)

// LowerCase lowers the whole name without splitting it.
func LowerCase(s string) string { return strings.ToLower(s) }

// UpperCase uppers the whole name without splitting it.
func UpperCase(s string) string { return strings.ToUpper(s) }

// CapitalizeCase uppers the first letter and lowers the rest.
func CapitalizeCase(s string) string {
	if s == "" {
		return s
	}

	first, size := utf8.DecodeRuneInString(s)

	return string(unicode.ToUpper(first)) + strings.ToLower(s[size:])
}

func PascalCase(s string) string { return join(s, "", title, title) }
func CamelCase(s string) string  { return join(s, "", strings.ToLower, title) }
func SnakeCase(s string) string  { return join(s, "_", strings.ToLower, strings.ToLower) }
func ConstCase(s string) string  { return join(s, "_", strings.ToUpper, strings.ToUpper) }
func AdaCase(s string) string    { return join(s, "_", title, title) }
func KebabCase(s string) string  { return join(s, "-", strings.ToLower, strings.ToLower) }
func CobolCase(s string) string  { return join(s, "-", strings.ToUpper, strings.ToUpper) }
func TrainCase(s string) string  { return join(s, "-", title, title) }

// join splits s into words and glues them back with sep,
// formatting the first word with head and every other word with tail.
func join(s, sep string, head, tail func(string) string) string {
	words := match.Tokenize(s)
	for i, word := range words {
		if i == 0 {
			words[i] = head(word)
		} else {
			words[i] = tail(word)
		}
	}

	return strings.Join(words, sep)
}

func title(word string) string {
	return CapitalizeCase(word)
}

// Secret returns a converter hiding the value behind marker repeated length times.
// A non-positive length repeats the marker once per rune of the value.
func Secret(marker string, length int) Func {
	return func(s string) string {
		n := length
		if n <= 0 {
			n = utf8.RuneCountInString(s)
		}

		return strings.Repeat(marker, n)
	}
}

// DefaultSecret hides any value behind six asterisks.
var DefaultSecret = Secret("*", 6)
