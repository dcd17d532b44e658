package command

import (
	"strings"
	"unicode"
)

// fillWords are the tokens targeting commands skip over, so "look at
// the fountain" and "look fountain" resolve the same target.
var fillWords = map[string]bool{
	"a": true, "an": true, "the": true, "at": true, "in": true,
	"on": true, "with": true, "by": true, "for": true, "of": true,
	"to": true, "from": true,
}

// IsFillWord reports whether word is one of the fixed fill words,
// case-insensitively.
func IsFillWord(word string) bool {
	return fillWords[strings.ToLower(word)]
}

// OneArgument pops the next whitespace-delimited token off input and
// returns it with the remainder. A token opening with a double quote
// runs to the closing quote (or end of input) and may contain spaces;
// the quotes themselves are stripped.
func OneArgument(input string) (arg, rest string) {
	input = strings.TrimLeftFunc(input, unicode.IsSpace)
	if input == "" {
		return "", ""
	}

	if input[0] == '"' {
		if end := strings.IndexByte(input[1:], '"'); end >= 0 {
			return input[1 : end+1], strings.TrimLeftFunc(input[end+2:], unicode.IsSpace)
		}
		return input[1:], ""
	}

	idx := strings.IndexFunc(input, unicode.IsSpace)
	if idx < 0 {
		return input, ""
	}
	return input[:idx], strings.TrimLeftFunc(input[idx:], unicode.IsSpace)
}

// HalfChop splits input at the first whitespace run, with no quote
// handling. Both halves come back trimmed.
func HalfChop(input string) (first, rest string) {
	input = strings.TrimSpace(input)
	idx := strings.IndexFunc(input, unicode.IsSpace)
	if idx < 0 {
		return input, ""
	}
	return input[:idx], strings.TrimLeftFunc(input[idx:], unicode.IsSpace)
}

// IsAbbreviation reports whether abbrev is a non-empty
// case-insensitive prefix of full.
func IsAbbreviation(abbrev, full string) bool {
	if abbrev == "" {
		return false
	}
	if len(abbrev) > len(full) {
		return false
	}
	return strings.EqualFold(abbrev, full[:len(abbrev)])
}

// IsNumber reports whether s is an optionally signed decimal integer.
func IsNumber(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
