package command

import "testing"

func TestOneArgument(t *testing.T) {
	tests := []struct {
		input    string
		wantArg  string
		wantRest string
	}{
		{"", "", ""},
		{"   ", "", ""},
		{"sword", "sword", ""},
		{"get sword", "get", "sword"},
		{"  put   sword   bag  ", "put", "sword   bag  "},
		{`"rusty sword" bag`, "rusty sword", "bag"},
		{`"unterminated span`, "unterminated span", ""},
		{`"" empty`, "", "empty"},
	}
	for _, tt := range tests {
		arg, rest := OneArgument(tt.input)
		if arg != tt.wantArg || rest != tt.wantRest {
			t.Errorf("OneArgument(%q) = %q, %q, want %q, %q", tt.input, arg, rest, tt.wantArg, tt.wantRest)
		}
	}
}

func TestHalfChop(t *testing.T) {
	tests := []struct {
		input     string
		wantFirst string
		wantRest  string
	}{
		{"", "", ""},
		{"look", "look", ""},
		{"give sword guard", "give", "sword guard"},
		{"  say   hello world", "say", "hello world"},
		{`"no quote handling`, `"no`, "quote handling"},
	}
	for _, tt := range tests {
		first, rest := HalfChop(tt.input)
		if first != tt.wantFirst || rest != tt.wantRest {
			t.Errorf("HalfChop(%q) = %q, %q, want %q, %q", tt.input, first, rest, tt.wantFirst, tt.wantRest)
		}
	}
}

func TestIsAbbreviation(t *testing.T) {
	tests := []struct {
		abbrev, full string
		want         bool
	}{
		{"n", "north", true},
		{"NOR", "north", true},
		{"north", "north", true},
		{"norther", "north", false},
		{"s", "north", false},
		{"", "north", false},
	}
	for _, tt := range tests {
		if got := IsAbbreviation(tt.abbrev, tt.full); got != tt.want {
			t.Errorf("IsAbbreviation(%q, %q) = %v, want %v", tt.abbrev, tt.full, got, tt.want)
		}
	}
}

func TestIsNumber(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{"0", true},
		{"42", true},
		{"-7", true},
		{"+13", true},
		{"", false},
		{"-", false},
		{"+", false},
		{"12a", false},
		{"1.5", false},
	}
	for _, tt := range tests {
		if got := IsNumber(tt.s); got != tt.want {
			t.Errorf("IsNumber(%q) = %v, want %v", tt.s, got, tt.want)
		}
	}
}

func TestIsFillWord(t *testing.T) {
	for _, word := range []string{"a", "an", "the", "at", "in", "on", "with", "by", "for", "of", "to", "from", "The", "AT"} {
		if !IsFillWord(word) {
			t.Errorf("IsFillWord(%q) = false, want true", word)
		}
	}
	for _, word := range []string{"sword", "north", ""} {
		if IsFillWord(word) {
			t.Errorf("IsFillWord(%q) = true, want false", word)
		}
	}
}
