package telnet

import "testing"

// Color tokens substitute to ANSI SGR sequences: lowercase tokens are
// the normal-intensity colors (`0;3{n}m`), uppercase the bright ones
// (`1;3{n}m`), per standard SGR intensity prefixes.
func TestEncodeOutbound_ColorSubstitution(t *testing.T) {
	c := NewCodec()

	got := c.EncodeOutbound("&rHello &gworld!&N")
	want := "\x1b[0;31mHello \x1b[0;32mworld!\x1b[0m"
	if got != want {
		t.Errorf("EncodeOutbound = %q, want %q", got, want)
	}
}

func TestEncodeOutbound_BrightCodes(t *testing.T) {
	c := NewCodec()
	got := c.EncodeOutbound("&Rdanger&N")
	want := "\x1b[1;31mdanger\x1b[0m"
	if got != want {
		t.Errorf("EncodeOutbound = %q, want %q", got, want)
	}
}

func TestEncodeOutbound_BackgroundBlinkUnderlineInverse(t *testing.T) {
	c := NewCodec()
	if got, want := c.EncodeOutbound("&1x"), "\x1b[41mx"; got != want {
		t.Errorf("background = %q, want %q", got, want)
	}
	if got, want := c.EncodeOutbound("&fx"), "\x1b[5mx"; got != want {
		t.Errorf("blink = %q, want %q", got, want)
	}
	if got, want := c.EncodeOutbound("&ux"), "\x1b[4mx"; got != want {
		t.Errorf("underline = %q, want %q", got, want)
	}
	if got, want := c.EncodeOutbound("&vx"), "\x1b[7mx"; got != want {
		t.Errorf("inverse = %q, want %q", got, want)
	}
}

func TestEncodeOutbound_LiteralAmpersand(t *testing.T) {
	c := NewCodec()
	got := c.EncodeOutbound("Fish && Chips")
	want := "Fish & Chips"
	if got != want {
		t.Errorf("EncodeOutbound = %q, want %q", got, want)
	}
}

func TestEncodeOutbound_NewlineNormalization(t *testing.T) {
	c := NewCodec()
	got := c.EncodeOutbound("line one\nline two")
	want := "line one\r\nline two"
	if got != want {
		t.Errorf("EncodeOutbound = %q, want %q", got, want)
	}
}

func TestEncodeOutbound_CarriageReturnToken(t *testing.T) {
	c := NewCodec()
	got := c.EncodeOutbound("a&^b")
	want := "a\r\nb"
	if got != want {
		t.Errorf("EncodeOutbound(&^) = %q, want %q", got, want)
	}
}

func TestEncodeOutbound_StripsColorWhenDisabled(t *testing.T) {
	c := NewCodec()
	c.SetColorEnabled(false)
	if c.ColorEnabled() {
		t.Fatal("ColorEnabled should report false after SetColorEnabled(false)")
	}
	got := c.EncodeOutbound("&rHello&N world")
	want := "Hello world"
	if got != want {
		t.Errorf("color-disabled EncodeOutbound = %q, want %q", got, want)
	}
}

func TestEncodeOutbound_UnknownTokenPassesThrough(t *testing.T) {
	c := NewCodec()
	got := c.EncodeOutbound("&zhello")
	want := "&zhello"
	if got != want {
		t.Errorf("unknown token EncodeOutbound = %q, want %q", got, want)
	}
}
