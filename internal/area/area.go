// Package area parses the four legacy DikuMUD-style area-file formats
// (`.wld`, `.mob`, `.obj`, `.zon`) into the in-memory records
// internal/model defines, and bulk-loads a directory of them into an
// internal/world.World.
//
// The shape follows la2go's line-oriented data loaders
// (internal/data/mapdata.go): a small scanner wrapper tracking line
// numbers for error reporting, plus one parser function per record
// type.
package area

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseError reports a malformed record with enough context to find it
// in the source file.
type ParseError struct {
	File       string
	LineOffset int
	Reason     string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.LineOffset, e.Reason)
}

// lineScanner wraps bufio.Scanner with 1-based line counting and a
// one-line pushback, which the per-format parsers need to detect
// terminator lines (`S`, `$~`, `#99999`) without consuming them early.
type lineScanner struct {
	file    string
	sc      *bufio.Scanner
	lineNum int

	pushedBack bool
	pushedLine string
}

func newLineScanner(file string, r io.Reader) *lineScanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &lineScanner{file: file, sc: sc}
}

// next returns the next line with its trailing newline stripped, and
// whether one was available.
func (s *lineScanner) next() (string, bool) {
	if s.pushedBack {
		s.pushedBack = false
		return s.pushedLine, true
	}
	if !s.sc.Scan() {
		return "", false
	}
	s.lineNum++
	return s.sc.Text(), true
}

func (s *lineScanner) pushBack(line string) {
	s.pushedBack = true
	s.pushedLine = line
}

func (s *lineScanner) errf(format string, args ...any) error {
	return &ParseError{File: s.file, LineOffset: s.lineNum, Reason: fmt.Sprintf(format, args...)}
}

// tildeString reads a possibly multi-line string field terminated by a
// trailing `~`. Internal newlines (for long description fields) are
// joined with "\n"; a `~` alone on its closing line adds nothing.
func (s *lineScanner) tildeString() (string, error) {
	var b strings.Builder
	for {
		line, ok := s.next()
		if !ok {
			return "", s.errf("unterminated tilde string (EOF)")
		}
		if idx := strings.IndexByte(line, '~'); idx >= 0 {
			if idx > 0 {
				if b.Len() > 0 {
					b.WriteByte('\n')
				}
				b.WriteString(line[:idx])
			}
			return b.String(), nil
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
}

// intFields parses the first n whitespace-separated fields of line as
// integers. Fewer than n fields is an error; fields beyond n are ignored.
func intFields(line string, n int) ([]int, error) {
	fields := strings.Fields(line)
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d integers, got %q", n, line)
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			return nil, fmt.Errorf("field %d not an integer: %q", i, fields[i])
		}
		out[i] = v
	}
	return out, nil
}

// isFileTerminator reports whether a line ends the file entirely: a
// `$` sentinel or the `#99999` record header.
func isFileTerminator(line string) bool {
	line = strings.TrimSpace(line)
	return line == "$~" || line == "$" || line == "#99999"
}

// vnumHeader parses a `#<vnum>` record header line.
func vnumHeader(line string) (int, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "#") {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(line[1:]))
	if err != nil {
		return 0, false
	}
	return v, true
}
