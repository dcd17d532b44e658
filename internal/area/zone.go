package area

import (
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/duskrealm/mudforge/internal/model"
)

// resetLine matches one reset-command line: a single opcode letter
// followed by two mandatory and up to three optional integers.
var resetLine = regexp.MustCompile(`^([MOEGDRP])\s+(\d+)\s+(\d+)(?:\s+(\d+)){0,3}`)

// ParseZones reads a `.zon` file and returns every zone record it
// contains.
func ParseZones(file string, r io.Reader) ([]*model.Zone, error) {
	sc := newLineScanner(file, r)
	var zones []*model.Zone

	for {
		line, ok := sc.next()
		if !ok {
			return zones, nil
		}
		if isFileTerminator(line) {
			return zones, nil
		}
		vnum, ok := vnumHeader(line)
		if !ok {
			if strings.TrimSpace(line) == "" {
				continue
			}
			return zones, sc.errf("expected zone header, got %q", line)
		}

		zone, err := parseZoneRecord(sc, vnum)
		if err != nil {
			return zones, err
		}
		zones = append(zones, zone)
	}
}

func parseZoneRecord(sc *lineScanner, vnum int) (*model.Zone, error) {
	name, err := sc.tildeString()
	if err != nil {
		return nil, err
	}

	paramLine, ok := sc.next()
	if !ok {
		return nil, sc.errf("missing zone parameter line")
	}
	params, err := intFields(paramLine, 5)
	if err != nil {
		return nil, sc.errf("zone parameter line: %v", err)
	}

	zone := model.NewZone(vnum)
	zone.Name = name
	zone.TopRoomVnum = model.Vnum(params[0])
	zone.LifespanMin = params[1]
	zone.ResetMode = model.ResetMode(params[2])
	zone.MinLevel = params[3]
	zone.MaxPlayers = params[4]
	zone.ResetChance = 100

	for {
		line, ok := sc.next()
		if !ok {
			return zone, nil
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "*") {
			continue
		}
		if trimmed == "S" || trimmed == "$~" {
			return zone, nil
		}
		if _, ok := vnumHeader(line); ok {
			sc.pushBack(line)
			return zone, nil
		}

		cmd, err := parseResetLine(trimmed)
		if err != nil {
			return nil, sc.errf("%v", err)
		}
		zone.Commands = append(zone.Commands, cmd)
	}
}

// parseResetLine validates the line against the canonical reset-command
// pattern, then re-tokenizes with strings.Fields to collect every
// integer in order. A regexp submatch alone can't do this: Go's RE2
// only retains the final iteration of a repeated capture group
// (`(?:\s+(\d+)){0,3}`), which would silently drop a3 for any command
// using all four argument slots (M, O, D, P).
func parseResetLine(line string) (model.ResetCommand, error) {
	if !resetLine.MatchString(line) {
		return model.ResetCommand{}, &ParseError{Reason: "malformed reset command: " + line}
	}

	fields := strings.Fields(line)
	var args [5]int
	for i, field := range fields[1:] {
		if i >= len(args) {
			break
		}
		v, err := strconv.Atoi(field)
		if err != nil {
			return model.ResetCommand{}, err
		}
		args[i] = v
	}

	return model.ResetCommand{
		Code: model.ResetCode(fields[0][0]),
		Args: args,
	}, nil
}
