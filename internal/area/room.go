package area

import (
	"io"
	"strings"

	"github.com/duskrealm/mudforge/internal/model"
)

// ParseRooms reads a `.wld` file and returns every room record it
// contains. A malformed record produces a *ParseError describing that
// record and ends parsing: the rooms parsed before it are returned along
// with the error, and no record after it is read.
func ParseRooms(file string, r io.Reader) ([]*model.Room, error) {
	sc := newLineScanner(file, r)
	var rooms []*model.Room

	for {
		line, ok := sc.next()
		if !ok {
			return rooms, nil
		}
		if isFileTerminator(line) {
			return rooms, nil
		}
		vnum, ok := vnumHeader(line)
		if !ok {
			if strings.TrimSpace(line) == "" {
				continue
			}
			return rooms, sc.errf("expected room header, got %q", line)
		}

		room, err := parseRoomRecord(sc, vnum)
		if err != nil {
			return rooms, err
		}
		rooms = append(rooms, room)
	}
}

func parseRoomRecord(sc *lineScanner, vnum int) (*model.Room, error) {
	name, err := sc.tildeString()
	if err != nil {
		return nil, err
	}
	desc, err := sc.tildeString()
	if err != nil {
		return nil, err
	}

	statLine, ok := sc.next()
	if !ok {
		return nil, sc.errf("missing room stat line")
	}
	stats, err := intFields(statLine, 6)
	if err != nil {
		return nil, sc.errf("room stat line: %v", err)
	}

	room := model.NewRoom(model.Vnum(vnum))
	room.Name = name
	room.Description = desc
	room.ZoneVnum = stats[0]
	room.Flags = model.RoomFlag(stats[1])
	room.Sector = model.SectorType(stats[2])
	room.LightLevel = stats[3]
	room.ManaRegen = stats[4]
	room.HPRegen = stats[5]

	for {
		line, ok := sc.next()
		if !ok {
			return nil, sc.errf("unterminated room record (EOF before S)")
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "S" {
			return room, nil
		}
		if !strings.HasPrefix(trimmed, "D") {
			return nil, sc.errf("expected exit block or terminator, got %q", line)
		}

		exit, err := parseExitBlock(sc, trimmed)
		if err != nil {
			return nil, err
		}
		room.SetExit(exit)
	}
}

func parseExitBlock(sc *lineScanner, header string) (*model.Exit, error) {
	if len(header) != 2 || header[0] != 'D' {
		return nil, sc.errf("invalid exit header: %q", header)
	}
	n := int(header[1] - '0')
	if n < 0 || n >= model.NumDirections {
		return nil, sc.errf("invalid exit direction digit: %q", header)
	}

	name, err := sc.tildeString()
	if err != nil {
		return nil, err
	}
	desc, err := sc.tildeString()
	if err != nil {
		return nil, err
	}

	line, ok := sc.next()
	if !ok {
		return nil, sc.errf("missing exit flags line")
	}
	fields, err := intFields(line, 3)
	if err != nil {
		return nil, sc.errf("exit flags line: %v", err)
	}

	return &model.Exit{
		Direction:   model.Direction(n),
		Name:        name,
		Description: desc,
		Flags:       model.DoorFlag(fields[0]),
		KeyVnum:     model.Vnum(fields[1]),
		DestVnum:    model.Vnum(fields[2]),
	}, nil
}

