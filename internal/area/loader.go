package area

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/duskrealm/mudforge/internal/model"
	"github.com/duskrealm/mudforge/internal/world"
)

// LoadDirectory scans dir for `.wld`, `.mob`, `.obj`, and `.zon` files,
// processes them in filename order, and loads every record into w. A
// malformed record is logged; parsing of that file stops there, so the
// records before it in the same file are loaded and the bad record and
// everything after it in that file are not. Other files still load.
// LoadDirectory only returns an error if zero rooms were parsed across
// the entire directory, since a world with no rooms can't place anyone.
func LoadDirectory(dir string, w *world.World) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	roomsLoaded := 0
	for _, name := range names {
		path := filepath.Join(dir, name)
		switch {
		case strings.HasSuffix(name, ".wld"):
			roomsLoaded += loadRoomFile(path, w)
		case strings.HasSuffix(name, ".mob"):
			loadMobileFile(path, w)
		case strings.HasSuffix(name, ".obj"):
			loadObjectFile(path, w)
		case strings.HasSuffix(name, ".zon"):
			loadZoneFile(path, w)
		}
	}

	if roomsLoaded == 0 {
		return &ParseError{File: dir, Reason: "no rooms parsed from any .wld file"}
	}

	if dangling := FlagDanglingExits(w); dangling > 0 {
		slog.Warn("world graph has dangling exits", "count", dangling)
	}
	return nil
}

// FlagDanglingExits walks every loaded room's exit table and logs each
// exit whose destination vnum resolves to no loaded room, returning the
// count found. Dangling exits are flagged, not removed — area authors
// sometimes stage a zone before its neighbor exists.
func FlagDanglingExits(w *world.World) int {
	dangling := 0
	for _, room := range w.Rooms() {
		for _, exit := range room.Exits() {
			if exit.DestVnum == model.NoVnum {
				continue
			}
			if w.GetRoom(exit.DestVnum) == nil {
				slog.Debug("dangling exit", "room", room.Vnum, "direction", exit.Direction, "dest", exit.DestVnum)
				dangling++
			}
		}
	}
	return dangling
}

func loadRoomFile(path string, w *world.World) int {
	f, err := os.Open(path)
	if err != nil {
		slog.Error("opening room file", "path", path, "error", err)
		return 0
	}
	defer f.Close()

	rooms, err := ParseRooms(path, f)
	if err != nil {
		slog.Warn("skipping malformed room record", "path", path, "error", err)
	}
	for _, r := range rooms {
		w.LoadRoom(r)
	}
	return len(rooms)
}

func loadMobileFile(path string, w *world.World) {
	f, err := os.Open(path)
	if err != nil {
		slog.Error("opening mobile file", "path", path, "error", err)
		return
	}
	defer f.Close()

	mobs, err := ParseMobiles(path, f)
	if err != nil {
		slog.Warn("skipping malformed mobile record", "path", path, "error", err)
	}
	for _, m := range mobs {
		w.LoadMobileTemplate(m)
	}
}

func loadObjectFile(path string, w *world.World) {
	f, err := os.Open(path)
	if err != nil {
		slog.Error("opening object file", "path", path, "error", err)
		return
	}
	defer f.Close()

	objs, err := ParseObjects(path, f)
	if err != nil {
		slog.Warn("skipping malformed object record", "path", path, "error", err)
	}
	for _, o := range objs {
		w.LoadObjectTemplate(o)
	}
}

func loadZoneFile(path string, w *world.World) {
	f, err := os.Open(path)
	if err != nil {
		slog.Error("opening zone file", "path", path, "error", err)
		return
	}
	defer f.Close()

	zones, err := ParseZones(path, f)
	if err != nil {
		slog.Warn("skipping malformed zone record", "path", path, "error", err)
	}
	for _, z := range zones {
		w.LoadZone(z)
	}
}
