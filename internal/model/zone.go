package model

import "sync"

// ResetMode controls when a zone's reset engine is allowed to fire.
type ResetMode int

const (
	ResetNever ResetMode = iota
	ResetWhenEmpty
	ResetAlways
)

// ResetCode is the one-letter opcode of a zone reset command.
type ResetCode byte

const (
	ResetLoadMobile   ResetCode = 'M'
	ResetLoadObject   ResetCode = 'O'
	ResetEquip        ResetCode = 'E'
	ResetGive         ResetCode = 'G'
	ResetDoor         ResetCode = 'D'
	ResetPutContainer ResetCode = 'P'
	ResetRemoveObject ResetCode = 'R'
)

// ResetCommand is one scripted step of a zone's reset command list. The
// five-argument vector's meaning is opcode-dependent, following the
// classic DikuMUD zone-command layout.
type ResetCommand struct {
	Code ResetCode
	Args [5]int
	// NestLevel expresses dependency on the preceding M/O command; callers
	// don't currently branch on it directly (nesting is inferred from
	// stream order), but it is retained for fidelity with the on-disk
	// format and future tooling.
	NestLevel int
}

// IfFlag is Args[0]: 0 means unconditional, 1 means "only if the nearest
// preceding M/O succeeded".
func (c ResetCommand) IfFlag() int { return c.Args[0] }

// Zone is the reset-engine's unit of work: a contiguous vnum block with a
// scripted repopulation command list.
type Zone struct {
	Vnum          int
	Name          string
	TopRoomVnum   Vnum
	LifespanMin   int
	ResetMode     ResetMode
	ResetChance   int // 1..100
	MaxPlayers    int
	MinLevel      int
	Commands      []ResetCommand

	mu         sync.Mutex
	lastReset  int64 // unix seconds
	ageMinutes int
}

func NewZone(vnum int) *Zone {
	return &Zone{Vnum: vnum}
}

// AgeMinutes and LastReset/ResetNow are mutated exclusively by the zone
// reset engine's tick; exposed with a mutex since the tick loop and
// `WhenEmpty` eligibility checks both read them.
func (z *Zone) AgeMinutes() int {
	z.mu.Lock()
	defer z.mu.Unlock()
	return z.ageMinutes
}

func (z *Zone) AdvanceAge(minutes int) {
	z.mu.Lock()
	defer z.mu.Unlock()
	z.ageMinutes += minutes
}

func (z *Zone) ResetNow(unixSeconds int64) {
	z.mu.Lock()
	defer z.mu.Unlock()
	z.ageMinutes = 0
	z.lastReset = unixSeconds
}

func (z *Zone) LastReset() int64 {
	z.mu.Lock()
	defer z.mu.Unlock()
	return z.lastReset
}

// BottomRoomVnum is the inclusive lower bound of the zone's vnum block,
// per DikuMUD convention (zone.vnum * 100).
func (z *Zone) BottomRoomVnum() Vnum {
	return Vnum(z.Vnum * 100)
}
