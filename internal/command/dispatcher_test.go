package command

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/duskrealm/mudforge/internal/instance"
	"github.com/duskrealm/mudforge/internal/model"
	"github.com/duskrealm/mudforge/internal/world"
)

// capturingSink records every line written to it, for asserting what a
// handler (or the dispatcher's own error replies) sent to a character.
type capturingSink struct {
	lines []string
}

func (s *capturingSink) WriteLine(line string) { s.lines = append(s.lines, line) }

func newTestCharacter(name string) (*model.PlayerCharacter, *capturingSink) {
	c := model.NewPlayerCharacter(1, name)
	sink := &capturingSink{}
	c.SetOutput(sink)
	return c, sink
}

func newTestDispatcher(registry *Registry) *Dispatcher {
	w := world.New()
	im := instance.New()
	roster := NewRoster()
	return NewDispatcher(registry, nil, w, im, roster, NewSafeRand(rand.New(rand.NewPCG(1, 1))))
}

func TestDispatch_UnknownCommand(t *testing.T) {
	// A query matching nothing at any lookup step still falls out of the
	// final alias-prefix step as "ambiguous", so the player sees the
	// which-one reply; the "Huh?" miss reply is reserved for a query the
	// registry resolves to none outright (the empty query, which the
	// dispatcher's own trimming prevents from ever reaching here).
	r := NewRegistry()
	r.Register(testCommand("look", "l"))
	d := newTestDispatcher(r)
	character, sink := newTestCharacter("Tester")

	d.Dispatch(character, 0, "xyzzy")
	if len(sink.lines) != 1 || sink.lines[0] != "Which one? Be more specific." {
		t.Fatalf("sink.lines = %v, want the which-one reply", sink.lines)
	}
}

func TestDispatch_AmbiguousPrefixReply(t *testing.T) {
	r := NewRegistry()
	r.Register(testCommand("north", "n"))
	r.Register(testCommand("nosave"))
	d := newTestDispatcher(r)
	character, sink := newTestCharacter("Tester")

	d.Dispatch(character, 0, "no")
	if len(sink.lines) != 1 || sink.lines[0] != "Which one? Be more specific." {
		t.Fatalf("sink.lines = %v, want the ambiguity reply", sink.lines)
	}
}

// A handler gated by MinPosition refuses to run while the character is
// below that position, and the refusal names the offending position.
func TestDispatch_PositionGate(t *testing.T) {
	var invoked bool
	r := NewRegistry()
	r.Register(&Command{
		Name:        "kill",
		Enabled:     true,
		MinPosition: model.PositionStanding,
		Handler:     func(ctx *Context, args string, legacyID int) { invoked = true },
	})
	d := newTestDispatcher(r)
	character, sink := newTestCharacter("Tester")
	character.SetPosition(model.PositionSleeping)

	d.Dispatch(character, 0, "kill")
	if invoked {
		t.Error("handler ran despite the character being below MinPosition")
	}
	if len(sink.lines) != 1 || !strings.Contains(sink.lines[0], "sleeping") {
		t.Fatalf("sink.lines = %v, want one refusal naming the position", sink.lines)
	}

	character.SetPosition(model.PositionStanding)
	d.Dispatch(character, 0, "kill")
	if !invoked {
		t.Error("handler did not run once the character reached MinPosition")
	}
}

func TestDispatch_LevelGate(t *testing.T) {
	var invoked bool
	r := NewRegistry()
	r.Register(&Command{
		Name:     "shutdown",
		Enabled:  true,
		MinLevel: 30,
		Handler:  func(ctx *Context, args string, legacyID int) { invoked = true },
	})
	d := newTestDispatcher(r)
	character, _ := newTestCharacter("Tester")
	character.SetLevel(1)

	d.Dispatch(character, 0, "shutdown")
	if invoked {
		t.Error("handler ran despite the character being under MinLevel")
	}
}

func TestDispatch_DisabledCommand(t *testing.T) {
	var invoked bool
	r := NewRegistry()
	r.Register(&Command{
		Name:    "debug",
		Enabled: false,
		Handler: func(ctx *Context, args string, legacyID int) { invoked = true },
	})
	d := newTestDispatcher(r)
	character, sink := newTestCharacter("Tester")

	d.Dispatch(character, 0, "debug")
	if invoked {
		t.Error("handler ran despite the command being disabled")
	}
	if len(sink.lines) != 1 {
		t.Fatalf("sink.lines = %v, want one disabled-command reply", sink.lines)
	}
}

// A panicking handler is recovered and does not corrupt the dispatcher
// for the next command.
func TestDispatch_HandlerPanicRecovered(t *testing.T) {
	r := NewRegistry()
	r.Register(&Command{
		Name:    "boom",
		Enabled: true,
		Handler: func(ctx *Context, args string, legacyID int) { panic("kaboom") },
	})
	var secondInvoked bool
	r.Register(&Command{
		Name:    "ok",
		Enabled: true,
		Handler: func(ctx *Context, args string, legacyID int) { secondInvoked = true },
	})
	d := newTestDispatcher(r)
	character, sink := newTestCharacter("Tester")

	d.Dispatch(character, 0, "boom")
	if len(sink.lines) != 1 || sink.lines[0] != "An error occurred." {
		t.Fatalf("sink.lines after panic = %v, want the generic error reply", sink.lines)
	}

	d.Dispatch(character, 0, "ok")
	if !secondInvoked {
		t.Error("dispatcher did not recover cleanly: the next command's handler never ran")
	}
}

func TestDispatch_MobileIssuedCommandsAreNeverRateLimited(t *testing.T) {
	var invoked bool
	r := NewRegistry()
	r.Register(&Command{
		Name:        "wander",
		Enabled:     true,
		AllowMobile: true,
		Handler:     func(ctx *Context, args string, legacyID int) { invoked = true },
	})
	d := newTestDispatcher(r)

	tmpl := &model.MobileTemplate{Vnum: 1, Keywords: "a rat", DefaultPos: model.PositionStanding}
	mob := model.NewMobileInstance(1, tmpl, 100)

	d.Dispatch(mob, 0, "wander")
	if !invoked {
		t.Error("mobile-issued command with connID 0 should bypass rate limiting and still run")
	}
}

func TestDispatch_MobileBlockedWhenNotAllowed(t *testing.T) {
	var invoked bool
	r := NewRegistry()
	r.Register(&Command{
		Name:    "quit",
		Enabled: true,
		Handler: func(ctx *Context, args string, legacyID int) { invoked = true },
	})
	d := newTestDispatcher(r)

	tmpl := &model.MobileTemplate{Vnum: 1, Keywords: "a rat", DefaultPos: model.PositionStanding}
	mob := model.NewMobileInstance(1, tmpl, 100)

	d.Dispatch(mob, 0, "quit")
	if invoked {
		t.Error("mobile ran a command not marked AllowMobile")
	}
}

func TestSplitCommandLine(t *testing.T) {
	tests := []struct {
		line      string
		wantQuery string
		wantArgs  string
	}{
		{"look", "look", ""},
		{"look north", "look", "north"},
		{"  say   hello there  ", "say", "hello there"},
		{"'hello", "'", "hello"},
	}
	for _, tt := range tests {
		query, args := splitCommandLine(tt.line)
		if query != tt.wantQuery || args != tt.wantArgs {
			t.Errorf("splitCommandLine(%q) = %q, %q, want %q, %q", tt.line, query, args, tt.wantQuery, tt.wantArgs)
		}
	}
}
