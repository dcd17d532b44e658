package command

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/duskrealm/mudforge/internal/instance"
	"github.com/duskrealm/mudforge/internal/model"
	"github.com/duskrealm/mudforge/internal/world"
)

// RateLimiter is the narrow slice of connmgr.Manager the dispatcher
// needs, kept as an interface to avoid importing connmgr (command
// handlers never touch connection admission, only rate bookkeeping).
// RecordResponseTime feeds the connection manager's rolling-average
// statistic; it is called for every dispatched line regardless
// of connID, so mobile-issued commands count toward it too.
type RateLimiter interface {
	RecordActivity(connID uint64, cmd string)
	IsRateLimited(connID uint64) bool
	RecordResponseTime(d time.Duration)
}

// Context is everything a handler needs beyond the character issuing
// the command: read/write access to the static world and the live
// instance registry. Output always goes through
// Context.Character.SendLine, never a field here.
type Context struct {
	Character model.Character
	World     *world.World
	Instances *instance.Manager
	Roster    *Roster
	Rand      *SafeRand

	// Quit, when non-nil, disconnects the character's session. Bound by
	// cmd/mudforge so the command package never imports net/session.
	Quit func(model.Character)
	// Shutdown, when non-nil, begins a graceful server shutdown.
	Shutdown func()
}

// Dispatcher processes one input line at a time.
type Dispatcher struct {
	registry  *Registry
	limiter   RateLimiter
	world     *world.World
	instances *instance.Manager
	roster    *Roster
	rand      *SafeRand

	quit     func(model.Character)
	shutdown func()
}

func NewDispatcher(registry *Registry, limiter RateLimiter, w *world.World, im *instance.Manager, roster *Roster, rng *SafeRand) *Dispatcher {
	return &Dispatcher{registry: registry, limiter: limiter, world: w, instances: im, roster: roster, rand: rng}
}

// SetQuitFunc wires the callback `quit` uses to tear down a player's
// connection. Called once during server startup.
func (d *Dispatcher) SetQuitFunc(fn func(model.Character)) { d.quit = fn }

// SetShutdownFunc wires the callback `shutdown` uses to begin a
// graceful server shutdown. Called once during server startup.
func (d *Dispatcher) SetShutdownFunc(fn func()) { d.shutdown = fn }

// Dispatch implements session.Dispatcher. connID identifies the
// connection for rate-limiting purposes; it is the character's own
// session connection id when the character is a player, and ignored
// (always 0, never rate-limited) for mobile-issued commands.
func (d *Dispatcher) Dispatch(character model.Character, connID uint64, line string) {
	start := time.Now()
	if d.limiter != nil {
		defer func() { d.limiter.RecordResponseTime(time.Since(start)) }()
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	query, args := splitCommandLine(line)

	cmd, res := d.registry.Resolve(query)
	switch res {
	case resolvedAmbiguous, resolvedNone:
		if res == resolvedAmbiguous {
			character.SendLine("Which one? Be more specific.")
		} else {
			character.SendLine(fmt.Sprintf("Huh? '%s' is not a command.", query))
		}
		return
	}

	if !cmd.Enabled {
		character.SendLine("That command is currently disabled.")
		return
	}
	if character.Position() < cmd.MinPosition {
		character.SendLine(fmt.Sprintf("You can't do that while %s.", character.Position()))
		return
	}
	if character.Level() < cmd.MinLevel {
		character.SendLine("You are not experienced enough to do that.")
		return
	}
	if character.IsMobile() && !cmd.AllowMobile {
		return
	}

	if connID != 0 && d.limiter != nil {
		d.limiter.RecordActivity(connID, cmd.Name)
		if d.limiter.IsRateLimited(connID) {
			character.SendLine("Please slow down.")
			return
		}
	}

	d.invoke(cmd, character, args)
}

// invoke runs the handler with panic recovery: a handler fault never
// terminates the dispatcher, and reports a generic reply.
func (d *Dispatcher) invoke(cmd *Command, character model.Character, args string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("command handler panicked", "command", cmd.Name, "character", character.Name(), "panic", r)
			character.SendLine("An error occurred.")
		}
	}()
	cmd.Handler(&Context{
		Character: character,
		World:     d.world,
		Instances: d.instances,
		Roster:    d.roster,
		Rand:      d.rand,
		Quit:      d.quit,
		Shutdown:  d.shutdown,
	}, args, cmd.LegacyID)
}

// splitCommandLine splits on the first whitespace, with a leading
// single-quote treated as its own command token (the `say` shortcut).
func splitCommandLine(line string) (query, args string) {
	if strings.HasPrefix(line, "'") {
		return "'", strings.TrimSpace(line[1:])
	}
	idx := strings.IndexFunc(line, func(r rune) bool { return r == ' ' || r == '\t' })
	if idx < 0 {
		return line, ""
	}
	return line[:idx], strings.TrimSpace(line[idx+1:])
}
