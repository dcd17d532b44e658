// Package command implements the command registry and dispatcher:
// name/alias resolution with prefix abbreviation, then gated handler
// invocation (position, level, rate limit).
//
// Shaped after la2go's packet-handler dispatch
// (internal/gameserver/handlers), which resolves an incoming opcode to
// a registered handler function and recovers from handler panics at
// the call site; this package follows the same "lookup table plus
// guarded invoke" shape, but resolves by name/alias/abbreviation
// instead of a fixed numeric opcode space.
package command

import (
	"strings"

	"github.com/duskrealm/mudforge/internal/model"
)

// Handler is a command's business logic. legacyID is the deterministic
// integer the original MUD used for the same command, retained for
// tooling parity; it carries no behavioral weight here.
type Handler func(ctx *Context, args string, legacyID int)

// Command is one registered verb.
type Command struct {
	Name        string
	Aliases     []string
	MinPosition model.Position
	MinLevel    int
	AllowMobile bool
	Enabled     bool
	LegacyID    int
	Handler     Handler
}

// Registry holds the name→command and alias→command maps, both
// case-folded.
type Registry struct {
	byName  map[string]*Command
	byAlias map[string]*Command
}

func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]*Command),
		byAlias: make(map[string]*Command),
	}
}

// Register adds cmd to the registry. A duplicate primary name is a
// programmer error (panics) — registration happens once at startup,
// never in response to untrusted input.
func (r *Registry) Register(cmd *Command) {
	key := strings.ToLower(cmd.Name)
	if _, exists := r.byName[key]; exists {
		panic("command: duplicate primary name " + cmd.Name)
	}
	r.byName[key] = cmd
	for _, alias := range cmd.Aliases {
		r.byAlias[strings.ToLower(alias)] = cmd
	}
}

// resolution is the lookup outcome the dispatcher acts on.
type resolution int

const (
	resolvedOK resolution = iota
	resolvedNone
	resolvedAmbiguous
)

// Resolve runs the four-step lookup: exact name, exact alias, unique
// name prefix, unique alias prefix. The empty query always resolves to
// none.
func (r *Registry) Resolve(query string) (*Command, resolution) {
	q := strings.ToLower(query)
	if q == "" {
		return nil, resolvedNone
	}

	if cmd, ok := r.byName[q]; ok {
		return cmd, resolvedOK
	}
	if cmd, ok := r.byAlias[q]; ok {
		return cmd, resolvedOK
	}

	// Step 3: prefix match across primary names. Exactly one hit wins;
	// zero or many falls through to step 4 rather than failing here.
	if cmd, count := countPrefixMatches(r.byName, q); count == 1 {
		return cmd, resolvedOK
	}

	// Step 4: prefix match across aliases. Exactly one hit wins;
	// anything else (including zero) is ambiguous — there is no
	// separate "no match at all" outcome once a query reaches step 4.
	if cmd, count := countPrefixMatches(r.byAlias, q); count == 1 {
		return cmd, resolvedOK
	}
	return nil, resolvedAmbiguous
}

// countPrefixMatches returns one matching command (arbitrary when count
// > 1) and the number of keys in table starting with q.
func countPrefixMatches(table map[string]*Command, q string) (*Command, int) {
	var match *Command
	count := 0
	for key, cmd := range table {
		if strings.HasPrefix(key, q) {
			match = cmd
			count++
		}
	}
	return match, count
}
