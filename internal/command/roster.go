package command

import (
	"sync"

	"github.com/duskrealm/mudforge/internal/model"
)

// Roster tracks who is currently playing, for the `who` command and any
// future broadcast-to-everyone feature. It is deliberately separate
// from internal/instance's Manager: players are not spawned instances
// of a template the way mobiles/objects are.
type Roster struct {
	mu      sync.RWMutex
	players map[model.CharID]model.Character
}

func NewRoster() *Roster {
	return &Roster{players: make(map[model.CharID]model.Character)}
}

// Join adds a character to the roster, called once login succeeds.
func (r *Roster) Join(c model.Character) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players[c.ID()] = c
}

// Leave removes a character, called on disconnect.
func (r *Roster) Leave(c model.Character) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.players, c.ID())
}

// Snapshot returns every currently online character.
func (r *Roster) Snapshot() []model.Character {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Character, 0, len(r.players))
	for _, c := range r.players {
		out = append(out, c)
	}
	return out
}
