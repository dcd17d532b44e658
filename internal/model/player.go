package model

import "sync"

// OutputSink is the capability a PlayerCharacter needs to deliver text to
// its owning client. The session package implements it over the telnet
// codec; model itself never imports net/session code, which keeps the
// connection ↔ session ↔ character reference graph acyclic.
type OutputSink interface {
	WriteLine(string)
}

// PlayerCharacter is the player-controlled variant of Character. It adds
// experience, gold, inventory, and the recent-death counter used to scale
// resurrection harshness.
type PlayerCharacter struct {
	charCore

	mu sync.RWMutex

	output OutputSink

	experience int
	gold       int

	inventory []*ObjectInstance
	equipment map[int]*ObjectInstance // wear slot -> equipped object

	recentDeaths int
}

// NewPlayerCharacter constructs a fresh character for a newly created
// player, or an in-memory shell to be filled in by the player store on
// login.
func NewPlayerCharacter(id CharID, name string) *PlayerCharacter {
	p := &PlayerCharacter{
		equipment: make(map[int]*ObjectInstance),
	}
	p.id = id
	p.name = name
	p.position = PositionStanding
	return p
}

func (p *PlayerCharacter) IsMobile() bool { return false }

// SetOutput binds the sink a session uses to deliver output lines. Called
// once when the session promotes to Playing.
func (p *PlayerCharacter) SetOutput(sink OutputSink) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.output = sink
}

func (p *PlayerCharacter) SendLine(line string) {
	p.mu.RLock()
	sink := p.output
	p.mu.RUnlock()
	if sink != nil {
		sink.WriteLine(line)
	}
}

func (p *PlayerCharacter) Experience() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.experience
}

func (p *PlayerCharacter) SetExperience(xp int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if xp < 0 {
		xp = 0
	}
	p.experience = xp
}

func (p *PlayerCharacter) Gold() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.gold
}

func (p *PlayerCharacter) SetGold(g int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gold = g
}

func (p *PlayerCharacter) RecentDeaths() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.recentDeaths
}

func (p *PlayerCharacter) IncrementRecentDeaths() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.recentDeaths++
}

// SetRecentDeaths restores the counter from persisted storage.
func (p *PlayerCharacter) SetRecentDeaths(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.recentDeaths = n
}

// Inventory returns a snapshot of carried (not worn) objects.
func (p *PlayerCharacter) Inventory() []*ObjectInstance {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*ObjectInstance, len(p.inventory))
	copy(out, p.inventory)
	return out
}

func (p *PlayerCharacter) AddToInventory(o *ObjectInstance) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inventory = append(p.inventory, o)
}

// TakeInventory removes and returns every carried object, used by the
// death handler to transfer a victim's belongings into a corpse.
func (p *PlayerCharacter) TakeInventory() []*ObjectInstance {
	p.mu.Lock()
	defer p.mu.Unlock()
	taken := p.inventory
	p.inventory = nil
	return taken
}

// Equipment returns a snapshot of the worn-item map, keyed by wear slot.
func (p *PlayerCharacter) Equipment() map[int]*ObjectInstance {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[int]*ObjectInstance, len(p.equipment))
	for k, v := range p.equipment {
		out[k] = v
	}
	return out
}

func (p *PlayerCharacter) Equip(slot int, o *ObjectInstance) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.equipment[slot] = o
}
