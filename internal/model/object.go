package model

import (
	"strings"
	"sync"
)

// ObjectType tags what kind of thing an object template represents. The
// four Values fields (below) are interpreted differently per type. The
// numbering matches the area-file type field, which starts at 1 (LIGHT).
type ObjectType int

const (
	ObjLight ObjectType = iota + 1
	ObjScroll
	ObjWand
	ObjStaff
	ObjWeapon
	ObjFurniture
	ObjTrash
	ObjContainer
	ObjNote
	ObjDrinkContainer
	ObjKey
	ObjFood
	ObjMoney
	ObjPen
	ObjBoat
	ObjFountain
	ObjArmor
	ObjPotion
	ObjWorn
	ObjOther
	ObjPortal
	ObjBoard
	ObjCorpse
	ObjComponent
	ObjInstrument
)

// ExtraFlag and WearFlag are object template bitsets; concrete bit
// assignments are area-content defined, same rationale as ActionFlag.
type ExtraFlag uint32
type WearFlag uint32

// ApplyType names what a template's Applies map modifies (e.g. "hitroll",
// "armorclass"). Left as a string key rather than a closed enum so area
// content can declare apply types nothing reads yet (legacy files carry
// an "extra attacks" apply no system implements) without the loader
// rejecting them.
type ApplyType string

// Wear slot indices, matching the legacy area-file numbering.
const (
	WearLight = iota
	WearFingerRight
	WearFingerLeft
	WearNeck1
	WearNeck2
	WearBody
	WearHead
	WearLegs
	WearFeet
	WearHands
	WearArms
	WearShield
	WearAbout
	WearWaist
	WearWristRight
	WearWristLeft
	WearWield
	WearHold
	WearTail
	WearFourLegs1
	WearFourLegs2
)

// ObjectTemplate is the immutable record loaded from a `.obj` area file.
type ObjectTemplate struct {
	Vnum        Vnum
	Keywords    string
	ShortDesc   string
	LongDesc    string
	ActionDesc  string

	Type       ObjectType
	ExtraFlags ExtraFlag
	WearFlags  WearFlag

	Weight      int
	Cost        int
	RentPerDay  int
	Values      [4]int // interpretation is Type-dependent

	Applies          map[ApplyType]int
	ExtraDescriptions map[string]string // keyword -> text
}

// WeaponDice extracts the (sides, count, bonus) triple a WEAPON template
// stores in Values[0..2].
func (t *ObjectTemplate) WeaponDice() Dice {
	return Dice{Sides: t.Values[0], Count: t.Values[1], Bonus: t.Values[2]}
}

// ObjectLocation discriminates where an object instance currently lives.
type ObjectLocation int

const (
	InRoom ObjectLocation = iota
	InMobileInventory
	EquippedOnMobile
	InContainer
)

// ObjectInstance is a live, mutable occurrence of an ObjectTemplate.
type ObjectInstance struct {
	mu sync.RWMutex

	InstanceID uint64
	Template   *ObjectTemplate

	location   ObjectLocation
	locationID uint64 // meaning depends on location: room vnum, mobile/container instance id, etc.

	Condition int // 0..100
	Active    bool
	DecayAt   int64 // unix seconds; 0 means "does not decay"

	// Name/ShortDesc override the template's for instances whose identity
	// diverges from it — corpses are the only case today ("corpse <name>").
	NameOverride      string
	ShortDescOverride string

	contents []*ObjectInstance // containers and corpses only
}

// NewObjectInstance spawns a fresh instance from a template.
func NewObjectInstance(id uint64, tmpl *ObjectTemplate) *ObjectInstance {
	return &ObjectInstance{
		InstanceID: id,
		Template:   tmpl,
		Condition:  100,
		Active:     true,
	}
}

func (o *ObjectInstance) Location() (ObjectLocation, uint64) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.location, o.locationID
}

func (o *ObjectInstance) SetLocation(loc ObjectLocation, id uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.location, o.locationID = loc, id
}

func (o *ObjectInstance) Name() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.NameOverride != "" {
		return o.NameOverride
	}
	return o.Template.Keywords
}

func (o *ObjectInstance) ShortDesc() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.ShortDescOverride != "" {
		return o.ShortDescOverride
	}
	return o.Template.ShortDesc
}

// IsCorpse reports whether this instance is a corpse container, matched
// by type plus a "corpse" substring in its name — the same test the
// decay sweep uses.
func (o *ObjectInstance) IsCorpse() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.Template.Type == ObjContainer && strings.Contains(strings.ToLower(o.nameLocked()), "corpse")
}

func (o *ObjectInstance) nameLocked() string {
	if o.NameOverride != "" {
		return o.NameOverride
	}
	return o.Template.Keywords
}

// AddContent/Contents manage a container or corpse's inner item list.
func (o *ObjectInstance) AddContent(inner *ObjectInstance) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.contents = append(o.contents, inner)
}

func (o *ObjectInstance) TakeContents() []*ObjectInstance {
	o.mu.Lock()
	defer o.mu.Unlock()
	taken := o.contents
	o.contents = nil
	return taken
}

func (o *ObjectInstance) Contents() []*ObjectInstance {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]*ObjectInstance, len(o.contents))
	copy(out, o.contents)
	return out
}
