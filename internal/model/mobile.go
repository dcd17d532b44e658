package model

// Dice is a parsed damage/hit-dice expression: count dN + bonus.
type Dice struct {
	Count  int
	Sides  int
	Bonus  int
}

// ActionFlag and AffectionFlag are mobile template bitsets. Only the
// bit width is fixed here — individual bits are assigned by whatever
// area content defines them.
type ActionFlag uint32
type AffectionFlag uint32

// Sex is a small enumeration used by both mobile templates and players.
type Sex int

const (
	SexNeutral Sex = iota
	SexMale
	SexFemale
)

// MobileTemplate is the immutable record loaded from a `.mob` area file.
type MobileTemplate struct {
	Vnum        Vnum
	Keywords    string
	ShortDesc   string
	LongDesc    string
	DetailDesc  string

	Level      int
	MaxHP      int
	ArmorClass int
	DamageDice Dice
	Experience int
	Gold       int
	Alignment  int // -1000..1000

	ActionFlags    ActionFlag
	AffectionFlags AffectionFlag
	DefaultPos     Position
	Sex            Sex

	Str, StrAdd, Intel, Wis, Dex, Con, Cha int
	Size                                   int

	Skills       map[string]int // skill name -> percentile proficiency
	AttackSkills []int
	AttackTypes  []int
}

// MobileInstance is a live, mutable occurrence of a MobileTemplate in the
// world. It implements Character; SendLine is a no-op since mobiles have
// no connection.
type MobileInstance struct {
	charCore

	Template  *MobileTemplate
	Mana      int
	SpawnedAt int64 // unix seconds
	Active    bool

	Equipment map[int]*ObjectInstance // wear slot -> equipped object
	Inventory []*ObjectInstance
}

// NewMobileInstance spawns a fresh instance from a template. id must be
// unique for the process lifetime; the instance manager (internal/instance)
// is the usual assigner.
func NewMobileInstance(id CharID, tmpl *MobileTemplate, roomVnum Vnum) *MobileInstance {
	m := &MobileInstance{
		Template:  tmpl,
		Active:    true,
		Equipment: make(map[int]*ObjectInstance),
	}
	m.id = id
	m.name = tmpl.Keywords
	m.roomVnum = roomVnum
	m.position = tmpl.DefaultPos
	m.hitPoints = tmpl.MaxHP
	m.maxHitPoints = tmpl.MaxHP
	m.armorClass = tmpl.ArmorClass
	m.level = tmpl.Level
	m.str, m.dex, m.con, m.intel, m.wis, m.cha = tmpl.Str, tmpl.Dex, tmpl.Con, tmpl.Intel, tmpl.Wis, tmpl.Cha
	return m
}

func (m *MobileInstance) IsMobile() bool    { return true }
func (m *MobileInstance) SendLine(string)   {} // mobiles have no connection
