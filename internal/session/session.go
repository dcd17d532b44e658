package session

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"github.com/duskrealm/mudforge/internal/command"
	"github.com/duskrealm/mudforge/internal/model"
)

// PlayerStore is the login flow's persistence collaborator.
// internal/playerstore gives it a concrete (Postgres-backed)
// implementation; session only depends on this narrow interface so it
// can be faked in tests.
type PlayerStore interface {
	Exists(name string) (bool, error)
	Authenticate(name, password string) (*model.PlayerCharacter, bool, error)
	Create(name, password string) (*model.PlayerCharacter, error)
	Save(p *model.PlayerCharacter) error
}

// Dispatcher is the command pipeline's entry point (internal/command).
// Session holds it through this one-method interface, so tests can
// substitute a recording fake.
type Dispatcher interface {
	Dispatch(character model.Character, connID uint64, line string)
}

const (
	minNameLen = 2
	maxNameLen = 19
	minPasswordLen = 2
	maxPasswordLen = 10
	maxPasswordAttempts = 3
)

// Session is the binding of a Connection to an authenticated character
// once the login state machine reaches Playing. Before that, it
// carries only login-phase scratch.
type Session struct {
	Connection *Connection
	Store      PlayerStore
	Dispatcher Dispatcher
	Roster     *command.Roster

	candidateName     string
	passwordAttempts  int
	pendingCreatePass string

	Character *model.PlayerCharacter
	welcomed  bool

	// OnPromote, when set, is called once the session reaches Playing —
	// cmd/mudforge uses it to place the character into its world room,
	// a responsibility session itself doesn't take on since it has no
	// reference to *world.World.
	OnPromote func(*model.PlayerCharacter)

	// OnClose, when set, is called from HandleClose alongside the
	// roster cleanup — cmd/mudforge uses it to persist the character
	// and remove it from its room.
	OnClose func(*model.PlayerCharacter)
}

// NewSession creates a session for a freshly accepted connection,
// immediately sending the name prompt.
func NewSession(conn *Connection, store PlayerStore, dispatcher Dispatcher, roster *command.Roster) *Session {
	s := &Session{Connection: conn, Store: store, Dispatcher: dispatcher, Roster: roster}
	s.sendNamePrompt()
	return s
}

// HandleClose releases the session's roster membership. Callers invoke
// this once, when the connection's reader loop observes EOF or an
// error and is tearing the connection down.
func (s *Session) HandleClose() {
	if s.Character == nil {
		return
	}
	if s.Roster != nil {
		s.Roster.Leave(s.Character)
	}
	if s.OnClose != nil {
		s.OnClose(s.Character)
	}
}

func (s *Session) send(line string) {
	s.Connection.WriteLine(line)
}

func (s *Session) sendNamePrompt() {
	s.send("&CWelcome to MudForge.&N")
	s.send("By what name do you wish to be known?")
}

// HandleLine processes one complete input line according to the
// connection's current state. During Playing it simply forwards to the
// command dispatcher; before that it drives the login flow.
func (s *Session) HandleLine(line string) {
	switch s.Connection.State() {
	case StateGetName:
		s.handleGetName(line)
	case StateGetPassword:
		s.handleGetPassword(line)
	case StateNewPlayerCreation:
		s.handleNewPlayerCreation(line)
	case StatePlaying:
		if s.Dispatcher != nil && s.Character != nil {
			s.Dispatcher.Dispatch(s.Character, s.Connection.ID(), line)
		}
	}
}

func (s *Session) handleGetName(line string) {
	name := strings.TrimSpace(line)
	if !validName(name) {
		s.send("Names must be 2-19 letters. Please try again.")
		s.sendNamePrompt()
		return
	}
	name = normalizeName(name)

	exists, err := s.Store.Exists(name)
	if err != nil {
		s.send("A connection error occurred. Please try again.")
		s.sendNamePrompt()
		return
	}

	s.candidateName = name
	if exists {
		s.Connection.SetState(StateGetPassword)
		s.Connection.Codec().SetEcho(false)
		s.flushNegotiation()
		s.send("Password:")
	} else {
		s.Connection.SetState(StateNewPlayerCreation)
		s.Connection.Codec().SetEcho(false)
		s.flushNegotiation()
		s.send("Did I hear that correctly, a new name? Create a password (2-10 characters):")
	}
}

func (s *Session) handleGetPassword(line string) {
	password := strings.TrimSpace(line)
	character, ok, err := s.Store.Authenticate(s.candidateName, password)
	if err != nil || !ok {
		s.passwordAttempts++
		if s.passwordAttempts >= maxPasswordAttempts {
			s.send("Wrong password.")
			s.Connection.SetState(StateClosing)
			s.Connection.Close()
			return
		}
		s.send("Password:")
		return
	}

	s.Connection.Codec().SetEcho(true)
	s.flushNegotiation()
	s.promote(character)
}

func (s *Session) handleNewPlayerCreation(line string) {
	password := strings.TrimSpace(line)

	if s.pendingCreatePass == "" {
		if len(password) < minPasswordLen || len(password) > maxPasswordLen {
			s.send("Passwords must be 2-10 characters. Try again:")
			return
		}
		s.pendingCreatePass = password
		s.send("Please retype your password for confirmation:")
		return
	}

	if password != s.pendingCreatePass {
		s.pendingCreatePass = ""
		s.send("Passwords did not match. Create a password (2-10 characters):")
		return
	}

	character, err := s.Store.Create(s.candidateName, s.pendingCreatePass)
	if err != nil {
		s.send("Character creation failed. Please try again later.")
		s.Connection.SetState(StateClosing)
		s.Connection.Close()
		return
	}

	s.Connection.Codec().SetEcho(true)
	s.flushNegotiation()
	s.promote(character)
}

// promote binds the character, transitions to Playing, and writes the
// one-time welcome banner.
func (s *Session) promote(character *model.PlayerCharacter) {
	character.SetOutput(s.Connection)
	s.Character = character
	s.Connection.SetState(StatePlaying)
	if s.Roster != nil {
		s.Roster.Join(character)
	}

	if !s.welcomed {
		s.welcomed = true
		s.send("&GWelcome back, " + character.Name() + "!&N")
	}

	if s.OnPromote != nil {
		s.OnPromote(character)
	}
}

// flushNegotiation writes any telnet negotiation bytes (including the
// SetEcho toggle's IAC sequence) queued since the last flush.
func (s *Session) flushNegotiation() {
	if b := s.Connection.Codec().TakeOutbound(); len(b) > 0 {
		s.Connection.WriteRaw(b)
	}
}

// nonLetters strips anything outside unicode.Letter, used to reject
// names with digits or punctuation without hand-rolling the table.
var nonLetters = runes.Remove(runes.NotIn(unicode.Letter))

// nameTitleCaser renders the first letter of a single-word name upper
// case and the rest lower, the Unicode-aware way.
var nameTitleCaser = cases.Title(language.Und)

func validName(name string) bool {
	if len(name) < minNameLen || len(name) > maxNameLen {
		return false
	}
	filtered, _, err := transform.String(nonLetters, name)
	if err != nil || filtered != name {
		return false
	}
	return true
}

func normalizeName(name string) string {
	return nameTitleCaser.String(strings.ToLower(name))
}
