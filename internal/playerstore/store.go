package playerstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/duskrealm/mudforge/internal/model"
)

// accountRow mirrors the accounts table; password hashes never leave
// this package.
type accountRow struct {
	Name         string
	PasswordHash string
}

// characterRow mirrors the characters table, the persisted slice of
// PlayerCharacter's mutable fields.
type characterRow struct {
	RoomVnum     int
	Level        int
	HitPoints    int
	MaxHitPoints int
	ArmorClass   int
	Str, Dex, Con, Intel, Wis, Cha int
	Experience   int
	Gold         int
	RecentDeaths int
}

// Store implements session.PlayerStore against Postgres.
type Store struct {
	db            *DB
	startRoomVnum model.Vnum
	nextID        func() model.CharID
}

// NewStore builds a Store. startRoomVnum places freshly created
// characters; nextID allocates a process-unique CharID (the instance
// manager's NextID counter doubles as this source — see cmd/mudforge's
// wiring — so player and mobile instance ids never collide).
func NewStore(db *DB, startRoomVnum model.Vnum, nextID func() model.CharID) *Store {
	return &Store{db: db, startRoomVnum: startRoomVnum, nextID: nextID}
}

// Exists reports whether an account with this name is already
// registered.
func (s *Store) Exists(name string) (bool, error) {
	ctx := context.Background()
	var n string
	err := s.db.Pool.QueryRow(ctx, `SELECT name FROM accounts WHERE name = $1`, name).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking account %q: %w", name, err)
	}
	return true, nil
}

// Authenticate loads the account by name, verifies password against its
// bcrypt hash, and on success loads the associated character row into a
// fresh PlayerCharacter.
func (s *Store) Authenticate(name, password string) (*model.PlayerCharacter, bool, error) {
	ctx := context.Background()

	var row accountRow
	err := s.db.Pool.QueryRow(ctx,
		`SELECT name, password_hash FROM accounts WHERE name = $1`, name,
	).Scan(&row.Name, &row.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("loading account %q: %w", name, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)) != nil {
		return nil, false, nil
	}

	character, err := s.loadCharacter(ctx, name)
	if err != nil {
		return nil, false, fmt.Errorf("loading character %q: %w", name, err)
	}
	return character, true, nil
}

// Create registers a brand-new account and a starting character at
// startRoomVnum, returning the freshly built PlayerCharacter.
func (s *Store) Create(name, password string) (*model.PlayerCharacter, error) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	character := model.NewPlayerCharacter(s.nextID(), name)
	character.SetRoomVnum(s.startRoomVnum)
	character.SetLevel(1)
	character.SetMaxHitPoints(20)
	character.SetHitPoints(20)
	character.SetArmorClass(10)
	character.SetAbilityScores(13, 13, 13, 13, 13, 13)
	character.SetExperience(0)
	character.SetGold(0)

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create-account transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`INSERT INTO accounts (name, password_hash) VALUES ($1, $2)`,
		name, string(hash),
	); err != nil {
		return nil, fmt.Errorf("creating account %q: %w", name, err)
	}

	if err := saveCharacterTx(ctx, tx, name, character); err != nil {
		return nil, fmt.Errorf("creating character %q: %w", name, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing new account %q: %w", name, err)
	}

	return character, nil
}

// Save persists the character's mutable fields, called on disconnect and
// for every online character on server shutdown.
func (s *Store) Save(p *model.PlayerCharacter) error {
	ctx := context.Background()
	if err := saveCharacterTx(ctx, s.db.Pool, p.Name(), p); err != nil {
		return fmt.Errorf("saving character %q: %w", p.Name(), err)
	}
	return nil
}

// execer is satisfied by both *pgxpool.Pool and pgx.Tx, letting
// saveCharacterTx run inside Create's transaction or standalone from
// Save.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func saveCharacterTx(ctx context.Context, e execer, accountName string, p *model.PlayerCharacter) error {
	_, err := e.Exec(ctx,
		`INSERT INTO characters (account_name, room_vnum, level, hit_points, max_hit_points,
		        armor_class, str, dex, con, intel, wis, cha, experience, gold, recent_deaths, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, now())
		 ON CONFLICT (account_name) DO UPDATE SET
		        room_vnum = EXCLUDED.room_vnum, level = EXCLUDED.level,
		        hit_points = EXCLUDED.hit_points, max_hit_points = EXCLUDED.max_hit_points,
		        armor_class = EXCLUDED.armor_class,
		        str = EXCLUDED.str, dex = EXCLUDED.dex, con = EXCLUDED.con,
		        intel = EXCLUDED.intel, wis = EXCLUDED.wis, cha = EXCLUDED.cha,
		        experience = EXCLUDED.experience, gold = EXCLUDED.gold,
		        recent_deaths = EXCLUDED.recent_deaths, updated_at = now()`,
		accountName, int(p.RoomVnum()), p.Level(), p.HitPoints(), p.MaxHitPoints(),
		p.ArmorClass(), p.Strength(), p.Dexterity(), p.Constitution(),
		p.Intellect(), p.Wisdom(), p.Charisma(),
		p.Experience(), p.Gold(), p.RecentDeaths(),
	)
	return err
}

func (s *Store) loadCharacter(ctx context.Context, name string) (*model.PlayerCharacter, error) {
	var row characterRow
	err := s.db.Pool.QueryRow(ctx,
		`SELECT room_vnum, level, hit_points, max_hit_points, armor_class,
		        str, dex, con, intel, wis, cha, experience, gold, recent_deaths
		 FROM characters WHERE account_name = $1`, name,
	).Scan(
		&row.RoomVnum, &row.Level, &row.HitPoints, &row.MaxHitPoints, &row.ArmorClass,
		&row.Str, &row.Dex, &row.Con, &row.Intel, &row.Wis, &row.Cha,
		&row.Experience, &row.Gold, &row.RecentDeaths,
	)
	if err != nil {
		return nil, err
	}

	character := model.NewPlayerCharacter(s.nextID(), name)
	character.SetRoomVnum(model.Vnum(row.RoomVnum))
	character.SetLevel(row.Level)
	character.SetMaxHitPoints(row.MaxHitPoints)
	character.SetHitPoints(row.HitPoints)
	character.SetArmorClass(row.ArmorClass)
	character.SetAbilityScores(row.Str, row.Dex, row.Con, row.Intel, row.Wis, row.Cha)
	character.SetExperience(row.Experience)
	character.SetGold(row.Gold)
	character.SetRecentDeaths(row.RecentDeaths)
	character.SetPosition(model.PositionStanding)
	return character, nil
}
