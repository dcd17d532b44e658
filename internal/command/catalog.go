package command

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/duskrealm/mudforge/internal/combat"
	"github.com/duskrealm/mudforge/internal/model"
)

// legacy command ids, kept in step with the original MUD's command
// table for tooling parity. Movement follows the classic
// north=1..down=6 ordering.
const (
	legacyNorth = 1
	legacyEast  = 2
	legacySouth = 3
	legacyWest  = 4
	legacyUp    = 5
	legacyDown  = 6
	legacyScore = 14
	legacyLook  = 15
	legacySay   = 17
	legacyInv   = 20
	legacyWho   = 39
	legacyQuit  = 73
)

// BuildCatalog registers the command set this server ships with:
// movement, inspection, communication, and session control. It is
// intentionally small — the full verb set is left to future
// extension.
func BuildCatalog() *Registry {
	r := NewRegistry()

	moves := []struct {
		dir      model.Direction
		name     string
		aliases  []string
		legacyID int
	}{
		{model.North, "north", []string{"n"}, legacyNorth},
		{model.East, "east", []string{"e"}, legacyEast},
		{model.South, "south", []string{"s"}, legacySouth},
		{model.West, "west", []string{"w"}, legacyWest},
		{model.Up, "up", []string{"u"}, legacyUp},
		{model.Down, "down", []string{"d"}, legacyDown},
	}
	for _, m := range moves {
		dir := m.dir
		r.Register(&Command{
			Name:        m.name,
			Aliases:     m.aliases,
			MinPosition: model.PositionStanding,
			Enabled:     true,
			LegacyID:    m.legacyID,
			Handler: func(ctx *Context, args string, legacyID int) {
				handleMove(ctx, dir)
			},
		})
	}

	r.Register(&Command{
		Name:        "look",
		Aliases:     []string{"l"},
		MinPosition: model.PositionResting,
		AllowMobile: true,
		Enabled:     true,
		LegacyID:    legacyLook,
		Handler:     handleLook,
	})

	r.Register(&Command{
		Name:        "say",
		Aliases:     []string{"'"},
		MinPosition: model.PositionResting,
		Enabled:     true,
		LegacyID:    legacySay,
		Handler:     handleSay,
	})

	r.Register(&Command{
		Name:        "inventory",
		Aliases:     []string{"i"},
		MinPosition: model.PositionSleeping,
		Enabled:     true,
		LegacyID:    legacyInv,
		Handler:     handleInventory,
	})

	r.Register(&Command{
		Name:        "score",
		MinPosition: model.PositionSleeping,
		Enabled:     true,
		LegacyID:    legacyScore,
		Handler:     handleScore,
	})

	r.Register(&Command{
		Name:        "who",
		MinPosition: model.PositionSleeping,
		Enabled:     true,
		LegacyID:    legacyWho,
		Handler:     handleWho,
	})

	r.Register(&Command{
		Name:        "flee",
		MinPosition: model.PositionFighting,
		Enabled:     true,
		LegacyID:    -1,
		Handler:     handleFlee,
	})

	r.Register(&Command{
		Name:        "kill",
		Aliases:     []string{"k", "attack"},
		MinPosition: model.PositionStanding,
		Enabled:     true,
		LegacyID:    -1,
		Handler:     handleKill,
	})

	r.Register(&Command{
		Name:        "quit",
		MinPosition: model.PositionSleeping,
		Enabled:     true,
		LegacyID:    legacyQuit,
		Handler:     handleQuit,
	})

	r.Register(&Command{
		Name:        "shutdown",
		MinLevel:    100,
		MinPosition: model.PositionDead,
		Enabled:     true,
		LegacyID:    -1,
		Handler:     handleShutdown,
	})

	return r
}

func handleMove(ctx *Context, dir model.Direction) {
	character := ctx.Character
	room := ctx.World.GetRoom(character.RoomVnum())
	if room == nil {
		character.SendLine("You are nowhere.")
		return
	}
	exit := room.Exit(dir)
	if exit == nil || exit.Flags.Has(model.DoorClosed) {
		character.SendLine("You can't go that way.")
		return
	}
	dest := ctx.World.GetRoom(exit.DestVnum)
	if dest == nil {
		character.SendLine("You can't go that way.")
		return
	}

	room.RemoveCharacter(character.ID())
	character.SetRoomVnum(exit.DestVnum)
	dest.AddCharacter(character)

	character.SendLine(fmt.Sprintf("You go %s.", dir))
	sendRoomDescription(character, dest)
}

func handleLook(ctx *Context, args string, legacyID int) {
	character := ctx.Character
	room := ctx.World.GetRoom(character.RoomVnum())
	if room == nil {
		character.SendLine("You see nothing but void.")
		return
	}
	sendRoomDescription(character, room)
}

func sendRoomDescription(character model.Character, room *model.Room) {
	character.SendLine(fmt.Sprintf("&C%s&N", room.Name))
	character.SendLine(room.Description)

	var exitNames []string
	for _, e := range room.Exits() {
		if e.Flags.Has(model.DoorClosed) {
			continue
		}
		exitNames = append(exitNames, e.Direction.String())
	}
	if len(exitNames) == 0 {
		character.SendLine("Obvious exits: none.")
	} else {
		character.SendLine("Obvious exits: " + strings.Join(exitNames, ", "))
	}

	for _, other := range room.Characters() {
		if other.ID() == character.ID() {
			continue
		}
		character.SendLine(other.Name() + " is here.")
	}
}

func handleSay(ctx *Context, args string, legacyID int) {
	character := ctx.Character
	args = strings.TrimSpace(args)
	if args == "" {
		character.SendLine("Say what?")
		return
	}
	room := ctx.World.GetRoom(character.RoomVnum())
	if room == nil {
		return
	}
	character.SendLine(fmt.Sprintf("You say, '%s'", args))
	for _, other := range room.Characters() {
		if other.ID() == character.ID() {
			continue
		}
		other.SendLine(fmt.Sprintf("%s says, '%s'", character.Name(), args))
	}
}

func handleInventory(ctx *Context, args string, legacyID int) {
	player, ok := ctx.Character.(*model.PlayerCharacter)
	if !ok {
		return
	}
	items := player.Inventory()
	if len(items) == 0 {
		player.SendLine("You are carrying nothing.")
		return
	}
	player.SendLine("You are carrying:")
	for _, item := range items {
		player.SendLine("  " + item.ShortDesc())
	}
}

func handleScore(ctx *Context, args string, legacyID int) {
	c := ctx.Character
	c.SendLine(fmt.Sprintf("%s, level %d, HP %d/%d, AC %d.", c.Name(), c.Level(), c.HitPoints(), c.MaxHitPoints(), c.ArmorClass()))
	if player, ok := c.(*model.PlayerCharacter); ok {
		c.SendLine(fmt.Sprintf("Experience: %d  Gold: %d", player.Experience(), player.Gold()))
	}
}

func handleWho(ctx *Context, args string, legacyID int) {
	if ctx.Roster == nil {
		return
	}
	online := ctx.Roster.Snapshot()
	ctx.Character.SendLine(fmt.Sprintf("Players online: %d", len(online)))
	for _, c := range online {
		ctx.Character.SendLine(fmt.Sprintf("  %s (level %d)", c.Name(), c.Level()))
	}
}

func handleFlee(ctx *Context, args string, legacyID int) {
	character := ctx.Character
	room := ctx.World.GetRoom(character.RoomVnum())
	if room == nil || ctx.Rand == nil {
		character.SendLine("You can't escape!")
		return
	}

	var fled bool
	ctx.Rand.Use(func(rng *rand.Rand) {
		fled = combat.Flee(character, room, rng)
	})
	if !fled {
		character.SendLine("You can't escape!")
		return
	}

	// combat.Flee only updates the character's own RoomVnum; room
	// occupancy bookkeeping is the caller's job, same as handleMove.
	dest := ctx.World.GetRoom(character.RoomVnum())
	room.RemoveCharacter(character.ID())
	if dest != nil {
		dest.AddCharacter(character)
	}

	character.SetPosition(model.PositionStanding)
	character.SendLine("You flee head over heels!")
	if dest != nil {
		sendRoomDescription(character, dest)
	}
}

func handleKill(ctx *Context, args string, legacyID int) {
	character := ctx.Character
	target := strings.TrimSpace(args)
	if target == "" {
		character.SendLine("Kill whom?")
		return
	}
	room := ctx.World.GetRoom(character.RoomVnum())
	if room == nil {
		return
	}
	for _, other := range room.Characters() {
		if other.ID() == character.ID() {
			continue
		}
		if strings.EqualFold(other.Name(), target) || strings.HasPrefix(strings.ToLower(other.Name()), strings.ToLower(target)) {
			character.SetFightTarget(other)
			other.SetFightTarget(character)
			character.SetPosition(model.PositionFighting)
			other.SetPosition(model.PositionFighting)
			character.SendLine("You attack " + other.Name() + "!")
			other.SendLine(character.Name() + " attacks you!")
			return
		}
	}
	character.SendLine("They aren't here.")
}

func handleQuit(ctx *Context, args string, legacyID int) {
	ctx.Character.SendLine("Goodbye.")
	if ctx.Quit != nil {
		ctx.Quit(ctx.Character)
	}
}

func handleShutdown(ctx *Context, args string, legacyID int) {
	ctx.Character.SendLine("Shutting down the server.")
	if ctx.Shutdown != nil {
		ctx.Shutdown()
	}
}
