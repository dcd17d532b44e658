package command

import "testing"

func testCommand(name string, aliases ...string) *Command {
	return &Command{
		Name:    name,
		Aliases: aliases,
		Enabled: true,
		Handler: func(ctx *Context, args string, legacyID int) {},
	}
}

// Exact name beats everything, a unique prefix resolves across both
// the name and alias tables, and a prefix matching more than one
// candidate is ambiguous.
func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry()
	north := testCommand("north", "n")
	no := testCommand("nosave") // shares the "no" prefix territory below
	score := testCommand("score", "sc")
	south := testCommand("south", "s")
	r.Register(north)
	r.Register(no)
	r.Register(score)
	r.Register(south)

	t.Run("exact name", func(t *testing.T) {
		cmd, res := r.Resolve("north")
		if res != resolvedOK || cmd != north {
			t.Fatalf("Resolve(north) = %v, %v, want north/resolvedOK", cmd, res)
		}
	})

	t.Run("exact alias", func(t *testing.T) {
		cmd, res := r.Resolve("sc")
		if res != resolvedOK || cmd != score {
			t.Fatalf("Resolve(sc) = %v, %v, want score/resolvedOK", cmd, res)
		}
	})

	t.Run("unique name prefix", func(t *testing.T) {
		cmd, res := r.Resolve("sou")
		if res != resolvedOK || cmd != south {
			t.Fatalf("Resolve(sou) = %v, %v, want south/resolvedOK", cmd, res)
		}
	})

	t.Run("ambiguous name prefix", func(t *testing.T) {
		_, res := r.Resolve("no")
		if res != resolvedAmbiguous {
			t.Fatalf("Resolve(no) = %v, want resolvedAmbiguous (matches north and nosave)", res)
		}
	})

	t.Run("unknown query", func(t *testing.T) {
		_, res := r.Resolve("xyzzy")
		if res != resolvedAmbiguous {
			t.Fatalf("Resolve(xyzzy) = %v, want resolvedAmbiguous (zero matches falls through to step 4)", res)
		}
	})

	t.Run("empty query", func(t *testing.T) {
		_, res := r.Resolve("")
		if res != resolvedNone {
			t.Fatalf("Resolve(\"\") = %v, want resolvedNone", res)
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		cmd, res := r.Resolve("NORTH")
		if res != resolvedOK || cmd != north {
			t.Fatalf("Resolve(NORTH) = %v, %v, want north/resolvedOK", cmd, res)
		}
	})
}

func TestRegistry_Register_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(testCommand("look"))

	defer func() {
		if recover() == nil {
			t.Error("Register with a duplicate primary name did not panic")
		}
	}()
	r.Register(testCommand("look"))
}
