package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/duskrealm/mudforge/internal/area"
	"github.com/duskrealm/mudforge/internal/command"
	"github.com/duskrealm/mudforge/internal/config"
	"github.com/duskrealm/mudforge/internal/connmgr"
	"github.com/duskrealm/mudforge/internal/instance"
	"github.com/duskrealm/mudforge/internal/model"
	"github.com/duskrealm/mudforge/internal/playerstore"
	"github.com/duskrealm/mudforge/internal/tick"
	"github.com/duskrealm/mudforge/internal/world"
)

const defaultConfigPath = "config/mudforge.yaml"

// serveFlags is the `serve` invocation's flag surface: port and areas
// directory override whatever the config file supplies.
type serveFlags struct {
	configPath string
	port       int
	areasDir   string
}

func main() {
	flags, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, cancel, flags); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

// parseArgs handles the single `serve` subcommand. There are no runtime
// subcommands beyond it.
func parseArgs(args []string) (serveFlags, error) {
	if len(args) == 0 || args[0] != "serve" {
		return serveFlags{}, fmt.Errorf("usage: mudforge serve [--port <n>] [--areas <dir>] [--config <path>]")
	}

	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	flags := serveFlags{configPath: defaultConfigPath}
	if p := os.Getenv("MUDFORGE_CONFIG"); p != "" {
		flags.configPath = p
	}
	fs.StringVar(&flags.configPath, "config", flags.configPath, "path to the YAML config file")
	fs.IntVar(&flags.port, "port", 0, "listen port (overrides config)")
	fs.StringVar(&flags.areasDir, "areas", "", "area-file directory (overrides config)")
	if err := fs.Parse(args[1:]); err != nil {
		return serveFlags{}, err
	}
	return flags, nil
}

func run(ctx context.Context, shutdown context.CancelFunc, flags serveFlags) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if flags.port != 0 {
		cfg.Port = flags.port
	}
	if flags.areasDir != "" {
		cfg.AreasDir = flags.areasDir
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	slog.Info("mudforge starting", "bind", cfg.BindAddress, "port", cfg.Port)

	w := world.New()
	if err := area.LoadDirectory(cfg.AreasDir, w); err != nil {
		return fmt.Errorf("loading areas: %w", err)
	}
	slog.Info("areas loaded", "rooms", w.RoomCount())

	db, err := playerstore.NewDB(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()
	slog.Info("database connected")

	if err := playerstore.RunMigrations(ctx, db.Pool); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database migrations applied")

	instances := instance.New()
	store := playerstore.NewStore(db, model.Vnum(cfg.StartRoomVnum), func() model.CharID {
		return model.CharID(instances.NextID())
	})

	conns := connmgr.New(connmgr.Config{
		MaxConnections: cfg.MaxConnections,
		MaxPerHost:     cfg.MaxConnectionsPerIP,
		RateWindow:     cfg.RateLimitWindow,
		RateThreshold:  cfg.RateLimitThreshold,
	})

	roster := command.NewRoster()
	registry := command.BuildCatalog()
	cmdRand := command.NewSafeRand(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
	dispatcher := command.NewDispatcher(registry, conns, w, instances, roster, cmdRand)

	srv := NewServer(cfg, w, instances, conns, roster, dispatcher, store)
	dispatcher.SetQuitFunc(srv.CloseCharacterConnection)
	dispatcher.SetShutdownFunc(shutdown)

	tickRand := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	tickLoop := tick.New(w, instances, conns, tickRand)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := tickLoop.Start(gctx); err != nil && gctx.Err() == nil {
			return fmt.Errorf("tick loop: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := srv.Run(gctx); err != nil && gctx.Err() == nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
