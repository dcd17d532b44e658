package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/duskrealm/mudforge/internal/command"
	"github.com/duskrealm/mudforge/internal/config"
	"github.com/duskrealm/mudforge/internal/connmgr"
	"github.com/duskrealm/mudforge/internal/instance"
	"github.com/duskrealm/mudforge/internal/model"
	"github.com/duskrealm/mudforge/internal/playerstore"
	"github.com/duskrealm/mudforge/internal/session"
	"github.com/duskrealm/mudforge/internal/world"
)

// Server is the MUD listener: it accepts telnet connections, drives
// each through the login/command session machine, and holds every
// collaborator a connection's goroutines need.
//
// Shaped after la2go's GameServer (internal/gameserver/server.go): a
// listener plus a set of manager collaborators, Run/Serve accept loop,
// per-connection handler goroutine, and graceful shutdown that saves
// live state first.
type Server struct {
	cfg config.Server

	world      *world.World
	instances  *instance.Manager
	conns      *connmgr.Manager
	roster     *command.Roster
	dispatcher *command.Dispatcher
	store      *playerstore.Store

	nextConnID atomic.Uint64

	mu          sync.Mutex
	listener    net.Listener
	connByChar  map[model.CharID]*session.Connection
	saveOnce    sync.Once
}

// NewServer wires the collaborators built in main into a Server ready
// to accept connections.
func NewServer(cfg config.Server, w *world.World, im *instance.Manager, cm *connmgr.Manager, roster *command.Roster, dispatcher *command.Dispatcher, store *playerstore.Store) *Server {
	return &Server{
		cfg:        cfg,
		world:      w,
		instances:  im,
		conns:      cm,
		roster:     roster,
		dispatcher: dispatcher,
		store:      store,
		connByChar: make(map[model.CharID]*session.Connection),
	}
}

// Run listens on cfg.BindAddress:cfg.Port and serves until ctx is
// canceled.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.BindAddress, s.cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	return s.Serve(ctx, ln)
}

// Serve accepts connections from ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		s.saveAllPlayers()
		ln.Close()
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		slog.Info("mudforge server listening", "address", ln.Addr())
		s.acceptLoop(ctx, &wg, ln)
	}()

	wg.Wait()
	return nil
}

func (s *Server) acceptLoop(ctx context.Context, wg *sync.WaitGroup, ln net.Listener) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			slog.Error("accept failed", "error", err)
			continue
		}

		if tcpConn, ok := conn.(*net.TCPConn); ok {
			_ = tcpConn.SetKeepAlive(true)
			_ = tcpConn.SetKeepAlivePeriod(30 * time.Second)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handleConnection(ctx, conn)
		}()
	}
}

// handleConnection drives one accepted socket end to end: admission
// control, the telnet codec's reader loop, and session teardown. This
// goroutine is the connection's reader; Connection.RunWriter runs as
// the paired writer goroutine.
func (s *Server) handleConnection(ctx context.Context, netConn net.Conn) {
	defer netConn.Close()

	connID := s.nextConnID.Add(1)
	conn := session.NewConnection(connID, netConn)

	if !s.conns.AddConnection(conn) {
		slog.Info("connection refused: over capacity", "remote", netConn.RemoteAddr())
		return
	}
	defer s.conns.RemoveConnection(connID)

	go conn.RunWriter()

	sess := session.NewSession(conn, s.store, s.dispatcher, s.roster)
	sess.OnPromote = func(p *model.PlayerCharacter) {
		s.placeInWorld(p)
		s.mu.Lock()
		s.connByChar[p.ID()] = conn
		s.mu.Unlock()
	}
	sess.OnClose = func(p *model.PlayerCharacter) {
		s.removeFromWorld(p)
		s.mu.Lock()
		delete(s.connByChar, p.ID())
		s.mu.Unlock()
		if err := s.store.Save(p); err != nil {
			slog.Error("saving character on disconnect", "character", p.Name(), "error", err)
		}
	}
	defer sess.HandleClose()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	buf := make([]byte, 1024)
	for {
		n, err := conn.ReadRaw(buf)
		if err != nil {
			return
		}
		lines := conn.Codec().Feed(buf[:n])
		if negotiated := conn.Codec().TakeOutbound(); len(negotiated) > 0 {
			conn.WriteRaw(negotiated)
		}
		for _, line := range lines {
			sess.HandleLine(line)
		}
	}
}

// placeInWorld adds a freshly promoted character to its persisted
// room's occupancy set, the one piece of session bookkeeping that
// needs *world.World and so can't live in internal/session itself.
func (s *Server) placeInWorld(p *model.PlayerCharacter) {
	if room := s.world.GetRoom(p.RoomVnum()); room != nil {
		room.AddCharacter(p)
	}
}

// CloseCharacterConnection closes the socket bound to character, if
// any is currently tracked. Wired into the command dispatcher's quit
// handler so `quit` can tear down a connection without the command
// package importing net/session.
func (s *Server) CloseCharacterConnection(c model.Character) {
	s.mu.Lock()
	conn, ok := s.connByChar[c.ID()]
	s.mu.Unlock()
	if !ok {
		return
	}
	conn.SetState(session.StateClosing)
	conn.Close()
}

func (s *Server) removeFromWorld(p *model.PlayerCharacter) {
	if room := s.world.GetRoom(p.RoomVnum()); room != nil {
		room.RemoveCharacter(p.ID())
	}
}

// saveAllPlayers persists every online character once, used on
// shutdown. Called from Serve's ctx.Done() goroutine; guarded by
// sync.Once so any repeated call saves nothing a second time.
func (s *Server) saveAllPlayers() {
	s.saveOnce.Do(func() {
		online := s.roster.Snapshot()
		saved := 0
		for _, c := range online {
			p, ok := c.(*model.PlayerCharacter)
			if !ok {
				continue
			}
			if err := s.store.Save(p); err != nil {
				slog.Error("saving character on shutdown", "character", p.Name(), "error", err)
				continue
			}
			saved++
		}
		if saved > 0 {
			slog.Info("saved players on shutdown", "count", saved)
		}
	})
}
