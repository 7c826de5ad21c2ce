// Package server drives the fixed-rate simulation loop: it accepts
// connections, runs per-session ingress, drains the deferred-effect queue
// and fans broadcasts out to every connected peer.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/qubiq/classic-server/internal/server/clock"
	"github.com/qubiq/classic-server/internal/server/config"
	"github.com/qubiq/classic-server/internal/server/event"
	"github.com/qubiq/classic-server/internal/server/metrics"
	"github.com/qubiq/classic-server/internal/server/session"
	"github.com/qubiq/classic-server/internal/server/world"
)

// acceptTimeout bounds a single non-blocking accept probe.
const acceptTimeout = time.Millisecond

// Server owns the listener, the player roster, the world and the deferred
// event queue. All of them are mutated from the tick loop only.
type Server struct {
	cfg     *config.Config
	log     *slog.Logger
	metrics *metrics.Metrics

	ln         *net.TCPListener
	maxPlayers int8
	players    []*session.Session
	queue      event.Queue
	world      *world.World
	clock      *clock.Clock
}

// New binds the listener and initializes the world from the config. The
// metrics handle may be nil.
func New(cfg *config.Config, log *slog.Logger, m *metrics.Metrics) (*Server, error) {
	addr, err := net.ResolveTCPAddr("tcp", cfg.Server.IP)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", cfg.Server.IP, err)
	}
	ln, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", cfg.Server.IP, err)
	}

	w, err := worldFromConfig(cfg.World)
	if err != nil {
		ln.Close()
		return nil, err
	}

	return &Server{
		cfg:        cfg,
		log:        log,
		metrics:    m,
		ln:         ln,
		maxPlayers: cfg.Server.MaxPlayers,
		world:      w,
		clock:      clock.New(int64(cfg.Simulation.ServerTickRate)),
	}, nil
}

func worldFromConfig(wc config.WorldCfg) (*world.World, error) {
	switch wc.Gen.Type {
	case config.GenFromFile:
		w, err := world.LoadFile(wc.Gen.Path)
		if err != nil {
			return nil, fmt.Errorf("load world: %w", err)
		}
		return w, nil
	case config.GenFlatMap:
		return world.New(wc.Gen.Width, wc.Gen.Height, wc.Gen.Length), nil
	default:
		return nil, fmt.Errorf("unknown world generator %q", wc.Gen.Type)
	}
}

// Addr returns the bound listener address.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Run executes the tick loop until the context is cancelled, then saves
// the world (if autosave is on) and kicks the remaining players.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("server started",
		"addr", s.ln.Addr().String(),
		"name", s.cfg.Server.Name,
		"max_players", s.maxPlayers,
		"tick_ms", s.cfg.Simulation.ServerTickRate,
	)

	for {
		select {
		case <-ctx.Done():
			return s.shutdown()
		default:
		}

		s.clock.Start()
		s.tick()
		s.clock.FinishTick()

		if s.metrics != nil {
			s.metrics.MSPT.Set(s.clock.MSPT())
			s.metrics.TPS.Set(s.clock.TPS())
			s.metrics.Players.Set(float64(len(s.players)))
			s.metrics.Ticks.Inc()
		}
	}
}

func (s *Server) shutdown() error {
	var saveErr error
	if s.cfg.World.Autosave {
		if saveErr = s.world.Save(s.cfg.World.Path); saveErr != nil {
			s.log.Error("autosave failed", "path", s.cfg.World.Path, "error", saveErr)
		} else {
			s.log.Info("world saved", "path", s.cfg.World.Path)
		}
	}
	s.kickPlayers()
	s.ln.Close()
	s.log.Info("server closed")
	return saveErr
}

// tick runs one simulation step: accept, prune, per-session ingress, queue
// drain, position fan-out.
func (s *Server) tick() {
	s.acceptPending()
	s.prune()

	// World physics (sand and the like) would tick here, paced by
	// simulation.sand_tick_rate.

	s.ingress()
	s.drainQueue()
	s.broadcastPositions()

	s.log.Debug("tick complete", "players", len(s.players))
}

// acceptPending accepts every connection the listener has queued. A
// session over capacity is kicked and dropped before it gets a pid.
func (s *Server) acceptPending() {
	for {
		_ = s.ln.SetDeadline(time.Now().Add(acceptTimeout))
		conn, err := s.ln.Accept()
		if err != nil {
			if !errors.Is(err, os.ErrDeadlineExceeded) {
				s.log.Error("accept connection", "error", err)
			}
			return
		}

		sess := session.New(conn, s.log)
		if len(s.players)+1 > int(s.maxPlayers) {
			sess.Disconnect("Server is full!")
			_ = sess.Close()
			continue
		}
		pid, ok := s.genPID()
		if !ok {
			sess.Disconnect("Server is full!")
			_ = sess.Close()
			continue
		}

		sess.PID = pid
		s.players = append(s.players, sess)
		s.log.Info("connection accepted", "pid", pid, "addr", conn.RemoteAddr().String())
	}
}

// genPID returns the lowest free pid in [0, 127].
func (s *Server) genPID() (int8, bool) {
	for pid := int8(0); ; pid++ {
		taken := false
		for _, p := range s.players {
			if p.PID == pid {
				taken = true
				break
			}
		}
		if !taken {
			return pid, true
		}
		if pid == 127 {
			return 0, false
		}
	}
}

// prune closes and removes every session that went inactive last tick.
func (s *Server) prune() {
	kept := s.players[:0]
	for _, p := range s.players {
		if p.Active {
			kept = append(kept, p)
			continue
		}
		_ = p.Close()
		s.log.Info("session removed", "pid", p.PID, "name", p.Name)
	}
	s.players = kept
}

// ingress runs every session's packet processing in roster order. A
// session found dead here gets its despawn and leave message queued so the
// drain phase delivers them this same tick.
func (s *Server) ingress() {
	for _, p := range s.players {
		p.CheckLiveness()
		if !p.Active {
			s.enqueueLeave(p)
			continue
		}

		if err := p.Tick(s.cfg, &s.queue, s.world); err != nil {
			s.log.Error("session tick", "pid", p.PID, "error", err)
			p.Active = false
		}
		if !p.Active {
			s.enqueueLeave(p)
		}
	}
}

func (s *Server) enqueueLeave(p *session.Session) {
	s.queue.Push(event.DespawnPlayer(p.PID))
	s.queue.Push(event.Chat(fmt.Sprintf("&e%s left the game", p.Name)))
}

// drainQueue pops deferred effects newest-first until the queue is empty.
// The LIFO order is observable on the wire and is kept deliberately.
func (s *Server) drainQueue() {
	for {
		e, ok := s.queue.PopBack()
		if !ok {
			return
		}

		switch e.Kind {
		case event.KindSpawnPlayer:
			joined := s.findByPID(e.PID)
			if joined == nil {
				continue
			}
			for _, p := range s.players {
				if p.PID == e.PID {
					continue
				}
				// Others see the newcomer at the spawn point; the
				// newcomer sees others wherever they stand.
				p.SpawnFor(joined, s.world)
				joined.SpawnFor(p, nil)
			}
		case event.KindDespawnPlayer:
			for _, p := range s.players {
				p.SendDespawn(e.PID)
			}
		case event.KindChat:
			for _, p := range s.players {
				p.SendMessage(0, e.Text)
			}
		case event.KindSetBlock:
			for _, p := range s.players {
				p.SendSetBlock(e.X, e.Y, e.Z, e.Block)
			}
		}
	}
}

func (s *Server) findByPID(pid int8) *session.Session {
	for _, p := range s.players {
		if p.PID == pid {
			return p
		}
	}
	return nil
}

// broadcastPositions sends every session's pose to every other session.
func (s *Server) broadcastPositions() {
	for _, viewer := range s.players {
		for _, target := range s.players {
			if viewer.PID == target.PID {
				continue
			}
			viewer.SendPosition(target)
		}
	}
}

// kickPlayers attempts a final Kick on every session. Streams may already
// be closed; errors are swallowed.
func (s *Server) kickPlayers() {
	for _, p := range s.players {
		p.Disconnect("Server closed!")
		_ = p.Close()
	}
	s.players = nil
}
