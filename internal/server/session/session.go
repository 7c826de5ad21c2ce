// Package session manages a single client connection: non-blocking packet
// ingress, the connect → authenticate → in-game state machine, and the
// outbound helpers the server uses for broadcasts.
package session

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/qubiq/classic-server/internal/server/config"
	"github.com/qubiq/classic-server/internal/server/event"
	"github.com/qubiq/classic-server/internal/server/packet"
	"github.com/qubiq/classic-server/internal/server/world"
)

// OperatorFlag is the user type byte reported for operators.
const OperatorFlag byte = 0x64

const (
	// pollTimeout bounds a single non-blocking socket probe.
	pollTimeout = time.Millisecond
	// writeTimeout bounds ordinary outbound writes.
	writeTimeout = time.Second
	// levelTimeout bounds the one long transfer in the protocol, the
	// level stream after identification.
	levelTimeout = 10 * time.Second
	// readBudget caps how many ingress bytes one session may consume per
	// tick, so a flooding client cannot stall the loop. Remaining bytes
	// are processed on later ticks.
	readBudget = 64 << 10
)

// Session is the per-client connection state. The server owns the roster;
// the session exclusively owns its TCP stream.
type Session struct {
	conn net.Conn
	log  *slog.Logger
	in   bytes.Buffer

	PID      int8
	Name     string
	X, Y, Z  int16
	Yaw      byte
	Pitch    byte
	Operator byte
	Authed   bool
	Active   bool
}

// New wraps an accepted connection. The session starts unauthenticated
// with pid -1 until the server assigns one.
func New(conn net.Conn, log *slog.Logger) *Session {
	return &Session{
		conn:   conn,
		log:    log.With("cid", xid.New().String(), "addr", conn.RemoteAddr().String()),
		PID:    -1,
		Name:   "Unknown",
		Active: true,
	}
}

// Close releases the underlying connection.
func (s *Session) Close() error {
	return s.conn.Close()
}

// Tick drains all currently pending bytes from the socket and processes
// every complete packet, then returns without blocking. Transient I/O
// conditions are swallowed; a broken stream marks the session inactive.
// Only protocol-level failures surface as errors.
func (s *Session) Tick(cfg *config.Config, q *event.Queue, w *world.World) error {
	s.readPending()

	for s.Active {
		data := s.in.Bytes()
		if len(data) == 0 {
			break
		}

		op := data[0]
		if !s.Authed && op != packet.OpIdentification {
			// Connecting state accepts Identification only.
			s.log.Warn("unexpected packet before identification", "opcode", fmt.Sprintf("0x%02X", op))
			s.Disconnect("Identify first!")
			s.Active = false
			return nil
		}
		size, ok := packet.ClientPayloadSize(op)
		if !ok {
			s.in.Next(1)
			s.log.Debug("ignoring unknown opcode", "opcode", fmt.Sprintf("0x%02X", op))
			continue
		}
		if len(data) < 1+size {
			break // partial frame, finish it next tick
		}

		s.in.Next(1)
		payload := s.in.Next(size)

		var err error
		switch op {
		case packet.OpIdentification:
			err = s.handleIdentification(payload, cfg, q, w)
		case packet.OpPing:
			s.log.Debug("pong")
		case packet.OpPositionOrientation:
			err = s.handlePositionOrientation(payload)
		case packet.OpMessage:
			err = s.handleMessage(payload, q)
		case packet.OpSetBlockClient:
			err = s.handleSetBlock(payload, q, w)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// readPending moves everything the kernel has buffered for this session
// into the ingress buffer, up to the per-tick budget.
func (s *Session) readPending() {
	var buf [4096]byte
	budget := readBudget
	for budget > 0 {
		n := len(buf)
		if n > budget {
			n = budget
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(pollTimeout))
		read, err := s.conn.Read(buf[:n])
		if read > 0 {
			s.in.Write(buf[:read])
			budget -= read
		}
		if err != nil {
			if !errors.Is(err, os.ErrDeadlineExceeded) {
				s.log.Debug("stream closed", "error", err)
				s.Active = false
			}
			return
		}
	}
}

func (s *Session) handleIdentification(payload []byte, cfg *config.Config, q *event.Queue, w *world.World) error {
	if s.Authed {
		s.log.Debug("ignoring repeated identification")
		return nil
	}

	id, err := packet.DecodeIdentification(payload)
	if err != nil {
		return err
	}

	if id.ProtocolVersion != packet.ProtocolVersion {
		s.Disconnect(fmt.Sprintf("Protocol version mismatch! Your: %d - Server: %d",
			id.ProtocolVersion, packet.ProtocolVersion))
		s.Active = false
		return nil
	}

	s.Name = strings.TrimRight(id.Username, " \t")
	s.Operator = OperatorFlag
	s.Authed = true
	s.log = s.log.With("player", s.Name)
	s.log.Info("player identified", "pid", s.PID)

	// ServerInfo, the level stream and the self spawn go out in one
	// buffered burst.
	_ = s.conn.SetWriteDeadline(time.Now().Add(levelTimeout))
	bw := bufio.NewWriter(s.conn)
	if err := packet.WriteServerInfo(bw, cfg.Server.Name, cfg.Server.MOTD, s.Operator); err != nil {
		return fmt.Errorf("write server info: %w", err)
	}
	if err := w.Send(bw); err != nil {
		return fmt.Errorf("send level: %w", err)
	}
	sx, sy, sz := w.SpawnPoint()
	if err := packet.WriteSpawnPlayer(bw, -1, s.Name, sx, sy+world.SpawnBias, sz, s.Yaw, s.Pitch); err != nil {
		return fmt.Errorf("write self spawn: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush join stream: %w", err)
	}

	q.Push(event.SpawnPlayer(s.PID))
	q.Push(event.Chat(fmt.Sprintf("&e%s joined the game", s.Name)))
	return nil
}

func (s *Session) handlePositionOrientation(payload []byte) error {
	p, err := packet.DecodePositionOrientation(payload)
	if err != nil {
		return err
	}
	s.X, s.Y, s.Z = p.X, p.Y, p.Z
	s.Yaw, s.Pitch = p.Yaw, p.Pitch
	return nil
}

func (s *Session) handleMessage(payload []byte, q *event.Queue) error {
	m, err := packet.DecodeMessage(payload)
	if err != nil {
		return err
	}
	line := fmt.Sprintf("%s: %s", s.Name, packet.SanitizeChat(m.Text))
	s.log.Info("chat", "text", line)
	q.Push(event.Chat(line))
	return nil
}

func (s *Session) handleSetBlock(payload []byte, q *event.Queue, w *world.World) error {
	sb, err := packet.DecodeSetBlock(payload)
	if err != nil {
		return err
	}

	block := sb.Block
	if sb.Mode == 0x00 {
		block = world.BlockAir
	}
	w.SetBlock(sb.X, sb.Y, sb.Z, block)
	q.Push(event.SetBlock(sb.X, sb.Y, sb.Z, block))
	return nil
}

// CheckLiveness sends a best-effort ping. A would-block outcome is normal;
// any other failure marks the session inactive so the server prunes it.
func (s *Session) CheckLiveness() {
	_ = s.conn.SetWriteDeadline(time.Now().Add(pollTimeout))
	if err := packet.WritePing(s.conn); err != nil && !errors.Is(err, os.ErrDeadlineExceeded) {
		s.log.Debug("liveness ping failed", "error", err)
		s.Active = false
	}
}

// Disconnect sends a Kick with the given reason. Errors are swallowed; the
// stream may already be gone.
func (s *Session) Disconnect(reason string) {
	s.log.Info("disconnecting", "reason", reason)
	s.send(func(w io.Writer) error {
		return packet.WriteKick(w, reason)
	})
}

// SpawnFor sends a SpawnPlayer describing target to this session. When a
// world is supplied the position is overridden with its spawn point, lifted
// by the spawn bias.
func (s *Session) SpawnFor(target *Session, w *world.World) {
	x, y, z := target.X, target.Y, target.Z
	if w != nil {
		x, y, z = w.SpawnPoint()
		y += world.SpawnBias
	}
	s.send(func(wr io.Writer) error {
		return packet.WriteSpawnPlayer(wr, target.PID, target.Name, x, y, z, target.Yaw, target.Pitch)
	})
}

// SendPosition sends target's current pose to this session.
func (s *Session) SendPosition(target *Session) {
	s.send(func(w io.Writer) error {
		return packet.WritePositionOrientation(w, target.PID, target.X, target.Y, target.Z, target.Yaw, target.Pitch)
	})
}

// SendDespawn tells this session's client to remove pid.
func (s *Session) SendDespawn(pid int8) {
	s.send(func(w io.Writer) error {
		return packet.WriteDespawnPlayer(w, pid)
	})
}

// SendMessage delivers a chat line to this session.
func (s *Session) SendMessage(pid int8, text string) {
	s.send(func(w io.Writer) error {
		return packet.WriteMessage(w, pid, text)
	})
}

// SendSetBlock delivers a block mutation to this session.
func (s *Session) SendSetBlock(x, y, z int16, block byte) {
	s.send(func(w io.Writer) error {
		return packet.WriteSetBlock(w, x, y, z, block)
	})
}

// send performs a best-effort outbound write. Broadcast failures are not
// fatal here; the liveness probe is what retires dead sessions.
func (s *Session) send(encode func(io.Writer) error) {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := encode(s.conn); err != nil && !errors.Is(err, os.ErrDeadlineExceeded) {
		s.log.Debug("dropped outbound packet", "error", err)
	}
}
