// Package wiretest holds protocol helpers shared by the package tests: it
// frames client packets byte by byte and splits a server stream back into
// frames.
package wiretest

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"net"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/qubiq/classic-server/internal/server/packet"
)

// serverPayloadSizes maps server-to-client opcodes to their fixed payload
// length.
var serverPayloadSizes = map[byte]int{
	packet.OpIdentification:      1 + 64 + 64 + 1,
	packet.OpPing:                0,
	packet.OpLevelInit:           0,
	packet.OpLevelChunk:          2 + packet.ChunkSize + 1,
	packet.OpLevelFinal:          3 * 2,
	packet.OpSetBlockServer:      3*2 + 1,
	packet.OpSpawnPlayer:         1 + 64 + 3*2 + 1 + 1,
	packet.OpPositionOrientation: 1 + 3*2 + 1 + 1,
	packet.OpDespawnPlayer:       1,
	packet.OpMessage:             1 + 64,
	packet.OpKick:                64,
	packet.OpUpdateUserType:      1,
}

// Frame is one decoded server-to-client frame.
type Frame struct {
	Op      byte
	Payload []byte
}

// ReadFrame reads exactly one frame from r, failing the test on any error.
func ReadFrame(t *testing.T, r io.Reader) Frame {
	t.Helper()

	var op [1]byte
	if _, err := io.ReadFull(r, op[:]); err != nil {
		t.Fatalf("read opcode: %v", err)
	}
	size, ok := serverPayloadSizes[op[0]]
	if !ok {
		t.Fatalf("unknown server opcode 0x%02X", op[0])
	}
	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		t.Fatalf("read payload of 0x%02X: %v", op[0], err)
	}
	return Frame{Op: op[0], Payload: payload}
}

// CollectFrames reads frames from conn until it stays quiet for window.
func CollectFrames(t *testing.T, conn net.Conn, window time.Duration) []Frame {
	t.Helper()

	var frames []Frame
	for {
		_ = conn.SetReadDeadline(time.Now().Add(window))
		var op [1]byte
		if _, err := io.ReadFull(conn, op[:]); err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, io.EOF) {
				return frames
			}
			t.Fatalf("read opcode: %v", err)
		}
		size, ok := serverPayloadSizes[op[0]]
		if !ok {
			t.Fatalf("unknown server opcode 0x%02X", op[0])
		}
		payload := make([]byte, size)
		if _, err := io.ReadFull(conn, payload); err != nil {
			t.Fatalf("read payload of 0x%02X: %v", op[0], err)
		}
		frames = append(frames, Frame{Op: op[0], Payload: payload})
	}
}

// String64 trims the protocol's space padding from a 64-byte field.
func String64(b []byte) string {
	return strings.TrimRight(string(b), " ")
}

func putString(buf *bytes.Buffer, s string) {
	var field [64]byte
	for i := range field {
		field[i] = ' '
	}
	copy(field[:], s)
	buf.Write(field[:])
}

func putShort(buf *bytes.Buffer, v int16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(v))
	buf.Write(b[:])
}

// Identification builds a client Identification frame.
func Identification(version byte, name, key string) []byte {
	var buf bytes.Buffer
	buf.WriteByte(packet.OpIdentification)
	buf.WriteByte(version)
	putString(&buf, name)
	putString(&buf, key)
	buf.WriteByte(0x00)
	return buf.Bytes()
}

// Message builds a client Message frame.
func Message(text string) []byte {
	var buf bytes.Buffer
	buf.WriteByte(packet.OpMessage)
	buf.WriteByte(0xFF)
	putString(&buf, text)
	return buf.Bytes()
}

// SetBlock builds a client SetBlock frame.
func SetBlock(x, y, z int16, mode, block byte) []byte {
	var buf bytes.Buffer
	buf.WriteByte(packet.OpSetBlockClient)
	putShort(&buf, x)
	putShort(&buf, y)
	putShort(&buf, z)
	buf.WriteByte(mode)
	buf.WriteByte(block)
	return buf.Bytes()
}

// Position builds a client PositionOrientation frame.
func Position(x, y, z int16, yaw, pitch byte) []byte {
	var buf bytes.Buffer
	buf.WriteByte(packet.OpPositionOrientation)
	buf.WriteByte(0xFF) // self
	putShort(&buf, x)
	putShort(&buf, y)
	putShort(&buf, z)
	buf.WriteByte(yaw)
	buf.WriteByte(pitch)
	return buf.Bytes()
}
