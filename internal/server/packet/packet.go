// Package packet defines the classic protocol packet frames: one opcode
// byte followed by a fixed-size payload determined solely by the opcode.
package packet

import (
	"fmt"
	"io"
	"strings"

	cnet "github.com/qubiq/classic-server/internal/server/net"
)

// ProtocolVersion is the classic protocol version this server speaks.
const ProtocolVersion byte = 0x07

// Opcodes. CS-prefixed opcodes travel in both directions.
const (
	OpIdentification      byte = 0x00
	OpPing                byte = 0x01
	OpLevelInit           byte = 0x02
	OpLevelChunk          byte = 0x03
	OpLevelFinal          byte = 0x04
	OpSetBlockClient      byte = 0x05
	OpSetBlockServer      byte = 0x06
	OpSpawnPlayer         byte = 0x07
	OpPositionOrientation byte = 0x08
	OpDespawnPlayer       byte = 0x0C
	OpMessage             byte = 0x0D
	OpKick                byte = 0x0E
	OpUpdateUserType      byte = 0x0F
)

// ChunkSize is the fixed data field size of a LevelChunk frame. Shorter
// chunks are right-padded with zeros.
const ChunkSize = 1024

// clientPayloadSizes maps client-to-server opcodes to their fixed payload
// length, excluding the opcode byte itself.
var clientPayloadSizes = map[byte]int{
	OpIdentification:      1 + cnet.StringSize + cnet.StringSize + 1,
	OpPing:                0,
	OpSetBlockClient:      3*2 + 1 + 1,
	OpPositionOrientation: 1 + 3*2 + 1 + 1,
	OpMessage:             1 + cnet.StringSize,
}

// ClientPayloadSize returns the payload size of a client-to-server opcode.
// The second result is false for opcodes the server does not accept.
func ClientPayloadSize(op byte) (int, bool) {
	n, ok := clientPayloadSizes[op]
	return n, ok
}

// SanitizeChat rewrites inbound chat text so the client cannot be crashed
// by a dangling color escape: every '%' becomes '&', and a trailing '&'
// is stripped.
func SanitizeChat(s string) string {
	s = strings.ReplaceAll(s, "%", "&")
	return strings.TrimSuffix(s, "&")
}

// WriteServerInfo writes the server's Identification response frame.
func WriteServerInfo(w io.Writer, name, motd string, operator byte) error {
	pw := cnet.NewWriter(w)
	pw.Byte(OpIdentification)
	pw.Byte(ProtocolVersion)
	pw.String(name)
	pw.String(motd)
	pw.Byte(operator)
	return pw.Err()
}

// WritePing writes an empty Ping frame.
func WritePing(w io.Writer) error {
	return cnet.WriteByte(w, OpPing)
}

// WriteLevelInit writes an empty LevelInit frame.
func WriteLevelInit(w io.Writer) error {
	return cnet.WriteByte(w, OpLevelInit)
}

// WriteLevelChunk writes one LevelChunk frame. data must be at most
// ChunkSize bytes; the frame is always padded to the full ChunkSize.
func WriteLevelChunk(w io.Writer, data []byte, percent byte) error {
	if len(data) > ChunkSize {
		return fmt.Errorf("level chunk too large: %d bytes", len(data))
	}
	var padded [ChunkSize]byte
	copy(padded[:], data)

	pw := cnet.NewWriter(w)
	pw.Byte(OpLevelChunk)
	pw.Short(int16(len(data)))
	pw.Bytes(padded[:])
	pw.Byte(percent)
	return pw.Err()
}

// WriteLevelFinal writes the LevelFinal frame carrying the world dimensions.
func WriteLevelFinal(w io.Writer, width, height, length int16) error {
	pw := cnet.NewWriter(w)
	pw.Byte(OpLevelFinal)
	pw.Short(width)
	pw.Short(height)
	pw.Short(length)
	return pw.Err()
}

// WriteSetBlock writes a server SetBlock frame.
func WriteSetBlock(w io.Writer, x, y, z int16, block byte) error {
	pw := cnet.NewWriter(w)
	pw.Byte(OpSetBlockServer)
	pw.Short(x)
	pw.Short(y)
	pw.Short(z)
	pw.Byte(block)
	return pw.Err()
}

// WriteSpawnPlayer writes a SpawnPlayer frame. pid -1 means "self" to the
// receiving client.
func WriteSpawnPlayer(w io.Writer, pid int8, name string, x, y, z int16, yaw, pitch byte) error {
	pw := cnet.NewWriter(w)
	pw.Byte(OpSpawnPlayer)
	pw.SByte(pid)
	pw.String(name)
	pw.Short(x)
	pw.Short(y)
	pw.Short(z)
	pw.Byte(yaw)
	pw.Byte(pitch)
	return pw.Err()
}

// WritePositionOrientation writes an absolute position update for pid.
func WritePositionOrientation(w io.Writer, pid int8, x, y, z int16, yaw, pitch byte) error {
	pw := cnet.NewWriter(w)
	pw.Byte(OpPositionOrientation)
	pw.SByte(pid)
	pw.Short(x)
	pw.Short(y)
	pw.Short(z)
	pw.Byte(yaw)
	pw.Byte(pitch)
	return pw.Err()
}

// WriteDespawnPlayer writes a DespawnPlayer frame.
func WriteDespawnPlayer(w io.Writer, pid int8) error {
	pw := cnet.NewWriter(w)
	pw.Byte(OpDespawnPlayer)
	pw.SByte(pid)
	return pw.Err()
}

// WriteMessage writes a chat Message frame. The server sends pid 0.
func WriteMessage(w io.Writer, pid int8, text string) error {
	pw := cnet.NewWriter(w)
	pw.Byte(OpMessage)
	pw.SByte(pid)
	pw.String(text)
	return pw.Err()
}

// WriteKick writes a Kick frame with the given reason.
func WriteKick(w io.Writer, reason string) error {
	pw := cnet.NewWriter(w)
	pw.Byte(OpKick)
	pw.String(reason)
	return pw.Err()
}

// WriteUpdateUserType writes an UpdateUserType frame (0x64 op, 0x00 regular).
func WriteUpdateUserType(w io.Writer, userType byte) error {
	pw := cnet.NewWriter(w)
	pw.Byte(OpUpdateUserType)
	pw.Byte(userType)
	return pw.Err()
}
