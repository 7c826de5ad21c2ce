package packet

import (
	"bytes"
	"fmt"

	cnet "github.com/qubiq/classic-server/internal/server/net"
)

// Identification is the client's first packet.
type Identification struct {
	ProtocolVersion byte
	Username        string
	VerificationKey string
	Unused          byte
}

// DecodeIdentification decodes an Identification payload (opcode stripped).
func DecodeIdentification(payload []byte) (Identification, error) {
	r := cnet.NewReader(bytes.NewReader(payload))
	p := Identification{
		ProtocolVersion: r.Byte(),
		Username:        r.String(),
		VerificationKey: r.String(),
		Unused:          r.Byte(),
	}
	if err := r.Err(); err != nil {
		return Identification{}, fmt.Errorf("decode identification: %w", err)
	}
	return p, nil
}

// SetBlock is the client's block place/destroy request.
type SetBlock struct {
	X, Y, Z int16
	Mode    byte // 0x00 destroy, anything else place
	Block   byte
}

// DecodeSetBlock decodes a client SetBlock payload.
func DecodeSetBlock(payload []byte) (SetBlock, error) {
	r := cnet.NewReader(bytes.NewReader(payload))
	p := SetBlock{
		X:     r.Short(),
		Y:     r.Short(),
		Z:     r.Short(),
		Mode:  r.Byte(),
		Block: r.Byte(),
	}
	if err := r.Err(); err != nil {
		return SetBlock{}, fmt.Errorf("decode set block: %w", err)
	}
	return p, nil
}

// PositionOrientation is the client's pose update. PID is always 255
// (meaning "self") when sent by a client.
type PositionOrientation struct {
	PID     byte
	X, Y, Z int16
	Yaw     byte
	Pitch   byte
}

// DecodePositionOrientation decodes a client PositionOrientation payload.
func DecodePositionOrientation(payload []byte) (PositionOrientation, error) {
	r := cnet.NewReader(bytes.NewReader(payload))
	p := PositionOrientation{
		PID:   r.Byte(),
		X:     r.Short(),
		Y:     r.Short(),
		Z:     r.Short(),
		Yaw:   r.Byte(),
		Pitch: r.Byte(),
	}
	if err := r.Err(); err != nil {
		return PositionOrientation{}, fmt.Errorf("decode position: %w", err)
	}
	return p, nil
}

// Message is the client's chat line.
type Message struct {
	PID  int8
	Text string
}

// DecodeMessage decodes a client Message payload.
func DecodeMessage(payload []byte) (Message, error) {
	r := cnet.NewReader(bytes.NewReader(payload))
	p := Message{
		PID:  r.SByte(),
		Text: r.String(),
	}
	if err := r.Err(); err != nil {
		return Message{}, fmt.Errorf("decode message: %w", err)
	}
	return p, nil
}
