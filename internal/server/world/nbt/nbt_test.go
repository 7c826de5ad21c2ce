package nbt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterWireFormat(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.BeginCompound("A")
	w.WriteShort("X", 5)
	w.EndCompound()
	require.NoError(t, w.Err())

	want := []byte{
		0x0A, 0x00, 0x01, 'A', // compound "A"
		0x02, 0x00, 0x01, 'X', 0x00, 0x05, // short X = 5
		0x00, // end
	}
	assert.Equal(t, want, buf.Bytes())
}

func TestDocumentRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.BeginCompound("ClassicWorld")
	w.WriteByteTag("FormatVersion", 1)
	w.WriteShort("X", 64)
	w.WriteInt("Age", 123456)
	w.WriteLong("Seed", -42)
	w.WriteFloat("Rain", 0.5)
	w.WriteDouble("Time", 1.25)
	w.WriteByteArray("BlockArray", []byte{0x02, 0x03, 0x00})
	w.WriteString("Name", "test level")
	w.BeginCompound("Spawn")
	w.WriteShort("Y", 16)
	w.EndCompound()
	w.EndCompound()
	require.NoError(t, w.Err())

	name, root, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, "ClassicWorld", name)

	assert.Equal(t, int8(1), root["FormatVersion"])
	assert.Equal(t, int16(64), root.Short("X", 0))
	assert.Equal(t, int32(123456), root["Age"])
	assert.Equal(t, int64(-42), root["Seed"])
	assert.Equal(t, float32(0.5), root["Rain"])
	assert.Equal(t, 1.25, root["Time"])
	assert.Equal(t, []byte{0x02, 0x03, 0x00}, root.ByteArray("BlockArray"))
	assert.Equal(t, "test level", root["Name"])

	spawn := root.Compound("Spawn")
	require.NotNil(t, spawn)
	assert.Equal(t, int16(16), spawn.Short("Y", 0))
}

func TestReadList(t *testing.T) {
	// Compound "L" with a list of two shorts, written by hand since the
	// world format never emits lists itself.
	raw := []byte{
		0x0A, 0x00, 0x01, 'L',
		0x09, 0x00, 0x02, 'v', 's', // list "vs"
		0x02,                   // element kind: short
		0x00, 0x00, 0x00, 0x02, // count 2
		0x00, 0x07,
		0x00, 0x08,
		0x00,
	}

	_, root, err := Read(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, []any{int16(7), int16(8)}, root["vs"])
}

func TestReadRejectsNonCompoundTopLevel(t *testing.T) {
	raw := []byte{0x02, 0x00, 0x01, 'X', 0x00, 0x05}
	_, _, err := Read(bytes.NewReader(raw))
	assert.Error(t, err)
}

func TestReadRejectsUnknownKind(t *testing.T) {
	raw := []byte{
		0x0A, 0x00, 0x01, 'A',
		0x0B, 0x00, 0x01, 'Z', // kind 0x0B is outside the format
		0x00,
	}
	_, _, err := Read(bytes.NewReader(raw))
	assert.Error(t, err)
}

func TestReadTruncatedDocument(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.BeginCompound("A")
	w.WriteByteArray("B", bytes.Repeat([]byte{1}, 32))
	w.EndCompound()
	require.NoError(t, w.Err())

	_, _, err := Read(bytes.NewReader(buf.Bytes()[:12]))
	assert.Error(t, err)
}

func TestShortDefault(t *testing.T) {
	c := Compound{"X": int16(3), "Y": "not a short"}
	assert.Equal(t, int16(3), c.Short("X", 9))
	assert.Equal(t, int16(9), c.Short("Y", 9))
	assert.Equal(t, int16(9), c.Short("missing", 9))
}
