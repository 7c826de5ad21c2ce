package net

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		value int16
	}{
		{"zero", 0},
		{"one", 1},
		{"port", 25565},
		{"max", 32767},
		{"negative_one", -1},
		{"min", -32768},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteShort(&buf, tt.value))
			require.Equal(t, 2, buf.Len())

			got, err := ReadShort(&buf)
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)
		})
	}
}

func TestShortBigEndian(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteShort(&buf, 0x0102))
	assert.Equal(t, []byte{0x01, 0x02}, buf.Bytes())
}

func TestSByteRoundTrip(t *testing.T) {
	for _, v := range []int8{-128, -1, 0, 1, 127} {
		var buf bytes.Buffer
		require.NoError(t, WriteSByte(&buf, v))

		got, err := ReadSByte(&buf)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestWriteStringPadsToFixedSize(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteString(&buf, "Alice"))
	require.Equal(t, StringSize, buf.Len())

	raw := buf.Bytes()
	assert.Equal(t, "Alice", string(raw[:5]))
	for i := 5; i < StringSize; i++ {
		assert.Equal(t, byte(' '), raw[i], "padding at %d", i)
	}
}

func TestWriteStringTruncates(t *testing.T) {
	long := strings.Repeat("x", 100)

	var buf bytes.Buffer
	require.NoError(t, WriteString(&buf, long))
	require.Equal(t, StringSize, buf.Len())
	assert.Equal(t, strings.Repeat("x", StringSize), string(buf.Bytes()))
}

func TestStringRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Alice", "Alice"},
		{"empty", "", ""},
		{"exactly_64", strings.Repeat("a", 64), strings.Repeat("a", 64)},
		{"over_64", strings.Repeat("a", 65), strings.Repeat("a", 64)},
		{"utf8", "héllo", "héllo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteString(&buf, tt.in))

			got, err := ReadString(&buf)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadStringLossyUTF8(t *testing.T) {
	raw := make([]byte, StringSize)
	for i := range raw {
		raw[i] = ' '
	}
	copy(raw, []byte{'a', 0xFF, 'b'})

	got, err := ReadString(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "a�b", got)
}

func TestReadShortUnexpectedEOF(t *testing.T) {
	_, err := ReadShort(bytes.NewReader([]byte{0x01}))
	assert.Error(t, err)
}

func TestAccumulatingWriterReader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Byte(0x07)
	w.SByte(-1)
	w.Short(300)
	w.String("hey")
	require.NoError(t, w.Err())
	require.Equal(t, 1+1+2+StringSize, buf.Len())

	r := NewReader(&buf)
	assert.Equal(t, byte(0x07), r.Byte())
	assert.Equal(t, int8(-1), r.SByte())
	assert.Equal(t, int16(300), r.Short())
	assert.Equal(t, "hey", r.String())
	require.NoError(t, r.Err())

	// After exhaustion every read reports the first error and zero values.
	assert.Equal(t, byte(0), r.Byte())
	assert.Error(t, r.Err())
	assert.Equal(t, int16(0), r.Short())
}
