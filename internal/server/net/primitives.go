// Package net implements the primitive value codec for the classic wire
// protocol. All multi-byte integers are big-endian. Strings occupy exactly
// 64 bytes on the wire, right-padded with ASCII spaces.
package net

import (
	"encoding/binary"
	"io"
	"strings"
)

// StringSize is the fixed on-wire size of a protocol string.
const StringSize = 64

func ReadByte(r io.Reader) (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func ReadSByte(r io.Reader) (int8, error) {
	b, err := ReadByte(r)
	return int8(b), err
}

func ReadShort(r io.Reader) (int16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(buf[:])), nil
}

// ReadString reads a fixed 64-byte string. Invalid UTF-8 sequences are
// replaced with U+FFFD and the space padding is stripped from the right.
func ReadString(r io.Reader) (string, error) {
	var buf [StringSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return "", err
	}
	s := strings.ToValidUTF8(string(buf[:]), "�")
	return strings.TrimRight(s, " "), nil
}

func WriteByte(w io.Writer, v byte) error {
	_, err := w.Write([]byte{v})
	return err
}

func WriteSByte(w io.Writer, v int8) error {
	return WriteByte(w, byte(v))
}

func WriteShort(w io.Writer, v int16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], uint16(v))
	_, err := w.Write(buf[:])
	return err
}

// WriteString writes s as a fixed 64-byte field, truncating anything past
// 64 bytes and right-padding shorter values with spaces.
func WriteString(w io.Writer, s string) error {
	var buf [StringSize]byte
	for i := range buf {
		buf[i] = ' '
	}
	copy(buf[:], s)
	_, err := w.Write(buf[:])
	return err
}
