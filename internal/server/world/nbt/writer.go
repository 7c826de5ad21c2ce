// Package nbt reads and writes the tagged hierarchical binary format used
// by the persisted world files. Every value is big-endian. A document is a
// single named Compound terminated by an End tag.
package nbt

import (
	"encoding/binary"
	"io"
	"math"
)

// Tag kind codes.
const (
	TagEnd       byte = 0x00
	TagByte      byte = 0x01
	TagShort     byte = 0x02
	TagInt       byte = 0x03
	TagLong      byte = 0x04
	TagFloat     byte = 0x05
	TagDouble    byte = 0x06
	TagByteArray byte = 0x07
	TagString    byte = 0x08
	TagList      byte = 0x09
	TagCompound  byte = 0x0A
)

// Writer writes tagged binary data to an io.Writer. All write methods
// accumulate errors internally; call Err() after writing to check for
// failures.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter creates a new tagged-binary Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first error encountered during writing.
func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) write(data []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(data)
}

func (w *Writer) putByte(v byte) {
	w.write([]byte{v})
}

func (w *Writer) putUint16(v uint16) {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	w.write(buf[:])
}

func (w *Writer) putInt32(v int32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(v))
	w.write(buf[:])
}

func (w *Writer) putInt64(v int64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	w.write(buf[:])
}

func (w *Writer) putName(name string) {
	w.putUint16(uint16(len(name)))
	if len(name) > 0 {
		w.write([]byte(name))
	}
}

func (w *Writer) header(kind byte, name string) {
	w.putByte(kind)
	w.putName(name)
}

// BeginCompound writes a compound tag header.
func (w *Writer) BeginCompound(name string) {
	w.header(TagCompound, name)
}

// EndCompound writes an End tag to close a compound.
func (w *Writer) EndCompound() {
	w.putByte(TagEnd)
}

// WriteByteTag writes a named byte tag.
func (w *Writer) WriteByteTag(name string, v int8) {
	w.header(TagByte, name)
	w.putByte(byte(v))
}

// WriteShort writes a named short tag.
func (w *Writer) WriteShort(name string, v int16) {
	w.header(TagShort, name)
	w.putUint16(uint16(v))
}

// WriteInt writes a named int tag.
func (w *Writer) WriteInt(name string, v int32) {
	w.header(TagInt, name)
	w.putInt32(v)
}

// WriteLong writes a named long tag.
func (w *Writer) WriteLong(name string, v int64) {
	w.header(TagLong, name)
	w.putInt64(v)
}

// WriteFloat writes a named float tag.
func (w *Writer) WriteFloat(name string, v float32) {
	w.header(TagFloat, name)
	w.putInt32(int32(math.Float32bits(v)))
}

// WriteDouble writes a named double tag.
func (w *Writer) WriteDouble(name string, v float64) {
	w.header(TagDouble, name)
	w.putInt64(int64(math.Float64bits(v)))
}

// WriteByteArray writes a named byte array tag.
func (w *Writer) WriteByteArray(name string, v []byte) {
	w.header(TagByteArray, name)
	w.putInt32(int32(len(v)))
	w.write(v)
}

// WriteString writes a named UTF-8 string tag.
func (w *Writer) WriteString(name string, v string) {
	w.header(TagString, name)
	w.putName(v)
}
