package net

import "io"

// Writer encodes primitive protocol values to an io.Writer. All write
// methods accumulate errors internally; call Err() after writing to check
// for failures.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter creates a new protocol Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first error encountered during writing.
func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) Byte(v byte) {
	if w.err != nil {
		return
	}
	w.err = WriteByte(w.w, v)
}

func (w *Writer) SByte(v int8) {
	w.Byte(byte(v))
}

func (w *Writer) Short(v int16) {
	if w.err != nil {
		return
	}
	w.err = WriteShort(w.w, v)
}

func (w *Writer) String(s string) {
	if w.err != nil {
		return
	}
	w.err = WriteString(w.w, s)
}

func (w *Writer) Bytes(p []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(p)
}
