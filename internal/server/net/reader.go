package net

import "io"

// Reader decodes primitive protocol values from an io.Reader. All read
// methods accumulate errors internally and return zero values after the
// first failure; call Err() when done.
type Reader struct {
	r   io.Reader
	err error
}

// NewReader creates a new protocol Reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Err returns the first error encountered during reading.
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) Byte() byte {
	if r.err != nil {
		return 0
	}
	var v byte
	v, r.err = ReadByte(r.r)
	return v
}

func (r *Reader) SByte() int8 {
	return int8(r.Byte())
}

func (r *Reader) Short() int16 {
	if r.err != nil {
		return 0
	}
	var v int16
	v, r.err = ReadShort(r.r)
	return v
}

func (r *Reader) String() string {
	if r.err != nil {
		return ""
	}
	var v string
	v, r.err = ReadString(r.r)
	return v
}
