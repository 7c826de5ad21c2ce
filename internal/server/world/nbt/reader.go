package nbt

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Compound is a decoded compound tag. Values are int8, int16, int32, int64,
// float32, float64, []byte, string, []any or nested Compound depending on
// the tag kind.
type Compound map[string]any

// Short returns the named short value, or def if absent or of another kind.
func (c Compound) Short(name string, def int16) int16 {
	if v, ok := c[name].(int16); ok {
		return v
	}
	return def
}

// ByteArray returns the named byte array value, or nil.
func (c Compound) ByteArray(name string) []byte {
	v, _ := c[name].([]byte)
	return v
}

// Compound returns the named nested compound, or nil.
func (c Compound) Compound(name string) Compound {
	v, _ := c[name].(Compound)
	return v
}

// Read decodes a tagged-binary document. The top level must be a named
// Compound; anything else is rejected.
func Read(r io.Reader) (name string, root Compound, err error) {
	kind, err := readByte(r)
	if err != nil {
		return "", nil, fmt.Errorf("read document kind: %w", err)
	}
	if kind != TagCompound {
		return "", nil, fmt.Errorf("document must start with a compound, got kind 0x%02X", kind)
	}
	name, err = readName(r)
	if err != nil {
		return "", nil, fmt.Errorf("read document name: %w", err)
	}
	root, err = readCompound(r)
	if err != nil {
		return "", nil, fmt.Errorf("read document %q: %w", name, err)
	}
	return name, root, nil
}

func readCompound(r io.Reader) (Compound, error) {
	c := make(Compound)
	for {
		kind, err := readByte(r)
		if err != nil {
			return nil, err
		}
		if kind == TagEnd {
			return c, nil
		}
		name, err := readName(r)
		if err != nil {
			return nil, err
		}
		v, err := readValue(r, kind)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", name, err)
		}
		c[name] = v
	}
}

func readValue(r io.Reader, kind byte) (any, error) {
	switch kind {
	case TagByte:
		b, err := readByte(r)
		return int8(b), err
	case TagShort:
		var v int16
		err := binary.Read(r, binary.BigEndian, &v)
		return v, err
	case TagInt:
		var v int32
		err := binary.Read(r, binary.BigEndian, &v)
		return v, err
	case TagLong:
		var v int64
		err := binary.Read(r, binary.BigEndian, &v)
		return v, err
	case TagFloat:
		var bits uint32
		if err := binary.Read(r, binary.BigEndian, &bits); err != nil {
			return nil, err
		}
		return math.Float32frombits(bits), nil
	case TagDouble:
		var bits uint64
		if err := binary.Read(r, binary.BigEndian, &bits); err != nil {
			return nil, err
		}
		return math.Float64frombits(bits), nil
	case TagByteArray:
		count, err := readCount(r)
		if err != nil {
			return nil, err
		}
		buf := make([]byte, count)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		return buf, nil
	case TagString:
		return readName(r)
	case TagList:
		elemKind, err := readByte(r)
		if err != nil {
			return nil, err
		}
		count, err := readCount(r)
		if err != nil {
			return nil, err
		}
		list := make([]any, 0, count)
		for i := 0; i < count; i++ {
			v, err := readValue(r, elemKind)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case TagCompound:
		return readCompound(r)
	default:
		return nil, fmt.Errorf("unknown tag kind 0x%02X", kind)
	}
}

func readByte(r io.Reader) (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func readName(r io.Reader) (string, error) {
	var size int16
	if err := binary.Read(r, binary.BigEndian, &size); err != nil {
		return "", err
	}
	if size <= 0 {
		return "", nil
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func readCount(r io.Reader) (int, error) {
	var count int32
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return 0, err
	}
	if count < 0 {
		return 0, fmt.Errorf("negative element count: %d", count)
	}
	return int(count), nil
}
