// Package world holds the in-memory block grid and its wire and disk
// representations.
package world

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/qubiq/classic-server/internal/server/packet"
)

// Well-known block ids.
const (
	BlockAir   byte = 0x00
	BlockStone byte = 0x01
	BlockGrass byte = 0x02
	BlockDirt  byte = 0x03
)

// SpawnBias is the vertical offset, in subpixel units, added to the spawn
// point so players appear above the surface instead of inside it.
const SpawnBias int16 = 51

// Spawn is a spawn location in world cells.
type Spawn struct {
	X, Y, Z int16
}

// World is a dense 3D grid of block ids, indexed x + W*(z + L*y).
type World struct {
	Width  int16
	Height int16
	Length int16
	Blocks []byte

	Spawn Spawn
}

// New allocates a Width×Height×Length world, generates a flat map into it
// and centers the spawn.
func New(width, height, length int16) *World {
	w := &World{
		Width:  width,
		Height: height,
		Length: length,
		Blocks: make([]byte, int(width)*int(height)*int(length)),
		Spawn:  Spawn{X: width / 2, Y: height / 2, Z: length / 2},
	}
	w.generateFlatMap()
	return w
}

// generateFlatMap fills the bottom half of the grid: grass on the top
// layer of the fill, dirt below it.
func (w *World) generateFlatMap() {
	for y := int16(0); y < w.Height/2; y++ {
		block := BlockGrass
		if y < w.Height/2-1 {
			block = BlockDirt
		}
		for z := int16(0); z < w.Length; z++ {
			for x := int16(0); x < w.Width; x++ {
				w.Blocks[w.index(x, y, z)] = block
			}
		}
	}
}

func (w *World) index(x, y, z int16) int {
	return int(x) + int(w.Width)*(int(z)+int(w.Length)*int(y))
}

func (w *World) inBounds(x, y, z int16) bool {
	return x >= 0 && x < w.Width &&
		y >= 0 && y < w.Height &&
		z >= 0 && z < w.Length
}

// SetBlock writes the block id at (x,y,z). Out-of-range coordinates are a
// no-op.
func (w *World) SetBlock(x, y, z int16, id byte) {
	if !w.inBounds(x, y, z) {
		return
	}
	w.Blocks[w.index(x, y, z)] = id
}

// GetBlock returns the block id at (x,y,z), or air for out-of-range
// coordinates.
func (w *World) GetBlock(x, y, z int16) byte {
	if !w.inBounds(x, y, z) {
		return BlockAir
	}
	return w.Blocks[w.index(x, y, z)]
}

// SpawnPoint returns the spawn location in subpixel units (1/32 of a
// world cell).
func (w *World) SpawnPoint() (x, y, z int16) {
	return w.Spawn.X * 32, w.Spawn.Y * 32, w.Spawn.Z * 32
}

// GzipLevel compresses the level payload: a big-endian int32 block count
// followed by the raw block grid.
func (w *World) GzipLevel() ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)

	var count [4]byte
	binary.BigEndian.PutUint32(count[:], uint32(len(w.Blocks)))
	if _, err := gz.Write(count[:]); err != nil {
		return nil, fmt.Errorf("compress level size: %w", err)
	}
	if _, err := gz.Write(w.Blocks); err != nil {
		return nil, fmt.Errorf("compress level blocks: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("flush level gzip: %w", err)
	}
	return buf.Bytes(), nil
}

// Send streams the level to a client: LevelInit, the gzipped payload in
// 1024-byte chunks with a running percentage, then LevelFinal with the
// world dimensions.
func (w *World) Send(wr io.Writer) error {
	if err := packet.WriteLevelInit(wr); err != nil {
		return fmt.Errorf("write level init: %w", err)
	}

	data, err := w.GzipLevel()
	if err != nil {
		return err
	}

	total := len(data)
	for sent := 0; sent < total; {
		count := total - sent
		if count > packet.ChunkSize {
			count = packet.ChunkSize
		}
		percent := byte((sent + count) * 100 / total)
		if err := packet.WriteLevelChunk(wr, data[sent:sent+count], percent); err != nil {
			return fmt.Errorf("write level chunk: %w", err)
		}
		sent += count
	}

	if err := packet.WriteLevelFinal(wr, w.Width, w.Height, w.Length); err != nil {
		return fmt.Errorf("write level final: %w", err)
	}
	return nil
}
