package world

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/qubiq/classic-server/internal/server/world/nbt"
)

// documentName is the root compound name of the tagged world format.
const documentName = "ClassicWorld"

// formatVersion is the tagged format revision this server writes.
const formatVersion int8 = 1

// Save writes the world in the tagged format: a gzip stream holding a
// "ClassicWorld" document with dimensions, the block array and the spawn.
func (w *World) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create world directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create world file: %w", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	tw := nbt.NewWriter(gz)

	tw.BeginCompound(documentName)
	tw.WriteByteTag("FormatVersion", formatVersion)
	tw.WriteShort("X", w.Width)
	tw.WriteShort("Y", w.Height)
	tw.WriteShort("Z", w.Length)
	tw.WriteByteArray("BlockArray", w.Blocks)
	tw.BeginCompound("Spawn")
	tw.WriteShort("X", w.Spawn.X)
	tw.WriteShort("Y", w.Spawn.Y)
	tw.WriteShort("Z", w.Spawn.Z)
	tw.EndCompound()
	tw.EndCompound()

	if err := tw.Err(); err != nil {
		return fmt.Errorf("write world document: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("flush world gzip: %w", err)
	}
	return f.Close()
}

// Load reads a tagged-format world file. Unknown document entries are
// ignored.
func Load(path string) (*World, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open world file: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("open world gzip: %w", err)
	}
	defer gz.Close()

	_, root, err := nbt.Read(gz)
	if err != nil {
		return nil, fmt.Errorf("parse world document: %w", err)
	}

	w := &World{
		Width:  root.Short("X", 1),
		Height: root.Short("Y", 1),
		Length: root.Short("Z", 1),
		Blocks: root.ByteArray("BlockArray"),
		Spawn:  Spawn{X: 1, Y: 1, Z: 1},
	}
	if spawn := root.Compound("Spawn"); spawn != nil {
		w.Spawn = Spawn{
			X: spawn.Short("X", 1),
			Y: spawn.Short("Y", 1),
			Z: spawn.Short("Z", 1),
		}
	}

	if want := int(w.Width) * int(w.Height) * int(w.Length); len(w.Blocks) != want {
		return nil, fmt.Errorf("world file corrupt: %d blocks for %dx%dx%d grid",
			len(w.Blocks), w.Width, w.Height, w.Length)
	}
	return w, nil
}

// SaveRaw writes the world in the simple format: a gzip stream holding the
// three dimension shorts followed by the raw block grid.
func (w *World) SaveRaw(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create world file: %w", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	for _, dim := range []int16{w.Width, w.Height, w.Length} {
		if err := binary.Write(gz, binary.BigEndian, dim); err != nil {
			return fmt.Errorf("write world dimensions: %w", err)
		}
	}
	if _, err := gz.Write(w.Blocks); err != nil {
		return fmt.Errorf("write world blocks: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("flush world gzip: %w", err)
	}
	return f.Close()
}

// LoadRaw reads a simple-format world file. The spawn is centered since
// the format does not carry one.
func LoadRaw(path string) (*World, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open world file: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("open world gzip: %w", err)
	}
	defer gz.Close()

	var width, height, length int16
	for _, dim := range []*int16{&width, &height, &length} {
		if err := binary.Read(gz, binary.BigEndian, dim); err != nil {
			return nil, fmt.Errorf("read world dimensions: %w", err)
		}
	}
	if width < 1 || height < 1 || length < 1 {
		return nil, fmt.Errorf("world file corrupt: %dx%dx%d grid", width, height, length)
	}

	blocks := make([]byte, int(width)*int(height)*int(length))
	if _, err := io.ReadFull(gz, blocks); err != nil {
		return nil, fmt.Errorf("read world blocks: %w", err)
	}

	return &World{
		Width:  width,
		Height: height,
		Length: length,
		Blocks: blocks,
		Spawn:  Spawn{X: width / 2, Y: height / 2, Z: length / 2},
	}, nil
}

// LoadFile reads a world file, picking the format from the extension:
// ".cw" is the tagged format, anything else the simple one.
func LoadFile(path string) (*World, error) {
	if strings.EqualFold(filepath.Ext(path), ".cw") {
		return Load(path)
	}
	return LoadRaw(path)
}
