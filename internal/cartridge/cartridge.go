// Package cartridge implements ROM parsing and placement for console cartridges.
package cartridge

import (
	"bytes"
	"encoding/binary"

	"retroarcade/internal/memory"
)

// Image layout constants
const (
	HeaderSize  = 16
	PRGUnitSize = 16384 // program bank, 16KB
	CHRUnitSize = 8192  // graphics bank, 8KB
)

// Format identifies how a cartridge image is placed into memory
type Format uint8

const (
	// FormatGeneric copies the raw image to $8000 with no header interpretation
	FormatGeneric Format = iota
	// FormatINES is an image carrying the "NES\x1A" header
	FormatINES
)

// String returns a short name for the format
func (f Format) String() string {
	switch f {
	case FormatINES:
		return "iNES"
	default:
		return "generic"
	}
}

var inesMagic = [4]uint8{'N', 'E', 'S', 0x1A}

// iNES header structure
type iNESHeader struct {
	Magic      [4]uint8
	PRGROMSize uint8 // in 16KB units
	CHRROMSize uint8 // in 8KB units
	Flags6     uint8
	Flags7     uint8
	PRGRAMSize uint8
	TVSystem1  uint8
	TVSystem2  uint8
	Padding    [5]uint8
}

// Cartridge is a parsed cartridge image. It owns copies of the bytes it will
// place and never references the caller's slice.
type Cartridge struct {
	format Format
	size   int

	// Data to place at $8000 and into VRAM, already capped
	prgROM []uint8
	chrROM []uint8

	// Header information (iNES only)
	prgUnits uint8
	chrUnits uint8
	mapperID uint8

	// Single 16KB bank appears at both $8000 and $C000
	mirrorPRG bool
}

// DetectFormat maps the leading signature bytes to a placement format
func DetectFormat(data []byte) Format {
	if len(data) >= len(inesMagic) && bytes.Equal(data[:len(inesMagic)], inesMagic[:]) {
		return FormatINES
	}
	return FormatGeneric
}

// Parse validates a raw cartridge image and prepares its placement. The
// only failure is an image shorter than the header.
func Parse(data []byte) (*Cartridge, error) {
	if len(data) < HeaderSize {
		return nil, &LoadError{Kind: TooSmall, Size: len(data)}
	}

	cart := &Cartridge{
		format: DetectFormat(data),
		size:   len(data),
	}

	switch cart.format {
	case FormatINES:
		cart.parseINES(data)
	default:
		cart.parseGeneric(data)
	}

	return cart, nil
}

// parseINES reads the header and slices program and graphics data
func (c *Cartridge) parseINES(data []byte) {
	var header iNESHeader
	// Cannot fail: Parse guarantees at least HeaderSize bytes
	_ = binary.Read(bytes.NewReader(data[:HeaderSize]), binary.LittleEndian, &header)

	c.prgUnits = header.PRGROMSize
	c.chrUnits = header.CHRROMSize
	c.mapperID = (header.Flags6 >> 4) | (header.Flags7 & 0xF0)

	prgSize := int(header.PRGROMSize) * PRGUnitSize
	chrSize := int(header.CHRROMSize) * CHRUnitSize

	c.prgROM = copyCapped(data, HeaderSize, prgSize, memory.ProgramSize)
	c.mirrorPRG = prgSize == PRGUnitSize

	// Graphics data follows the declared program size, even when the
	// program data itself was truncated
	c.chrROM = copyCapped(data, HeaderSize+prgSize, chrSize, memory.VRAMSize)
}

// parseGeneric takes the raw image with no header interpretation
func (c *Cartridge) parseGeneric(data []byte) {
	c.prgROM = copyCapped(data, 0, len(data), memory.ProgramSize)
}

// copyCapped copies up to min(length, limit) bytes of data starting at
// offset, stopping at the end of data
func copyCapped(data []byte, offset, length, limit int) []uint8 {
	if length > limit {
		length = limit
	}
	if offset >= len(data) || length <= 0 {
		return nil
	}
	end := offset + length
	if end > len(data) {
		end = len(data)
	}
	out := make([]uint8, end-offset)
	copy(out, data[offset:end])
	return out
}

// Install places the cartridge into the memory map and video RAM. The
// program region and VRAM are zeroed first so no bytes from a previously
// installed image survive.
func (c *Cartridge) Install(mem *memory.Memory, vram *memory.VideoMemory) {
	mem.ClearRange(memory.ProgramStart, memory.ProgramSize)
	vram.Clear()

	mem.Load(memory.ProgramStart, c.prgROM)

	if c.format != FormatINES {
		return
	}

	if c.mirrorPRG {
		mem.Mirror(memory.ProgramStart, memory.ProgramStart+memory.BankSize, memory.BankSize)
	}

	vram.LoadVRAM(c.chrROM)
}

// Format returns the detected placement format
func (c *Cartridge) Format() Format {
	return c.format
}

// Size returns the length of the original image in bytes
func (c *Cartridge) Size() int {
	return c.size
}

// PRGSize returns the number of program bytes placed at $8000
func (c *Cartridge) PRGSize() int {
	return len(c.prgROM)
}

// CHRSize returns the number of graphics bytes placed in VRAM
func (c *Cartridge) CHRSize() int {
	return len(c.chrROM)
}

// PRGUnits returns the header's program bank count (iNES only)
func (c *Cartridge) PRGUnits() uint8 {
	return c.prgUnits
}

// CHRUnits returns the header's graphics bank count (iNES only)
func (c *Cartridge) CHRUnits() uint8 {
	return c.chrUnits
}

// MapperID returns the mapper number from the header. Mappers are not
// emulated; every image is placed bodily.
func (c *Cartridge) MapperID() uint8 {
	return c.mapperID
}

// IsMirrored reports whether the single program bank is mirrored to $C000
func (c *Cartridge) IsMirrored() bool {
	return c.mirrorPRG
}
