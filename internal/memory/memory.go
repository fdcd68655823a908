// Package memory implements the flat address space and video memory of the console.
package memory

// Address space layout
const (
	// Size is the number of addressable bytes
	Size = 0x10000

	// ProgramStart is where cartridge program data is placed
	ProgramStart = 0x8000
	// ProgramSize is the length of the program region ($8000-$FFFF)
	ProgramSize = 0x8000
	// BankSize is one 16KB program bank
	BankSize = 0x4000

	// InputRegister receives the controller bitmask every cycle step
	InputRegister = 0x4016

	// ResetVector holds the little-endian start address
	ResetVector = 0xFFFC
)

// Video memory sizes
const (
	VRAMSize    = 0x4000
	OAMSize     = 0x100
	PaletteSize = 0x20
)

// Memory represents the 64KB memory map. The zero value is ready to use.
type Memory struct {
	data [Size]uint8
}

// VideoMemory holds the picture unit's private buffers
type VideoMemory struct {
	vram    [VRAMSize]uint8
	oam     [OAMSize]uint8
	palette [PaletteSize]uint8
}

// Reader is the read side of the memory map
type Reader interface {
	Read(address uint16) uint8
}

// New creates a zero-filled Memory instance
func New() *Memory {
	return &Memory{}
}

// Read reads a byte from the given address
func (m *Memory) Read(address uint16) uint8 {
	return m.data[address]
}

// Write writes a byte to the given address
func (m *Memory) Write(address uint16, value uint8) {
	m.data[address] = value
}

// ReadWord reads a little-endian word. A high byte past the top of the
// address space reads as zero.
func (m *Memory) ReadWord(address uint16) uint16 {
	lo := uint16(m.data[address])
	if address == 0xFFFF {
		return lo
	}
	return lo | uint16(m.data[address+1])<<8
}

// Load copies data into memory starting at address. Bytes that would land
// past $FFFF are dropped. Returns the number of bytes copied.
func (m *Memory) Load(address uint16, data []uint8) int {
	return copy(m.data[address:], data)
}

// Mirror copies length bytes from src to dst inside the address space,
// capped at the top of memory.
func (m *Memory) Mirror(src, dst uint16, length int) int {
	end := int(src) + length
	if end > Size {
		end = Size
	}
	return copy(m.data[dst:], m.data[src:end])
}

// ClearRange zeroes length bytes starting at start, capped at the top of memory
func (m *Memory) ClearRange(start uint16, length int) {
	end := int(start) + length
	if end > Size {
		end = Size
	}
	clear(m.data[start:end])
}

// Clear zeroes the whole address space
func (m *Memory) Clear() {
	clear(m.data[:])
}

// Dump returns a copy of length bytes starting at start
func (m *Memory) Dump(start uint16, length int) []uint8 {
	end := int(start) + length
	if end > Size {
		end = Size
	}
	out := make([]uint8, end-int(start))
	copy(out, m.data[start:end])
	return out
}

// NewVideoMemory creates zero-filled video memory
func NewVideoMemory() *VideoMemory {
	return &VideoMemory{}
}

// ReadVRAM reads from video RAM ($0000-$3FFF)
func (vm *VideoMemory) ReadVRAM(address uint16) uint8 {
	return vm.vram[address&(VRAMSize-1)]
}

// WriteVRAM writes to video RAM ($0000-$3FFF)
func (vm *VideoMemory) WriteVRAM(address uint16, value uint8) {
	vm.vram[address&(VRAMSize-1)] = value
}

// LoadVRAM copies data to the start of video RAM, capped at its capacity
func (vm *VideoMemory) LoadVRAM(data []uint8) int {
	return copy(vm.vram[:], data)
}

// ReadOAM reads object attribute memory
func (vm *VideoMemory) ReadOAM(address uint8) uint8 {
	return vm.oam[address]
}

// WriteOAM writes object attribute memory
func (vm *VideoMemory) WriteOAM(address uint8, value uint8) {
	vm.oam[address] = value
}

// ReadPalette reads palette RAM; addresses mirror every 32 bytes
func (vm *VideoMemory) ReadPalette(address uint8) uint8 {
	return vm.palette[address&(PaletteSize-1)]
}

// WritePalette writes palette RAM; addresses mirror every 32 bytes
func (vm *VideoMemory) WritePalette(address uint8, value uint8) {
	vm.palette[address&(PaletteSize-1)] = value
}

// Clear zeroes VRAM, OAM and palette
func (vm *VideoMemory) Clear() {
	clear(vm.vram[:])
	clear(vm.oam[:])
	clear(vm.palette[:])
}

// DumpVRAM returns a copy of length bytes of VRAM starting at start
func (vm *VideoMemory) DumpVRAM(start uint16, length int) []uint8 {
	if int(start) >= VRAMSize {
		return nil
	}
	end := int(start) + length
	if end > VRAMSize {
		end = VRAMSize
	}
	out := make([]uint8, end-int(start))
	copy(out, vm.vram[start:end])
	return out
}
