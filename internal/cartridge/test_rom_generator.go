package cartridge

import (
	"fmt"
)

// TestROMConfig represents configuration for test ROM generation
type TestROMConfig struct {
	PRGSize      uint8            // PRG ROM size in 16KB units
	CHRSize      uint8            // CHR ROM size in 8KB units
	Instructions []uint8          // Program placed at the start of PRG ROM
	InitialData  map[uint16]uint8 // Data at specific PRG ROM offsets
	ResetVector  uint16           // Reset vector address (0 leaves it unset)
	CHRData      []uint8          // CHR ROM initial data
	Truncate     int              // Drop this many bytes from the end of the image
}

// TestROMBuilder provides a fluent interface for building test ROMs
type TestROMBuilder struct {
	config TestROMConfig
}

// NewTestROMBuilder creates a new test ROM builder with a 16KB program and
// 8KB of graphics
func NewTestROMBuilder() *TestROMBuilder {
	return &TestROMBuilder{
		config: TestROMConfig{
			PRGSize:     1,
			CHRSize:     1,
			InitialData: make(map[uint16]uint8),
			ResetVector: 0x8000,
		},
	}
}

// WithPRGSize sets the PRG ROM size in 16KB units
func (b *TestROMBuilder) WithPRGSize(size uint8) *TestROMBuilder {
	b.config.PRGSize = size
	return b
}

// WithCHRSize sets the CHR ROM size in 8KB units
func (b *TestROMBuilder) WithCHRSize(size uint8) *TestROMBuilder {
	b.config.CHRSize = size
	return b
}

// WithInstructions sets the program at the start of PRG ROM
func (b *TestROMBuilder) WithInstructions(instructions []uint8) *TestROMBuilder {
	b.config.Instructions = make([]uint8, len(instructions))
	copy(b.config.Instructions, instructions)
	return b
}

// WithData sets initial data at specific PRG ROM offsets
func (b *TestROMBuilder) WithData(offset uint16, data []uint8) *TestROMBuilder {
	for i, value := range data {
		b.config.InitialData[offset+uint16(i)] = value
	}
	return b
}

// WithResetVector sets the reset vector
func (b *TestROMBuilder) WithResetVector(address uint16) *TestROMBuilder {
	b.config.ResetVector = address
	return b
}

// WithCHRData sets the CHR ROM data
func (b *TestROMBuilder) WithCHRData(data []uint8) *TestROMBuilder {
	b.config.CHRData = make([]uint8, len(data))
	copy(b.config.CHRData, data)
	return b
}

// WithTruncation drops n bytes from the end of the built image
func (b *TestROMBuilder) WithTruncation(n int) *TestROMBuilder {
	b.config.Truncate = n
	return b
}

// Build generates the ROM data based on the current configuration
func (b *TestROMBuilder) Build() ([]byte, error) {
	return GenerateTestROM(b.config)
}

// MustBuild is Build for test tables
func (b *TestROMBuilder) MustBuild() []byte {
	rom, err := b.Build()
	if err != nil {
		panic(err)
	}
	return rom
}

// GenerateTestROM creates an iNES image based on the provided configuration
func GenerateTestROM(config TestROMConfig) ([]byte, error) {
	header := make([]byte, HeaderSize)
	copy(header, inesMagic[:])
	header[4] = config.PRGSize
	header[5] = config.CHRSize

	prgSize := int(config.PRGSize) * PRGUnitSize
	prgROM := make([]byte, prgSize)

	if len(config.Instructions) > prgSize {
		return nil, fmt.Errorf("instructions too large for PRG ROM (%d > %d)", len(config.Instructions), prgSize)
	}
	copy(prgROM, config.Instructions)

	for offset, value := range config.InitialData {
		if int(offset) < prgSize {
			prgROM[offset] = value
		}
	}

	// Reset vector sits 4 bytes before the end of the last bank
	if config.ResetVector != 0 && prgSize >= 4 {
		prgROM[prgSize-4] = uint8(config.ResetVector & 0xFF)
		prgROM[prgSize-3] = uint8(config.ResetVector >> 8)
	}

	chrROM := make([]byte, int(config.CHRSize)*CHRUnitSize)
	copy(chrROM, config.CHRData)

	result := append(header, prgROM...)
	result = append(result, chrROM...)

	if config.Truncate > 0 {
		if config.Truncate > len(result) {
			return nil, fmt.Errorf("cannot truncate %d bytes from a %d byte image", config.Truncate, len(result))
		}
		result = result[:len(result)-config.Truncate]
	}

	return result, nil
}

// GenerateGenericROM creates a headerless image of the given length filled
// with a repeating pattern, starting with program
func GenerateGenericROM(length int, program []uint8) []byte {
	rom := make([]byte, length)
	for i := range rom {
		rom[i] = uint8((i*13 + 7) % 251)
	}
	copy(rom, program)
	return rom
}
