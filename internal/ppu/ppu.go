// Package ppu implements the picture unit: scan timing counters, video
// memory, and the synthetic frame generator.
package ppu

import (
	"log"

	"retroarcade/internal/memory"
)

// Output and timing constants
const (
	ScreenWidth  = 256
	ScreenHeight = 240

	// CyclesPerScanline is the cycle counter wrap threshold
	CyclesPerScanline = 341
	// ScanlinesPerFrame is the scanline counter wrap threshold
	ScanlinesPerFrame = 262
	// CyclesPerFrame is the number of steps between two rendered frames
	CyclesPerFrame = CyclesPerScanline * ScanlinesPerFrame

	// Program memory window sampled by the frame generator
	sampleBase = 0x8000
	sampleMask = 0x7FFF
)

// FrameBuffer is one complete picture in packed ABGR pixels
type FrameBuffer = [ScreenWidth * ScreenHeight]uint32

// PPU represents the picture unit
type PPU struct {
	// Video memory is owned by the PPU; the loader writes graphics data into it
	memory *memory.VideoMemory

	// Program memory sampled when producing a frame
	program memory.Reader

	// Scan state
	cycle      int    // 0..340
	scanline   int    // 0..261
	frameCount uint64 // monotonic

	// Timing
	cycleCount uint64

	// Frame Buffer
	frameBuffer FrameBuffer

	// Callbacks
	frameCompleteCallback func(FrameBuffer)

	debugLogging bool
}

// New creates a new PPU instance with zeroed video memory
func New() *PPU {
	return &PPU{
		memory: memory.NewVideoMemory(),
	}
}

// Reset zeroes the scan counters. Video memory and the last frame are kept.
func (p *PPU) Reset() {
	p.cycle = 0
	p.scanline = 0
	p.frameCount = 0
	p.cycleCount = 0
}

// SetMemory sets the program memory the frame generator samples
func (p *PPU) SetMemory(program memory.Reader) {
	p.program = program
}

// VideoMemory returns the PPU's VRAM/OAM/palette buffers
func (p *PPU) VideoMemory() *memory.VideoMemory {
	return p.memory
}

// SetFrameCompleteCallback sets the function that receives every finished frame.
// The buffer is passed by value.
func (p *PPU) SetFrameCompleteCallback(callback func(FrameBuffer)) {
	p.frameCompleteCallback = callback
}

// EnableDebugLogging enables/disables frame completion logging
func (p *PPU) EnableDebugLogging(enable bool) {
	p.debugLogging = enable
}

// Step advances the PPU by one cycle
func (p *PPU) Step() {
	p.cycleCount++

	p.cycle++
	if p.cycle < CyclesPerScanline {
		return
	}

	p.cycle = 0
	p.scanline++
	if p.scanline < ScanlinesPerFrame {
		return
	}

	p.scanline = 0
	p.frameCount++
	p.renderFrame()

	if p.debugLogging {
		log.Printf("[PPU_DEBUG] Frame %d complete after %d cycles", p.frameCount, p.cycleCount)
	}

	if p.frameCompleteCallback != nil {
		p.frameCompleteCallback(p.frameBuffer)
	}
}

// renderFrame fills the frame buffer from program memory and the frame count
func (p *PPU) renderFrame() {
	frame := uint8(p.frameCount)

	for y := 0; y < ScreenHeight; y++ {
		for x := 0; x < ScreenWidth; x++ {
			var value uint8
			if p.program != nil {
				value = p.program.Read(uint16(sampleBase + ((x + y*ScreenWidth) & sampleMask)))
			}

			r := value + frame
			g := value*2 + uint8(x)
			b := value*3 + uint8(y)

			p.frameBuffer[y*ScreenWidth+x] = PackPixel(r, g, b)
		}
	}
}

// PackPixel packs an opaque color as alpha, blue, green, red from high to low byte
func PackPixel(r, g, b uint8) uint32 {
	return 0xFF<<24 | uint32(b)<<16 | uint32(g)<<8 | uint32(r)
}

// UnpackPixel splits a packed pixel into its channels
func UnpackPixel(pixel uint32) (r, g, b, a uint8) {
	return uint8(pixel), uint8(pixel >> 8), uint8(pixel >> 16), uint8(pixel >> 24)
}

// GetFrameBuffer returns a copy of the last rendered frame
func (p *PPU) GetFrameBuffer() FrameBuffer {
	return p.frameBuffer
}

// ClearFrameBuffer fills the frame buffer with a single color
func (p *PPU) ClearFrameBuffer(color uint32) {
	for i := range p.frameBuffer {
		p.frameBuffer[i] = color
	}
}

// GetFrameCount returns the current frame count
func (p *PPU) GetFrameCount() uint64 {
	return p.frameCount
}

// GetScanline returns the current scanline
func (p *PPU) GetScanline() int {
	return p.scanline
}

// GetCycle returns the current cycle
func (p *PPU) GetCycle() int {
	return p.cycle
}

// GetCycleCount returns the total PPU cycle count since reset
func (p *PPU) GetCycleCount() uint64 {
	return p.cycleCount
}
