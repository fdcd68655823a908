// Package bus implements the engine that connects memory, CPU, PPU and input.
package bus

import (
	"log"

	"retroarcade/internal/cartridge"
	"retroarcade/internal/cpu"
	"retroarcade/internal/input"
	"retroarcade/internal/memory"
	"retroarcade/internal/ppu"
)

// CyclesPerFrame is the number of steps RunFrame executes
const CyclesPerFrame = 29780

// Display receives every completed frame
type Display interface {
	RenderFrame(frameBuffer [256 * 240]uint32) error
}

// InputSource is polled once per step for the button snapshot
type InputSource interface {
	State() input.State
}

// Bus owns every piece of emulated state and drives it
type Bus struct {
	// Core components
	CPU    *cpu.CPU
	PPU    *ppu.PPU
	Memory *memory.Memory

	// Collaborators
	display Display
	input   InputSource

	// Last loaded cartridge, nil before the first successful load
	cartridge *cartridge.Cartridge
	loaded    bool

	// System state
	totalCycles uint64
	frameCount  uint64

	// Execution logging for testing
	executionLog   []BusExecutionEvent
	loggingEnabled bool

	// Memory monitoring for debugging
	memoryWatchpoints map[uint16]uint8 // Address -> previous value
	watchpointLogging bool

	debugLogging bool
}

// New creates a new engine. display and input may be nil.
func New(display Display, input InputSource) *Bus {
	bus := &Bus{
		PPU:     ppu.New(),
		Memory:  memory.New(),
		display: display,
		input:   input,

		memoryWatchpoints: make(map[uint16]uint8),
	}

	bus.CPU = cpu.New(bus.Memory)

	bus.PPU.SetMemory(bus.Memory)
	bus.PPU.SetFrameCompleteCallback(bus.handleFrameComplete)

	bus.Reset()

	return bus
}

// LoadROM places a cartridge image into memory and resets. On error nothing
// is modified and the loaded flag keeps its previous value.
func (b *Bus) LoadROM(data []byte) error {
	cart, err := cartridge.Parse(data)
	if err != nil {
		log.Printf("[BUS] Rejected ROM: %v", err)
		return err
	}

	cart.Install(b.Memory, b.PPU.VideoMemory())
	b.cartridge = cart
	b.loaded = true

	switch cart.Format() {
	case cartridge.FormatINES:
		log.Printf("[BUS] Loaded iNES ROM: PRG=%d bytes, CHR=%d bytes, mapper=%d",
			cart.PRGSize(), cart.CHRSize(), cart.MapperID())
	default:
		log.Printf("[BUS] Loaded generic ROM: %d bytes", cart.PRGSize())
	}

	b.Reset()
	return nil
}

// Reset resets the CPU registers and the PPU counters
func (b *Bus) Reset() {
	b.CPU.Reset()
	b.PPU.Reset()

	b.totalCycles = 0
	b.frameCount = 0

	b.executionLog = b.executionLog[:0]

	if b.debugLogging {
		log.Printf("[BUS_DEBUG] Reset - PC: $%04X", b.CPU.PC)
	}
}

// IsLoaded reports whether a cartridge has been loaded successfully
func (b *Bus) IsLoaded() bool {
	return b.loaded
}

// Cartridge returns the last loaded cartridge, or nil
func (b *Bus) Cartridge() *cartridge.Cartridge {
	return b.cartridge
}

// handleFrameComplete is called by the PPU with every finished frame
func (b *Bus) handleFrameComplete(frameBuffer ppu.FrameBuffer) {
	b.frameCount = b.PPU.GetFrameCount()

	if b.watchpointLogging {
		b.CheckMemoryWatchpoints()
	}

	if b.display == nil {
		return
	}
	if err := b.display.RenderFrame(frameBuffer); err != nil {
		log.Printf("[BUS] Display error on frame %d: %v", b.frameCount, err)
	}
}

// Step executes one CPU step, one PPU step and one input poll
func (b *Bus) Step() {
	prePC := b.CPU.PC
	var preOpcode uint8
	if b.loggingEnabled {
		preOpcode = b.Memory.Read(prePC)
	}

	b.CPU.Step()
	b.PPU.Step()
	b.pollInput()

	b.totalCycles++

	if b.loggingEnabled {
		b.executionLog = append(b.executionLog, BusExecutionEvent{
			StepNumber:    len(b.executionLog) + 1,
			Cycles:        b.totalCycles,
			FrameCount:    b.PPU.GetFrameCount(),
			PCValue:       prePC,
			InstructionOp: preOpcode,
			InputByte:     b.Memory.Read(memory.InputRegister),
		})
	}
}

// pollInput writes the current button snapshot to the input register
func (b *Bus) pollInput() {
	var state input.State
	if b.input != nil {
		state = b.input.State()
	}
	b.Memory.Write(memory.InputRegister, state.Mask())
}

// RunFrame executes exactly CyclesPerFrame steps. It does nothing until a
// cartridge has been loaded.
func (b *Bus) RunFrame() {
	if !b.loaded {
		return
	}

	for i := 0; i < CyclesPerFrame; i++ {
		b.Step()
	}
}

// Run calls RunFrame the given number of times
func (b *Bus) Run(frames int) {
	for i := 0; i < frames; i++ {
		b.RunFrame()
	}
}

// GetFrameBuffer returns the last rendered frame
func (b *Bus) GetFrameBuffer() []uint32 {
	frameBuffer := b.PPU.GetFrameBuffer()
	return frameBuffer[:]
}

// GetCycleCount returns the number of steps since reset
func (b *Bus) GetCycleCount() uint64 {
	return b.totalCycles
}

// GetFrameCount returns the number of frames rendered since reset
func (b *Bus) GetFrameCount() uint64 {
	return b.frameCount
}

// GetExecutionLog returns execution log for integration testing
func (b *Bus) GetExecutionLog() []BusExecutionEvent {
	return b.executionLog
}

// EnableExecutionLogging enables execution logging for testing
func (b *Bus) EnableExecutionLogging() {
	b.loggingEnabled = true
}

// DisableExecutionLogging disables execution logging
func (b *Bus) DisableExecutionLogging() {
	b.loggingEnabled = false
}

// ClearExecutionLog clears the execution log
func (b *Bus) ClearExecutionLog() {
	b.executionLog = b.executionLog[:0]
}

// BusExecutionEvent represents a single execution step for testing
type BusExecutionEvent struct {
	StepNumber    int
	Cycles        uint64
	FrameCount    uint64
	PCValue       uint16
	InstructionOp uint8
	InputByte     uint8
}

// GetCPUState returns the current CPU state
func (b *Bus) GetCPUState() CPUState {
	return CPUState{
		PC:     b.CPU.PC,
		A:      b.CPU.A,
		X:      b.CPU.X,
		Y:      b.CPU.Y,
		SP:     b.CPU.SP,
		Status: b.CPU.Status,
		Cycles: b.totalCycles,
	}
}

// CPUState represents CPU state snapshot
type CPUState struct {
	PC      uint16
	A, X, Y uint8
	SP      uint8
	Status  uint8
	Cycles  uint64
}

// GetPPUState returns the current PPU state
func (b *Bus) GetPPUState() PPUState {
	return PPUState{
		Scanline:   b.PPU.GetScanline(),
		Cycle:      b.PPU.GetCycle(),
		FrameCount: b.PPU.GetFrameCount(),
	}
}

// PPUState represents PPU state snapshot
type PPUState struct {
	Scanline   int
	Cycle      int
	FrameCount uint64
}

// AddMemoryWatchpoint adds a memory address to monitor for changes
func (b *Bus) AddMemoryWatchpoint(address uint16) {
	b.memoryWatchpoints[address] = b.Memory.Read(address)
}

// EnableWatchpointLogging enables/disables memory watchpoint logging
func (b *Bus) EnableWatchpointLogging(enabled bool) {
	b.watchpointLogging = enabled
}

// CheckMemoryWatchpoints checks all watchpoints for changes and logs them.
// Returns the number of addresses that changed.
func (b *Bus) CheckMemoryWatchpoints() int {
	changed := 0
	for address, previousValue := range b.memoryWatchpoints {
		currentValue := b.Memory.Read(address)
		if currentValue != previousValue {
			log.Printf("[MEMORY_WATCH] Frame %d: $%04X changed from $%02X to $%02X (%s)",
				b.frameCount, address, previousValue, currentValue, describeAddress(address))
			b.memoryWatchpoints[address] = currentValue
			changed++
		}
	}
	return changed
}

// describeAddress returns a human-readable name for a memory region
func describeAddress(address uint16) string {
	switch {
	case address == memory.InputRegister:
		return "Input register"
	case address >= memory.ResetVector && address <= memory.ResetVector+1:
		return "Reset vector"
	case address >= memory.ProgramStart+memory.BankSize:
		return "Program (upper bank)"
	case address >= memory.ProgramStart:
		return "Program (lower bank)"
	case address <= 0x00FF:
		return "Zero page"
	case address <= 0x01FF:
		return "Stack"
	default:
		return "RAM"
	}
}

// EnableCPUDebug enables/disables CPU trace logging
func (b *Bus) EnableCPUDebug(enable bool) {
	b.CPU.EnableDebugLogging(enable)
}

// EnableDebugLogging enables/disables engine and PPU debug logging
func (b *Bus) EnableDebugLogging(enable bool) {
	b.debugLogging = enable
	b.PPU.EnableDebugLogging(enable)
}
