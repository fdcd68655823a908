package app

import (
	"log"
	"math"
	"sync"
	"time"

	"retroarcade/internal/bus"
	"retroarcade/internal/debug"
	"retroarcade/internal/graphics"
)

// Emulator drives the engine from the host's refresh loop. Each Update runs
// at most one engine frame, and only while running.
type Emulator struct {
	bus *bus.Bus

	isRunning bool

	// Frames requested from the engine since the last reset
	frameCount uint64

	// Performance monitoring
	emulationTime time.Duration
	timingBuffer  *CircularTimingBuffer
	lastResetTime time.Time
}

// NewEmulator creates a stopped emulator for the given engine
func NewEmulator(b *bus.Bus) *Emulator {
	return &Emulator{
		bus:           b,
		timingBuffer:  NewCircularTimingBuffer(300), // 5 seconds at 60 FPS
		lastResetTime: time.Now(),
	}
}

// Start sets the running flag. It has no effect until a ROM is loaded.
func (e *Emulator) Start() bool {
	if !e.bus.IsLoaded() {
		return false
	}
	e.isRunning = true
	return true
}

// Stop clears the running flag
func (e *Emulator) Stop() {
	e.isRunning = false
}

// IsRunning reports whether Update advances the engine
func (e *Emulator) IsRunning() bool {
	return e.isRunning
}

// Reset stops the emulator and resets the engine
func (e *Emulator) Reset() {
	e.Stop()
	e.bus.Reset()

	e.frameCount = 0
	e.emulationTime = 0
	e.timingBuffer.Reset()
	e.lastResetTime = time.Now()
}

// Update runs one engine frame if running. Returns whether a frame ran.
func (e *Emulator) Update() bool {
	if !e.isRunning {
		return false
	}
	e.runFrame()
	return true
}

// StepFrame runs exactly one engine frame regardless of the running flag
func (e *Emulator) StepFrame() {
	e.runFrame()
}

func (e *Emulator) runFrame() {
	start := time.Now()

	e.bus.RunFrame()
	e.frameCount++

	e.emulationTime = time.Since(start)
	e.timingBuffer.Add(e.emulationTime)
}

// GetFrameCount returns the frames requested since the last reset
func (e *Emulator) GetFrameCount() uint64 {
	return e.frameCount
}

// GetEmulationTime returns the wall time of the last frame
func (e *Emulator) GetEmulationTime() time.Duration {
	return e.emulationTime
}

// GetAverageFrameTime returns the rolling average wall time per frame
func (e *Emulator) GetAverageFrameTime() time.Duration {
	return e.timingBuffer.GetAverage()
}

// GetUptime returns the time since the last reset
func (e *Emulator) GetUptime() time.Duration {
	return time.Since(e.lastResetTime)
}

// GetCPUState returns the current CPU state
func (e *Emulator) GetCPUState() bus.CPUState {
	return e.bus.GetCPUState()
}

// GetPPUState returns the current PPU state
func (e *Emulator) GetPPUState() bus.PPUState {
	return e.bus.GetPPUState()
}

// FPSCounter counts refreshes and publishes a rate once at least a second
// has passed
type FPSCounter struct {
	frames   int
	lastTime time.Time
	fps      int
}

// NewFPSCounter creates a counter whose first window starts at now
func NewFPSCounter(now time.Time) *FPSCounter {
	return &FPSCounter{lastTime: now}
}

// Tick records one refresh. When the window reaches one second it returns
// the rounded rate and true, and starts a new window.
func (f *FPSCounter) Tick(now time.Time) (int, bool) {
	f.frames++

	elapsed := now.Sub(f.lastTime)
	if elapsed < time.Second {
		return f.fps, false
	}

	f.fps = int(math.Round(float64(f.frames) * float64(time.Second) / float64(elapsed)))
	f.frames = 0
	f.lastTime = now
	return f.fps, true
}

// FPS returns the last published rate
func (f *FPSCounter) FPS() int {
	return f.fps
}

// Restart discards the current window
func (f *FPSCounter) Restart(now time.Time) {
	f.frames = 0
	f.lastTime = now
}

// frameSink is the engine's display. Frames go through the video processor
// and on to whichever window is attached.
type frameSink struct {
	window    graphics.Window
	processor *graphics.VideoProcessor
	dumper    *debug.FrameDumper
	frames    uint64
	debug     bool
}

// RenderFrame implements bus.Display
func (s *frameSink) RenderFrame(frameBuffer [graphics.FrameWidth * graphics.FrameHeight]uint32) error {
	s.frames++

	if s.dumper != nil {
		if err := s.dumper.DumpFrameBuffer(&frameBuffer, s.frames); err != nil {
			log.Printf("[APP_ERROR] Frame dump failed: %v", err)
		}
	}

	if s.window == nil {
		return nil
	}

	if s.processor != nil && !s.processor.IsIdentity() {
		frameBuffer = s.processor.ProcessFrame(frameBuffer)
	}

	if s.debug && s.frames%600 == 0 {
		log.Printf("[APP_DEBUG] Presented %d frames", s.frames)
	}

	return s.window.RenderFrame(frameBuffer)
}

// clear presents an opaque black frame, bypassing the video processor
func (s *frameSink) clear() error {
	if s.window == nil {
		return nil
	}
	return s.window.RenderFrame(graphics.BlackFrame())
}

// CircularTimingBuffer keeps the most recent durations
type CircularTimingBuffer struct {
	buffer   []time.Duration
	capacity int
	index    int
	size     int
	mu       sync.RWMutex
}

// NewCircularTimingBuffer creates a new circular timing buffer
func NewCircularTimingBuffer(capacity int) *CircularTimingBuffer {
	if capacity <= 0 {
		capacity = 1
	}
	return &CircularTimingBuffer{
		buffer:   make([]time.Duration, capacity),
		capacity: capacity,
	}
}

// Add adds a timing measurement to the buffer
func (ctb *CircularTimingBuffer) Add(duration time.Duration) {
	ctb.mu.Lock()
	defer ctb.mu.Unlock()

	ctb.buffer[ctb.index] = duration
	ctb.index = (ctb.index + 1) % ctb.capacity

	if ctb.size < ctb.capacity {
		ctb.size++
	}
}

// GetAverage calculates the average of stored durations
func (ctb *CircularTimingBuffer) GetAverage() time.Duration {
	ctb.mu.RLock()
	defer ctb.mu.RUnlock()

	if ctb.size == 0 {
		return 0
	}

	var total time.Duration
	for i := 0; i < ctb.size; i++ {
		total += ctb.buffer[i]
	}

	return total / time.Duration(ctb.size)
}

// Len returns the number of stored durations
func (ctb *CircularTimingBuffer) Len() int {
	ctb.mu.RLock()
	defer ctb.mu.RUnlock()

	return ctb.size
}

// Reset clears the buffer
func (ctb *CircularTimingBuffer) Reset() {
	ctb.mu.Lock()
	defer ctb.mu.Unlock()

	ctb.index = 0
	ctb.size = 0
}
