package app

import (
	"testing"
	"time"

	"retroarcade/internal/bus"
	"retroarcade/internal/cartridge"
	"retroarcade/internal/graphics"
)

func TestEmulatorStartRequiresROM(t *testing.T) {
	b := bus.New(nil, nil)
	e := NewEmulator(b)

	if e.Start() {
		t.Fatal("Start() should fail before a ROM is loaded")
	}
	if e.Update() {
		t.Error("Update() should not run while stopped")
	}

	if err := b.LoadROM(cartridge.NewTestROMBuilder().MustBuild()); err != nil {
		t.Fatal(err)
	}
	if !e.Start() || !e.IsRunning() {
		t.Fatal("Start() should succeed after loading")
	}
	if !e.Update() {
		t.Error("Update() should run a frame while running")
	}
	if b.GetCycleCount() != bus.CyclesPerFrame {
		t.Errorf("cycles = %d, want %d", b.GetCycleCount(), bus.CyclesPerFrame)
	}
}

func TestEmulatorStepFrameIgnoresRunningFlag(t *testing.T) {
	b := bus.New(nil, nil)
	if err := b.LoadROM(cartridge.NewTestROMBuilder().MustBuild()); err != nil {
		t.Fatal(err)
	}
	e := NewEmulator(b)

	e.StepFrame()
	e.StepFrame()

	if e.GetFrameCount() != 2 {
		t.Errorf("GetFrameCount() = %d, want 2", e.GetFrameCount())
	}
	if e.IsRunning() {
		t.Error("StepFrame() should not start the emulator")
	}

	e.Reset()
	if e.GetFrameCount() != 0 || b.GetCycleCount() != 0 {
		t.Errorf("after Reset: frames = %d, cycles = %d", e.GetFrameCount(), b.GetCycleCount())
	}
}

func TestFPSCounter(t *testing.T) {
	start := time.Unix(1000, 0)
	f := NewFPSCounter(start)

	steps := []struct {
		at      time.Duration
		fps     int
		updated bool
	}{
		{500 * time.Millisecond, 0, false},
		{1000 * time.Millisecond, 2, true},
		{1500 * time.Millisecond, 2, false},
		{2500 * time.Millisecond, 1, true}, // 2 ticks over 1.5s rounds to 1
	}

	for i, step := range steps {
		fps, updated := f.Tick(start.Add(step.at))
		if fps != step.fps || updated != step.updated {
			t.Errorf("tick %d: got (%d, %t), want (%d, %t)", i, fps, updated, step.fps, step.updated)
		}
	}
	if f.FPS() != 1 {
		t.Errorf("FPS() = %d, want 1", f.FPS())
	}
}

func TestFPSCounterSteadyRate(t *testing.T) {
	start := time.Unix(0, 0)
	f := NewFPSCounter(start)

	var fps int
	var updated bool
	for i := 1; i <= 60; i++ {
		fps, updated = f.Tick(start.Add(time.Duration(i) * time.Second / 60))
	}

	if !updated || fps != 60 {
		t.Errorf("after one second of 60 Hz ticks: (%d, %t), want (60, true)", fps, updated)
	}
}

func TestCircularTimingBuffer(t *testing.T) {
	ctb := NewCircularTimingBuffer(3)

	if ctb.GetAverage() != 0 {
		t.Error("empty buffer average should be 0")
	}

	for _, d := range []time.Duration{10, 20, 30, 40} {
		ctb.Add(d * time.Millisecond)
	}

	if ctb.Len() != 3 {
		t.Errorf("Len() = %d, want 3", ctb.Len())
	}
	// 10ms was overwritten by 40ms
	if got := ctb.GetAverage(); got != 30*time.Millisecond {
		t.Errorf("GetAverage() = %v, want 30ms", got)
	}

	ctb.Reset()
	if ctb.Len() != 0 {
		t.Errorf("Len() after Reset = %d", ctb.Len())
	}
}

func newHeadlessWindow(t *testing.T) *graphics.HeadlessWindow {
	t.Helper()

	backend := graphics.NewHeadlessBackend()
	if err := backend.Initialize(graphics.Config{OutputDir: t.TempDir()}); err != nil {
		t.Fatal(err)
	}
	w, err := backend.CreateWindow("test", graphics.FrameWidth, graphics.FrameHeight)
	if err != nil {
		t.Fatal(err)
	}
	return w.(*graphics.HeadlessWindow)
}

func TestFrameSink(t *testing.T) {
	var frame [graphics.FrameWidth * graphics.FrameHeight]uint32
	for i := range frame {
		frame[i] = 0xFF808080
	}

	t.Run("no window", func(t *testing.T) {
		sink := &frameSink{}
		if err := sink.RenderFrame(frame); err != nil {
			t.Errorf("RenderFrame() error: %v", err)
		}
		if sink.frames != 1 {
			t.Errorf("frames = %d, want 1", sink.frames)
		}
	})

	t.Run("identity processor", func(t *testing.T) {
		window := newHeadlessWindow(t)
		sink := &frameSink{window: window, processor: graphics.NewVideoProcessor(1, 1, 1)}

		if err := sink.RenderFrame(frame); err != nil {
			t.Fatal(err)
		}
		if window.LastFrame() != frame {
			t.Error("identity processor should pass frames through")
		}
	})

	t.Run("brightness applied", func(t *testing.T) {
		window := newHeadlessWindow(t)
		sink := &frameSink{window: window, processor: graphics.NewVideoProcessor(0.5, 1, 1)}

		if err := sink.RenderFrame(frame); err != nil {
			t.Fatal(err)
		}
		if window.LastFrame() == frame {
			t.Error("brightness 0.5 should change the frame")
		}
	})

	t.Run("clear", func(t *testing.T) {
		window := newHeadlessWindow(t)
		sink := &frameSink{window: window, processor: graphics.NewVideoProcessor(2, 1, 1)}

		if err := sink.clear(); err != nil {
			t.Fatal(err)
		}
		if window.LastFrame() != graphics.BlackFrame() {
			t.Error("clear() should present an unprocessed black frame")
		}
	})
}
