package graphics

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"retroarcade/internal/ppu"
)

func newHeadlessWindow(t *testing.T, config Config) *HeadlessWindow {
	t.Helper()
	backend := NewHeadlessBackend()
	if err := backend.Initialize(config); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	window, err := backend.CreateWindow("test", FrameWidth, FrameHeight)
	if err != nil {
		t.Fatalf("CreateWindow failed: %v", err)
	}
	return window.(*HeadlessWindow)
}

func TestHeadlessBackend_Lifecycle(t *testing.T) {
	backend := NewHeadlessBackend()

	if _, err := backend.CreateWindow("test", 256, 240); err == nil {
		t.Error("Expected error creating a window before Initialize")
	}
	if err := backend.Initialize(Config{}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := backend.Initialize(Config{}); err == nil {
		t.Error("Expected error on double initialization")
	}
	if !backend.IsHeadless() {
		t.Error("Headless backend must report headless")
	}
	if err := backend.Cleanup(); err != nil {
		t.Errorf("Cleanup failed: %v", err)
	}
}

func TestHeadlessWindow_DumpsSelectedFrames(t *testing.T) {
	dir := t.TempDir()
	window := newHeadlessWindow(t, Config{OutputDir: dir, DumpFrames: []int{2}})

	frame := BlackFrame()
	frame[0] = ppu.PackPixel(0x10, 0x20, 0x30)
	frame[FrameWidth*FrameHeight-1] = ppu.PackPixel(0xFF, 0x00, 0x80)

	for i := 0; i < 3; i++ {
		if err := window.RenderFrame(frame); err != nil {
			t.Fatalf("RenderFrame %d failed: %v", i, err)
		}
	}

	if window.GetFrameCount() != 3 {
		t.Errorf("Expected 3 frames, got %d", window.GetFrameCount())
	}
	if len(window.SavedFiles()) != 1 {
		t.Fatalf("Expected 1 saved file, got %v", window.SavedFiles())
	}

	data, err := os.ReadFile(filepath.Join(dir, "frame_002.ppm"))
	if err != nil {
		t.Fatalf("Frame dump missing: %v", err)
	}

	header := []byte("P6\n256 240\n255\n")
	if !bytes.HasPrefix(data, header) {
		t.Fatalf("Unexpected PPM header %q", data[:len(header)])
	}
	pixels := data[len(header):]
	if len(pixels) != FrameWidth*FrameHeight*3 {
		t.Fatalf("Expected %d pixel bytes, got %d", FrameWidth*FrameHeight*3, len(pixels))
	}
	if !bytes.Equal(pixels[:3], []byte{0x10, 0x20, 0x30}) {
		t.Errorf("First pixel = % X, want 10 20 30", pixels[:3])
	}
	if !bytes.Equal(pixels[len(pixels)-3:], []byte{0xFF, 0x00, 0x80}) {
		t.Errorf("Last pixel = % X, want FF 00 80", pixels[len(pixels)-3:])
	}
}

func TestHeadlessWindow_KeepsLastFrame(t *testing.T) {
	window := newHeadlessWindow(t, Config{OutputDir: t.TempDir()})

	frame := BlackFrame()
	frame[100] = 0xFF0000FF
	window.RenderFrame(frame)
	frame[100] = 0 // caller's copy only

	if window.LastFrame()[100] != 0xFF0000FF {
		t.Error("Window did not keep its own copy of the frame")
	}
	if len(window.SavedFiles()) != 0 {
		t.Error("No frames were selected for dumping")
	}
}

func TestHeadlessWindow_BadOutputDir(t *testing.T) {
	window := newHeadlessWindow(t, Config{DumpFrames: []int{1}})
	window.SetOutputDir(filepath.Join(t.TempDir(), "missing", "dir"))

	if err := window.RenderFrame(BlackFrame()); err == nil {
		t.Error("Expected error writing into a missing directory")
	}
}
