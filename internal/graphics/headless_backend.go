package graphics

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"retroarcade/internal/ppu"
)

// HeadlessBackend implements the Backend interface for headless operation
type HeadlessBackend struct {
	initialized bool
	config      Config
}

// HeadlessWindow implements the Window interface for headless operation.
// Selected frames are written to disk as PPM images.
type HeadlessWindow struct {
	title      string
	width      int
	height     int
	running    bool
	frameCount int
	outputDir  string
	dumpFrames map[int]bool
	lastFrame  [FrameWidth * FrameHeight]uint32
	saved      []string
	debug      bool
}

// NewHeadlessBackend creates a new headless graphics backend
func NewHeadlessBackend() Backend {
	return &HeadlessBackend{}
}

// Initialize initializes the headless backend
func (b *HeadlessBackend) Initialize(config Config) error {
	if b.initialized {
		return errors.New("headless backend already initialized")
	}

	b.config = config
	b.initialized = true

	return nil
}

// CreateWindow creates a headless "window" (no actual window)
func (b *HeadlessBackend) CreateWindow(title string, width, height int) (Window, error) {
	if !b.initialized {
		return nil, errors.New("backend not initialized")
	}

	w := &HeadlessWindow{
		title:      title,
		width:      width,
		height:     height,
		running:    true,
		outputDir:  b.config.OutputDir,
		dumpFrames: make(map[int]bool),
		debug:      b.config.Debug,
	}
	if w.outputDir == "" {
		w.outputDir = "."
	}
	w.SetDumpFrames(b.config.DumpFrames)

	return w, nil
}

// Cleanup releases all headless resources
func (b *HeadlessBackend) Cleanup() error {
	b.initialized = false
	return nil
}

// IsHeadless returns true (this is a headless backend)
func (b *HeadlessBackend) IsHeadless() bool {
	return true
}

// GetName returns the backend name
func (b *HeadlessBackend) GetName() string {
	return "Headless"
}

// SetTitle sets the window title (for logging purposes)
func (w *HeadlessWindow) SetTitle(title string) {
	w.title = title
}

// GetSize returns window dimensions
func (w *HeadlessWindow) GetSize() (width, height int) {
	return w.width, w.height
}

// ShouldClose returns true if window should close
func (w *HeadlessWindow) ShouldClose() bool {
	return !w.running
}

// SwapBuffers does nothing in headless mode
func (w *HeadlessWindow) SwapBuffers() {}

// PollEvents returns empty events list (no input in headless mode)
func (w *HeadlessWindow) PollEvents() []InputEvent {
	return nil
}

// RenderFrame keeps the frame and saves it if its number was selected
func (w *HeadlessWindow) RenderFrame(frameBuffer [FrameWidth * FrameHeight]uint32) error {
	w.frameCount++
	w.lastFrame = frameBuffer

	if !w.dumpFrames[w.frameCount] {
		return nil
	}

	filename := filepath.Join(w.outputDir, fmt.Sprintf("frame_%03d.ppm", w.frameCount))
	if err := w.saveFrameAsPPM(&frameBuffer, filename); err != nil {
		return err
	}
	w.saved = append(w.saved, filename)

	if w.debug {
		log.Printf("[HEADLESS] Saved frame %d to %s", w.frameCount, filename)
	}
	return nil
}

// saveFrameAsPPM saves the frame buffer as a binary PPM image file
func (w *HeadlessWindow) saveFrameAsPPM(frameBuffer *[FrameWidth * FrameHeight]uint32, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "failed to create file %s", filename)
	}
	defer file.Close()

	out := bufio.NewWriter(file)
	fmt.Fprintf(out, "P6\n%d %d\n255\n", FrameWidth, FrameHeight)

	for _, pixel := range frameBuffer {
		r, g, b, _ := ppu.UnpackPixel(pixel)
		out.Write([]byte{r, g, b})
	}

	return errors.Wrapf(out.Flush(), "failed to write %s", filename)
}

// Cleanup releases window resources
func (w *HeadlessWindow) Cleanup() error {
	w.running = false
	return nil
}

// SetOutputDir sets the directory frame dumps are written to
func (w *HeadlessWindow) SetOutputDir(dir string) {
	w.outputDir = dir
}

// SetDumpFrames selects which frame numbers (1-based) are saved
func (w *HeadlessWindow) SetDumpFrames(frames []int) {
	w.dumpFrames = make(map[int]bool, len(frames))
	for _, frame := range frames {
		w.dumpFrames[frame] = true
	}
}

// GetFrameCount returns the number of frames received
func (w *HeadlessWindow) GetFrameCount() int {
	return w.frameCount
}

// LastFrame returns the most recent frame received
func (w *HeadlessWindow) LastFrame() [FrameWidth * FrameHeight]uint32 {
	return w.lastFrame
}

// SavedFiles returns the paths of every frame dump written so far
func (w *HeadlessWindow) SavedFiles() []string {
	return w.saved
}
