package graphics

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"retroarcade/internal/ppu"
)

// Shades from dark to bright
const terminalShades = " .:-=+*#%@"

// TerminalBackend implements the Backend interface for terminal-based rendering
type TerminalBackend struct {
	initialized bool
	config      Config
}

// TerminalWindow implements the Window interface for terminal rendering
type TerminalWindow struct {
	title   string
	width   int
	height  int
	running bool
	out     io.Writer
	status  Status
}

// NewTerminalBackend creates a new terminal graphics backend
func NewTerminalBackend() Backend {
	return &TerminalBackend{}
}

// Initialize initializes the terminal backend
func (b *TerminalBackend) Initialize(config Config) error {
	if b.initialized {
		return errors.New("terminal backend already initialized")
	}

	b.config = config
	b.initialized = true

	return nil
}

// CreateWindow creates a terminal "window"
func (b *TerminalBackend) CreateWindow(title string, width, height int) (Window, error) {
	if !b.initialized {
		return nil, errors.New("backend not initialized")
	}

	return &TerminalWindow{
		title:   title,
		width:   width,
		height:  height,
		running: true,
		out:     os.Stdout,
	}, nil
}

// Cleanup releases all terminal resources
func (b *TerminalBackend) Cleanup() error {
	b.initialized = false
	return nil
}

// IsHeadless returns false (terminal has basic output)
func (b *TerminalBackend) IsHeadless() bool {
	return false
}

// GetName returns the backend name
func (b *TerminalBackend) GetName() string {
	return "Terminal"
}

// SetTitle sets the terminal title
func (w *TerminalWindow) SetTitle(title string) {
	w.title = title
	fmt.Fprintf(w.out, "\033]0;%s\007", title)
}

// GetSize returns window dimensions
func (w *TerminalWindow) GetSize() (width, height int) {
	return w.width, w.height
}

// ShouldClose returns true if window should close
func (w *TerminalWindow) ShouldClose() bool {
	return !w.running
}

// SwapBuffers does nothing for terminal
func (w *TerminalWindow) SwapBuffers() {}

// PollEvents returns empty events list (no input handling for now)
func (w *TerminalWindow) PollEvents() []InputEvent {
	return nil
}

// SetStatus sets the line printed under each frame
func (w *TerminalWindow) SetStatus(status Status) {
	w.status = status
}

// RenderFrame renders the frame as ASCII shading, one character per 4x8 block
func (w *TerminalWindow) RenderFrame(frameBuffer [FrameWidth * FrameHeight]uint32) error {
	var sb strings.Builder
	sb.WriteString("\033[2J\033[H")
	sb.WriteString(RenderASCII(&frameBuffer, 4, 8))
	fmt.Fprintf(&sb, "FPS: %d  %s\n", w.status.FPS, w.status.Message)

	_, err := io.WriteString(w.out, sb.String())
	return errors.Wrap(err, "terminal write failed")
}

// RenderASCII samples every stepX-th column of every stepY-th row and maps
// its luminance to a shade character
func RenderASCII(frameBuffer *[FrameWidth * FrameHeight]uint32, stepX, stepY int) string {
	var sb strings.Builder
	for y := 0; y < FrameHeight; y += stepY {
		for x := 0; x < FrameWidth; x += stepX {
			r, g, b, _ := ppu.UnpackPixel(frameBuffer[y*FrameWidth+x])
			luma := (299*int(r) + 587*int(g) + 114*int(b)) / 1000
			sb.WriteByte(terminalShades[luma*(len(terminalShades)-1)/255])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Cleanup releases window resources
func (w *TerminalWindow) Cleanup() error {
	w.running = false
	return nil
}
