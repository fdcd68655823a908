// Package graphics provides the display collaborators: a window backend
// abstraction with Ebitengine, headless and terminal implementations.
package graphics

import (
	"fmt"

	"retroarcade/internal/input"
)

// Frame dimensions
const (
	FrameWidth  = 256
	FrameHeight = 240
)

// Backend represents a graphics rendering backend
type Backend interface {
	// Initialize initializes the graphics backend
	Initialize(config Config) error

	// CreateWindow creates a window for rendering
	CreateWindow(title string, width, height int) (Window, error)

	// Cleanup releases all resources
	Cleanup() error

	// IsHeadless returns true if running in headless mode
	IsHeadless() bool

	// GetName returns the backend name for identification
	GetName() string
}

// Window represents a rendering window. Every Window can be handed to the
// engine as its display.
type Window interface {
	// SetTitle sets the window title
	SetTitle(title string)

	// GetSize returns window dimensions
	GetSize() (width, height int)

	// ShouldClose returns true if window should close
	ShouldClose() bool

	// SwapBuffers presents the rendered frame
	SwapBuffers()

	// PollEvents returns input events gathered since the last call
	PollEvents() []InputEvent

	// RenderFrame renders a frame of packed ABGR pixels
	RenderFrame(frameBuffer [FrameWidth * FrameHeight]uint32) error

	// Cleanup releases window resources
	Cleanup() error
}

// StatusDisplay is implemented by windows that can show the status bar
type StatusDisplay interface {
	SetStatus(status Status)
}

// Status is the text shown in the status bar and ROM info panel
type Status struct {
	FPS     int
	Message string
	AudioOn bool
	ROMInfo []string
}

// Config contains configuration for graphics backends
type Config struct {
	// Window configuration
	WindowTitle  string
	WindowWidth  int
	WindowHeight int
	Fullscreen   bool
	VSync        bool

	// Rendering configuration
	Filter      string // "nearest", "linear"
	ShowOverlay bool

	// Headless frame dumps
	DumpFrames []int
	OutputDir  string

	// Backend-specific options
	Headless bool
	Debug    bool
}

// InputEvent represents an input event from the window
type InputEvent struct {
	Type    InputEventType
	Key     Key
	Button  input.Button
	Pressed bool
}

// InputEventType represents the type of input event
type InputEventType int

const (
	InputEventTypeKey InputEventType = iota
	InputEventTypeButton
	InputEventTypeQuit
)

// Key represents keyboard keys the emulator reacts to
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyEnter
	KeySpace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyZ
	KeyX
	KeyP
	KeyR
	KeyM
	KeyF11
)

// buttonMappings maps keys to controller buttons. Keys not listed here are
// passed through as key events.
var buttonMappings = DefaultButtonMappings()

var keyNames = map[string]Key{
	"Escape": KeyEscape,
	"Enter":  KeyEnter,
	"Space":  KeySpace,
	"Up":     KeyUp,
	"Down":   KeyDown,
	"Left":   KeyLeft,
	"Right":  KeyRight,
	"Z":      KeyZ,
	"X":      KeyX,
	"P":      KeyP,
	"R":      KeyR,
	"M":      KeyM,
	"F11":    KeyF11,
}

// KeyByName looks up a key by its configuration name, e.g. "Enter" or "Z"
func KeyByName(name string) (Key, bool) {
	key, ok := keyNames[name]
	return key, ok
}

// SetButtonMappings replaces the key to button bindings
func SetButtonMappings(mappings map[Key]input.Button) {
	buttonMappings = make(map[Key]input.Button, len(mappings))
	for key, button := range mappings {
		buttonMappings[key] = button
	}
}

// DefaultButtonMappings returns the standard bindings: arrows for the
// D-pad, Z and X for A and B, Space for Select and Enter for Start
func DefaultButtonMappings() map[Key]input.Button {
	return map[Key]input.Button{
		KeyUp:    input.ButtonUp,
		KeyDown:  input.ButtonDown,
		KeyLeft:  input.ButtonLeft,
		KeyRight: input.ButtonRight,
		KeyZ:     input.ButtonA,
		KeyX:     input.ButtonB,
		KeySpace: input.ButtonSelect,
		KeyEnter: input.ButtonStart,
	}
}

// ButtonForKey returns the controller button bound to a key
func ButtonForKey(key Key) (input.Button, bool) {
	button, ok := buttonMappings[key]
	return button, ok
}

// TranslateKeyEvents converts raw key events into button events where a
// mapping exists. Escape becomes a quit event.
func TranslateKeyEvents(raw []InputEvent) []InputEvent {
	var events []InputEvent
	for _, event := range raw {
		if event.Type != InputEventTypeKey {
			events = append(events, event)
			continue
		}
		if button, ok := buttonMappings[event.Key]; ok {
			events = append(events, InputEvent{
				Type:    InputEventTypeButton,
				Button:  button,
				Pressed: event.Pressed,
			})
			continue
		}
		if event.Key == KeyEscape && event.Pressed {
			events = append(events, InputEvent{Type: InputEventTypeQuit, Pressed: true})
			continue
		}
		events = append(events, event)
	}
	return events
}

// BackendType represents different graphics backend types
type BackendType string

const (
	BackendEbitengine BackendType = "ebitengine"
	BackendHeadless   BackendType = "headless"
	BackendTerminal   BackendType = "terminal"
)

// CreateBackend creates a graphics backend of the specified type
func CreateBackend(backendType BackendType) (Backend, error) {
	switch backendType {
	case BackendEbitengine:
		return NewEbitengineBackend(), nil
	case BackendHeadless:
		return NewHeadlessBackend(), nil
	case BackendTerminal:
		return NewTerminalBackend(), nil
	default:
		// Default to Ebitengine for GUI mode
		return NewEbitengineBackend(), nil
	}
}

// AsEbitengineWindow tries to cast a Window to EbitengineWindow
func AsEbitengineWindow(window Window) (*EbitengineWindow, bool) {
	if ebitengineWindow, ok := window.(*EbitengineWindow); ok {
		return ebitengineWindow, true
	}
	return nil, false
}

// StatusLines formats the status bar and ROM info panel, one entry per line
func StatusLines(status Status) []string {
	audio := "Audio: Off"
	if status.AudioOn {
		audio = "Audio: On"
	}

	lines := make([]string, 0, len(status.ROMInfo)+1)
	lines = append(lines, status.ROMInfo...)
	lines = append(lines, fmt.Sprintf("FPS: %d | %s | %s", status.FPS, status.Message, audio))
	return lines
}
