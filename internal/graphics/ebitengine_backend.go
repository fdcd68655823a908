//go:build !headless
// +build !headless

package graphics

import (
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/pkg/errors"
	"golang.org/x/image/font/basicfont"
)

// Overlay layout
const (
	overlayLineHeight = 15
	overlayPadding    = 4
)

// EbitengineBackend implements the Backend interface using Ebitengine
type EbitengineBackend struct {
	initialized bool
	config      Config
	game        *EbitengineGame
}

// EbitengineWindow implements the Window interface for Ebitengine
type EbitengineWindow struct {
	backend            *EbitengineBackend
	title              string
	width              int
	height             int
	game               *EbitengineGame
	running            bool
	events             []InputEvent
	emulatorUpdateFunc func() error
}

// EbitengineGame implements ebiten.Game. Update is the per-refresh callback
// that drives the emulator.
type EbitengineGame struct {
	window       *EbitengineWindow
	frameImage   *ebiten.Image
	pixels       []byte // RGBA staging buffer reused every frame
	windowWidth  int
	windowHeight int

	// Status overlay
	face        *text.GoXFace
	status      Status
	showOverlay bool

	drawCount int // For limiting debug logs
	debug     bool
}

// ebitenKeys lists the keys polled every update
var ebitenKeys = map[ebiten.Key]Key{
	ebiten.KeyEscape:     KeyEscape,
	ebiten.KeyEnter:      KeyEnter,
	ebiten.KeySpace:      KeySpace,
	ebiten.KeyArrowUp:    KeyUp,
	ebiten.KeyArrowDown:  KeyDown,
	ebiten.KeyArrowLeft:  KeyLeft,
	ebiten.KeyArrowRight: KeyRight,
	ebiten.KeyZ:          KeyZ,
	ebiten.KeyX:          KeyX,
	ebiten.KeyP:          KeyP,
	ebiten.KeyR:          KeyR,
	ebiten.KeyM:          KeyM,
	ebiten.KeyF11:        KeyF11,
}

// NewEbitengineBackend creates a new Ebitengine graphics backend
func NewEbitengineBackend() Backend {
	return &EbitengineBackend{}
}

// Initialize initializes the Ebitengine backend
func (b *EbitengineBackend) Initialize(config Config) error {
	if b.initialized {
		return errors.New("Ebitengine backend already initialized")
	}

	b.config = config
	b.initialized = true

	return nil
}

// newEbitengineGame builds the game state without touching the GPU
func newEbitengineGame(width, height int, showOverlay, debug bool) *EbitengineGame {
	return &EbitengineGame{
		pixels:       make([]byte, FrameWidth*FrameHeight*4),
		windowWidth:  width,
		windowHeight: height,
		face:         text.NewGoXFace(basicfont.Face7x13),
		showOverlay:  showOverlay,
		debug:        debug,
	}
}

// CreateWindow creates an Ebitengine window
func (b *EbitengineBackend) CreateWindow(title string, width, height int) (Window, error) {
	if !b.initialized {
		return nil, errors.New("backend not initialized")
	}

	if b.config.Headless {
		return nil, errors.New("cannot create window in headless mode")
	}

	game := newEbitengineGame(width, height, b.config.ShowOverlay, b.config.Debug)
	game.frameImage = ebiten.NewImage(FrameWidth, FrameHeight)
	game.frameImage.Fill(color.Black)

	window := &EbitengineWindow{
		backend: b,
		title:   title,
		width:   width,
		height:  height,
		game:    game,
		running: true,
	}

	game.window = window
	b.game = game

	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(b.config.VSync)
	ebiten.SetFullscreen(b.config.Fullscreen)
	ebiten.SetScreenFilterEnabled(b.config.Filter == "linear")

	return window, nil
}

// Cleanup releases all Ebitengine resources
func (b *EbitengineBackend) Cleanup() error {
	b.initialized = false
	return nil
}

// IsHeadless returns true if running in headless mode
func (b *EbitengineBackend) IsHeadless() bool {
	return b.config.Headless
}

// GetName returns the backend name
func (b *EbitengineBackend) GetName() string {
	return "Ebitengine"
}

// SetTitle sets the window title
func (w *EbitengineWindow) SetTitle(title string) {
	w.title = title
	ebiten.SetWindowTitle(title)
}

// GetSize returns window dimensions
func (w *EbitengineWindow) GetSize() (width, height int) {
	return w.width, w.height
}

// ShouldClose returns true if window should close
func (w *EbitengineWindow) ShouldClose() bool {
	return !w.running
}

// SwapBuffers is handled automatically by Ebitengine
func (w *EbitengineWindow) SwapBuffers() {}

// PollEvents returns the events gathered since the last call
func (w *EbitengineWindow) PollEvents() []InputEvent {
	events := w.events
	w.events = nil
	return events
}

// RenderFrame uploads a frame to the window's texture
func (w *EbitengineWindow) RenderFrame(frameBuffer [FrameWidth * FrameHeight]uint32) error {
	if w.game == nil {
		return errors.New("game not initialized")
	}

	FrameToRGBA(&frameBuffer, w.game.pixels)
	if w.game.frameImage != nil {
		w.game.frameImage.WritePixels(w.game.pixels)
	}
	return nil
}

// SetStatus updates the overlay text
func (w *EbitengineWindow) SetStatus(status Status) {
	if w.game != nil {
		w.game.status = status
	}
}

// ToggleFullscreen switches between windowed and fullscreen
func (w *EbitengineWindow) ToggleFullscreen() {
	ebiten.SetFullscreen(!ebiten.IsFullscreen())
}

// Close ends the game loop on the next update
func (w *EbitengineWindow) Close() {
	w.running = false
}

// Cleanup releases window resources
func (w *EbitengineWindow) Cleanup() error {
	w.running = false
	return nil
}

// Run starts the Ebitengine game loop and blocks until the window closes
func (w *EbitengineWindow) Run() error {
	if w.game == nil {
		return errors.New("game not initialized")
	}

	return ebiten.RunGame(w.game)
}

// SetEmulatorUpdateFunc sets the function called once per display refresh
func (w *EbitengineWindow) SetEmulatorUpdateFunc(updateFunc func() error) {
	w.emulatorUpdateFunc = updateFunc
}

// Update implements ebiten.Game.Update
func (g *EbitengineGame) Update() error {
	if g.window == nil {
		return nil
	}
	if !g.window.running {
		return ebiten.Termination
	}

	g.processInput()

	if g.window.emulatorUpdateFunc != nil {
		if err := g.window.emulatorUpdateFunc(); err != nil {
			// Log error but don't stop the game
			log.Printf("[Ebitengine] Emulator update error: %v", err)
		}
	}

	return nil
}

// Draw implements ebiten.Game.Draw
func (g *EbitengineGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)

	if g.frameImage != nil {
		scale, offsetX, offsetY := fitScale(g.windowWidth, g.windowHeight)

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(offsetX, offsetY)
		screen.DrawImage(g.frameImage, op)

		g.drawCount++
		if g.debug && g.drawCount%1800 == 0 {
			log.Printf("[Ebitengine] Drawing frame %d scaled %.2fx at offset (%.1f,%.1f)",
				g.drawCount, scale, offsetX, offsetY)
		}
	}

	if g.showOverlay {
		g.drawOverlay(screen)
	}
}

// drawOverlay draws the status lines in a translucent bar at the bottom
func (g *EbitengineGame) drawOverlay(screen *ebiten.Image) {
	lines := StatusLines(g.status)
	barHeight := len(lines)*overlayLineHeight + 2*overlayPadding
	top := g.windowHeight - barHeight

	vector.DrawFilledRect(screen, 0, float32(top), float32(g.windowWidth), float32(barHeight),
		color.RGBA{A: 0xB0}, false)

	for i, line := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(overlayPadding, float64(top+overlayPadding+i*overlayLineHeight))
		op.ColorScale.ScaleWithColor(color.White)
		text.Draw(screen, line, g.face, op)
	}
}

// fitScale returns the largest uniform scale that fits the frame in the
// window and the offsets that center it
func fitScale(windowWidth, windowHeight int) (scale, offsetX, offsetY float64) {
	scaleX := float64(windowWidth) / FrameWidth
	scaleY := float64(windowHeight) / FrameHeight

	scale = scaleX
	if scaleY < scaleX {
		scale = scaleY
	}

	offsetX = (float64(windowWidth) - FrameWidth*scale) / 2
	offsetY = (float64(windowHeight) - FrameHeight*scale) / 2
	return scale, offsetX, offsetY
}

// Layout implements ebiten.Game.Layout
func (g *EbitengineGame) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	g.windowWidth = outsideWidth
	g.windowHeight = outsideHeight

	// Scaling is handled in Draw
	return outsideWidth, outsideHeight
}

// processInput turns key edges into window events
func (g *EbitengineGame) processInput() {
	var raw []InputEvent
	for ebitenKey, key := range ebitenKeys {
		if inpututil.IsKeyJustPressed(ebitenKey) {
			raw = append(raw, InputEvent{Type: InputEventTypeKey, Key: key, Pressed: true})
		} else if inpututil.IsKeyJustReleased(ebitenKey) {
			raw = append(raw, InputEvent{Type: InputEventTypeKey, Key: key, Pressed: false})
		}
	}

	g.window.events = append(g.window.events, TranslateKeyEvents(raw)...)
}
