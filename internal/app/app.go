package app

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"retroarcade/internal/apu"
	"retroarcade/internal/bus"
	"retroarcade/internal/cartridge"
	"retroarcade/internal/debug"
	"retroarcade/internal/graphics"
	"retroarcade/internal/input"
)

// Status bar messages
const (
	StatusReady      = "Ready"
	StatusLoading    = "Loading ROM..."
	StatusLoaded     = "ROM loaded successfully"
	StatusLoadFailed = "Failed to load ROM"
	StatusRunning    = "Running"
	StatusPaused     = "Paused"
	StatusReset      = "Reset"
)

const windowTitle = "RetroArcade Emulator"

// refreshRate is the nominal display refresh used to pace headless audio
const refreshRate = 60

// Feedback tone frequencies in Hz
const (
	toneLoaded = 660
	toneFailed = 110
	tonePlay   = 880
	tonePause  = 440
	toneReset  = 220
)

// Application wires the engine to a window, a controller and audio, and owns
// the running/paused state
type Application struct {
	// Core emulation components
	bus        *bus.Bus
	controller *input.Controller
	emulator   *Emulator

	// Graphics
	graphicsBackend graphics.Backend
	window          graphics.Window
	display         *frameSink

	// Audio
	apu    *apu.APU
	player *apu.Player

	config *Config

	// Control flags
	running     bool
	initialized bool
	headless    bool

	// Status bar
	status string
	fps    *FPSCounter

	// ROM management
	romPath string
	romInfo cartridge.Info
}

// ApplicationError represents application-specific errors
type ApplicationError struct {
	Component string
	Operation string
	Err       error
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("Application %s error during %s: %v", e.Component, e.Operation, e.Err)
}

// Unwrap returns the underlying error
func (e *ApplicationError) Unwrap() error {
	return e.Err
}

// Cause returns the underlying error for errors.Cause
func (e *ApplicationError) Cause() error {
	return e.Err
}

// NewApplication creates a new application with a window
func NewApplication(configPath string) (*Application, error) {
	return NewApplicationWithMode(configPath, false)
}

// NewApplicationWithMode creates a new application with optional headless mode
func NewApplicationWithMode(configPath string, headless bool) (*Application, error) {
	config := NewConfig()
	if configPath != "" {
		if err := config.LoadFromFile(configPath); err != nil {
			log.Printf("[APP_WARNING] Could not load config from %s, using defaults: %v", configPath, err)
			config = NewConfig()
		}
	}

	return NewApplicationWithConfig(config, headless)
}

// NewApplicationWithConfig creates a new application from an existing configuration
func NewApplicationWithConfig(config *Config, headless bool) (*Application, error) {
	app := &Application{
		config:   config,
		headless: headless,
		status:   StatusReady,
		fps:      NewFPSCounter(time.Now()),
	}

	if err := app.initializeComponents(); err != nil {
		return nil, &ApplicationError{
			Component: "initialization",
			Operation: "component setup",
			Err:       err,
		}
	}

	return app, nil
}

// initializeComponents initializes all application components
func (app *Application) initializeComponents() error {
	mappings, err := app.config.ButtonMappings()
	if err != nil {
		return err
	}
	graphics.SetButtonMappings(mappings)

	app.controller = input.New()
	app.display = &frameSink{
		processor: graphics.NewVideoProcessor(
			app.config.Video.Brightness,
			app.config.Video.Contrast,
			app.config.Video.Saturation,
		),
		debug: app.config.Debug.EnableLogging,
	}
	if app.config.Debug.FrameDumps > 0 {
		dumper := debug.NewFrameDumper(app.config.Paths.Screenshots)
		dumper.SetMaxDumps(app.config.Debug.FrameDumps)
		dumper.SetDumpInterval(app.config.Debug.FrameDumpInterval)
		if err := dumper.Enable(); err != nil {
			return errors.Wrap(err, "failed to enable frame dumps")
		}
		app.display.dumper = dumper
	}
	app.bus = bus.New(app.display, app.controller)
	app.emulator = NewEmulator(app.bus)

	if err := app.initializeGraphicsBackend(); err != nil {
		return errors.Wrap(err, "failed to initialize graphics backend")
	}
	app.display.window = app.window

	app.initializeAudio()
	app.applyDebugSettings()

	app.initialized = true
	app.updateStatus()
	return nil
}

// initializeGraphicsBackend picks a backend from the mode and configuration.
// Ebitengine falls back to headless when it cannot start.
func (app *Application) initializeGraphicsBackend() error {
	var backendType graphics.BackendType
	if app.headless {
		backendType = graphics.BackendHeadless
	} else {
		switch app.config.Video.Backend {
		case "headless":
			backendType = graphics.BackendHeadless
		case "terminal":
			backendType = graphics.BackendTerminal
		default:
			backendType = graphics.BackendEbitengine
		}
	}

	width, height := app.config.Window.Width, app.config.Window.Height
	if app.config.Window.Scale > 0 {
		width, height = app.config.GetWindowResolution()
	}

	graphicsConfig := graphics.Config{
		WindowTitle:  windowTitle,
		WindowWidth:  width,
		WindowHeight: height,
		Fullscreen:   app.config.Window.Fullscreen,
		VSync:        app.config.Video.VSync,
		Filter:       app.config.Video.Filter,
		ShowOverlay:  app.config.Video.ShowOverlay,
		DumpFrames:   app.config.Emulation.DumpFrames,
		OutputDir:    app.config.Paths.Screenshots,
		Headless:     backendType == graphics.BackendHeadless,
		Debug:        app.config.Debug.EnableLogging,
	}

	backend, err := graphics.CreateBackend(backendType)
	if err != nil {
		return err
	}

	if err := backend.Initialize(graphicsConfig); err != nil {
		if backendType != graphics.BackendEbitengine {
			return err
		}
		log.Printf("[APP_WARNING] Ebitengine backend failed (%v), falling back to headless mode", err)

		app.headless = true
		graphicsConfig.Headless = true
		if backend, err = graphics.CreateBackend(graphics.BackendHeadless); err != nil {
			return errors.Wrap(err, "failed to create fallback headless backend")
		}
		if err := backend.Initialize(graphicsConfig); err != nil {
			return errors.Wrap(err, "failed to initialize fallback headless backend")
		}
	}
	app.graphicsBackend = backend

	app.window, err = backend.CreateWindow(graphicsConfig.WindowTitle, width, height)
	if err != nil {
		return errors.Wrap(err, "failed to create window")
	}

	if app.config.Debug.EnableLogging {
		log.Printf("[APP_DEBUG] Using %s backend (%dx%d)", backend.GetName(), width, height)
	}
	return nil
}

// initializeAudio creates the tone generator and, with a window, the
// playback device. A missing audio device only disables playback.
func (app *Application) initializeAudio() {
	app.apu = apu.New(app.config.Audio.SampleRate)
	app.apu.SetMasterVolume(app.config.Audio.Volume)
	if !app.config.Audio.Enabled {
		app.apu.Toggle()
	}

	if app.headless {
		return
	}

	latency := time.Duration(app.config.Audio.Latency) * time.Millisecond
	player, err := apu.NewPlayer(app.apu, latency)
	if err != nil {
		log.Printf("[APP_WARNING] Audio playback unavailable: %v", err)
		return
	}
	app.player = player
	app.player.Play()
}

// applyDebugSettings pushes debug options down to the engine
func (app *Application) applyDebugSettings() {
	debug := app.config.Debug

	app.bus.EnableDebugLogging(debug.EnableLogging)
	app.bus.EnableCPUDebug(debug.CPUTracing)
	app.controller.EnableDebug(debug.EnableLogging)

	if debug.ExecutionLog {
		app.bus.EnableExecutionLogging()
	}

	for _, address := range debug.Watchpoints {
		app.bus.AddMemoryWatchpoint(address)
	}
	app.bus.EnableWatchpointLogging(len(debug.Watchpoints) > 0)
}

// LoadROM reads a ROM file and hands it to the engine. On failure the
// previous ROM, if any, stays loaded.
func (app *Application) LoadROM(romPath string) error {
	if !app.initialized {
		return errors.New("application not initialized")
	}

	app.setStatus(StatusLoading)

	data, err := cartridge.ReadFile(romPath)
	if err == nil {
		err = app.bus.LoadROM(data)
	}
	if err != nil {
		log.Printf("[APP_ERROR] Failed to load ROM %s: %v", romPath, err)
		app.setStatus(StatusLoadFailed)
		app.playTone(toneFailed)
		return &ApplicationError{
			Component: "cartridge",
			Operation: "load ROM",
			Err:       err,
		}
	}

	app.romPath = romPath
	app.romInfo = cartridge.Describe(romPath, data)

	app.window.SetTitle(fmt.Sprintf("RetroArcade - %s", filepath.Base(romPath)))

	log.Printf("[APP] Loaded %s (%s, %s, %s)",
		app.romInfo.Name, app.romInfo.SizeKB(), app.romInfo.System, app.romInfo.Format)

	app.setStatus(StatusLoaded)
	app.playTone(toneLoaded)

	if app.config.Emulation.AutoStart {
		app.Play()
	}
	return nil
}

// Run starts the main loop and blocks until the window closes
func (app *Application) Run() error {
	if !app.initialized {
		return errors.New("application not initialized")
	}

	app.running = true

	if ebitengineWindow, ok := graphics.AsEbitengineWindow(app.window); ok {
		ebitengineWindow.SetEmulatorUpdateFunc(func() error {
			app.tick(time.Now())
			return nil
		})
		return ebitengineWindow.Run()
	}

	for app.running {
		app.tick(time.Now())

		if app.window.ShouldClose() {
			app.Stop()
		}

		time.Sleep(time.Second / refreshRate)
	}

	return nil
}

// RunHeadless plays the loaded ROM for the given number of refreshes. With
// a non-empty wavPath the generated audio is written there afterwards.
func (app *Application) RunHeadless(frames int, wavPath string) error {
	if !app.bus.IsLoaded() {
		return errors.New("no ROM loaded")
	}

	var recorder *apu.Recorder
	if wavPath != "" {
		recorder = apu.NewRecorder(app.apu)
	}
	samplesPerFrame := app.apu.GetSampleRate() / refreshRate

	app.running = true
	app.Play()

	start := time.Now()
	for i := 0; i < frames && app.running; i++ {
		app.tick(time.Now())
		if recorder != nil {
			recorder.Capture(samplesPerFrame)
		}
	}
	elapsed := time.Since(start)

	app.Pause()

	log.Printf("[HEADLESS] Ran %d frames in %v, %d displayed, PC=$%04X",
		app.emulator.GetFrameCount(), elapsed, app.bus.GetFrameCount(), app.bus.CPU.PC)

	if app.bus.GetFrameCount() > 0 {
		frame := app.bus.PPU.GetFrameBuffer()
		log.Printf("[HEADLESS] Last frame: %v", debug.AnalyzeFrame(&frame, 3))
	}

	if recorder != nil {
		if err := recorder.Save(wavPath); err != nil {
			return &ApplicationError{Component: "audio", Operation: "save recording", Err: err}
		}
		log.Printf("[HEADLESS] Wrote %d audio samples to %s", len(recorder.Samples()), wavPath)
	}

	return nil
}

// tick is the per-refresh driver: input, then at most one engine frame
func (app *Application) tick(now time.Time) {
	app.processInput()

	if !app.emulator.Update() {
		return
	}

	if fps, ok := app.fps.Tick(now); ok {
		if app.config.Debug.ShowFPS && app.config.Debug.EnableLogging {
			log.Printf("[FPS] %d (avg frame %v)", fps, app.emulator.GetAverageFrameTime())
		}
		app.updateStatus()
	}
}

// processInput handles window events: buttons go to the controller, keys
// drive the host controls
func (app *Application) processInput() {
	for _, event := range app.window.PollEvents() {
		switch event.Type {
		case graphics.InputEventTypeQuit:
			app.Stop()
		case graphics.InputEventTypeButton:
			app.controller.SetButton(event.Button, event.Pressed)
		case graphics.InputEventTypeKey:
			if event.Pressed {
				app.handleKey(event.Key)
			}
		}
	}
}

// handleKey handles host control keys
func (app *Application) handleKey(key graphics.Key) {
	switch key {
	case graphics.KeyP:
		app.TogglePause()
	case graphics.KeyR:
		app.Reset()
	case graphics.KeyM:
		app.ToggleAudio()
	case graphics.KeyF11:
		app.ToggleFullscreen()
	}
}

// Play starts running frames. Nothing happens before a ROM is loaded.
func (app *Application) Play() {
	if !app.emulator.Start() {
		return
	}
	app.fps.Restart(time.Now())
	app.setStatus(StatusRunning)
	app.playTone(tonePlay)
}

// Pause stops running frames
func (app *Application) Pause() {
	app.emulator.Stop()
	app.setStatus(StatusPaused)
	app.playTone(tonePause)
}

// TogglePause switches between playing and paused
func (app *Application) TogglePause() {
	if app.emulator.IsRunning() {
		app.Pause()
	} else {
		app.Play()
	}
}

// Reset pauses, resets the engine and clears the display to black
func (app *Application) Reset() {
	app.emulator.Reset()
	app.controller.Reset()

	if err := app.display.clear(); err != nil {
		log.Printf("[APP_ERROR] Failed to clear display: %v", err)
	}

	app.setStatus(StatusReset)
	app.playTone(toneReset)
}

// ToggleAudio switches audio on or off and returns the new state
func (app *Application) ToggleAudio() bool {
	enabled := app.apu.Toggle()
	app.updateStatus()
	return enabled
}

// ToggleFullscreen switches the window between windowed and fullscreen
func (app *Application) ToggleFullscreen() {
	if w, ok := app.window.(interface{ ToggleFullscreen() }); ok {
		w.ToggleFullscreen()
	}
}

// Stop ends the main loop
func (app *Application) Stop() {
	app.running = false
	if w, ok := app.window.(interface{ Close() }); ok {
		w.Close()
	}
}

// playTone plays a short feedback tone when enabled in the configuration
func (app *Application) playTone(frequency float64) {
	if !app.config.Audio.UITones {
		return
	}
	app.apu.PlayTone(frequency, apu.DefaultToneDuration, apu.DefaultToneVolume)
}

func (app *Application) setStatus(status string) {
	app.status = status
	app.updateStatus()
}

// updateStatus pushes the status bar and ROM info to the window
func (app *Application) updateStatus() {
	display, ok := app.window.(graphics.StatusDisplay)
	if !ok {
		return
	}

	display.SetStatus(graphics.Status{
		FPS:     app.fps.FPS(),
		Message: app.status,
		AudioOn: app.apu.IsEnabled(),
		ROMInfo: app.ROMInfoLines(),
	})
}

// ROMInfoLines returns the ROM information panel
func (app *Application) ROMInfoLines() []string {
	if app.romPath == "" {
		return []string{"No ROM loaded"}
	}

	return []string{
		fmt.Sprintf("File: %s", app.romInfo.Name),
		fmt.Sprintf("Size: %s", app.romInfo.SizeKB()),
		fmt.Sprintf("Type: %s", app.romInfo.System),
		"Status: Ready to play",
	}
}

// IsRunning returns whether the main loop is active
func (app *Application) IsRunning() bool {
	return app.running
}

// IsPaused returns whether frames are held
func (app *Application) IsPaused() bool {
	return !app.emulator.IsRunning()
}

// Status returns the current status bar message
func (app *Application) Status() string {
	return app.status
}

// GetFPS returns the last published frame rate
func (app *Application) GetFPS() int {
	return app.fps.FPS()
}

// GetROMPath returns the currently loaded ROM path
func (app *Application) GetROMPath() string {
	return app.romPath
}

// GetBus returns the engine
func (app *Application) GetBus() *bus.Bus {
	return app.bus
}

// GetEmulator returns the frame driver
func (app *Application) GetEmulator() *Emulator {
	return app.emulator
}

// GetAPU returns the tone generator
func (app *Application) GetAPU() *apu.APU {
	return app.apu
}

// GetWindow returns the display window
func (app *Application) GetWindow() graphics.Window {
	return app.window
}

// GetConfig returns the application configuration
func (app *Application) GetConfig() *Config {
	return app.config
}

// Cleanup releases all resources and shuts down the application
func (app *Application) Cleanup() error {
	if app.config.Debug.EnableLogging {
		log.Println("[APP_DEBUG] Cleaning up application resources...")
	}

	var lastErr error

	if app.player != nil {
		if err := app.player.Close(); err != nil {
			lastErr = err
			log.Printf("[APP_ERROR] Audio cleanup error: %v", err)
		}
	}

	if app.window != nil {
		if err := app.window.Cleanup(); err != nil {
			lastErr = err
			log.Printf("[APP_ERROR] Window cleanup error: %v", err)
		}
	}

	if app.graphicsBackend != nil {
		if err := app.graphicsBackend.Cleanup(); err != nil {
			lastErr = err
			log.Printf("[APP_ERROR] Graphics backend cleanup error: %v", err)
		}
	}

	app.initialized = false
	return lastErr
}
