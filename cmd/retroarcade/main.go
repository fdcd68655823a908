// Package main implements the retroarcade executable.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"retroarcade/internal/app"
	"retroarcade/internal/cartridge"
	"retroarcade/internal/statsview"
	"retroarcade/internal/version"
)

func main() {
	var (
		romFile     = flag.String("rom", "", "Path to ROM file (optional for GUI mode)")
		configFile  = flag.String("config", "", "Path to configuration file")
		debug       = flag.Bool("debug", false, "Enable debug logging")
		nogui       = flag.Bool("nogui", false, "Run without GUI (headless mode)")
		frames      = flag.Int("frames", -1, "Frames to run in headless mode (default from config)")
		wavFile     = flag.String("wav", "", "Write generated audio to this WAV file (headless mode)")
		stats       = flag.Bool("statsview", false, "Serve runtime statistics over HTTP")
		help        = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *help {
		printUsage()
		os.Exit(0)
	}

	if *showVersion {
		version.PrintBuildInfo(os.Stdout)
		os.Exit(0)
	}

	setupGracefulShutdown()

	log.Printf("[MAIN] %s starting", version.GetVersion())

	if *stats {
		if statsview.Available() {
			statsview.Launch(os.Stdout, "")
		} else {
			log.Printf("[MAIN] Stats server not available, rebuild with -tags statsview")
		}
	}

	configPath := *configFile
	if configPath == "" {
		configPath = app.GetDefaultConfigPath()
	}

	config := app.NewConfig()
	if err := config.LoadFromFile(configPath); err != nil {
		log.Printf("[APP_WARNING] Could not load config from %s, using defaults: %v", configPath, err)
		config = app.NewConfig()
	}

	if *debug {
		config.Debug.EnableLogging = true
		config.Debug.ShowFPS = true
		log.Printf("[MAIN] Debug mode enabled")
	}
	if *frames >= 0 {
		config.Emulation.Frames = *frames
	}

	application, err := app.NewApplicationWithConfig(config, *nogui)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	defer func() {
		if err := application.Cleanup(); err != nil {
			log.Printf("Application cleanup error: %v", err)
		}
	}()

	if *romFile != "" {
		if err := application.LoadROM(*romFile); err != nil {
			log.Fatalf("Failed to load ROM: %v", err)
		}
	}

	if *nogui {
		if *romFile == "" {
			log.Fatal("ROM file required for headless mode")
		}
		if err := runHeadlessMode(application, *wavFile); err != nil {
			log.Fatalf("Headless mode failed: %v", err)
		}
		return
	}

	if err := runGUIMode(application); err != nil {
		log.Fatalf("GUI mode failed: %v", err)
	}
}

// runGUIMode runs the windowed application until the window closes
func runGUIMode(application *app.Application) error {
	config := application.GetConfig()
	windowWidth, windowHeight := config.GetWindowResolution()
	log.Printf("[MAIN] Window: %dx%d (scale %dx), audio %s at %d Hz",
		windowWidth, windowHeight, config.Window.Scale,
		enabledString(config.Audio.Enabled), config.Audio.SampleRate)

	if err := application.Run(); err != nil {
		return fmt.Errorf("application run failed: %v", err)
	}

	emulator := application.GetEmulator()
	log.Printf("[MAIN] Session: %d frames, last FPS %d, average frame time %v",
		emulator.GetFrameCount(), application.GetFPS(), emulator.GetAverageFrameTime())
	return nil
}

// runHeadlessMode plays the configured number of frames with no window
func runHeadlessMode(application *app.Application, wavFile string) error {
	config := application.GetConfig()
	if wavFile != "" && !filepath.IsAbs(wavFile) && filepath.Dir(wavFile) == "." {
		wavFile = filepath.Join(config.Paths.Recordings, wavFile)
	}

	log.Printf("[HEADLESS] Running %d frames, dumping displayed frames %v to %s",
		config.Emulation.Frames, config.Emulation.DumpFrames, config.Paths.Screenshots)

	return application.RunHeadless(config.Emulation.Frames, wavFile)
}

// setupGracefulShutdown exits cleanly on interrupt
func setupGracefulShutdown() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Printf("[MAIN] Interrupt received, shutting down")
		os.Exit(0)
	}()
}

// enabledString returns "enabled" or "disabled" based on boolean value
func enabledString(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

func printUsage() {
	fmt.Println("retroarcade - cartridge-loading 8-bit console")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  retroarcade [options]                    # Start GUI mode without ROM")
	fmt.Println("  retroarcade -rom <file> [options]        # Start with ROM loaded")
	fmt.Println("  retroarcade -nogui -rom <file> [options] # Run headless mode")
	fmt.Println()
	fmt.Println("OPTIONS:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  retroarcade -rom game.nes                          # Load, then press P to play")
	fmt.Println("  retroarcade -rom game.nes -debug                   # With debug logging")
	fmt.Println("  retroarcade -nogui -rom game.nes -frames 120       # Headless, dump frames as PPM")
	fmt.Println("  retroarcade -nogui -rom game.nes -wav beeps.wav    # Headless, record audio")
	fmt.Println()
	fmt.Println("CONTROLS (Default):")
	fmt.Println("    Arrow Keys        - D-Pad")
	fmt.Println("    Z                 - A Button")
	fmt.Println("    X                 - B Button")
	fmt.Println("    Enter             - Start")
	fmt.Println("    Space             - Select")
	fmt.Println()
	fmt.Println("  Special Keys:")
	fmt.Println("    P                 - Play / Pause")
	fmt.Println("    R                 - Reset")
	fmt.Println("    M                 - Audio On / Off")
	fmt.Println("    F11               - Toggle Fullscreen")
	fmt.Println("    Escape            - Quit")
	fmt.Println()
	fmt.Println("CONFIGURATION:")
	fmt.Printf("  Config file: %s\n", app.GetDefaultConfigPath())
	fmt.Println()
	fmt.Println("SUPPORTED FILES:")
	for _, ext := range cartridge.SupportedExtensions() {
		fmt.Printf("  %-5s %s\n", ext, cartridge.SystemForPath("rom"+ext))
	}
}
