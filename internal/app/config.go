// Package app provides configuration management for the arcade console.
package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"retroarcade/internal/graphics"
	"retroarcade/internal/input"
)

// Config holds all application configuration
type Config struct {
	Window    WindowConfig    `json:"window"`
	Video     VideoConfig     `json:"video"`
	Audio     AudioConfig     `json:"audio"`
	Input     InputConfig     `json:"input"`
	Emulation EmulationConfig `json:"emulation"`
	Debug     DebugConfig     `json:"debug"`
	Paths     PathsConfig     `json:"paths"`

	// Internal state
	configPath string
	loaded     bool
}

// WindowConfig contains window-related configuration
type WindowConfig struct {
	Width      int  `json:"width"`
	Height     int  `json:"height"`
	Fullscreen bool `json:"fullscreen"`
	Scale      int  `json:"scale"` // multiplier of the 256x240 frame
}

// VideoConfig contains video rendering configuration
type VideoConfig struct {
	VSync       bool    `json:"vsync"`
	Filter      string  `json:"filter"`  // "nearest", "linear"
	Backend     string  `json:"backend"` // "ebitengine", "headless", "terminal"
	Brightness  float32 `json:"brightness"`
	Contrast    float32 `json:"contrast"`
	Saturation  float32 `json:"saturation"`
	ShowOverlay bool    `json:"show_overlay"`
}

// AudioConfig contains audio configuration
type AudioConfig struct {
	Enabled    bool    `json:"enabled"`
	SampleRate int     `json:"sample_rate"`
	Volume     float64 `json:"volume"`
	Latency    int     `json:"latency"`  // player buffer in milliseconds
	UITones    bool    `json:"ui_tones"` // beep on load, play, pause and reset
}

// InputConfig contains input configuration
type InputConfig struct {
	Keys KeyMapping `json:"keys"`
}

// KeyMapping names the keyboard key bound to each controller button
type KeyMapping struct {
	Up     string `json:"up"`
	Down   string `json:"down"`
	Left   string `json:"left"`
	Right  string `json:"right"`
	A      string `json:"a"`
	B      string `json:"b"`
	Start  string `json:"start"`
	Select string `json:"select"`
}

// EmulationConfig contains emulation-specific settings
type EmulationConfig struct {
	AutoStart  bool  `json:"auto_start"`  // start running as soon as a ROM loads
	Frames     int   `json:"frames"`      // frames to run in headless mode
	DumpFrames []int `json:"dump_frames"` // displayed frames saved by the headless backend
}

// DebugConfig contains debugging and development options
type DebugConfig struct {
	ShowFPS       bool     `json:"show_fps"`
	EnableLogging bool     `json:"enable_logging"`
	CPUTracing    bool     `json:"cpu_tracing"`
	ExecutionLog  bool     `json:"execution_log"`
	Watchpoints   []uint16 `json:"watchpoints"`

	// Hex text dumps of displayed frames, written to the screenshots path
	FrameDumps        int `json:"frame_dumps"` // maximum number of dumps, 0 disables
	FrameDumpInterval int `json:"frame_dump_interval"`
}

// PathsConfig contains file and directory paths
type PathsConfig struct {
	ROMs        string `json:"roms"`
	Screenshots string `json:"screenshots"`
	Recordings  string `json:"recordings"`
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  768,
			Height: 720,
			Scale:  3,
		},
		Video: VideoConfig{
			VSync:       true,
			Filter:      "nearest",
			Backend:     "ebitengine",
			Brightness:  1.0,
			Contrast:    1.0,
			Saturation:  1.0,
			ShowOverlay: true,
		},
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: 44100,
			Volume:     0.3,
			Latency:    50,
			UITones:    true,
		},
		Input: InputConfig{
			Keys: KeyMapping{
				Up:     "Up",
				Down:   "Down",
				Left:   "Left",
				Right:  "Right",
				A:      "Z",
				B:      "X",
				Start:  "Enter",
				Select: "Space",
			},
		},
		Emulation: EmulationConfig{
			Frames:     60,
			DumpFrames: []int{1, 5, 10},
		},
		Debug: DebugConfig{
			ShowFPS:           true,
			FrameDumpInterval: 60,
		},
		Paths: PathsConfig{
			ROMs:        "./roms",
			Screenshots: ".",
			Recordings:  ".",
		},
	}
}

// LoadFromFile loads configuration from a JSON file. A missing file is
// created with the current values.
func (c *Config) LoadFromFile(path string) error {
	c.configPath = path

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return c.SaveToFile(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read config file")
	}

	if err := json.Unmarshal(data, c); err != nil {
		return errors.Wrap(err, "failed to parse config file")
	}

	if err := c.validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	c.loaded = true
	return nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}

	c.configPath = path
	return nil
}

// Save saves the configuration to the current config file
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("no config file path set")
	}

	return c.SaveToFile(c.configPath)
}

// validate rejects unusable values and clamps the rest into range
func (c *Config) validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return &ConfigError{
			Field: "window",
			Value: fmt.Sprintf("%dx%d", c.Window.Width, c.Window.Height),
			Err:   errors.New("dimensions must be positive"),
		}
	}

	if c.Window.Scale <= 0 {
		c.Window.Scale = 1
	}

	if c.Video.Brightness < 0.1 || c.Video.Brightness > 3.0 {
		c.Video.Brightness = 1.0
	}
	if c.Video.Contrast < 0.1 || c.Video.Contrast > 3.0 {
		c.Video.Contrast = 1.0
	}
	if c.Video.Saturation < 0.0 || c.Video.Saturation > 3.0 {
		c.Video.Saturation = 1.0
	}

	if c.Audio.SampleRate <= 0 {
		c.Audio.SampleRate = 44100
	}
	if c.Audio.Volume < 0.0 {
		c.Audio.Volume = 0
	}
	if c.Audio.Volume > 1.0 {
		c.Audio.Volume = 1
	}
	if c.Audio.Latency <= 0 {
		c.Audio.Latency = 50
	}

	if c.Emulation.Frames < 0 {
		c.Emulation.Frames = 0
	}

	if c.Debug.FrameDumps < 0 {
		c.Debug.FrameDumps = 0
	}
	if c.Debug.FrameDumpInterval < 1 {
		c.Debug.FrameDumpInterval = 1
	}

	if _, err := c.ButtonMappings(); err != nil {
		return err
	}

	return nil
}

// ButtonMappings resolves the key mapping to graphics keys. Empty entries
// keep the default key for that button.
func (c *Config) ButtonMappings() (map[graphics.Key]input.Button, error) {
	defaults := NewConfig().Input.Keys

	bindings := []struct {
		field  string
		name   string
		def    string
		button input.Button
	}{
		{"up", c.Input.Keys.Up, defaults.Up, input.ButtonUp},
		{"down", c.Input.Keys.Down, defaults.Down, input.ButtonDown},
		{"left", c.Input.Keys.Left, defaults.Left, input.ButtonLeft},
		{"right", c.Input.Keys.Right, defaults.Right, input.ButtonRight},
		{"a", c.Input.Keys.A, defaults.A, input.ButtonA},
		{"b", c.Input.Keys.B, defaults.B, input.ButtonB},
		{"start", c.Input.Keys.Start, defaults.Start, input.ButtonStart},
		{"select", c.Input.Keys.Select, defaults.Select, input.ButtonSelect},
	}

	mappings := make(map[graphics.Key]input.Button, len(bindings))
	for _, b := range bindings {
		name := b.name
		if name == "" {
			name = b.def
		}
		key, ok := graphics.KeyByName(name)
		if !ok {
			return nil, &ConfigError{Field: "input.keys." + b.field, Value: name, Err: errors.New("unknown key")}
		}
		if other, taken := mappings[key]; taken {
			return nil, &ConfigError{
				Field: "input.keys." + b.field,
				Value: name,
				Err:   errors.Errorf("key already bound to %v", other),
			}
		}
		mappings[key] = b.button
	}

	return mappings, nil
}

// GetNativeResolution returns the frame resolution
func (c *Config) GetNativeResolution() (int, int) {
	return graphics.FrameWidth, graphics.FrameHeight
}

// GetWindowResolution returns the window resolution based on scale
func (c *Config) GetWindowResolution() (int, int) {
	width, height := c.GetNativeResolution()
	return width * c.Window.Scale, height * c.Window.Scale
}

// IsLoaded returns whether the configuration was loaded from file
func (c *Config) IsLoaded() bool {
	return c.loaded
}

// GetConfigPath returns the path to the config file
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() string {
	return "./config/retroarcade.json"
}

// ConfigError represents configuration-related errors
type ConfigError struct {
	Field string
	Value interface{}
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in field '%s' with value '%v': %v", e.Field, e.Value, e.Err)
}
