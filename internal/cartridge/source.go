package cartridge

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// System identifies the console family a ROM file claims to target, by
// file extension
type System string

const (
	SystemNES     System = "Nintendo Entertainment System"
	SystemGB      System = "Game Boy"
	SystemGBC     System = "Game Boy Color"
	SystemSNES    System = "Super Nintendo"
	SystemSFC     System = "Super Famicom"
	SystemUnknown System = "Unknown"
)

var systemsByExtension = map[string]System{
	".nes": SystemNES,
	".gb":  SystemGB,
	".gbc": SystemGBC,
	".smc": SystemSNES,
	".sfc": SystemSFC,
}

// Minimum file sizes enforced by the file picker
const (
	minGameBoySize = 0x150 // header ends at $14F
	minSNESSize    = 0x8000
)

// SupportedExtensions returns the file extensions accepted by ReadFile
func SupportedExtensions() []string {
	return []string{".nes", ".gb", ".gbc", ".smc", ".sfc"}
}

// SourceError represents a ROM file that was rejected before reaching the engine
type SourceError struct {
	Path   string
	Reason string
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %s", filepath.Base(e.Path), e.Reason)
}

// Info describes a loaded ROM file for display
type Info struct {
	Name   string
	Size   int
	System System
	Format Format
}

// SizeKB returns the size in kilobytes formatted with one decimal
func (i Info) SizeKB() string {
	return fmt.Sprintf("%.1f KB", float64(i.Size)/1024)
}

// SystemForPath detects the console family from a file name
func SystemForPath(path string) System {
	if system, ok := systemsByExtension[strings.ToLower(filepath.Ext(path))]; ok {
		return system
	}
	return SystemUnknown
}

// ReadFile reads a ROM file from disk and validates it the way the file
// picker does: supported extension, minimum sizes per system. The returned
// bytes are ready for the engine's LoadROM.
func ReadFile(path string) ([]byte, error) {
	system := SystemForPath(path)
	if system == SystemUnknown {
		return nil, &SourceError{Path: path, Reason: "unsupported file type"}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read file")
	}

	if err := Validate(system, data); err != nil {
		return nil, &SourceError{Path: path, Reason: err.Error()}
	}

	return data, nil
}

// Validate applies the per-system size checks to raw ROM data
func Validate(system System, data []byte) error {
	if len(data) < HeaderSize {
		return errors.New("ROM file is too small")
	}

	switch system {
	case SystemGB, SystemGBC:
		if len(data) < minGameBoySize {
			return errors.New("invalid Game Boy ROM: too small")
		}
	case SystemSNES, SystemSFC:
		if len(data) < minSNESSize {
			return errors.New("invalid SNES ROM: too small")
		}
	}

	return nil
}

// Describe builds display information for a ROM file
func Describe(path string, data []byte) Info {
	return Info{
		Name:   filepath.Base(path),
		Size:   len(data),
		System: SystemForPath(path),
		Format: DetectFormat(data),
	}
}
