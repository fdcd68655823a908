// Package debug provides frame buffer dumping and analysis utilities
package debug

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"retroarcade/internal/ppu"
)

const (
	frameWidth  = ppu.ScreenWidth
	frameHeight = ppu.ScreenHeight
)

// Frame is a packed ABGR frame as produced by the picture unit
type Frame = [frameWidth * frameHeight]uint32

// PixelFilter selects which pixels appear in a dump
type PixelFilter func(x, y int, pixel uint32) bool

// FrameDumper writes frames as hex text, one line per scanline
type FrameDumper struct {
	outputDir    string
	enabled      bool
	dumpCount    int
	maxDumps     int
	dumpInterval uint64 // dump every N frames
	pixelFilter  PixelFilter
	written      []string
}

// NewFrameDumper creates a disabled frame dumper writing into outputDir
func NewFrameDumper(outputDir string) *FrameDumper {
	return &FrameDumper{
		outputDir:    outputDir,
		maxDumps:     10,
		dumpInterval: 1,
	}
}

// Enable activates frame dumping
func (fd *FrameDumper) Enable() error {
	if err := os.MkdirAll(fd.outputDir, 0755); err != nil {
		return errors.Wrap(err, "frame dumper")
	}
	fd.enabled = true
	return nil
}

// Disable deactivates frame dumping
func (fd *FrameDumper) Disable() {
	fd.enabled = false
}

// SetMaxDumps sets the maximum number of frames to dump
func (fd *FrameDumper) SetMaxDumps(max int) {
	fd.maxDumps = max
}

// SetDumpInterval sets the interval between frame dumps
func (fd *FrameDumper) SetDumpInterval(interval int) {
	if interval < 1 {
		interval = 1
	}
	fd.dumpInterval = uint64(interval)
}

// SetPixelFilter restricts dumps to the pixels the filter accepts
func (fd *FrameDumper) SetPixelFilter(filter PixelFilter) {
	fd.pixelFilter = filter
}

// Written returns the files created so far
func (fd *FrameDumper) Written() []string {
	return fd.written
}

// DumpFrameBuffer writes the frame if dumping is enabled, frameNum falls on
// the interval and the dump limit has not been reached. Pixels are written
// as RRGGBB.
func (fd *FrameDumper) DumpFrameBuffer(frame *Frame, frameNum uint64) error {
	if !fd.enabled || frameNum%fd.dumpInterval != 0 || fd.dumpCount >= fd.maxDumps {
		return nil
	}

	filename := filepath.Join(fd.outputDir, fmt.Sprintf("frame_%06d.txt", frameNum))
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create frame dump file")
	}
	defer file.Close()

	w := bufio.NewWriter(file)

	fmt.Fprintf(w, "Frame Buffer Dump\n")
	fmt.Fprintf(w, "Frame Number: %d\n", frameNum)
	fmt.Fprintf(w, "Dimensions: %dx%d\n", frameWidth, frameHeight)
	fmt.Fprintf(w, "===================\n\n")

	for y := 0; y < frameHeight; y++ {
		fmt.Fprintf(w, "Line %03d:", y)
		written := 0
		for x := 0; x < frameWidth; x++ {
			pixel := frame[y*frameWidth+x]
			if fd.pixelFilter != nil && !fd.pixelFilter(x, y, pixel) {
				continue
			}

			if written > 0 && written%16 == 0 {
				fmt.Fprintf(w, "\n         ")
			}
			r, g, b, _ := ppu.UnpackPixel(pixel)
			fmt.Fprintf(w, " %02X%02X%02X", r, g, b)
			written++
		}
		fmt.Fprintf(w, "\n")
	}

	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "failed to write frame dump")
	}

	fd.dumpCount++
	fd.written = append(fd.written, filename)
	return nil
}

// CreateRegionFilter accepts pixels inside the inclusive rectangle
func CreateRegionFilter(x1, y1, x2, y2 int) PixelFilter {
	return func(x, y int, pixel uint32) bool {
		return x >= x1 && x <= x2 && y >= y1 && y <= y2
	}
}

// CreateColorFilter accepts pixels of exactly the given color, alpha ignored
func CreateColorFilter(r, g, b uint8) PixelFilter {
	want := ppu.PackPixel(r, g, b) & 0x00FFFFFF
	return func(x, y int, pixel uint32) bool {
		return pixel&0x00FFFFFF == want
	}
}
