package debug

import (
	"fmt"
	"sort"

	"retroarcade/internal/ppu"
)

// ColorCount is one color and how many pixels carry it
type ColorCount struct {
	Pixel uint32
	Count int
}

// FrameStats summarizes the colors of a frame
type FrameStats struct {
	DistinctColors int
	NonBlackPixels int
	TopColors      []ColorCount // most frequent first, ties by pixel value
}

// AnalyzeFrame counts colors in a frame, keeping the top most frequent
func AnalyzeFrame(frame *Frame, top int) FrameStats {
	counts := make(map[uint32]int)
	nonBlack := 0
	for _, pixel := range frame {
		counts[pixel]++
		if pixel&0x00FFFFFF != 0 {
			nonBlack++
		}
	}

	colors := make([]ColorCount, 0, len(counts))
	for pixel, count := range counts {
		colors = append(colors, ColorCount{Pixel: pixel, Count: count})
	}
	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Count != colors[j].Count {
			return colors[i].Count > colors[j].Count
		}
		return colors[i].Pixel < colors[j].Pixel
	})
	if top < 0 {
		top = 0
	}
	if top < len(colors) {
		colors = colors[:top]
	}

	return FrameStats{
		DistinctColors: len(counts),
		NonBlackPixels: nonBlack,
		TopColors:      colors,
	}
}

// String formats the stats for a log line
func (s FrameStats) String() string {
	out := fmt.Sprintf("%d colors, %d non-black pixels (%.1f%%)",
		s.DistinctColors, s.NonBlackPixels, float64(s.NonBlackPixels)/float64(frameWidth*frameHeight)*100)

	for i, c := range s.TopColors {
		if i == 0 {
			out += ", top:"
		}
		r, g, b, _ := ppu.UnpackPixel(c.Pixel)
		out += fmt.Sprintf(" #%02X%02X%02X(%d)", r, g, b, c.Count)
	}
	return out
}
