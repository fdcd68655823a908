package graphics

import (
	"encoding/binary"
	"math"

	"retroarcade/internal/ppu"
)

// BlackFrame returns a frame filled with opaque black
func BlackFrame() [FrameWidth * FrameHeight]uint32 {
	var frame [FrameWidth * FrameHeight]uint32
	black := ppu.PackPixel(0, 0, 0)
	for i := range frame {
		frame[i] = black
	}
	return frame
}

// FrameToRGBA writes a frame into dst as RGBA bytes, the layout expected by
// image.RGBA and ebiten.Image.WritePixels. A packed ABGR pixel stored little
// endian is already in R, G, B, A byte order.
func FrameToRGBA(frameBuffer *[FrameWidth * FrameHeight]uint32, dst []byte) {
	for i, pixel := range frameBuffer {
		binary.LittleEndian.PutUint32(dst[i*4:], pixel)
	}
}

// Rec. 601 luma weights
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// VideoProcessor adjusts brightness, contrast and saturation of frames.
// Brightness and contrast are per channel, so they collapse into a single
// 256-entry level table.
type VideoProcessor struct {
	brightness float32
	contrast   float32
	saturation float32

	levels [256]float32
}

// NewVideoProcessor creates a processor. 1.0 for every setting is identity.
func NewVideoProcessor(brightness, contrast, saturation float32) *VideoProcessor {
	vp := &VideoProcessor{
		brightness: brightness,
		contrast:   contrast,
		saturation: saturation,
	}
	vp.buildLevels()
	return vp
}

func (vp *VideoProcessor) buildLevels() {
	for i := range vp.levels {
		v := float32(i) * vp.brightness
		v = (v-127.5)*vp.contrast + 127.5
		vp.levels[i] = v
	}
}

// IsIdentity reports whether ProcessFrame would return its input unchanged
func (vp *VideoProcessor) IsIdentity() bool {
	return vp.brightness == 1.0 && vp.contrast == 1.0 && vp.saturation == 1.0
}

// ProcessFrame returns an adjusted copy of the frame. Alpha is preserved.
func (vp *VideoProcessor) ProcessFrame(frameBuffer [FrameWidth * FrameHeight]uint32) [FrameWidth * FrameHeight]uint32 {
	if vp.IsIdentity() {
		return frameBuffer
	}

	var out [FrameWidth * FrameHeight]uint32
	for i, pixel := range frameBuffer {
		out[i] = vp.processPixel(pixel)
	}
	return out
}

func (vp *VideoProcessor) processPixel(pixel uint32) uint32 {
	pr, pg, pb, pa := ppu.UnpackPixel(pixel)
	r, g, b := vp.levels[pr], vp.levels[pg], vp.levels[pb]

	if vp.saturation != 1.0 {
		gray := lumaR*r + lumaG*g + lumaB*b
		r = gray + (r-gray)*vp.saturation
		g = gray + (g-gray)*vp.saturation
		b = gray + (b-gray)*vp.saturation
	}

	return uint32(pa)<<24 | uint32(toByte(b))<<16 | uint32(toByte(g))<<8 | uint32(toByte(r))
}

func toByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(float64(v)))
}

// SetBrightness updates the brightness multiplier
func (vp *VideoProcessor) SetBrightness(brightness float32) {
	vp.brightness = brightness
	vp.buildLevels()
}

// SetContrast updates the contrast around mid gray
func (vp *VideoProcessor) SetContrast(contrast float32) {
	vp.contrast = contrast
	vp.buildLevels()
}

// SetSaturation updates the saturation. 0 is grayscale.
func (vp *VideoProcessor) SetSaturation(saturation float32) {
	vp.saturation = saturation
}
