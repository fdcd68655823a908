package graphics

import (
	"testing"

	"retroarcade/internal/ppu"
)

func TestVideoProcessor_IdentityReturnsInput(t *testing.T) {
	vp := NewVideoProcessor(1.0, 1.0, 1.0)
	frame := BlackFrame()
	frame[7] = ppu.PackPixel(1, 2, 3)

	if !vp.IsIdentity() {
		t.Error("Expected identity processor")
	}
	if vp.ProcessFrame(frame) != frame {
		t.Error("Identity processing changed the frame")
	}
}

func TestVideoProcessor_Brightness(t *testing.T) {
	tests := []struct {
		name       string
		brightness float32
		in         [3]uint8
		expected   [3]uint8
	}{
		{"zero brightness is black", 0.0, [3]uint8{200, 100, 50}, [3]uint8{0, 0, 0}},
		{"half brightness", 0.5, [3]uint8{200, 100, 50}, [3]uint8{100, 50, 25}},
		{"overdrive clamps", 2.0, [3]uint8{200, 100, 50}, [3]uint8{255, 200, 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vp := NewVideoProcessor(tt.brightness, 1.0, 1.0)
			var frame [FrameWidth * FrameHeight]uint32
			frame[0] = ppu.PackPixel(tt.in[0], tt.in[1], tt.in[2])

			out := vp.ProcessFrame(frame)
			r, g, b, a := ppu.UnpackPixel(out[0])

			if !near(r, tt.expected[0]) || !near(g, tt.expected[1]) || !near(b, tt.expected[2]) {
				t.Errorf("Got r%d g%d b%d, want %v", r, g, b, tt.expected)
			}
			if a != 0xFF {
				t.Errorf("Alpha not preserved: %02X", a)
			}
		})
	}
}

func TestVideoProcessor_ContrastAndSaturation(t *testing.T) {
	tests := []struct {
		name                 string
		contrast, saturation float32
		in                   [3]uint8
		expected             [3]uint8
	}{
		{"zero contrast is mid gray", 0.0, 1.0, [3]uint8{200, 10, 90}, [3]uint8{128, 128, 128}},
		{"double contrast", 2.0, 1.0, [3]uint8{160, 100, 128}, [3]uint8{193, 73, 129}},
		{"zero saturation is luma", 1.0, 0.0, [3]uint8{255, 0, 0}, [3]uint8{76, 76, 76}},
		{"gray ignores saturation", 1.0, 2.5, [3]uint8{90, 90, 90}, [3]uint8{90, 90, 90}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vp := NewVideoProcessor(1.0, tt.contrast, tt.saturation)
			var frame [FrameWidth * FrameHeight]uint32
			frame[0] = ppu.PackPixel(tt.in[0], tt.in[1], tt.in[2])

			r, g, b, _ := ppu.UnpackPixel(vp.ProcessFrame(frame)[0])
			if !near(r, tt.expected[0]) || !near(g, tt.expected[1]) || !near(b, tt.expected[2]) {
				t.Errorf("Got r%d g%d b%d, want %v", r, g, b, tt.expected)
			}
		})
	}
}

func TestVideoProcessor_Setters(t *testing.T) {
	vp := NewVideoProcessor(1.0, 1.0, 1.0)
	vp.SetBrightness(0.5)
	if vp.IsIdentity() {
		t.Fatal("Expected non-identity after SetBrightness")
	}

	var frame [FrameWidth * FrameHeight]uint32
	frame[0] = ppu.PackPixel(100, 100, 100)
	if r, _, _, _ := ppu.UnpackPixel(vp.ProcessFrame(frame)[0]); !near(r, 50) {
		t.Errorf("Got r%d after SetBrightness(0.5), want 50", r)
	}

	vp.SetBrightness(1.0)
	vp.SetContrast(1.0)
	vp.SetSaturation(1.0)
	if !vp.IsIdentity() {
		t.Error("Expected identity after restoring settings")
	}
}

// near allows one step of float rounding
func near(got, want uint8) bool {
	d := int(got) - int(want)
	return d >= -1 && d <= 1
}

func TestFrameToRGBA_ByteOrder(t *testing.T) {
	var frame [FrameWidth * FrameHeight]uint32
	frame[0] = ppu.PackPixel(0x11, 0x22, 0x33)
	frame[1] = 0x80445566

	dst := make([]byte, FrameWidth*FrameHeight*4)
	FrameToRGBA(&frame, dst)

	expected := []byte{0x11, 0x22, 0x33, 0xFF, 0x66, 0x55, 0x44, 0x80}
	for i, want := range expected {
		if dst[i] != want {
			t.Errorf("byte %d = %02X, want %02X", i, dst[i], want)
		}
	}
}

func TestBlackFrame(t *testing.T) {
	for i, pixel := range BlackFrame() {
		if pixel != 0xFF000000 {
			t.Fatalf("pixel %d = %08X, want opaque black", i, pixel)
		}
	}
}
