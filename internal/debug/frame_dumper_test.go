package debug

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"retroarcade/internal/ppu"
)

func solidFrame(pixel uint32) *Frame {
	var frame Frame
	for i := range frame {
		frame[i] = pixel
	}
	return &frame
}

func TestFrameDumperDisabledByDefault(t *testing.T) {
	dir := t.TempDir()
	fd := NewFrameDumper(dir)

	if err := fd.DumpFrameBuffer(solidFrame(0), 1); err != nil {
		t.Fatalf("DumpFrameBuffer: %v", err)
	}
	if len(fd.Written()) != 0 {
		t.Errorf("disabled dumper wrote %v", fd.Written())
	}
}

func TestFrameDumperIntervalAndLimit(t *testing.T) {
	dir := t.TempDir()
	fd := NewFrameDumper(dir)
	fd.SetDumpInterval(2)
	fd.SetMaxDumps(2)
	if err := fd.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}

	frame := solidFrame(ppu.PackPixel(0, 0, 0))
	for n := uint64(1); n <= 8; n++ {
		if err := fd.DumpFrameBuffer(frame, n); err != nil {
			t.Fatalf("frame %d: %v", n, err)
		}
	}

	want := []string{
		filepath.Join(dir, "frame_000002.txt"),
		filepath.Join(dir, "frame_000004.txt"),
	}
	got := fd.Written()
	if len(got) != len(want) {
		t.Fatalf("written = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("written[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	fd.Disable()
	fd.SetMaxDumps(10)
	if err := fd.DumpFrameBuffer(frame, 10); err != nil {
		t.Fatal(err)
	}
	if len(fd.Written()) != 2 {
		t.Errorf("dumped after Disable")
	}
}

func TestFrameDumperIntervalMinimum(t *testing.T) {
	fd := NewFrameDumper(t.TempDir())
	fd.SetDumpInterval(0)
	if fd.dumpInterval != 1 {
		t.Errorf("dumpInterval = %d, want 1", fd.dumpInterval)
	}
}

func TestFrameDumperContent(t *testing.T) {
	dir := t.TempDir()
	fd := NewFrameDumper(dir)
	if err := fd.Enable(); err != nil {
		t.Fatal(err)
	}

	frame := solidFrame(ppu.PackPixel(0x12, 0x34, 0x56))
	frame[1] = ppu.PackPixel(0xFF, 0, 0)
	if err := fd.DumpFrameBuffer(frame, 7); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "frame_000007.txt"))
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)

	for _, want := range []string{
		"Frame Number: 7\n",
		"Dimensions: 256x240\n",
		"Line 000: 123456 FF0000 123456",
		"Line 239:",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("dump missing %q", want)
		}
	}

	// 256 pixels wrap into 16 rows per scanline
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if got, want := len(lines), 5+240*16; got != want {
		t.Errorf("line count = %d, want %d", got, want)
	}
}

func TestFrameDumperFilters(t *testing.T) {
	tests := []struct {
		name   string
		filter PixelFilter
		want   string
	}{
		{
			name:   "region",
			filter: CreateRegionFilter(0, 0, 1, 0),
			want:   "Line 000: 000000 00FF00\nLine 001:\n",
		},
		{
			name:   "color",
			filter: CreateColorFilter(0, 0xFF, 0),
			want:   "Line 000: 00FF00\nLine 001:\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			fd := NewFrameDumper(dir)
			fd.SetPixelFilter(tt.filter)
			if err := fd.Enable(); err != nil {
				t.Fatal(err)
			}

			frame := solidFrame(ppu.PackPixel(0, 0, 0))
			frame[1] = ppu.PackPixel(0, 0xFF, 0)
			if err := fd.DumpFrameBuffer(frame, 1); err != nil {
				t.Fatal(err)
			}

			data, err := os.ReadFile(fd.Written()[0])
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(string(data), tt.want) {
				t.Errorf("dump does not contain %q", tt.want)
			}
		})
	}
}

func TestFrameDumperEnableFailure(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}

	fd := NewFrameDumper(filepath.Join(file, "dumps"))
	if err := fd.Enable(); err == nil {
		t.Error("expected error for a directory below a regular file")
	}
}
