package memory

import (
	"testing"
)

func TestMemory_New(t *testing.T) {
	mem := New()

	if mem == nil {
		t.Fatal("New() returned nil")
	}

	// Verify the whole address space is initialized to zero
	for i := 0; i < Size; i++ {
		if mem.data[i] != 0 {
			t.Fatalf("memory[%04X] = %02X, want 0", i, mem.data[i])
		}
	}
}

func TestMemory_ReadWrite(t *testing.T) {
	mem := New()

	testCases := []struct {
		name    string
		address uint16
		value   uint8
	}{
		{"Zero page", 0x0000, 0x11},
		{"Input register", InputRegister, 0xA5},
		{"Program start", ProgramStart, 0x4C},
		{"Reset vector low", ResetVector, 0x00},
		{"Top of memory", 0xFFFF, 0xEA},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mem.Write(tc.address, tc.value)

			if result := mem.Read(tc.address); result != tc.value {
				t.Errorf("Read(%04X) = %02X, want %02X", tc.address, result, tc.value)
			}
		})
	}
}

func TestMemory_ReadWord(t *testing.T) {
	mem := New()
	mem.Write(0xFFFC, 0x34)
	mem.Write(0xFFFD, 0x12)

	if word := mem.ReadWord(0xFFFC); word != 0x1234 {
		t.Errorf("ReadWord(FFFC) = %04X, want 1234", word)
	}

	// High byte past the top of the address space reads as zero
	mem.Write(0xFFFF, 0x80)
	mem.Write(0x0000, 0x77)
	if word := mem.ReadWord(0xFFFF); word != 0x0080 {
		t.Errorf("ReadWord(FFFF) = %04X, want 0080", word)
	}
}

func TestMemory_LoadCapsAtTopOfMemory(t *testing.T) {
	mem := New()
	data := make([]uint8, 0x10)
	for i := range data {
		data[i] = uint8(i + 1)
	}

	n := mem.Load(0xFFF8, data)
	if n != 8 {
		t.Fatalf("Load copied %d bytes, want 8", n)
	}
	if mem.Read(0xFFFF) != 8 {
		t.Errorf("memory[FFFF] = %02X, want 08", mem.Read(0xFFFF))
	}
	if mem.Read(0x0000) != 0 {
		t.Errorf("Load wrapped into zero page: memory[0000] = %02X", mem.Read(0x0000))
	}
}

func TestMemory_Mirror(t *testing.T) {
	mem := New()
	for i := 0; i < BankSize; i++ {
		mem.Write(uint16(ProgramStart+i), uint8(i*7))
	}

	n := mem.Mirror(ProgramStart, ProgramStart+BankSize, BankSize)
	if n != BankSize {
		t.Fatalf("Mirror copied %d bytes, want %d", n, BankSize)
	}

	for i := 0; i < BankSize; i++ {
		lo := mem.Read(uint16(ProgramStart + i))
		hi := mem.Read(uint16(ProgramStart + BankSize + i))
		if lo != hi {
			t.Fatalf("mirror mismatch at offset %04X: %02X != %02X", i, lo, hi)
		}
	}
}

func TestMemory_ClearRange(t *testing.T) {
	mem := New()
	for i := 0; i < Size; i++ {
		mem.Write(uint16(i), 0xFF)
	}

	mem.ClearRange(ProgramStart, ProgramSize)

	if mem.Read(ProgramStart-1) != 0xFF {
		t.Error("ClearRange touched memory below the program region")
	}
	for i := ProgramStart; i < Size; i++ {
		if mem.Read(uint16(i)) != 0 {
			t.Fatalf("memory[%04X] not cleared", i)
		}
	}

	mem.Clear()
	if mem.Read(0x0000) != 0 {
		t.Error("Clear did not zero the address space")
	}
}

func TestMemory_DumpReturnsCopy(t *testing.T) {
	mem := New()
	mem.Write(0x8000, 0x42)

	dump := mem.Dump(0x8000, 4)
	if len(dump) != 4 || dump[0] != 0x42 {
		t.Fatalf("Dump = %v, want [42 0 0 0]", dump)
	}

	dump[0] = 0x00
	if mem.Read(0x8000) != 0x42 {
		t.Error("Dump aliased engine memory")
	}

	if got := len(mem.Dump(0xFFFE, 16)); got != 2 {
		t.Errorf("Dump past top returned %d bytes, want 2", got)
	}
}

func TestVideoMemory_Buffers(t *testing.T) {
	vm := NewVideoMemory()

	data := make([]uint8, VRAMSize+100)
	for i := range data {
		data[i] = uint8(i)
	}
	if n := vm.LoadVRAM(data); n != VRAMSize {
		t.Errorf("LoadVRAM copied %d bytes, want %d", n, VRAMSize)
	}
	if vm.ReadVRAM(0x0123) != 0x23 {
		t.Errorf("ReadVRAM(0123) = %02X, want 23", vm.ReadVRAM(0x0123))
	}

	// VRAM addresses mirror over the 16KB space
	vm.WriteVRAM(0x4001, 0x99)
	if vm.ReadVRAM(0x0001) != 0x99 {
		t.Error("VRAM write did not mirror into 14-bit space")
	}

	vm.WriteOAM(0xFF, 0x10)
	if vm.ReadOAM(0xFF) != 0x10 {
		t.Error("OAM write lost")
	}

	vm.WritePalette(0x21, 0x0F)
	if vm.ReadPalette(0x01) != 0x0F {
		t.Error("palette write did not mirror every 32 bytes")
	}

	vm.Clear()
	if vm.ReadVRAM(0x0123) != 0 || vm.ReadOAM(0xFF) != 0 || vm.ReadPalette(0x01) != 0 {
		t.Error("Clear left video memory dirty")
	}
	if vm.DumpVRAM(VRAMSize, 4) != nil {
		t.Error("DumpVRAM past capacity should return nil")
	}
}
