package graphics

import (
	"reflect"
	"testing"

	"retroarcade/internal/input"
)

func TestButtonForKey(t *testing.T) {
	tests := []struct {
		key      Key
		expected input.Button
		mapped   bool
	}{
		{KeyUp, input.ButtonUp, true},
		{KeyDown, input.ButtonDown, true},
		{KeyLeft, input.ButtonLeft, true},
		{KeyRight, input.ButtonRight, true},
		{KeyZ, input.ButtonA, true},
		{KeyX, input.ButtonB, true},
		{KeySpace, input.ButtonSelect, true},
		{KeyEnter, input.ButtonStart, true},
		{KeyP, 0, false},
		{KeyEscape, 0, false},
	}

	for _, tt := range tests {
		button, ok := ButtonForKey(tt.key)
		if ok != tt.mapped || button != tt.expected {
			t.Errorf("ButtonForKey(%d) = %v, %t; want %v, %t", tt.key, button, ok, tt.expected, tt.mapped)
		}
	}
}

func TestSetButtonMappings(t *testing.T) {
	defer SetButtonMappings(DefaultButtonMappings())

	SetButtonMappings(map[Key]input.Button{KeyP: input.ButtonStart})

	if button, ok := ButtonForKey(KeyP); !ok || button != input.ButtonStart {
		t.Errorf("ButtonForKey(KeyP) = %v, %t; want Start, true", button, ok)
	}
	if _, ok := ButtonForKey(KeyEnter); ok {
		t.Error("KeyEnter should no longer be mapped")
	}
}

func TestKeyByName(t *testing.T) {
	tests := []struct {
		name  string
		want  Key
		found bool
	}{
		{"Enter", KeyEnter, true},
		{"Z", KeyZ, true},
		{"F11", KeyF11, true},
		{"enter", KeyUnknown, false},
		{"Q", KeyUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := KeyByName(tt.name)
			if key != tt.want || ok != tt.found {
				t.Errorf("KeyByName(%q) = %d, %t; want %d, %t", tt.name, key, ok, tt.want, tt.found)
			}
		})
	}
}

func TestTranslateKeyEvents(t *testing.T) {
	raw := []InputEvent{
		{Type: InputEventTypeKey, Key: KeyZ, Pressed: true},
		{Type: InputEventTypeKey, Key: KeyP, Pressed: true},
		{Type: InputEventTypeKey, Key: KeyRight, Pressed: false},
		{Type: InputEventTypeKey, Key: KeyEscape, Pressed: true},
		{Type: InputEventTypeKey, Key: KeyEscape, Pressed: false},
		{Type: InputEventTypeQuit, Pressed: true},
	}

	expected := []InputEvent{
		{Type: InputEventTypeButton, Button: input.ButtonA, Pressed: true},
		{Type: InputEventTypeKey, Key: KeyP, Pressed: true},
		{Type: InputEventTypeButton, Button: input.ButtonRight, Pressed: false},
		{Type: InputEventTypeQuit, Pressed: true},
		{Type: InputEventTypeKey, Key: KeyEscape, Pressed: false},
		{Type: InputEventTypeQuit, Pressed: true},
	}

	got := TranslateKeyEvents(raw)
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("TranslateKeyEvents mismatch\n got: %+v\nwant: %+v", got, expected)
	}
}

func TestStatusLines(t *testing.T) {
	tests := []struct {
		name     string
		status   Status
		expected []string
	}{
		{
			"no ROM",
			Status{FPS: 0, Message: "Ready", AudioOn: true},
			[]string{"FPS: 0 | Ready | Audio: On"},
		},
		{
			"with ROM info",
			Status{FPS: 60, Message: "Running", ROMInfo: []string{"File: game.nes", "Size: 24.0 KB"}},
			[]string{"File: game.nes", "Size: 24.0 KB", "FPS: 60 | Running | Audio: Off"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StatusLines(tt.status)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("StatusLines = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestCreateBackend(t *testing.T) {
	tests := []struct {
		backendType BackendType
		expected    string
	}{
		{BackendHeadless, "Headless"},
		{BackendTerminal, "Terminal"},
	}

	for _, tt := range tests {
		backend, err := CreateBackend(tt.backendType)
		if err != nil {
			t.Fatalf("CreateBackend(%s) failed: %v", tt.backendType, err)
		}
		if backend.GetName() != tt.expected {
			t.Errorf("Expected %s backend, got %s", tt.expected, backend.GetName())
		}
	}
}
