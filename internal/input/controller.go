// Package input implements the eight-button controller and its snapshot.
package input

import (
	"fmt"
	"log"
)

// Button represents controller buttons. The values are the bit positions
// used in the input register.
type Button uint8

const (
	ButtonA Button = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// Convenience constants for shorter names used in key mappings
const (
	A      = ButtonA
	B      = ButtonB
	Select = ButtonSelect
	Start  = ButtonStart
	Up     = ButtonUp
	Down   = ButtonDown
	Left   = ButtonLeft
	Right  = ButtonRight
)

// String returns the button name
func (b Button) String() string {
	switch b {
	case ButtonA:
		return "A"
	case ButtonB:
		return "B"
	case ButtonSelect:
		return "Select"
	case ButtonStart:
		return "Start"
	case ButtonUp:
		return "Up"
	case ButtonDown:
		return "Down"
	case ButtonLeft:
		return "Left"
	case ButtonRight:
		return "Right"
	default:
		return fmt.Sprintf("Button(0x%02X)", uint8(b))
	}
}

// State is a snapshot of the eight buttons
type State struct {
	Up     bool
	Down   bool
	Left   bool
	Right  bool
	A      bool
	B      bool
	Select bool
	Start  bool
}

// Mask packs the snapshot into the input register byte
// (bit 0 = A ... bit 7 = Right)
func (s State) Mask() uint8 {
	var mask uint8
	if s.A {
		mask |= uint8(ButtonA)
	}
	if s.B {
		mask |= uint8(ButtonB)
	}
	if s.Select {
		mask |= uint8(ButtonSelect)
	}
	if s.Start {
		mask |= uint8(ButtonStart)
	}
	if s.Up {
		mask |= uint8(ButtonUp)
	}
	if s.Down {
		mask |= uint8(ButtonDown)
	}
	if s.Left {
		mask |= uint8(ButtonLeft)
	}
	if s.Right {
		mask |= uint8(ButtonRight)
	}
	return mask
}

// StateFromMask unpacks an input register byte
func StateFromMask(mask uint8) State {
	return State{
		A:      mask&uint8(ButtonA) != 0,
		B:      mask&uint8(ButtonB) != 0,
		Select: mask&uint8(ButtonSelect) != 0,
		Start:  mask&uint8(ButtonStart) != 0,
		Up:     mask&uint8(ButtonUp) != 0,
		Down:   mask&uint8(ButtonDown) != 0,
		Left:   mask&uint8(ButtonLeft) != 0,
		Right:  mask&uint8(ButtonRight) != 0,
	}
}

// Controller holds the live button state fed by the window's keyboard handler
type Controller struct {
	buttons uint8

	// Debug tracking
	pollCount    uint64
	debugEnabled bool
}

// New creates a new Controller instance with no buttons pressed
func New() *Controller {
	return &Controller{}
}

// SetButton sets the state of a button
func (c *Controller) SetButton(button Button, pressed bool) {
	oldButtons := c.buttons

	if pressed {
		c.buttons |= uint8(button)
	} else {
		c.buttons &^= uint8(button)
	}

	if c.debugEnabled && oldButtons != c.buttons {
		log.Printf("[BUTTON_DEBUG] SetButton: button=%s, pressed=%t, oldButtons=0x%02X, newButtons=0x%02X",
			button, pressed, oldButtons, c.buttons)
	}
}

// SetButtons sets all button states at once, in the order
// A, B, Select, Start, Up, Down, Left, Right
func (c *Controller) SetButtons(buttons [8]bool) {
	oldButtons := c.buttons

	c.buttons = 0
	for i, pressed := range buttons {
		if pressed {
			c.buttons |= 1 << i
		}
	}

	if c.debugEnabled && oldButtons != c.buttons {
		log.Printf("[BUTTON_DEBUG] SetButtons: oldButtons=0x%02X, newButtons=0x%02X", oldButtons, c.buttons)
	}
}

// IsPressed returns true if the button is currently pressed
func (c *Controller) IsPressed(button Button) bool {
	return (c.buttons & uint8(button)) != 0
}

// Buttons returns the raw button bitmask
func (c *Controller) Buttons() uint8 {
	return c.buttons
}

// State returns a snapshot of the buttons. Called once per engine step.
func (c *Controller) State() State {
	c.pollCount++
	return StateFromMask(c.buttons)
}

// PollCount returns how many snapshots have been taken since reset
func (c *Controller) PollCount() uint64 {
	return c.pollCount
}

// Reset releases every button
func (c *Controller) Reset() {
	c.buttons = 0
	c.pollCount = 0
}

// EnableDebug enables debug logging for this controller
func (c *Controller) EnableDebug(enable bool) {
	c.debugEnabled = enable
}
