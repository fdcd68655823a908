package cartridge

import "fmt"

// LoadErrorKind classifies cartridge load failures
type LoadErrorKind int

const (
	// TooSmall means the image is shorter than the 16-byte header
	TooSmall LoadErrorKind = iota
)

// String returns the name of the error kind
func (k LoadErrorKind) String() string {
	switch k {
	case TooSmall:
		return "TooSmall"
	default:
		return fmt.Sprintf("LoadErrorKind(%d)", int(k))
	}
}

// LoadError is returned when a cartridge image cannot be loaded
type LoadError struct {
	Kind LoadErrorKind
	Size int
}

func (e *LoadError) Error() string {
	switch e.Kind {
	case TooSmall:
		return fmt.Sprintf("invalid ROM: too small (%d bytes, need at least %d)", e.Size, HeaderSize)
	default:
		return fmt.Sprintf("invalid ROM: %v", e.Kind)
	}
}

// Is matches any LoadError of the same kind, so callers can write
// errors.Is(err, cartridge.ErrTooSmall)
func (e *LoadError) Is(target error) bool {
	t, ok := target.(*LoadError)
	return ok && t.Kind == e.Kind
}

// ErrTooSmall matches LoadErrors of kind TooSmall
var ErrTooSmall = &LoadError{Kind: TooSmall}
