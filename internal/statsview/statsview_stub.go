//go:build !statsview

package statsview

import "io"

// DefaultAddress is used when Launch is given an empty address
const DefaultAddress = "localhost:12680"

// Launch does nothing without the statsview build tag
func Launch(output io.Writer, addr string) {}

// Available reports whether this build can launch the stats server
func Available() bool {
	return false
}
