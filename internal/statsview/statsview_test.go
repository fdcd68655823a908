//go:build !statsview

package statsview

import (
	"bytes"
	"testing"
)

func TestStubLaunch(t *testing.T) {
	if Available() {
		t.Fatal("stub build should not report the stats server as available")
	}

	var buf bytes.Buffer
	Launch(&buf, "")
	if buf.Len() != 0 {
		t.Errorf("stub Launch wrote %q", buf.String())
	}
}
