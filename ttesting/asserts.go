// Package ttesting holds small assertion helpers shared by the tests of
// several packages.
package ttesting

import (
	"bytes"
	"testing"
)

func AssertEqualInt(t *testing.T, name string, got, want int) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %d; want %d", got, want)
		}
	})
}

func AssertEqualString(t *testing.T, name string, got, want string) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %q; want %q", got, want)
		}
	})
}

// AssertEqualBytes compares byte slices and reports the first mismatching
// offset.
func AssertEqualBytes(t *testing.T, name string, got, want []byte) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if bytes.Equal(got, want) {
			return
		}
		if len(got) != len(want) {
			t.Errorf("got %d bytes; want %d", len(got), len(want))
			return
		}
		for i := range got {
			if got[i] != want[i] {
				t.Errorf("byte %d: got %#02x; want %#02x", i, got[i], want[i])
				return
			}
		}
	})
}
