//go:build linux

package platform

import (
	"os"
	"testing"
)

func TestDetectDistro_Linux(t *testing.T) {
	t.Parallel()

	got := detectDistro()

	// On a real Linux system, /etc/os-release should exist and return a non-empty distro.
	if _, err := os.Stat(osReleasePath); err == nil {
		if got == "" {
			t.Error("detectDistro() returned empty string, but /etc/os-release exists")
		}
	}
}
