// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"
)

// SetHomeDir sets the platform's home directory variable (USERPROFILE on
// Windows, HOME elsewhere) and returns a cleanup function restoring it.
//
//	t.Cleanup(testutil.SetHomeDir(t, t.TempDir()))
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		return MustSetenv(t, "USERPROFILE", dir)
	default:
		return MustSetenv(t, "HOME", dir)
	}
}

// SetConfigHome points XDG_CONFIG_HOME (and APPDATA on Windows) at dir so
// configuration lookups never touch the developer's real config.
func SetConfigHome(t testing.TB, dir string) func() {
	t.Helper()

	restoreXDG := MustSetenv(t, "XDG_CONFIG_HOME", dir)
	if runtime.GOOS != "windows" {
		return restoreXDG
	}
	restoreAppData := MustSetenv(t, "APPDATA", dir)
	return func() {
		restoreAppData()
		restoreXDG()
	}
}
