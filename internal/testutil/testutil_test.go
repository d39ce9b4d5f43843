// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMustSetenv_Restores(t *testing.T) {
	const key = "ARDUINOGEN_TESTUTIL_PROBE"
	restoreOuter := MustUnsetenv(t, key)
	defer restoreOuter()

	restore := MustSetenv(t, key, "value")
	if got := os.Getenv(key); got != "value" {
		t.Fatalf("Getenv = %q, want value", got)
	}
	restore()
	if _, ok := os.LookupEnv(key); ok {
		t.Error("MustSetenv cleanup should unset a previously unset variable")
	}
}

func TestSetConfigHome(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(SetConfigHome(t, dir))
	if got := os.Getenv("XDG_CONFIG_HOME"); got != dir {
		t.Errorf("XDG_CONFIG_HOME = %q, want %q", got, dir)
	}
}

func TestNewArduinoTree(t *testing.T) {
	t.Parallel()
	tree := NewArduinoTree(t)

	for _, p := range []string{
		filepath.Join(tree.Core, "Arduino.h"),
		filepath.Join(tree.Core, "main.cpp"),
		filepath.Join(tree.Core, "avr-libc", "malloc.h"),
		filepath.Join(tree.Variant("standard"), "pins_arduino.h"),
		filepath.Join(tree.Variant("mega"), "pins_arduino.h"),
		filepath.Join(tree.AVRInclude, "avr", "io.h"),
	} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected %s to exist: %v", p, err)
		}
	}
}

func TestContainerParallelism(t *testing.T) {
	t.Cleanup(MustSetenv(t, "ARDUINOGEN_TEST_CONTAINER_PARALLEL", "5"))
	if got := containerParallelism(); got != 5 {
		t.Errorf("containerParallelism() = %d, want 5", got)
	}
	t.Cleanup(MustSetenv(t, "ARDUINOGEN_TEST_CONTAINER_PARALLEL", "bogus"))
	if got := containerParallelism(); got < 1 || got > 2 {
		t.Errorf("containerParallelism() = %d, want 1 or 2", got)
	}
}
