// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"testing"
)

// ArduinoTree is a fake Arduino AVR hardware package laid out like
// /usr/share/arduino/hardware/arduino/avr, plus an avr-libc include directory.
type ArduinoTree struct {
	// Root contains cores/ and variants/.
	Root string
	// Core is Root/cores/arduino.
	Core string
	// AVRInclude holds avr/io.h.
	AVRInclude string
}

// RuntimeSources are the source files written into the fake core, including
// the vendor entry file main.cpp.
var RuntimeSources = []string{
	"wiring.c",
	"wiring_digital.c",
	"WInterrupts.c",
	"HardwareSerial.cpp",
	"Print.cpp",
	"main.cpp",
}

// RuntimeHeaders are the header files written into the fake core.
var RuntimeHeaders = []string{
	"Arduino.h",
	"Client.h",
	"IPAddress.h",
	"Print.h",
	"Stream.h",
	"USBAPI.h",
	"WString.h",
	"avr-libc/malloc.h",
}

// NewArduinoTree writes a fake hardware tree under t.TempDir() with both
// built-in board variants.
func NewArduinoTree(t testing.TB) ArduinoTree {
	t.Helper()
	base := t.TempDir()
	tree := ArduinoTree{
		Root:       filepath.Join(base, "hardware", "arduino", "avr"),
		AVRInclude: filepath.Join(base, "avr", "include"),
	}
	tree.Core = filepath.Join(tree.Root, "cores", "arduino")

	for _, name := range RuntimeSources {
		MustWriteFile(t, filepath.Join(tree.Core, name), []byte("/* "+name+" */\n"))
	}
	for _, name := range RuntimeHeaders {
		MustWriteFile(t, filepath.Join(tree.Core, filepath.FromSlash(name)), []byte("#pragma once\n"))
	}
	for _, variant := range []string{"standard", "mega"} {
		MustWriteFile(t, filepath.Join(tree.Root, "variants", variant, "pins_arduino.h"), []byte("#pragma once\n"))
	}
	MustWriteFile(t, filepath.Join(tree.AVRInclude, "avr", "io.h"), []byte("#pragma once\n"))
	return tree
}

// Variant returns the path of a variant directory.
func (a ArduinoTree) Variant(name string) string {
	return filepath.Join(a.Root, "variants", name)
}
