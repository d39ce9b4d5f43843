// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"slices"
	"testing"
)

func sampleConfig(lang Language) Config {
	cfg := Config{
		Target:             TargetATmega328P,
		Language:           lang,
		Compiler:           "avr-gcc",
		StdFlag:            "-std=gnu11",
		MachineFlag:        "atmega328p",
		BoardDefine:        "ARDUINO_AVR_UNO",
		CoreIncludePath:    "/hw/cores/arduino",
		VariantIncludePath: "/hw/variants/standard",
		AVRIncludePath:     "/usr/avr/include",
	}
	if lang == LanguageCXX {
		cfg.Compiler = "avr-g++"
		cfg.StdFlag = "-std=gnu++11"
	}
	return cfg
}

func TestDefine_Flag(t *testing.T) {
	t.Parallel()
	if got := (Define{Name: "F_CPU", Value: CPUFrequency}).Flag(); got != "-DF_CPU=16000000L" {
		t.Errorf("Flag() = %q", got)
	}
	if got := (Define{Name: ArchDefine}).Flag(); got != "-DARDUINO_ARCH_AVR" {
		t.Errorf("Flag() = %q", got)
	}
}

func TestConfig_CompilerArgs(t *testing.T) {
	t.Parallel()

	c := sampleConfig(LanguageC).CompilerArgs()
	want := []string{
		"-I/hw/cores/arduino",
		"-I/hw/variants/standard",
		"-DF_CPU=16000000L",
		"-DARDUINO=10807",
		"-DARDUINO_AVR_UNO",
		"-DARDUINO_ARCH_AVR",
		"-mmcu=atmega328p",
		"-std=gnu11",
		"-Os",
		"-fno-exceptions",
		"-ffunction-sections",
		"-fdata-sections",
		"-fno-threadsafe-statics",
	}
	if !slices.Equal(c, want) {
		t.Errorf("C CompilerArgs() =\n %v\nwant\n %v", c, want)
	}

	cxx := sampleConfig(LanguageCXX).CompilerArgs()
	if !slices.Contains(cxx, "-fpermissive") || !slices.Contains(cxx, "-std=gnu++11") {
		t.Errorf("C++ CompilerArgs() = %v, want -fpermissive and -std=gnu++11", cxx)
	}
	if slices.Contains(c, "-fpermissive") {
		t.Error("C CompilerArgs() must not carry -fpermissive")
	}
}

func TestConfig_BindgenArgs(t *testing.T) {
	t.Parallel()

	args := sampleConfig(LanguageCXX).BindgenArgs()
	if len(args) < 2 || args[0] != "-x" || args[1] != "c++" {
		t.Errorf("C++ BindgenArgs() should start with -x c++, got %v", args)
	}
	for _, want := range []string{"-I/usr/avr/include", "-mmcu=atmega328p", "-DARDUINO_AVR_UNO"} {
		if !slices.Contains(args, want) {
			t.Errorf("BindgenArgs() missing %q: %v", want, args)
		}
	}
	if slices.Contains(sampleConfig(LanguageC).BindgenArgs(), "c++") {
		t.Error("C BindgenArgs() must not force c++ mode")
	}
}

func TestCodegenFlags_ReturnsCopy(t *testing.T) {
	t.Parallel()
	flags := CodegenFlags()
	flags[0] = "-O3"
	if CodegenFlags()[0] != "-Os" {
		t.Error("CodegenFlags exposes the package slice")
	}
}
