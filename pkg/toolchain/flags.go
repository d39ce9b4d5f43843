// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"slices"

	"github.com/arduinogen/arduinogen/pkg/types"
)

// Fixed configuration constants. These are environment-independent and are
// combined with a resolved Config; they are not resolver outputs.
const (
	// CPUFrequency is the F_CPU oscillator frequency definition.
	CPUFrequency = "16000000L"
	// ArduinoVersion is the ARDUINO version-identifier definition.
	ArduinoVersion = "10807"
	// ArchDefine is the architecture-family definition.
	ArchDefine = "ARDUINO_ARCH_AVR"
)

// codegenFlags: size optimization, no exceptions, per-function/data sections
// for --gc-sections, and no thread-safe static guards (single-threaded target).
var codegenFlags = []string{
	"-Os",
	"-fno-exceptions",
	"-ffunction-sections",
	"-fdata-sections",
	"-fno-threadsafe-statics",
}

// Define is one preprocessor definition. An empty Value defines the bare symbol.
type Define struct {
	Name  string `json:"name" toml:"name"`
	Value string `json:"value,omitempty" toml:"value,omitempty"`
}

// Flag renders the definition as a -D compiler flag.
func (d Define) Flag() string {
	if d.Value == "" {
		return "-D" + d.Name
	}
	return "-D" + d.Name + "=" + d.Value
}

// CodegenFlags returns a copy of the fixed code generation flags.
func CodegenFlags() []string {
	return slices.Clone(codegenFlags)
}

// Defines returns the preprocessor definitions for this configuration:
// the fixed constants plus the board define.
func (c Config) Defines() []Define {
	return []Define{
		{Name: "F_CPU", Value: CPUFrequency},
		{Name: "ARDUINO", Value: ArduinoVersion},
		{Name: c.BoardDefine},
		{Name: ArchDefine},
	}
}

// IncludePaths returns the compiler include directories: core then variant.
// The standard-library directory is implied by the compiler's own sysroot.
func (c Config) IncludePaths() []types.FilesystemPath {
	return []types.FilesystemPath{c.CoreIncludePath, c.VariantIncludePath}
}

// MachineArg returns the -mmcu code generation flag.
func (c Config) MachineArg() string {
	return "-mmcu=" + c.MachineFlag
}

// CompilerArgs returns the full argument vector (minus input and output files)
// for compiling one runtime source in this configuration's language.
func (c Config) CompilerArgs() []string {
	var args []string
	for _, p := range c.IncludePaths() {
		args = append(args, "-I"+string(p))
	}
	for _, d := range c.Defines() {
		args = append(args, d.Flag())
	}
	args = append(args, c.MachineArg(), c.StdFlag)
	if c.Language == LanguageCXX {
		args = append(args, "-fpermissive")
	}
	return append(args, codegenFlags...)
}

// BindgenArgs returns the clang arguments handed to the binding generator.
// Unlike CompilerArgs they name the standard-library include directory
// explicitly, since clang does not know the AVR sysroot.
func (c Config) BindgenArgs() []string {
	var args []string
	if c.Language == LanguageCXX {
		args = append(args, "-x", "c++")
	}
	args = append(args,
		"-I"+string(c.CoreIncludePath),
		"-I"+string(c.VariantIncludePath),
		"-I"+string(c.AVRIncludePath),
	)
	for _, d := range c.Defines() {
		args = append(args, d.Flag())
	}
	return append(args, c.MachineArg())
}
