// SPDX-License-Identifier: MPL-2.0

// Package toolchain resolves a logical Arduino target (e.g. "avr-atmega328p")
// into the pair of compiler configurations needed to build the vendor runtime:
// one for C sources and one for C++ sources.
//
// Resolution is a pure function of Options. The package never reads the
// environment; callers populate Options from configuration. Filesystem access
// is limited to existence checks on the variant and standard-library include
// directories, and both are fatal when missing: compiling against absent or
// wrong headers produces firmware with undefined behavior.
//
// File organization:
//   - target.go: TargetSpec, Board and the supported-target table
//   - resolve.go: Options, Config and Resolve
//   - flags.go: fixed defines and code generation flags, argument vectors
//   - errors.go: UnknownTargetError, MissingDirectoryError
package toolchain
