// SPDX-License-Identifier: MPL-2.0

// Package discovery enumerates the Arduino runtime tree: the flat list of C and
// C++ sources to compile, and the recursive set of headers used to build
// per-pass blocklists for the binding generator.
//
// The two walks are deliberately different. Source listing only reads the
// immediate runtime directory, because the vendor core is flat and nested
// directories hold unrelated code. Header discovery descends every
// subdirectory using an explicit work-list, with a configurable symlink
// policy, so the same physical header never appears twice in a HeaderSet.
//
// Unreadable roots are returned as errors. Unreadable nested directories are
// skipped and reported as Diagnostic values, which the CLI renders; the
// package itself never writes to stderr.
//
// File organization:
//   - walker.go: Walker, options and DirectoryError
//   - sources.go: ListSourceFiles and Sources
//   - headers.go: HeaderSet, DiscoverHeaders and Blocklist
//   - diagnostic.go: Diagnostic, Severity and diagnostic codes
package discovery
