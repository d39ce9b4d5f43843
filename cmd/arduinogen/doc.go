// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the arduinogen CLI: a Cobra command tree executed
// through fang. Handlers load configuration through the App's Provider,
// resolve the toolchain pair, and delegate to the discovery and buildplan
// packages. Fatal conditions are rendered to stderr with their issue guidance
// and surface as an *ExitError carrying a non-zero exit code.
package cmd
