// SPDX-License-Identifier: MPL-2.0

// Package buildplan turns a resolved toolchain pair and a runtime tree into
// the steps an external orchestrator runs: compiling the runtime sources into
// two static libraries, and invoking the binding generator once per entry
// header with that pass's blocklist.
//
// The planner only reads the filesystem. It never spawns a compiler or the
// binding generator; Render emits the plan as a POSIX shell script or as TOML
// or JSON for tools that drive the build themselves.
package buildplan
