// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and a catalog of Markdown guidance
// rendered when a build configuration step fails: unknown targets, missing
// include directories, unreadable runtime trees, and broken configuration.
package issue
