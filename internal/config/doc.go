// SPDX-License-Identifier: MPL-2.0

// Package config loads arduinogen configuration using Viper with CUE as the
// file format.
//
// Sources, lowest precedence first: built-in defaults, the configuration file
// (--config, else ./arduinogen.cue, else arduinogen/config.cue under the
// platform config directory), and the ARDUINO_INCLUDE_ROOT, ARDUINO_TARGET,
// AVR_INCLUDE_DIRECTORY and ARDUINO_RUNTIME_DIRECTORY environment variables.
// This is the only package that reads the environment; the resolver and the
// walker receive explicit values.
//
// Files are validated against the embedded schema (config_schema.cue) and path
// values are shell-expanded, so "$HOME/arduino" works in both files and
// environment variables.
package config
