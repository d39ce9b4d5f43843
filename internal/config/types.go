// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arduinogen/arduinogen/pkg/fspath"
	"github.com/arduinogen/arduinogen/pkg/toolchain"
	"github.com/arduinogen/arduinogen/pkg/types"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultOutDir is where generated libraries and bindings are written.
	DefaultOutDir types.FilesystemPath = "build"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidBindingEntry is the sentinel error wrapped by InvalidBindingEntryError.
	ErrInvalidBindingEntry = errors.New("invalid binding entry")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// Config holds the application configuration.
	Config struct {
		// Target is the logical target, e.g. "avr-atmega328p".
		Target toolchain.TargetSpec `json:"target" mapstructure:"target"`
		// IncludeRoot is the Arduino hardware package containing cores/ and variants/.
		IncludeRoot types.FilesystemPath `json:"include_root" mapstructure:"include_root"`
		// CoreName selects <include_root>/cores/<core_name>.
		CoreName string `json:"core_name" mapstructure:"core_name"`
		// RuntimeDir holds the runtime sources and headers. Empty means the core directory.
		RuntimeDir types.FilesystemPath `json:"runtime_dir" mapstructure:"runtime_dir"`
		// AVRInclude overrides the standard-library include search.
		AVRInclude types.FilesystemPath `json:"avr_include" mapstructure:"avr_include"`
		// AVRIncludeCandidates replaces the well-known standard-library locations.
		AVRIncludeCandidates []types.FilesystemPath `json:"avr_include_candidates" mapstructure:"avr_include_candidates"`
		// OutDir receives compiled libraries and generated bindings.
		OutDir types.FilesystemPath `json:"out_dir" mapstructure:"out_dir"`
		// EntrySource is the vendor entry file excluded from compilation.
		EntrySource string `json:"entry_source" mapstructure:"entry_source"`
		// FollowSymlinks enables descending symlinked directories during header discovery.
		FollowSymlinks bool `json:"follow_symlinks" mapstructure:"follow_symlinks"`
		// Boards extends or overrides the built-in board table.
		Boards []BoardEntry `json:"boards" mapstructure:"boards"`
		// Bindings replaces the default binding passes when non-empty.
		Bindings []BindingEntry `json:"bindings" mapstructure:"bindings"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// BoardEntry declares one additional target.
	BoardEntry struct {
		Target  toolchain.TargetSpec `json:"target" mapstructure:"target"`
		Define  string               `json:"define" mapstructure:"define"`
		Variant string               `json:"variant" mapstructure:"variant"`
	}

	// BindingEntry declares one binding generator pass.
	BindingEntry struct {
		Header types.HeaderName `json:"header" mapstructure:"header"`
		Output string           `json:"output" mapstructure:"output"`
	}

	// InvalidBindingEntryError is returned when a BindingEntry has an invalid field.
	InvalidBindingEntryError struct {
		Index       int
		FieldErrors []error
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme.
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug logging and diagnostic output.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// InvalidConfigError aggregates every field problem found by Config.Validate.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Target:      toolchain.TargetATmega328P,
		IncludeRoot: toolchain.DefaultIncludeRoot,
		CoreName:    toolchain.DefaultCoreName,
		OutDir:      DefaultOutDir,
		EntrySource: "main.cpp",
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// RuntimeDirectory returns RuntimeDir, defaulting to <include_root>/cores/<core_name>.
func (c *Config) RuntimeDirectory() types.FilesystemPath {
	if c.RuntimeDir != "" {
		return c.RuntimeDir
	}
	core := c.CoreName
	if core == "" {
		core = toolchain.DefaultCoreName
	}
	return fspath.JoinStr(c.IncludeRoot, "cores", core)
}

// BoardTable returns the built-in boards overlaid with the configured ones.
func (c *Config) BoardTable() (toolchain.BoardTable, error) {
	extra := make(toolchain.BoardTable, len(c.Boards))
	for _, b := range c.Boards {
		extra[b.Target] = toolchain.Board{Define: b.Define, Variant: b.Variant}
	}
	return toolchain.BuiltinBoards().WithExtra(extra)
}

// ToolchainOptions converts the configuration into resolver input.
func (c *Config) ToolchainOptions() (toolchain.Options, error) {
	boards, err := c.BoardTable()
	if err != nil {
		return toolchain.Options{}, err
	}
	var candidates []types.FilesystemPath
	if len(c.AVRIncludeCandidates) > 0 {
		candidates = c.AVRIncludeCandidates
	}
	return toolchain.Options{
		Target:               c.Target,
		IncludeRoot:          c.IncludeRoot,
		CoreName:             c.CoreName,
		AVRIncludeOverride:   c.AVRInclude,
		AVRIncludeCandidates: candidates,
		Boards:               boards,
	}, nil
}

// Validate checks every field and returns an *InvalidConfigError listing all
// problems, or nil.
func (c Config) Validate() error {
	var errs []error
	if err := c.Target.Validate(); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(string(c.IncludeRoot)) == "" {
		errs = append(errs, fmt.Errorf("include_root: %w", types.ErrInvalidFilesystemPath))
	}
	for i, p := range c.AVRIncludeCandidates {
		if err := p.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("avr_include_candidates[%d]: %w", i, err))
		}
	}
	for _, b := range c.Boards {
		if err := b.Target.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := (toolchain.Board{Define: b.Define, Variant: b.Variant}).Validate(b.Target); err != nil {
			errs = append(errs, err)
		}
	}
	for i, b := range c.Bindings {
		if err := b.validate(i); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig and every field error for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

func (b BindingEntry) validate(index int) error {
	var errs []error
	if err := b.Header.Validate(); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(b.Output) == "" || strings.ContainsAny(b.Output, `/\`) {
		errs = append(errs, fmt.Errorf("output %q must be a file name", b.Output))
	}
	if len(errs) > 0 {
		return &InvalidBindingEntryError{Index: index, FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface for InvalidBindingEntryError.
func (e *InvalidBindingEntryError) Error() string {
	return fmt.Sprintf("bindings[%d]: %v", e.Index, errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidBindingEntry for errors.Is() compatibility.
func (e *InvalidBindingEntryError) Unwrap() error { return ErrInvalidBindingEntry }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// Validate returns an error if cs is not a known color scheme.
func (cs ColorScheme) Validate() error {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: cs}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }
