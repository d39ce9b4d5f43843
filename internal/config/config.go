// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/arduinogen/arduinogen/internal/issue"
	"github.com/arduinogen/arduinogen/pkg/cueutil"
	"github.com/arduinogen/arduinogen/pkg/toolchain"
	"github.com/arduinogen/arduinogen/pkg/types"

	"github.com/spf13/viper"
	"mvdan.cc/sh/v3/shell"
)

const (
	// AppName is the application name.
	AppName = "arduinogen"
	// ConfigFileName is the name of the user config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// ProjectFileName is the project-local config file looked up in the base directory.
	ProjectFileName = AppName + "." + ConfigFileExt

	// EnvIncludeRoot overrides include_root.
	EnvIncludeRoot = "ARDUINO_INCLUDE_ROOT"
	// EnvTarget overrides target.
	EnvTarget = "ARDUINO_TARGET"
	// EnvAVRInclude overrides avr_include.
	EnvAVRInclude = "AVR_INCLUDE_DIRECTORY"
	// EnvRuntimeDir overrides runtime_dir.
	EnvRuntimeDir = "ARDUINO_RUNTIME_DIRECTORY"
)

//go:embed config_schema.cue
var configSchema []byte

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"include_root": EnvIncludeRoot,
	"target":       EnvTarget,
	"avr_include":  EnvAVRInclude,
	"runtime_dir":  EnvRuntimeDir,
}

// ConfigDir returns the arduinogen configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string
	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// UserConfigPath returns the path of the per-user config file.
func UserConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// FindConfigFile returns the config file that Load would read, or "" when
// none exists and defaults apply.
func FindConfigFile(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		return string(opts.ConfigFilePath), nil
	}

	local := ProjectFileName
	if opts.BaseDir != "" {
		local = filepath.Join(string(opts.BaseDir), ProjectFileName)
	}
	if fileExists(local) {
		return local, nil
	}

	cfgDir, err := configDirWithOverride(string(opts.ConfigDirPath))
	if err != nil {
		return "", err
	}
	user := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	if fileExists(user) {
		return user, nil
	}
	return "", nil
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if err := opts.Validate(); err != nil {
		return nil, "", err
	}

	v := viper.New()
	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, "", fmt.Errorf("internal error: binding %s: %w", env, err)
		}
	}

	if opts.ConfigFilePath != "" && !fileExists(string(opts.ConfigFilePath)) {
		return nil, "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(string(opts.ConfigFilePath)).
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Use 'arduinogen config show' to see the default configuration").
			Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
			BuildError()
	}

	resolvedPath, err := FindConfigFile(opts)
	if err != nil {
		return nil, "", err
	}
	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	if err := expandPaths(&cfg); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("expand configuration paths").
			WithResource(resolvedPath).
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Only $VAR and ${VAR} expansions are supported in paths").
			Wrap(err).
			BuildError()
	}
	if err := cfg.Validate(); err != nil {
		id := issue.ConfigLoadFailedId
		if errors.Is(err, toolchain.ErrInvalidBoard) {
			id = issue.InvalidBoardId
		}
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithIssue(id).
			WithSuggestion("Check the " + EnvTarget + " environment variable and the boards list").
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("target", string(defaults.Target))
	v.SetDefault("include_root", string(defaults.IncludeRoot))
	v.SetDefault("core_name", defaults.CoreName)
	v.SetDefault("runtime_dir", "")
	v.SetDefault("avr_include", "")
	v.SetDefault("avr_include_candidates", []string{})
	v.SetDefault("out_dir", string(defaults.OutDir))
	v.SetDefault("entry_source", defaults.EntrySource)
	v.SetDefault("follow_symlinks", defaults.FollowSymlinks)
	v.SetDefault("boards", []any{})
	v.SetDefault("bindings", []any{})
	v.SetDefault("ui.color_scheme", string(defaults.UI.ColorScheme))
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
}

// expandPaths applies shell parameter expansion ($HOME, ${VAR}) to every path
// field, using the process environment.
func expandPaths(cfg *Config) error {
	expand := func(field string, p *types.FilesystemPath) error {
		if *p == "" {
			return nil
		}
		out, err := shell.Expand(string(*p), nil)
		if err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
		*p = types.FilesystemPath(out)
		return nil
	}

	errs := []error{
		expand("include_root", &cfg.IncludeRoot),
		expand("runtime_dir", &cfg.RuntimeDir),
		expand("avr_include", &cfg.AVRInclude),
		expand("out_dir", &cfg.OutDir),
	}
	for i := range cfg.AVRIncludeCandidates {
		errs = append(errs, expand(fmt.Sprintf("avr_include_candidates[%d]", i), &cfg.AVRIncludeCandidates[i]))
	}
	return errors.Join(errs...)
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}
	return ConfigDir()
}

// loadCUEIntoViper validates a CUE file against #Config and merges it into
// Viper. Decoding to a map keeps Viper's default and environment layering
// intact; fields are optional, so concreteness is not required.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	result, err := cueutil.ParseAndDecode[map[string]any](configSchema, data, "#Config",
		cueutil.WithFilename(path),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(*result.Value); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// WriteFile writes cfg as CUE to path, creating parent directories. An
// existing file is only replaced when force is set.
func WriteFile(path string, cfg *Config, force bool) error {
	if !force && fileExists(path) {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateCUE generates a CUE representation of the configuration.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// arduinogen configuration\n")
	sb.WriteString("// Environment variables " + EnvIncludeRoot + ", " + EnvTarget + ",\n")
	sb.WriteString("// " + EnvAVRInclude + " and " + EnvRuntimeDir + " override these values.\n\n")

	fmt.Fprintf(&sb, "target:       %q\n", cfg.Target)
	fmt.Fprintf(&sb, "include_root: %q\n", cfg.IncludeRoot)
	fmt.Fprintf(&sb, "core_name:    %q\n", cfg.CoreName)
	if cfg.RuntimeDir != "" {
		fmt.Fprintf(&sb, "runtime_dir:  %q\n", cfg.RuntimeDir)
	}
	if cfg.AVRInclude != "" {
		fmt.Fprintf(&sb, "avr_include:  %q\n", cfg.AVRInclude)
	}
	fmt.Fprintf(&sb, "out_dir:      %q\n", cfg.OutDir)
	fmt.Fprintf(&sb, "entry_source: %q\n", cfg.EntrySource)
	fmt.Fprintf(&sb, "follow_symlinks: %v\n", cfg.FollowSymlinks)

	if len(cfg.AVRIncludeCandidates) > 0 {
		sb.WriteString("\navr_include_candidates: [\n")
		for _, c := range cfg.AVRIncludeCandidates {
			fmt.Fprintf(&sb, "\t%q,\n", c)
		}
		sb.WriteString("]\n")
	}

	if len(cfg.Boards) > 0 {
		sb.WriteString("\nboards: [\n")
		for _, b := range cfg.Boards {
			fmt.Fprintf(&sb, "\t{target: %q, define: %q, variant: %q},\n", b.Target, b.Define, b.Variant)
		}
		sb.WriteString("]\n")
	}

	if len(cfg.Bindings) > 0 {
		sb.WriteString("\nbindings: [\n")
		for _, b := range cfg.Bindings {
			fmt.Fprintf(&sb, "\t{header: %q, output: %q},\n", b.Header, b.Output)
		}
		sb.WriteString("]\n")
	}

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose:      %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}
