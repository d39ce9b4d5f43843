// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/arduinogen/arduinogen/internal/config"
	"github.com/arduinogen/arduinogen/internal/discovery"
	"github.com/arduinogen/arduinogen/internal/issue"
	"github.com/arduinogen/arduinogen/pkg/toolchain"
	"github.com/arduinogen/arduinogen/pkg/types"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: every Cobra handler receives an App and reads
	// configuration only through its Provider.
	App struct {
		Config config.Provider
		stdout io.Writer
		stderr io.Writer
		logger *slog.Logger
		flags  rootFlags
		// issueStyle is the glamour style for issue guidance.
		issueStyle string
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Stdout io.Writer
		Stderr io.Writer
	}

	// rootFlags holds the persistent flags shared by every subcommand.
	rootFlags struct {
		configPath string
		target     string
		verbose    bool
		logLevel   string
	}

	// session is the per-invocation state most commands need: the loaded
	// configuration and the resolved toolchain pair.
	session struct {
		cfg *config.Config
		c   toolchain.Config
		cxx toolchain.Config
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	return &App{
		Config:     deps.Config,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
		logger:     slog.New(slog.DiscardHandler),
		issueStyle: string(config.ColorSchemeAuto),
	}
}

// newLogger returns a slog logger backed by charm log. The default level is
// warn; --log-level picks another and --verbose forces debug.
func newLogger(w io.Writer, verbose bool, level string) (*slog.Logger, error) {
	lvl := log.WarnLevel
	if level != "" {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("%w: --log-level %q: %w", ErrInvalidFlag, level, err)
		}
		lvl = parsed
	}
	if verbose {
		lvl = log.DebugLevel
	}
	handler := log.NewWithOptions(w, log.Options{
		Level:  lvl,
		Prefix: config.AppName,
	})
	return slog.New(handler), nil
}

// setupLogging installs the logger described by the persistent flags.
func (a *App) setupLogging() error {
	logger, err := newLogger(a.stderr, a.flags.verbose, a.flags.logLevel)
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

// loadConfig loads configuration and applies the --target override, which
// beats both the file and ARDUINO_TARGET.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: types.FilesystemPath(a.flags.configPath),
	})
	if err != nil {
		return nil, err
	}
	if a.flags.target != "" {
		target, err := toolchain.ParseTarget(a.flags.target)
		if err != nil {
			return nil, err
		}
		cfg.Target = target
	}
	if cfg.UI.Verbose && !a.flags.verbose {
		a.flags.verbose = true
		if err := a.setupLogging(); err != nil {
			return nil, err
		}
	}
	a.issueStyle = string(cfg.UI.ColorScheme)
	a.logger.Debug("configuration loaded", "target", cfg.Target, "include_root", cfg.IncludeRoot)
	return cfg, nil
}

// resolve loads configuration and resolves the toolchain pair. Configs are
// rebuilt on every call.
func (a *App) resolve(ctx context.Context) (*session, error) {
	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.ToolchainOptions()
	if err != nil {
		return nil, err
	}
	c, cxx, err := toolchain.Resolve(opts)
	if err != nil {
		return nil, resolveError(cfg, err)
	}
	a.logger.Debug("toolchain resolved",
		"target", cxx.Target,
		"variant", cxx.VariantIncludePath,
		"avr_include", cxx.AVRIncludePath)
	return &session{cfg: cfg, c: c, cxx: cxx}, nil
}

// resolveError attaches the suggestions that fit a resolver failure.
func resolveError(cfg *config.Config, err error) error {
	ec := issue.NewErrorContext().
		WithOperation("resolve toolchain").
		WithResource(string(cfg.Target))

	var missing *toolchain.MissingDirectoryError
	switch {
	case errors.Is(err, toolchain.ErrUnknownTarget):
		ec.WithSuggestion("Run 'arduinogen targets' to list supported targets")
	case errors.As(err, &missing) && missing.Role == toolchain.DirectoryVariant:
		ec.WithSuggestion("Set " + config.EnvIncludeRoot + " to the Arduino hardware package containing variants/")
	case errors.As(err, &missing) && missing.Override:
		ec.WithSuggestion("Fix or unset " + config.EnvAVRInclude + "; an override is never replaced by the built-in locations")
	case errors.As(err, &missing):
		ec.WithSuggestion("Install avr-libc or set " + config.EnvAVRInclude + " to its include directory")
	}
	return ec.Wrap(err).BuildError()
}

// walker builds a discovery walker from configuration.
func (a *App) walker(cfg *config.Config) *discovery.Walker {
	opts := []discovery.Option{
		discovery.WithLogger(a.logger),
		discovery.WithFollowSymlinks(cfg.FollowSymlinks),
	}
	if cfg.EntrySource != "" {
		opts = append(opts, discovery.WithExcludedSources(cfg.EntrySource))
	}
	return discovery.NewWalker(opts...)
}

// headerRoots are the default header discovery roots: the runtime directory
// and the board variant.
func (s *session) headerRoots() []types.FilesystemPath {
	return []types.FilesystemPath{s.cfg.RuntimeDirectory(), s.cxx.VariantIncludePath}
}

// fail renders err with its issue guidance and returns the matching
// *ExitError. Cobra's own error printing is silenced.
func (a *App) fail(cmd *cobra.Command, err error) error {
	svcErr := classifyError(err, a.flags.verbose)
	renderServiceError(a.stderr, svcErr, a.issueStyle)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return &ExitError{Code: svcErr.Code, Err: err}
}

// renderDiagnostics writes discovery diagnostics to stderr. Skipped symlinked
// directories are expected with the default policy and only shown in verbose
// mode.
func (a *App) renderDiagnostics(diags []discovery.Diagnostic) {
	for _, diag := range diags {
		if diag.Code == discovery.CodeSymlinkSkipped && !a.flags.verbose {
			continue
		}
		prefix := WarningStyle.Render("warning")
		if diag.Severity == discovery.SeverityError {
			prefix = ErrorStyle.Render("error")
		}
		if diag.Path != "" {
			_, _ = fmt.Fprintf(a.stderr, "%s: %s (%s)\n", prefix, diag.Message, diag.Path)
			continue
		}
		_, _ = fmt.Fprintf(a.stderr, "%s: %s\n", prefix, diag.Message)
	}
}
