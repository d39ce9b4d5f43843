// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// NewRootCommand builds the command tree bound to app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "arduinogen",
		Short: "Configure Arduino runtime cross-compilation and binding generation",
		Long: TitleStyle.Render("arduinogen") + SubtitleStyle.Render(" - Arduino runtime build and binding planner") + `

arduinogen resolves the AVR toolchain configuration for a board target,
lists the vendor runtime sources to compile, and computes the header
blocklists for each foreign-function binding pass.

` + SubtitleStyle.Render("Examples:") + `
  arduinogen targets                   List supported targets
  arduinogen resolve --format toml     Show the C and C++ toolchain configs
  arduinogen plan > build.sh           Write the compile and binding script
  arduinogen config init               Create arduinogen.cue`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setupLogging(); err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&app.flags.configPath, "config", "", "config file (default is ./arduinogen.cue, then the user config dir)")
	pf.StringVarP(&app.flags.target, "target", "t", "", "target to resolve, overriding ARDUINO_TARGET and the config file")
	pf.BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVar(&app.flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newTargetsCommand(app),
		newResolveCommand(app),
		newSourcesCommand(app),
		newHeadersCommand(app),
		newBlocklistCommand(app),
		newPlanCommand(app),
		newConfigCommand(app),
	)
	return rootCmd
}

// Execute runs the CLI with production dependencies and exits the process
// with the command's exit code.
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// errorHandler leaves already rendered failures alone and lets fang style
// everything else, such as unknown flags.
func errorHandler(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}
