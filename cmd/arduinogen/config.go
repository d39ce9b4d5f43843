// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arduinogen/arduinogen/internal/config"
	"github.com/arduinogen/arduinogen/pkg/types"
)

// newConfigCommand creates the `arduinogen config` command tree.
// Subcommands that read configuration use the App's Provider.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage arduinogen configuration",
		Long: `Manage arduinogen configuration.

Configuration is read from the first of:
  - the file given with --config
  - ./arduinogen.cue
  - the user config file (e.g. ~/.config/arduinogen/config.cue on Linux)

The environment variables ARDUINO_INCLUDE_ROOT, ARDUINO_TARGET,
AVR_INCLUDE_DIRECTORY and ARDUINO_RUNTIME_DIRECTORY override file values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := showConfig(cmd, app); err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	})

	var (
		force bool
		user  bool
	)
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(app, force, user); err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	initCmd.Flags().BoolVar(&user, "user", false, "write the user config file instead of ./"+config.ProjectFileName)
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := showConfigPath(app); err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(cmd *cobra.Command, app *App) error {
	cfg, err := app.loadConfig(cmd.Context())
	if err != nil {
		return err
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	w := app.stdout

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	path, err := config.FindConfigFile(config.LoadOptions{ConfigFilePath: types.FilesystemPath(app.flags.configPath)})
	if err != nil || path == "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), path)
	}
	fmt.Fprintln(w)

	field := func(key, value string) {
		if value == "" {
			value = SubtitleStyle.Render("(unset)")
		} else {
			value = valueStyle.Render(value)
		}
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render(key), value)
	}
	field("target", string(cfg.Target))
	field("include_root", string(cfg.IncludeRoot))
	field("core_name", cfg.CoreName)
	field("runtime_dir", string(cfg.RuntimeDirectory()))
	field("avr_include", string(cfg.AVRInclude))
	field("out_dir", string(cfg.OutDir))
	field("entry_source", cfg.EntrySource)
	field("follow_symlinks", fmt.Sprintf("%v", cfg.FollowSymlinks))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("boards"))
	if len(cfg.Boards) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(built-in only)"))
	}
	for _, b := range cfg.Boards {
		fmt.Fprintf(w, "  - %s (%s, variant %s)\n", valueStyle.Render(string(b.Target)), b.Define, b.Variant)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("bindings"))
	if len(cfg.Bindings) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(default passes)"))
	}
	for _, b := range cfg.Bindings {
		fmt.Fprintf(w, "  - %s -> %s\n", valueStyle.Render(string(b.Header)), b.Output)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))
	return nil
}

func initConfig(app *App, force, user bool) error {
	path := config.ProjectFileName
	if user {
		p, err := config.UserConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := config.WriteFile(path, config.DefaultConfig(), force); err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

func showConfigPath(app *App) error {
	userPath, err := config.UserConfigPath()
	if err != nil {
		return err
	}
	active, err := config.FindConfigFile(config.LoadOptions{ConfigFilePath: types.FilesystemPath(app.flags.configPath)})
	if err != nil {
		return err
	}
	if active == "" {
		active = "(none, using defaults)"
	}

	lines := []string{
		"Project file: " + config.ProjectFileName,
		"User file: " + userPath,
		"Active: " + active,
	}
	_, err = fmt.Fprintln(app.stdout, strings.Join(lines, "\n"))
	return err
}
