// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arduinogen/arduinogen/internal/discovery"
)

func newSourcesCommand(app *App) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List the runtime sources to compile",
		Long: `List the C and C++ files directly inside the runtime directory, split by
compiler. The vendor entry file (main.cpp by default) is left out because the
embedding application provides its own entry point.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := listSources(cmd, app, OutputFormat(format)); err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(OutputText), "output format (text, toml, json)")
	return cmd
}

func listSources(cmd *cobra.Command, app *App, format OutputFormat) error {
	if err := format.Validate(); err != nil {
		return err
	}
	cfg, err := app.loadConfig(cmd.Context())
	if err != nil {
		return err
	}
	set, err := app.walker(cfg).Sources(cfg.RuntimeDirectory())
	if err != nil {
		return err
	}
	if format != OutputText {
		return writeStructured(app.stdout, set, format)
	}

	section := func(title string, files []discovery.SourceFile) {
		fmt.Fprintf(app.stdout, "%s %s\n", TitleStyle.Render(title), SubtitleStyle.Render(fmt.Sprintf("(%d)", len(files))))
		for _, f := range files {
			fmt.Fprintf(app.stdout, "  %s\n", f.Path)
		}
	}
	section("C", set.C)
	section("C++", set.CXX)
	return nil
}
