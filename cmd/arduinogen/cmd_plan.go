// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/arduinogen/arduinogen/internal/buildplan"
	"github.com/arduinogen/arduinogen/pkg/types"
)

func newPlanCommand(app *App) *cobra.Command {
	var (
		format string
		outDir string
	)
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the compile and binding plan",
		Long: `Print the full plan: compiling the C runtime sources with avr-gcc into
libarduino-runtime.a and the C++ sources with avr-g++ into
libarduino-runtime++.a, then one binding generator pass per entry header.
The first pass has no blocklist; every later pass blocks all discovered
headers except its own entry header.`,
		Example: `  arduinogen plan > build.sh && sh build.sh
  arduinogen plan --format json --out-dir target/avr`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runPlan(cmd, app, buildplan.Format(format), outDir); err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(buildplan.FormatShell), "output format (shell, toml, json)")
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "output directory (overrides out_dir from config)")
	return cmd
}

func runPlan(cmd *cobra.Command, app *App, format buildplan.Format, outDir string) error {
	if err := format.Validate(); err != nil {
		return err
	}
	s, err := app.resolve(cmd.Context())
	if err != nil {
		return err
	}

	in := buildplan.Input{
		C:          s.c,
		CXX:        s.cxx,
		RuntimeDir: s.cfg.RuntimeDirectory(),
		OutDir:     s.cfg.OutDir,
	}
	if outDir != "" {
		in.OutDir = types.FilesystemPath(outDir)
	}
	for _, b := range s.cfg.Bindings {
		in.Passes = append(in.Passes, buildplan.PassSpec{Header: b.Header, Output: b.Output})
	}

	planner := buildplan.NewPlanner(app.walker(s.cfg), buildplan.WithLogger(app.logger))
	plan, err := planner.Plan(cmd.Context(), in)
	if err != nil {
		return err
	}
	app.renderDiagnostics(plan.Diagnostics)
	return buildplan.Render(app.stdout, plan, format)
}
