// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arduinogen/arduinogen/pkg/toolchain"
)

type (
	// resolvedConfig is one toolchain config plus the argument vectors derived
	// from it.
	resolvedConfig struct {
		toolchain.Config
		CompilerArgs []string `json:"compiler_args" toml:"compiler_args"`
		BindgenArgs  []string `json:"bindgen_args" toml:"bindgen_args"`
	}

	resolvedPair struct {
		C   resolvedConfig `json:"c" toml:"c"`
		CXX resolvedConfig `json:"cxx" toml:"cxx"`
	}
)

func newResolveCommand(app *App) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the C and C++ toolchain configurations",
		Long: `Resolve the configured target into its C and C++ toolchain
configurations: compiler, language standard, board define and include
directories. Fails when the target is unknown or a required include
directory does not exist.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runResolve(cmd, app, OutputFormat(format)); err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(OutputText), "output format (text, toml, json)")
	return cmd
}

func runResolve(cmd *cobra.Command, app *App, format OutputFormat) error {
	if err := format.Validate(); err != nil {
		return err
	}
	s, err := app.resolve(cmd.Context())
	if err != nil {
		return err
	}
	pair := resolvedPair{C: newResolvedConfig(s.c), CXX: newResolvedConfig(s.cxx)}
	if format != OutputText {
		return writeStructured(app.stdout, pair, format)
	}
	writeConfigText(app.stdout, "C", pair.C)
	fmt.Fprintln(app.stdout)
	writeConfigText(app.stdout, "C++", pair.CXX)
	return nil
}

func newResolvedConfig(cfg toolchain.Config) resolvedConfig {
	return resolvedConfig{
		Config:       cfg,
		CompilerArgs: cfg.CompilerArgs(),
		BindgenArgs:  cfg.BindgenArgs(),
	}
}

func writeConfigText(w io.Writer, title string, rc resolvedConfig) {
	fmt.Fprintln(w, TitleStyle.Render(title+" toolchain"))
	field := func(key, value string) {
		fmt.Fprintf(w, "  %s: %s\n", CmdStyle.Render(key), value)
	}
	field("target", string(rc.Target))
	field("compiler", rc.Compiler)
	field("standard", rc.StdFlag)
	field("machine", rc.MachineFlag)
	field("board define", rc.BoardDefine)
	field("core include", string(rc.CoreIncludePath))
	field("variant include", string(rc.VariantIncludePath))
	field("avr include", string(rc.AVRIncludePath))
	field("compiler args", strings.Join(rc.CompilerArgs, " "))
}
