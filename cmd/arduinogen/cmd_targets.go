// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/arduinogen/arduinogen/pkg/toolchain"
)

type (
	targetRow struct {
		Target  toolchain.TargetSpec `json:"target" toml:"target"`
		Define  string               `json:"define" toml:"define"`
		Variant string               `json:"variant" toml:"variant"`
		Builtin bool                 `json:"builtin" toml:"builtin"`
	}

	targetList struct {
		Targets []targetRow `json:"targets" toml:"targets"`
	}
)

func newTargetsCommand(app *App) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "targets",
		Short: "List supported targets",
		Long: `List every target the resolver accepts, with its board define and pin
variant. Boards declared in the config file are included.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := listTargets(cmd, app, OutputFormat(format)); err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(OutputText), "output format (text, toml, json)")
	return cmd
}

func listTargets(cmd *cobra.Command, app *App, format OutputFormat) error {
	if err := format.Validate(); err != nil {
		return err
	}
	cfg, err := app.loadConfig(cmd.Context())
	if err != nil {
		return err
	}
	boards, err := cfg.BoardTable()
	if err != nil {
		return err
	}

	builtin := toolchain.BuiltinBoards()
	var list targetList
	for _, target := range boards.Targets() {
		board := boards[target]
		_, isBuiltin := builtin[target]
		list.Targets = append(list.Targets, targetRow{
			Target:  target,
			Define:  board.Define,
			Variant: board.Variant,
			Builtin: isBuiltin && builtin[target] == board,
		})
	}

	if format != OutputText {
		return writeStructured(app.stdout, list, format)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorMuted)).
		Headers("TARGET", "BOARD DEFINE", "VARIANT", "SOURCE").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})
	for _, r := range list.Targets {
		source := "config"
		if r.Builtin {
			source = "builtin"
		}
		t.Row(string(r.Target), r.Define, r.Variant, source)
	}
	_, err = fmt.Fprintln(app.stdout, t.Render())
	return err
}
