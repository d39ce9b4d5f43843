// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/arduinogen/arduinogen/internal/buildplan"
	"github.com/arduinogen/arduinogen/internal/discovery"
	"github.com/arduinogen/arduinogen/pkg/types"
)

func newHeadersCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "headers [ROOT...]",
		Short: "Discover every header under the given roots",
		Long: `Walk each root recursively and print every file ending in .h, in root
order and without duplicates. Without arguments the runtime directory and the
board variant directory are walked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := listHeaders(cmd, app, args); err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}
}

func listHeaders(cmd *cobra.Command, app *App, args []string) error {
	s, err := app.resolve(cmd.Context())
	if err != nil {
		return err
	}
	roots := s.headerRoots()
	if len(args) > 0 {
		roots = roots[:0]
		for _, a := range args {
			roots = append(roots, types.FilesystemPath(a))
		}
	}
	result, err := app.walker(s.cfg).DiscoverHeaders(cmd.Context(), roots...)
	if err != nil {
		return err
	}
	app.renderDiagnostics(result.Diagnostics)
	for _, p := range result.Set.Paths() {
		fmt.Fprintln(app.stdout, p)
	}
	return nil
}

func newBlocklistCommand(app *App) *cobra.Command {
	var (
		entry string
		keep  []string
		regex bool
	)
	cmd := &cobra.Command{
		Use:   "blocklist --entry HEADER",
		Short: "Print the blocklist for one binding pass",
		Long: `Print every discovered header except the pass's entry header and any
--keep headers. These are the headers the binding generator must not emit
declarations for, because an earlier pass already did.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := printBlocklist(cmd, app, types.HeaderName(entry), keep, regex); err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&entry, "entry", "e", "", "entry header of the pass (e.g. Client.h)")
	cmd.Flags().StringSliceVar(&keep, "keep", nil, "additional header names to leave out of the blocklist")
	cmd.Flags().BoolVar(&regex, "regex", false, "print entries as escaped regular expressions")
	_ = cmd.MarkFlagRequired("entry")
	return cmd
}

func printBlocklist(cmd *cobra.Command, app *App, entry types.HeaderName, keep []string, regex bool) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	keepNames := make([]types.HeaderName, 0, len(keep))
	for _, k := range keep {
		name := types.HeaderName(k)
		if err := name.Validate(); err != nil {
			return err
		}
		keepNames = append(keepNames, name)
	}

	s, err := app.resolve(cmd.Context())
	if err != nil {
		return err
	}
	roots := s.headerRoots()
	result, err := app.walker(s.cfg).DiscoverHeaders(cmd.Context(), roots...)
	if err != nil {
		return err
	}
	app.renderDiagnostics(result.Diagnostics)
	if _, ok := result.Set.Find(entry); !ok {
		return &buildplan.MissingEntryHeaderError{Header: entry, Roots: roots}
	}

	for _, p := range discovery.Blocklist(result.Set, entry, keepNames...) {
		line := string(p)
		if regex {
			line = regexp.QuoteMeta(line)
		}
		fmt.Fprintln(app.stdout, line)
	}
	return nil
}
