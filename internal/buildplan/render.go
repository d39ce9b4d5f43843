// SPDX-License-Identifier: MPL-2.0

package buildplan

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"mvdan.cc/sh/v3/syntax"
)

const (
	// FormatShell renders the plan as a POSIX shell script.
	FormatShell Format = "shell"
	// FormatTOML renders the plan as a TOML document.
	FormatTOML Format = "toml"
	// FormatJSON renders the plan as indented JSON.
	FormatJSON Format = "json"
)

// Format selects how Render writes a plan.
type Format string

// String returns the string representation of the Format.
func (f Format) String() string { return string(f) }

// Validate returns an error unless f is a known format.
func (f Format) Validate() error {
	switch f {
	case FormatShell, FormatTOML, FormatJSON:
		return nil
	default:
		return &InvalidFormatError{Value: f}
	}
}

// Render writes plan to w in the given format.
func Render(w io.Writer, plan *Plan, format Format) error {
	if err := format.Validate(); err != nil {
		return err
	}
	switch format {
	case FormatTOML:
		enc := toml.NewEncoder(w)
		enc.SetIndentTables(true)
		return enc.Encode(plan)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	default:
		script, err := Shell(plan)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, script)
		return err
	}
}

// Shell renders the whole plan as one script: the compile steps followed by
// the binding passes.
func Shell(plan *Plan) (string, error) {
	compile, err := CompileScript(plan)
	if err != nil {
		return "", err
	}
	bindings, err := BindingScript(plan)
	if err != nil {
		return "", err
	}
	return compile + "\n" + strings.TrimPrefix(bindings, scriptHeader), nil
}

const scriptHeader = "#!/bin/sh\nset -eu\n"

// CompileScript renders the compile and archive steps. Every word is quoted
// for a POSIX shell.
func CompileScript(plan *Plan) (string, error) {
	s := newScript()
	for _, lib := range plan.Libraries {
		s.comment(fmt.Sprintf("%s (%s, link as -l%s)", lib.Name, lib.Language, lib.LinkName))
		dirs := make(map[string]struct{})
		for _, obj := range lib.Objects {
			dir := filepath.Dir(string(obj.Output))
			if _, ok := dirs[dir]; ok {
				continue
			}
			dirs[dir] = struct{}{}
			s.command("mkdir", "-p", dir)
		}
		for _, obj := range lib.Objects {
			words := append([]string{lib.Compiler}, lib.Args...)
			words = append(words, "-c", string(obj.Source), "-o", string(obj.Output))
			s.command(words...)
		}
		words := []string{Archiver, "rcs", string(lib.Archive)}
		for _, obj := range lib.Objects {
			words = append(words, string(obj.Output))
		}
		s.command(words...)
	}
	return s.finish()
}

// BindingScript renders one generator invocation per binding pass. The
// generator treats --blocklist-file values as regular expressions, so each
// path has its metacharacters escaped.
func BindingScript(plan *Plan) (string, error) {
	s := newScript()
	if len(plan.Bindings) > 0 {
		s.command("mkdir", "-p", string(plan.OutDir))
	}
	for _, pass := range plan.Bindings {
		s.comment(fmt.Sprintf("%s -> %s (%d blocked)", pass.Header, pass.Output.Base(), len(pass.Blocklist)))
		words := []string{
			Generator, string(pass.Entry),
			"-o", string(pass.Output),
			"--use-core",
			"--ctypes-prefix", CTypesPrefix,
		}
		for _, p := range pass.Blocklist {
			words = append(words, "--blocklist-file", regexp.QuoteMeta(string(p)))
		}
		words = append(words, "--")
		words = append(words, pass.Args...)
		s.command(words...)
	}
	return s.finish()
}

type script struct {
	b   strings.Builder
	err error
}

func newScript() *script {
	s := &script{}
	s.b.WriteString(scriptHeader)
	return s
}

func (s *script) comment(text string) {
	s.b.WriteString("\n# ")
	s.b.WriteString(strings.ReplaceAll(text, "\n", " "))
	s.b.WriteByte('\n')
}

func (s *script) command(words ...string) {
	if s.err != nil {
		return
	}
	for i, w := range words {
		q, err := syntax.Quote(w, syntax.LangPOSIX)
		if err != nil {
			s.err = fmt.Errorf("quoting %q: %w", w, err)
			return
		}
		if i > 0 {
			s.b.WriteByte(' ')
		}
		s.b.WriteString(q)
	}
	s.b.WriteByte('\n')
}

func (s *script) finish() (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.b.String(), nil
}
