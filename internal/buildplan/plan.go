// SPDX-License-Identifier: MPL-2.0

package buildplan

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/arduinogen/arduinogen/internal/discovery"
	"github.com/arduinogen/arduinogen/pkg/fspath"
	"github.com/arduinogen/arduinogen/pkg/toolchain"
	"github.com/arduinogen/arduinogen/pkg/types"
)

const (
	// CLibrary is the archive built from the C runtime sources.
	CLibrary = "libarduino-runtime.a"
	// CXXLibrary is the archive built from the C++ runtime sources.
	CXXLibrary = "libarduino-runtime++.a"

	// Archiver creates the static libraries.
	Archiver = "avr-ar"
	// Generator is the binding generator invoked once per pass.
	Generator = "bindgen"
	// CTypesPrefix is the module path the generated bindings use for C types.
	CTypesPrefix = "cty"

	objDir = "obj"
)

var defaultPasses = []PassSpec{
	{Header: "Arduino.h", Output: "bindings.rs"},
	{Header: "IPAddress.h", Output: "bindings_ipaddress.rs"},
	{Header: "Client.h", Output: "bindings_client.rs"},
	{Header: "Stream.h", Output: "bindings_stream.rs"},
}

type (
	// PassSpec names one binding generator pass: the entry header parsed and
	// the file the declarations are written to, relative to the output dir.
	PassSpec struct {
		Header types.HeaderName `json:"header" toml:"header"`
		Output string           `json:"output" toml:"output"`
	}

	// Input is everything Plan needs. C and CXX are the sibling configs
	// returned by toolchain.Resolve.
	Input struct {
		C          toolchain.Config
		CXX        toolchain.Config
		RuntimeDir types.FilesystemPath
		OutDir     types.FilesystemPath
		// Passes replaces DefaultPasses when non-empty.
		Passes []PassSpec
	}

	// Object is one compile step.
	Object struct {
		Source types.FilesystemPath `json:"source" toml:"source"`
		Output types.FilesystemPath `json:"output" toml:"output"`
	}

	// Library is one static archive and the compile steps that feed it.
	Library struct {
		Name     string               `json:"name" toml:"name"`
		LinkName string               `json:"link_name" toml:"link_name"`
		Language toolchain.Language   `json:"language" toml:"language"`
		Compiler string               `json:"compiler" toml:"compiler"`
		Args     []string             `json:"args" toml:"args"`
		Objects  []Object             `json:"objects" toml:"objects"`
		Archive  types.FilesystemPath `json:"archive" toml:"archive"`
	}

	// BindingPass is one binding generator invocation.
	BindingPass struct {
		Header    types.HeaderName       `json:"header" toml:"header"`
		Entry     types.FilesystemPath   `json:"entry" toml:"entry"`
		Output    types.FilesystemPath   `json:"output" toml:"output"`
		Blocklist []types.FilesystemPath `json:"blocklist" toml:"blocklist"`
		Args      []string               `json:"args" toml:"args"`
	}

	// Plan is the complete compile and binding plan for one target.
	Plan struct {
		Target     toolchain.TargetSpec `json:"target" toml:"target"`
		RuntimeDir types.FilesystemPath `json:"runtime_dir" toml:"runtime_dir"`
		OutDir     types.FilesystemPath `json:"out_dir" toml:"out_dir"`
		Libraries  []Library            `json:"libraries" toml:"libraries"`
		Bindings   []BindingPass        `json:"bindings" toml:"bindings"`
		// Diagnostics are the recoverable problems met during header discovery.
		Diagnostics []discovery.Diagnostic `json:"-" toml:"-"`
	}

	// Planner builds plans from a runtime tree.
	Planner struct {
		walker *discovery.Walker
		logger *slog.Logger
	}

	// Option configures a Planner.
	Option func(*Planner)
)

// DefaultPasses returns the binding passes used when none are configured.
// Arduino.h comes first and is generated without a blocklist.
func DefaultPasses() []PassSpec {
	out := make([]PassSpec, len(defaultPasses))
	copy(out, defaultPasses)
	return out
}

// Validate checks that the pass names a bare header and a bare output file.
func (p PassSpec) Validate() error {
	if err := p.Header.Validate(); err != nil {
		return err
	}
	out := strings.TrimSpace(p.Output)
	if out == "" || out == "." || out == ".." || strings.ContainsAny(out, `/\`) {
		return fmt.Errorf("binding output %q must be a bare file name", p.Output)
	}
	return nil
}

// Validate reports every problem with in at once.
func (in Input) Validate() error {
	var errs []error
	if in.C.Language != toolchain.LanguageC {
		errs = append(errs, &LanguageMismatchError{Want: toolchain.LanguageC, Got: in.C.Language})
	}
	if in.CXX.Language != toolchain.LanguageCXX {
		errs = append(errs, &LanguageMismatchError{Want: toolchain.LanguageCXX, Got: in.CXX.Language})
	}
	if err := in.RuntimeDir.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("runtime dir: %w", err))
	}
	if err := in.OutDir.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("out dir: %w", err))
	}
	outputs := make(map[string]types.HeaderName, len(in.Passes))
	for i, p := range in.Passes {
		if err := p.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("bindings[%d]: %w", i, err))
			continue
		}
		if prev, dup := outputs[p.Output]; dup {
			errs = append(errs, fmt.Errorf("bindings[%d]: output %s already written by the %s pass", i, p.Output, prev))
			continue
		}
		outputs[p.Output] = p.Header
	}
	if len(errs) > 0 {
		return &InvalidInputError{FieldErrors: errs}
	}
	return nil
}

// NewPlanner returns a Planner that lists sources and headers with walker.
// A nil walker uses discovery.NewWalker().
func NewPlanner(walker *discovery.Walker, opts ...Option) *Planner {
	if walker == nil {
		walker = discovery.NewWalker()
	}
	p := &Planner{walker: walker, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithLogger sets the planner's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Planner) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Plan lists the runtime sources, discovers headers under the runtime and
// variant directories, and assembles the compile and binding steps.
//
// A library with no sources is left out. A pass whose entry header is not in
// the discovered set fails with *MissingEntryHeaderError.
func (p *Planner) Plan(ctx context.Context, in Input) (*Plan, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	passes := in.Passes
	if len(passes) == 0 {
		passes = defaultPasses
	}

	sources, err := p.walker.Sources(in.RuntimeDir)
	if err != nil {
		return nil, err
	}
	roots := []types.FilesystemPath{in.RuntimeDir, in.CXX.VariantIncludePath}
	headers, err := p.walker.DiscoverHeaders(ctx, roots...)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Target:      in.CXX.Target,
		RuntimeDir:  in.RuntimeDir,
		OutDir:      in.OutDir,
		Diagnostics: headers.Diagnostics,
	}
	if lib, ok := library(in.C, CLibrary, sources.C, in.OutDir); ok {
		plan.Libraries = append(plan.Libraries, lib)
	}
	if lib, ok := library(in.CXX, CXXLibrary, sources.CXX, in.OutDir); ok {
		plan.Libraries = append(plan.Libraries, lib)
	}
	if len(plan.Libraries) == 0 {
		p.logger.Warn("no runtime sources found", "dir", in.RuntimeDir)
	}

	bindgenArgs := in.CXX.BindgenArgs()
	for i, spec := range passes {
		entry, ok := headers.Set.Find(spec.Header)
		if !ok {
			return nil, &MissingEntryHeaderError{Header: spec.Header, Roots: roots}
		}
		pass := BindingPass{
			Header: spec.Header,
			Entry:  entry,
			Output: fspath.JoinStr(in.OutDir, spec.Output),
			Args:   bindgenArgs,
		}
		if i > 0 {
			pass.Blocklist = discovery.Blocklist(headers.Set, spec.Header)
		}
		p.logger.Debug("planned binding pass", "header", spec.Header, "blocked", len(pass.Blocklist))
		plan.Bindings = append(plan.Bindings, pass)
	}
	return plan, nil
}

// library builds the compile steps for one language. Objects go to
// <out>/obj/<language dir>/<source base>.o so C and C++ sources sharing a stem
// do not collide.
func library(cfg toolchain.Config, name string, files []discovery.SourceFile, out types.FilesystemPath) (Library, bool) {
	if len(files) == 0 {
		return Library{}, false
	}
	dir := fspath.JoinStr(out, objDir, languageDir(cfg.Language))
	lib := Library{
		Name:     name,
		LinkName: linkName(name),
		Language: cfg.Language,
		Compiler: cfg.Compiler,
		Args:     cfg.CompilerArgs(),
		Archive:  fspath.JoinStr(out, name),
	}
	for _, f := range files {
		base := f.Path.Base()
		obj := strings.TrimSuffix(base, filepath.Ext(base)) + ".o"
		lib.Objects = append(lib.Objects, Object{Source: f.Path, Output: fspath.JoinStr(dir, obj)})
	}
	return lib, true
}

func languageDir(l toolchain.Language) string {
	if l == toolchain.LanguageCXX {
		return "cxx"
	}
	return "c"
}

// linkName strips the lib prefix and .a suffix: libfoo.a links as foo.
func linkName(archive string) string {
	return strings.TrimSuffix(strings.TrimPrefix(archive, "lib"), ".a")
}
