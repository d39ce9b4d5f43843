// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/arduinogen/arduinogen/internal/issue"
	"github.com/arduinogen/arduinogen/internal/testutil"
	"github.com/arduinogen/arduinogen/pkg/toolchain"
	"github.com/arduinogen/arduinogen/pkg/types"
)

// isolate clears the override variables and points every config location at
// empty temporary directories. It returns the base directory.
func isolate(t *testing.T) string {
	t.Helper()
	for _, env := range []string{EnvIncludeRoot, EnvTarget, EnvAVRInclude, EnvRuntimeDir} {
		t.Cleanup(testutil.MustUnsetenv(t, env))
	}
	t.Cleanup(testutil.SetConfigHome(t, t.TempDir()))
	SetConfigDirOverride(t.TempDir())
	t.Cleanup(Reset)
	return t.TempDir()
}

func load(t *testing.T, opts LoadOptions) (*Config, string, error) {
	t.Helper()
	return loadWithOptions(context.Background(), opts)
}

func TestLoad_Defaults(t *testing.T) {
	base := isolate(t)

	cfg, path, err := load(t, LoadOptions{BaseDir: types.FilesystemPath(base)})
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want none", path)
	}
	want := DefaultConfig()
	if cfg.Target != want.Target || cfg.IncludeRoot != want.IncludeRoot || cfg.OutDir != want.OutDir {
		t.Errorf("cfg = %+v, want defaults %+v", cfg, want)
	}
	if got := cfg.RuntimeDirectory(); got != "/usr/share/arduino/hardware/arduino/avr/cores/arduino" {
		t.Errorf("RuntimeDirectory() = %q", got)
	}
	if cfg.EntrySource != "main.cpp" {
		t.Errorf("EntrySource = %q", cfg.EntrySource)
	}
}

func TestLoad_ProjectFile(t *testing.T) {
	base := isolate(t)
	testutil.MustWriteFile(t, filepath.Join(base, ProjectFileName), []byte(`
target: "avr-atmega2560"
include_root: "/opt/arduino/avr"
follow_symlinks: true
boards: [{target: "avr-atmega32u4", define: "ARDUINO_AVR_LEONARDO", variant: "leonardo"}]
bindings: [{header: "Arduino.h", output: "bindings.rs"}]
ui: color_scheme: "dark"
`))

	cfg, path, err := load(t, LoadOptions{BaseDir: types.FilesystemPath(base)})
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if path != filepath.Join(base, ProjectFileName) {
		t.Errorf("path = %q", path)
	}
	if cfg.Target != toolchain.TargetATmega2560 || cfg.IncludeRoot != "/opt/arduino/avr" || !cfg.FollowSymlinks {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.CoreName != toolchain.DefaultCoreName {
		t.Errorf("CoreName = %q, default should survive a partial file", cfg.CoreName)
	}
	if len(cfg.Boards) != 1 || cfg.Boards[0].Variant != "leonardo" {
		t.Errorf("Boards = %+v", cfg.Boards)
	}
	if len(cfg.Bindings) != 1 || cfg.Bindings[0].Header != "Arduino.h" {
		t.Errorf("Bindings = %+v", cfg.Bindings)
	}
	if cfg.UI.ColorScheme != ColorSchemeDark {
		t.Errorf("ColorScheme = %q", cfg.UI.ColorScheme)
	}
}

func TestLoad_UserFileWhenNoProjectFile(t *testing.T) {
	base := isolate(t)
	userDir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(userDir, "config.cue"), []byte(`target: "avr-atmega2560"`))

	cfg, path, err := load(t, LoadOptions{BaseDir: types.FilesystemPath(base), ConfigDirPath: types.FilesystemPath(userDir)})
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if path != filepath.Join(userDir, "config.cue") || cfg.Target != toolchain.TargetATmega2560 {
		t.Errorf("path = %q, target = %q", path, cfg.Target)
	}

	testutil.MustWriteFile(t, filepath.Join(base, ProjectFileName), []byte(`target: "avr-atmega328p"`))
	cfg, _, err = load(t, LoadOptions{BaseDir: types.FilesystemPath(base), ConfigDirPath: types.FilesystemPath(userDir)})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Target != toolchain.TargetATmega328P {
		t.Errorf("project file should win over user file, target = %q", cfg.Target)
	}
}

func TestLoad_Precedence(t *testing.T) {
	base := isolate(t)
	testutil.MustWriteFile(t, filepath.Join(base, ProjectFileName), []byte(`
target: "avr-atmega2560"
include_root: "/from/file"
avr_include: "/from/file/avr"
`))
	t.Cleanup(testutil.MustSetenv(t, EnvTarget, "avr-atmega328p"))
	t.Cleanup(testutil.MustSetenv(t, EnvAVRInclude, "/from/env/avr"))
	t.Cleanup(testutil.MustSetenv(t, EnvRuntimeDir, "/from/env/runtime"))

	cfg, _, err := load(t, LoadOptions{BaseDir: types.FilesystemPath(base)})
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if cfg.Target != toolchain.TargetATmega328P {
		t.Errorf("env should beat file: Target = %q", cfg.Target)
	}
	if cfg.AVRInclude != "/from/env/avr" {
		t.Errorf("env should beat file: AVRInclude = %q", cfg.AVRInclude)
	}
	if cfg.IncludeRoot != "/from/file" {
		t.Errorf("file should beat default: IncludeRoot = %q", cfg.IncludeRoot)
	}
	if cfg.RuntimeDirectory() != "/from/env/runtime" {
		t.Errorf("RuntimeDirectory() = %q", cfg.RuntimeDirectory())
	}
}

func TestLoad_ExpandsPaths(t *testing.T) {
	base := isolate(t)
	t.Cleanup(testutil.MustSetenv(t, "ARDUINOGEN_TEST_PREFIX", "/opt/toolchains"))
	testutil.MustWriteFile(t, filepath.Join(base, ProjectFileName), []byte(`
include_root: "${ARDUINOGEN_TEST_PREFIX}/arduino/avr"
avr_include_candidates: ["$ARDUINOGEN_TEST_PREFIX/avr/include"]
`))
	t.Cleanup(testutil.MustSetenv(t, EnvAVRInclude, "$ARDUINOGEN_TEST_PREFIX/override"))

	cfg, _, err := load(t, LoadOptions{BaseDir: types.FilesystemPath(base)})
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if cfg.IncludeRoot != "/opt/toolchains/arduino/avr" {
		t.Errorf("IncludeRoot = %q", cfg.IncludeRoot)
	}
	if len(cfg.AVRIncludeCandidates) != 1 || cfg.AVRIncludeCandidates[0] != "/opt/toolchains/avr/include" {
		t.Errorf("AVRIncludeCandidates = %v", cfg.AVRIncludeCandidates)
	}
	if cfg.AVRInclude != "/opt/toolchains/override" {
		t.Errorf("AVRInclude = %q", cfg.AVRInclude)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantID  issue.Id
		want    string
	}{
		{"syntax", `target: "avr-`, issue.ConfigLoadFailedId, ""},
		{"unknown field", `targets: "avr-atmega328p"`, issue.ConfigLoadFailedId, "targets"},
		{"bad target form", `target: "esp32"`, issue.ConfigLoadFailedId, "target"},
		{"bad board", `boards: [{target: "avr-x", define: "X", variant: ".."}]`, issue.ConfigLoadFailedId, "boards[0].variant"},
		{"bad binding", `bindings: [{header: "Arduino.hpp", output: "b.rs"}]`, issue.ConfigLoadFailedId, "bindings[0].header"},
		{"bad color scheme", `ui: color_scheme: "blue"`, issue.ConfigLoadFailedId, "color_scheme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := isolate(t)
			testutil.MustWriteFile(t, filepath.Join(base, ProjectFileName), []byte(tt.content))

			_, _, err := load(t, LoadOptions{BaseDir: types.FilesystemPath(base)})
			if err == nil {
				t.Fatal("load() should fail")
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("error should be *issue.ActionableError, got %T", err)
			}
			if ae.IssueID != tt.wantID {
				t.Errorf("IssueID = %d, want %d", ae.IssueID, tt.wantID)
			}
			if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad_InvalidBoardFromEnvTarget(t *testing.T) {
	base := isolate(t)
	t.Cleanup(testutil.MustSetenv(t, EnvTarget, "not a target"))

	_, _, err := load(t, LoadOptions{BaseDir: types.FilesystemPath(base)})
	if !errors.Is(err, toolchain.ErrInvalidTargetSpec) {
		t.Errorf("error = %v, want ErrInvalidTargetSpec", err)
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	base := isolate(t)
	testutil.MustWriteFile(t, filepath.Join(base, ProjectFileName), []byte(`target: "avr-atmega328p"`))
	explicit := filepath.Join(t.TempDir(), "custom.cue")
	testutil.MustWriteFile(t, explicit, []byte(`target: "avr-atmega2560"`))

	cfg, path, err := load(t, LoadOptions{BaseDir: types.FilesystemPath(base), ConfigFilePath: types.FilesystemPath(explicit)})
	if err != nil {
		t.Fatal(err)
	}
	if path != explicit || cfg.Target != toolchain.TargetATmega2560 {
		t.Errorf("explicit file should be used exclusively: path = %q, target = %q", path, cfg.Target)
	}

	_, _, err = load(t, LoadOptions{ConfigFilePath: types.FilesystemPath(filepath.Join(base, "missing.cue"))})
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("missing explicit file error = %v", err)
	}
}

func TestLoad_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewProvider().Load(ctx, LoadOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	base := isolate(t)
	cfg := DefaultConfig()
	cfg.Target = toolchain.TargetATmega2560
	cfg.AVRInclude = "/opt/avr/include"
	cfg.AVRIncludeCandidates = []types.FilesystemPath{"/a", "/b"}
	cfg.Boards = []BoardEntry{{Target: "avr-atmega32u4", Define: "ARDUINO_AVR_LEONARDO", Variant: "leonardo"}}
	cfg.Bindings = []BindingEntry{{Header: "Arduino.h", Output: "bindings.rs"}}
	cfg.UI.Verbose = true

	path := filepath.Join(base, ProjectFileName)
	if err := WriteFile(path, cfg, false); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := WriteFile(path, cfg, false); err == nil {
		t.Error("WriteFile() without force should refuse to overwrite")
	}

	loaded, _, err := load(t, LoadOptions{BaseDir: types.FilesystemPath(base)})
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if loaded.Target != cfg.Target || loaded.AVRInclude != cfg.AVRInclude || !loaded.UI.Verbose {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
	if len(loaded.Boards) != 1 || len(loaded.Bindings) != 1 || len(loaded.AVRIncludeCandidates) != 2 {
		t.Errorf("lists lost in round trip: %+v", loaded)
	}
}

func TestFindConfigFile(t *testing.T) {
	base := isolate(t)
	got, err := FindConfigFile(LoadOptions{BaseDir: types.FilesystemPath(base)})
	if err != nil || got != "" {
		t.Errorf("FindConfigFile() = %q, %v; want none", got, err)
	}
	testutil.MustWriteFile(t, filepath.Join(base, ProjectFileName), nil)
	got, err = FindConfigFile(LoadOptions{BaseDir: types.FilesystemPath(base)})
	if err != nil || got != filepath.Join(base, ProjectFileName) {
		t.Errorf("FindConfigFile() = %q, %v", got, err)
	}
}

func TestConfigDir_Override(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)
	got, err := ConfigDir()
	if err != nil || got != dir {
		t.Errorf("ConfigDir() = %q, %v; want %q", got, err, dir)
	}
	if p, _ := UserConfigPath(); p != filepath.Join(dir, "config.cue") {
		t.Errorf("UserConfigPath() = %q", p)
	}
}

func TestConfigDir_XDG(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG lookup is not used on Windows")
	}
	Reset()
	dir := t.TempDir()
	t.Cleanup(testutil.SetConfigHome(t, dir))
	got, err := ConfigDir()
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(dir, AppName) && !strings.HasSuffix(got, filepath.Join("Application Support", AppName)) {
		t.Errorf("ConfigDir() = %q", got)
	}
}
