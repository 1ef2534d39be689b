package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

// ConfigFileName is the metadata file looked up in the project root.
const ConfigFileName = "anvil.json"

// defaultOptimize is the optimization level used when the project does
// not declare one. -O1 keeps the generated code readable in disassembly
// while still resembling what a real build would produce.
const defaultOptimize = 1

// RunSupport is the tri-state answer to "can this project boot on the
// simulated board?". The distinction between "no" and "don't know"
// matters: an explicit no is an error from `anvil run`, while an unknown
// only warrants a warning.
type RunSupport int

const (
	// RunSupportUnknown means anvil.json was missing, unreadable, or
	// silent on the supports-run key.
	RunSupportUnknown RunSupport = iota

	// RunSupportYes means the project declares "supports-run": true.
	RunSupportYes

	// RunSupportNo means the project declares "supports-run": false.
	// Library-style exercises (linked into other projects) set this.
	RunSupportNo
)

// Config is the parsed content of a project's anvil.json file.
// Pointer fields distinguish "absent" from zero values, which drives the
// tri-state run-support logic and the optimization default.
type Config struct {
	// Name is the project's display name. Informational only.
	Name string `json:"name,omitempty"`

	// Optimize is the project's default compiler optimization level
	// (0-3). Overridden by the make command's -O flag.
	Optimize *int `json:"optimize,omitempty"`

	// SupportsRun declares whether the built ELF boots on the simulated
	// Raspberry Pi 3b.
	SupportsRun *bool `json:"supports-run,omitempty"`
}

// Load reads and parses <dir>/anvil.json.
//
// A missing file is not an error in itself — most early exercises ship
// without metadata — so callers should treat any returned error as
// "metadata unavailable" and fall back to defaults, logging the cause in
// verbose mode. The file is JSONC: comments and trailing commas are
// stripped before parsing.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ConfigFileName, err)
	}

	var cfg Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ConfigFileName, err)
	}

	return &cfg, nil
}

// DefaultOptimize returns the project's default optimization level,
// falling back to -O1 when the config is nil, the key is absent, or the
// declared level is outside the 0-3 range the toolchain accepts.
//
// The nil receiver is deliberate: callers hold a nil *Config whenever
// Load failed, and the default applies uniformly in that case.
func (c *Config) DefaultOptimize() int {
	if c == nil || c.Optimize == nil {
		return defaultOptimize
	}
	if *c.Optimize < 0 || *c.Optimize > 3 {
		return defaultOptimize
	}
	return *c.Optimize
}

// RunSupport reports whether the project declares itself bootable.
// Works on a nil receiver, returning RunSupportUnknown.
func (c *Config) RunSupport() RunSupport {
	if c == nil || c.SupportsRun == nil {
		return RunSupportUnknown
	}
	if *c.SupportsRun {
		return RunSupportYes
	}
	return RunSupportNo
}

// ResolveDir normalizes a user-supplied project directory to an absolute
// path and verifies that it exists and is a directory. Relative paths are
// resolved against the current working directory, matching what the -p
// flag's help text promises.
func ResolveDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project path %q: %w", dir, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("project directory %q does not exist", abs)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("project path %q is not a directory", abs)
	}

	return abs, nil
}
