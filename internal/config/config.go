package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Built-in defaults used when neither a flag nor the user config file
// provides a value.
const (
	// DefaultImage is the published backend image carrying the cross
	// toolchain, QEMU and LLDB.
	DefaultImage = "anvillabs/anvil-backend"

	// DefaultTag tracks the latest published backend.
	DefaultTag = "latest"
)

// UserConfig mirrors the YAML structure of ~/.config/anvil/config.yaml.
// All keys are optional; the zero value means "no preference".
type UserConfig struct {
	// Image overrides the default backend image repository.
	Image string `yaml:"image"`

	// Tag overrides the default backend image tag.
	Tag string `yaml:"tag"`

	// DockerHost overrides Docker socket autodetection with an explicit
	// connection string (e.g. "unix:///run/user/1000/docker.sock").
	DockerHost string `yaml:"dockerHost"`
}

// Path returns the location of the user config file. The parent
// directories are not created; the file is purely optional.
func Path() (string, error) {
	// os.UserConfigDir honors XDG_CONFIG_HOME on Linux and maps to the
	// platform conventions on macOS and Windows.
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine user config directory: %w", err)
	}
	return filepath.Join(base, "anvil", "config.yaml"), nil
}

// Load reads the user config file if it exists. A missing file yields an
// empty config and no error — that is the common case. A file that exists
// but cannot be parsed is an error: silently ignoring a typo in the config
// would send users to the wrong backend image with no explanation.
func Load() (*UserConfig, error) {
	path, err := Path()
	if err != nil {
		// No resolvable config dir (e.g. HOME unset in a container):
		// behave as if no config file exists.
		return &UserConfig{}, nil
	}
	return loadFrom(path)
}

// loadFrom is the path-parameterized loader, split out for tests.
func loadFrom(path string) (*UserConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &UserConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg UserConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return &cfg, nil
}

// ResolveImage applies the flag > config file > built-in default
// precedence for the backend image reference. Empty flag values mean
// "not set on the command line".
func (c *UserConfig) ResolveImage(flagImage, flagTag string) (image, tag string) {
	image = DefaultImage
	if c != nil && c.Image != "" {
		image = c.Image
	}
	if flagImage != "" {
		image = flagImage
	}

	tag = DefaultTag
	if c != nil && c.Tag != "" {
		tag = c.Tag
	}
	if flagTag != "" {
		tag = flagTag
	}

	return image, tag
}
