package fpsettings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/filetug/filepick/pkg/fsutils"
)

var osStat = os.Stat

// DefaultConfigPath returns the first config file found in the user dir,
// or the YAML path when there is none.
func DefaultConfigPath() (string, error) {
	dir, err := GetUserDir()
	if err != nil {
		return "", err
	}
	for _, name := range []string{yamlConfigFileName, tomlConfigFileName} {
		p := filepath.Join(dir, name)
		if _, err = osStat(p); err == nil {
			return p, nil
		}
	}
	return filepath.Join(dir, yamlConfigFileName), nil
}

// Load reads the config file at path on top of Default. An empty path means
// DefaultConfigPath, and then a missing file is not an error.
func Load(path string) (Config, error) {
	required := path != ""
	if !required {
		var err error
		if path, err = DefaultConfigPath(); err != nil {
			return Config{}, fmt.Errorf("failed to locate config: %w", err)
		}
	}
	path = fsutils.ExpandHome(path)

	cfg := Default()
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = fsutils.ReadYAMLFile(path, required, &cfg)
	case ".toml":
		err = fsutils.ReadTOMLFile(path, required, &cfg)
	default:
		return Config{}, fmt.Errorf("%w: unsupported config file extension %q", ErrInvalidConfig, ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if len(cfg.Devices) == 0 {
		cfg.Devices = DefaultDevices()
	}
	if err = cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
