// Package fpsettings loads the picker's user configuration from ~/.filepick.
package fpsettings

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/filetug/filepick/pkg/picker"
)

// Device types.
const (
	DeviceOS   = "os"
	DeviceHTTP = "http"
	DeviceFTP  = "ftp"
	DeviceS3   = "s3"
	DeviceMem  = "mem"
)

var ErrInvalidConfig = errors.New("invalid config")

// Duration reads "10ms" style values from both YAML and TOML.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

type PickerConfig struct {
	CooldownFrames int      `yaml:"cooldown_frames" toml:"cooldown_frames"`
	FrameInterval  Duration `yaml:"frame_interval" toml:"frame_interval"`
	EdgeTrigger    bool     `yaml:"edge_trigger" toml:"edge_trigger"`
	MaxEntries     int      `yaml:"max_entries" toml:"max_entries"`
	PathCapacity   int      `yaml:"path_capacity,omitempty" toml:"path_capacity,omitempty"`
}

type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
	Output string `yaml:"output" toml:"output"`
}

// DeviceConfig describes one browsable device. Which fields apply depends on Type.
type DeviceConfig struct {
	Name string `yaml:"name" toml:"name"`
	Type string `yaml:"type" toml:"type"`

	// os
	Root string `yaml:"root,omitempty" toml:"root,omitempty"`

	// http
	URL string `yaml:"url,omitempty" toml:"url,omitempty"`

	// ftp
	Addr     string `yaml:"addr,omitempty" toml:"addr,omitempty"`
	User     string `yaml:"user,omitempty" toml:"user,omitempty"`
	Password string `yaml:"password,omitempty" toml:"password,omitempty"`
	TLS      string `yaml:"tls,omitempty" toml:"tls,omitempty"`

	// s3
	Bucket    string `yaml:"bucket,omitempty" toml:"bucket,omitempty"`
	Region    string `yaml:"region,omitempty" toml:"region,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty" toml:"endpoint,omitempty"`
	AccessKey string `yaml:"access_key,omitempty" toml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty" toml:"secret_key,omitempty"`
	Prefix    string `yaml:"prefix,omitempty" toml:"prefix,omitempty"`

	// mem: "dir/" for a directory, "file" or "file=size" for a file.
	Entries []string `yaml:"entries,omitempty" toml:"entries,omitempty"`
}

type Config struct {
	DefaultDevice string         `yaml:"default_device" toml:"default_device"`
	Picker        PickerConfig   `yaml:"picker" toml:"picker"`
	Log           LogConfig      `yaml:"log" toml:"log"`
	MetricsAddr   string         `yaml:"metrics_addr" toml:"metrics_addr"`
	Devices       []DeviceConfig `yaml:"devices" toml:"devices"`
}

func DefaultDevices() []DeviceConfig {
	return []DeviceConfig{
		{Name: "local", Type: DeviceOS, Root: "/"},
		{Name: "home", Type: DeviceOS, Root: "~"},
	}
}

func Default() Config {
	return Config{
		Picker: PickerConfig{
			CooldownFrames: picker.DefaultCooldownFrames,
			FrameInterval:  Duration(picker.DefaultFrameInterval),
			MaxEntries:     picker.DefaultMaxEntries,
			PathCapacity:   picker.DefaultPathCapacity,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			Output: filepath.Join(UserDir, LogFileName),
		},
	}
}

// Device returns the configuration of the named device.
func (c Config) Device(name string) (DeviceConfig, bool) {
	for _, d := range c.Devices {
		if d.Name == name {
			return d, true
		}
	}
	return DeviceConfig{}, false
}

func (c Config) Validate() error {
	var errs []error
	if c.Picker.CooldownFrames < 0 {
		errs = append(errs, fmt.Errorf("picker.cooldown_frames must not be negative, got %d", c.Picker.CooldownFrames))
	}
	if c.Picker.FrameInterval <= 0 {
		errs = append(errs, fmt.Errorf("picker.frame_interval must be positive, got %v", time.Duration(c.Picker.FrameInterval)))
	}
	if c.Picker.MaxEntries < 1 {
		errs = append(errs, fmt.Errorf("picker.max_entries must be positive, got %d", c.Picker.MaxEntries))
	}
	if c.Picker.PathCapacity < 1 {
		errs = append(errs, fmt.Errorf("picker.path_capacity must be positive, got %d", c.Picker.PathCapacity))
	}
	seen := make(map[string]bool, len(c.Devices))
	for i, d := range c.Devices {
		if err := d.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("devices[%d]: %w", i, err))
		}
		if seen[d.Name] {
			errs = append(errs, fmt.Errorf("devices[%d]: duplicate name %q", i, d.Name))
		}
		seen[d.Name] = true
	}
	if c.DefaultDevice != "" && !seen[c.DefaultDevice] {
		errs = append(errs, fmt.Errorf("default_device %q is not configured", c.DefaultDevice))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func (d DeviceConfig) Validate() error {
	if d.Name == "" {
		return errors.New("name is required")
	}
	if strings.ContainsAny(d.Name, ":/") {
		return fmt.Errorf("name %q must not contain ':' or '/'", d.Name)
	}
	required := func(field, value string) error {
		if value == "" {
			return fmt.Errorf("%s device %q requires %s", d.Type, d.Name, field)
		}
		return nil
	}
	switch d.Type {
	case DeviceOS:
		return required("root", d.Root)
	case DeviceHTTP:
		return required("url", d.URL)
	case DeviceFTP:
		if err := required("addr", d.Addr); err != nil {
			return err
		}
		switch d.TLS {
		case "", "explicit", "implicit":
			return nil
		default:
			return fmt.Errorf("ftp device %q: unknown tls mode %q", d.Name, d.TLS)
		}
	case DeviceS3:
		return required("bucket", d.Bucket)
	case DeviceMem:
		for _, entry := range d.Entries {
			if strings.Trim(entry, "/") == "" {
				return fmt.Errorf("mem device %q has an empty entry", d.Name)
			}
		}
		return nil
	default:
		return fmt.Errorf("device %q has unknown type %q", d.Name, d.Type)
	}
}
