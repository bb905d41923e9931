package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/filetug/filepick/pkg/devices"
	"github.com/filetug/filepick/pkg/fpsettings"
	"github.com/filetug/filepick/pkg/picker"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

func newDevicesCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List configured devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.noColor {
				color.NoColor = true
			}
			cfg, err := fpsettings.Load(flags.configPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, d := range cfg.Devices {
				marker := " "
				if d.Name == cfg.DefaultDevice {
					marker = "*"
				}
				_, _ = fmt.Fprintf(out, "%s %s\t%s\t%s\n", marker, color.CyanString(d.Name), d.Type, deviceLocation(d))
			}
			return nil
		},
	}
}

func deviceLocation(d fpsettings.DeviceConfig) string {
	switch d.Type {
	case fpsettings.DeviceOS:
		return d.Root
	case fpsettings.DeviceHTTP:
		return d.URL
	case fpsettings.DeviceFTP:
		return "ftp://" + d.Addr
	case fpsettings.DeviceS3:
		return "s3://" + d.Bucket + "/" + d.Prefix
	case fpsettings.DeviceMem:
		return "mem://" + d.Name
	}
	return ""
}

type deviceItem struct {
	Name  string
	Title string
}

var selectDevice = func(items []deviceItem) (int, error) {
	prompt := promptui.Select{
		Label: "Select device",
		Items: items,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "▸ {{ .Title | cyan }}",
			Inactive: "  {{ .Title }}",
			Selected: "✓ {{ .Name | green }}",
		},
		Size:   10,
		Stdout: os.Stderr,
	}
	index, _, err := prompt.Run()
	return index, err
}

// chooseDevice picks the device from the argument, the --device flag, the
// configured default, the only device, or asks.
func chooseDevice(args []string, flags *rootFlags, cfg fpsettings.Config, registry *devices.Registry) (string, error) {
	device := flags.device
	if len(args) > 0 {
		device = args[0]
	}
	if device == "" {
		device = cfg.DefaultDevice
	}
	names := registry.Names()
	if device == "" {
		switch len(names) {
		case 0:
			return "", errors.New("no devices configured")
		case 1:
			device = names[0]
		default:
			items := make([]deviceItem, len(names))
			for i, name := range names {
				items[i] = deviceItem{Name: name, Title: registry.Title(name)}
			}
			index, err := selectDevice(items)
			if err != nil {
				if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
					return "", fmt.Errorf("%w: %w", picker.ErrCancelled, err)
				}
				return "", err
			}
			device = names[index]
		}
	}
	if _, ok := registry.Resolve(device); !ok {
		return "", fmt.Errorf("%w: %s", picker.ErrDeviceNotFound, device)
	}
	return device, nil
}
