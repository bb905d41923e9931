package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/filetug/filepick/pkg/devices"
	"github.com/filetug/filepick/pkg/fpsettings"
	"github.com/filetug/filepick/pkg/logging"
	"github.com/filetug/filepick/pkg/metrics"
	"github.com/filetug/filepick/pkg/picker"
	"github.com/filetug/filepick/pkg/pickerui"
	"github.com/filetug/filepick/pkg/profiling"
	"github.com/rivo/tview"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

type rootFlags struct {
	configPath string
	device     string
	logLevel   string
	logFile    string
	cooldown   int
	frame      time.Duration
	edge       bool
	metrics    string
	noColor    bool
	cpuProfile string
	memProfile string
	pprofAddr  string
}

var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

var newApp = tview.NewApplication

var runUI = func(ctx context.Context, device string, opts picker.Options) (picker.Selection, error) {
	return pickerui.Run(ctx, newApp(), device, opts)
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "filepick [device]",
		Short: "Pick a file from a device in the terminal",
		Long: `Browse a device directory by directory and pick one file.

The selected file is printed to stdout as device:path, so it composes with
other commands:

  run-elf "$(filepick sd)"

Keys: up/k, down/j, enter/l to open or select, backspace/h to go back, esc/q to quit.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPicker(cmd, args, flags)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&flags.configPath, "config", "", "config file (default ~/.filepick/config.yaml or config.toml)")
	f.BoolVar(&flags.noColor, "no-color", false, "disable coloured output")

	f = cmd.Flags()
	f.StringVarP(&flags.device, "device", "d", "", "device to browse")
	f.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.StringVar(&flags.logFile, "log-file", "", "log file, or stderr")
	f.IntVar(&flags.cooldown, "cooldown", picker.DefaultCooldownFrames, "frames to ignore input after each action")
	f.DurationVar(&flags.frame, "frame", picker.DefaultFrameInterval, "idle time per frame")
	f.BoolVar(&flags.edge, "edge", false, "act only when a key is newly pressed")
	f.StringVar(&flags.metrics, "metrics", "", "serve Prometheus metrics on `address`")
	f.StringVar(&flags.cpuProfile, "cpuprofile", "", "write cpu profile to `file`")
	f.StringVar(&flags.memProfile, "memprofile", "", "write memory profile to `file`")
	f.StringVar(&flags.pprofAddr, "pprof", "", "start pprof http server on `address` (e.g. localhost:6060)")

	cmd.AddCommand(newDevicesCmd(flags))
	return cmd
}

func loadConfig(cmd *cobra.Command, flags *rootFlags) (fpsettings.Config, error) {
	if flags.noColor {
		color.NoColor = true
	}
	cfg, err := fpsettings.Load(flags.configPath)
	if err != nil {
		return cfg, err
	}
	changed := cmd.Flags().Changed
	if changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if changed("log-file") {
		cfg.Log.Output = flags.logFile
	}
	if changed("cooldown") {
		cfg.Picker.CooldownFrames = flags.cooldown
	}
	if changed("frame") {
		cfg.Picker.FrameInterval = fpsettings.Duration(flags.frame)
	}
	if changed("edge") {
		cfg.Picker.EdgeTrigger = flags.edge
	}
	if changed("metrics") {
		cfg.MetricsAddr = flags.metrics
	}
	return cfg, cfg.Validate()
}

func startServers(cfg fpsettings.Config, flags *rootFlags) {
	serve := func(name, addr string, handler http.Handler) {
		go func() {
			if err := httpListenAndServe(addr, handler); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.L().Warn(name+" server stopped", zap.String("addr", addr), zap.Error(err))
			}
		}()
	}
	if flags.pprofAddr != "" {
		serve("pprof", flags.pprofAddr, nil)
	}
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		serve("metrics", cfg.MetricsAddr, mux)
	}
}

func runPicker(cmd *cobra.Command, args []string, flags *rootFlags) (err error) {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}
	if err = logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, OutputPath: cfg.Log.Output}); err != nil {
		return err
	}
	defer func() {
		_ = logging.Sync()
	}()

	if flags.cpuProfile != "" {
		stopCPUProfiling := profiling.DoCPUProfiling(flags.cpuProfile)
		defer stopCPUProfiling()
	}
	if flags.memProfile != "" {
		stopMemProfiling := profiling.DoMemProfiling(flags.memProfile)
		defer stopMemProfiling()
	}
	startServers(cfg, flags)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry, err := devices.FromConfig(ctx, cfg.Devices)
	if err != nil {
		return err
	}
	if !isTerminal() {
		return errors.New("filepick needs an interactive terminal")
	}
	device, err := chooseDevice(args, flags, cfg, registry)
	if err != nil {
		return err
	}

	recorder := metrics.Recorder{}
	opts := picker.DefaultOptions()
	opts.Lister = picker.NewDirectoryLister(registry,
		picker.WithListerLogger(logging.Named("lister")),
		picker.WithMaxEntries(cfg.Picker.MaxEntries),
		picker.WithPathCapacity(cfg.Picker.PathCapacity),
		picker.WithListingObserver(recorder),
	)
	opts.Logger = logging.Named("picker")
	opts.Observer = recorder
	opts.PathCapacity = cfg.Picker.PathCapacity
	opts.CooldownFrames = cfg.Picker.CooldownFrames
	opts.EdgeTriggered = cfg.Picker.EdgeTrigger
	opts.FrameInterval = time.Duration(cfg.Picker.FrameInterval)

	selection, err := runUI(ctx, device, opts)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(stdout, selection.String())
	_, _ = fmt.Fprintf(stderr, "%s %s\n", color.GreenString("Selected"), color.CyanString(selection.String()))
	return nil
}
