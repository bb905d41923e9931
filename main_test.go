package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/filetug/filepick/pkg/picker"
	"github.com/manifoldco/promptui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	stdout   bytes.Buffer
	stderr   bytes.Buffer
	device   string
	opts     picker.Options
	uiCalled bool
	logFile  string
}

// setup swaps every seam that touches the terminal and returns a config path.
func setup(t *testing.T, config string) (*harness, string) {
	t.Helper()
	h := &harness{}

	oldStdout, oldStderr := stdout, stderr
	oldIsTerminal, oldRunUI, oldSelect := isTerminal, runUI, selectDevice
	oldNoColor := color.NoColor
	t.Cleanup(func() {
		stdout, stderr = oldStdout, oldStderr
		isTerminal, runUI, selectDevice = oldIsTerminal, oldRunUI, oldSelect
		color.NoColor = oldNoColor
	})
	stdout, stderr = &h.stdout, &h.stderr
	color.NoColor = true
	isTerminal = func() bool { return true }
	selectDevice = func([]deviceItem) (int, error) {
		t.Fatal("unexpected device prompt")
		return 0, nil
	}
	runUI = func(_ context.Context, device string, opts picker.Options) (picker.Selection, error) {
		h.uiCalled = true
		h.device = device
		h.opts = opts
		return picker.Selection{Device: device, Path: "/docs/readme.txt"}, nil
	}

	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	config = strings.ReplaceAll(config, "$DIR", dir)
	h.logFile = filepath.Join(dir, "filepick.log")
	config += "\nlog:\n  output: " + h.logFile + "\n"
	require.NoError(t, os.WriteFile(p, []byte(config), 0o600))
	return h, p
}

const twoDevices = `
devices:
  - name: local
    type: os
    root: $DIR
  - name: web
    type: http
    url: http://localhost:8080/
`

func TestExecute_Selected(t *testing.T) {
	h, config := setup(t, twoDevices)

	code := execute([]string{"--config", config, "local"})
	assert.Equal(t, 0, code)
	assert.True(t, h.uiCalled)
	assert.Equal(t, "local", h.device)
	assert.Equal(t, "local:/docs/readme.txt\n", h.stdout.String())
	assert.Contains(t, h.stderr.String(), "Selected local:/docs/readme.txt")

	assert.Equal(t, picker.DefaultCooldownFrames, h.opts.CooldownFrames)
	assert.Equal(t, picker.DefaultFrameInterval, h.opts.FrameInterval)
	assert.Equal(t, picker.DefaultPathCapacity, h.opts.PathCapacity)
	assert.NotNil(t, h.opts.Lister)
	assert.NotNil(t, h.opts.Observer)
}

func TestExecute_FlagOverrides(t *testing.T) {
	h, config := setup(t, twoDevices)

	code := execute([]string{"--config", config, "--device", "web", "--cooldown", "3", "--frame", "20ms", "--edge", "--log-level", "debug"})
	assert.Equal(t, 0, code)
	assert.Equal(t, "web", h.device)
	assert.Equal(t, 3, h.opts.CooldownFrames)
	assert.Equal(t, 20*time.Millisecond, h.opts.FrameInterval)
	assert.True(t, h.opts.EdgeTriggered)

	h.opts.Logger.Debug("frame")
	data, err := os.ReadFile(h.logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"logger":"picker"`)
}

func TestExecute_InvalidFlagValue(t *testing.T) {
	h, config := setup(t, twoDevices)
	code := execute([]string{"--config", config, "--cooldown", "-1", "local"})
	assert.Equal(t, 2, code)
	assert.False(t, h.uiCalled)
	assert.Contains(t, h.stderr.String(), "cooldown_frames")
}

func TestExecute_Cancelled(t *testing.T) {
	h, config := setup(t, twoDevices)
	runUI = func(context.Context, string, picker.Options) (picker.Selection, error) {
		return picker.Selection{}, errors.Join(picker.ErrCancelled, context.Canceled)
	}
	code := execute([]string{"--config", config, "local"})
	assert.Equal(t, 1, code)
	assert.Empty(t, h.stdout.String())
	assert.Empty(t, h.stderr.String())
}

func TestExecute_Failed(t *testing.T) {
	h, config := setup(t, twoDevices)
	runUI = func(context.Context, string, picker.Options) (picker.Selection, error) {
		return picker.Selection{}, &picker.ListingError{Device: "local", Path: "/", Stage: picker.StageOpen, Err: os.ErrPermission}
	}
	code := execute([]string{"--config", config, "local"})
	assert.Equal(t, 2, code)
	assert.Empty(t, h.stdout.String())
	assert.Contains(t, h.stderr.String(), "failed to open 'local:/'")
}

func TestExecute_UnknownDevice(t *testing.T) {
	h, config := setup(t, twoDevices)
	code := execute([]string{"--config", config, "usb"})
	assert.Equal(t, 2, code)
	assert.False(t, h.uiCalled)
	assert.Contains(t, h.stderr.String(), "device not found: usb")
}

func TestExecute_NotATerminal(t *testing.T) {
	h, config := setup(t, twoDevices)
	isTerminal = func() bool { return false }
	code := execute([]string{"--config", config, "local"})
	assert.Equal(t, 2, code)
	assert.False(t, h.uiCalled)
	assert.Contains(t, h.stderr.String(), "interactive terminal")
}

func TestExecute_DeviceChoice(t *testing.T) {
	t.Run("default_device", func(t *testing.T) {
		h, config := setup(t, "default_device: web\n"+twoDevices)
		assert.Equal(t, 0, execute([]string{"--config", config}))
		assert.Equal(t, "web", h.device)
	})

	t.Run("single_device", func(t *testing.T) {
		h, config := setup(t, "devices:\n  - name: only\n    type: os\n    root: $DIR\n")
		assert.Equal(t, 0, execute([]string{"--config", config}))
		assert.Equal(t, "only", h.device)
	})

	t.Run("prompt", func(t *testing.T) {
		h, config := setup(t, twoDevices)
		var offered []deviceItem
		selectDevice = func(items []deviceItem) (int, error) {
			offered = items
			return 1, nil
		}
		assert.Equal(t, 0, execute([]string{"--config", config}))
		assert.Equal(t, "web", h.device)
		if assert.Len(t, offered, 2) {
			assert.Equal(t, "local", offered[0].Name)
			assert.Contains(t, offered[1].Title, "web")
		}
	})

	t.Run("prompt_interrupted", func(t *testing.T) {
		h, config := setup(t, twoDevices)
		selectDevice = func([]deviceItem) (int, error) {
			return 0, promptui.ErrInterrupt
		}
		assert.Equal(t, 1, execute([]string{"--config", config}))
		assert.False(t, h.uiCalled)
	})
}

func TestExecute_DevicesCommand(t *testing.T) {
	_, config := setup(t, "default_device: web\n"+twoDevices+"  - name: demo\n    type: mem\n")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"devices", "--config", config, "--no-color"})
	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if assert.Len(t, lines, 3) {
		assert.True(t, strings.HasPrefix(lines[0], "  local\tos\t"), lines[0])
		assert.Equal(t, "* web\thttp\thttp://localhost:8080/", lines[1])
		assert.Equal(t, "  demo\tmem\tmem://demo", lines[2])
	}
}

func TestExecute_Servers(t *testing.T) {
	_, config := setup(t, twoDevices)
	oldListen := httpListenAndServe
	defer func() { httpListenAndServe = oldListen }()

	addrs := make(chan string, 2)
	httpListenAndServe = func(addr string, _ http.Handler) error {
		addrs <- addr
		return errors.New("closed")
	}
	code := execute([]string{"--config", config, "--metrics", "127.0.0.1:0", "--pprof", "127.0.0.1:1", "local"})
	assert.Equal(t, 0, code)

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case addr := <-addrs:
			got[addr] = true
		case <-time.After(time.Second):
			t.Fatal("server was not started")
		}
	}
	assert.True(t, got["127.0.0.1:0"])
	assert.True(t, got["127.0.0.1:1"])
}

func TestExecute_Profiles(t *testing.T) {
	_, config := setup(t, twoDevices)
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.prof")
	mem := filepath.Join(dir, "mem.prof")

	code := execute([]string{"--config", config, "--cpuprofile", cpu, "--memprofile", mem, "local"})
	assert.Equal(t, 0, code)
	_, err := os.Stat(cpu)
	assert.NoError(t, err)
	_, err = os.Stat(mem)
	assert.NoError(t, err)
}

func TestMain_ExitCode(t *testing.T) {
	_, config := setup(t, twoDevices)
	oldExit, oldArgs := osExit, os.Args
	defer func() {
		osExit, os.Args = oldExit, oldArgs
	}()

	code := -1
	osExit = func(c int) { code = c }
	os.Args = []string{"filepick", "--config", config, "local"}
	main()
	assert.Equal(t, 0, code)
}
