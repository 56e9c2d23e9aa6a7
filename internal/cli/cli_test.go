package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seagrayinc/hidmacro/internal/hid"
	"github.com/seagrayinc/hidmacro/internal/platform"
	"github.com/seagrayinc/hidmacro/internal/source"
)

const testConfig = `{
  "captureDelay": 30,
  "tickInterval": 5,
  "readTimeout": 5,
  "actions": [
    { "events": ["mute-button"], "type": "keyboard", "value": "audio_play" },
    { "events": ["audio-scroll", "mute-button"], "type": "mouse", "value": "left" }
  ]
}`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCheckCommand(t *testing.T) {
	path := writeConfig(t, testConfig)

	out, err := execute(t, "check", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "captureDelay: 30ms")
	assert.Contains(t, out, "signature 0b-00-bb-08 -> mute-button")
	assert.Contains(t, out, "1. [mute-button] -> keyboard:audio_play")
	assert.Contains(t, out, "2. [audio-scroll, mute-button] -> mouse:left")
}

func TestCheckCommandInvalid(t *testing.T) {
	path := writeConfig(t, `{"captureDelay": -1, "actions": [{"events": ["a"], "type": "gamepad", "value": "x"}]}`)

	out, err := execute(t, "check", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 problem(s)")
	assert.Contains(t, out, "  captureDelay: must be a positive number of milliseconds\n")
	assert.Contains(t, out, "  actions[0].type: unknown action type")
}

func TestCheckCommandMalformed(t *testing.T) {
	path := writeConfig(t, `{"captureDelay": `)

	out, err := execute(t, "check", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
	assert.Empty(t, out)
}

func TestDevicesCommand(t *testing.T) {
	path := writeConfig(t, testConfig)

	out, err := execute(t, "devices", "--config", path, "--backend", "mock")
	require.NoError(t, err)

	var entries []deviceEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	assert.Empty(t, entries)
}

func TestDevicesCommandUnknownBackend(t *testing.T) {
	_, err := execute(t, "devices", "--config", "missing.json", "--backend", "nope")
	assert.ErrorIs(t, err, hid.ErrUnknownBackend)
}

func TestRunMissingConfig(t *testing.T) {
	err := run(context.Background(), runOptions{configPath: filepath.Join(t.TempDir(), "missing.json"), backend: "mock"})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "could not load configuration"))
}

func TestRunNoDevices(t *testing.T) {
	path := writeConfig(t, testConfig)
	err := run(context.Background(), runOptions{configPath: path, backend: "mock"})
	assert.ErrorIs(t, err, source.ErrNoSources)
}

func TestRunFiresActions(t *testing.T) {
	path := writeConfig(t, testConfig)

	mgr := hid.NewMockManager()
	mute := mgr.Add(hid.Info{Path: "mute", Product: "HyperX Cloud II Wireless", Usage: 1, UsagePage: 65299})
	rec := platform.NewRecorder(50)
	ports := rec.Ports()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- run(ctx, runOptions{
			configPath: path,
			ports:      &ports,
			newManager: func(string) (hid.Manager, error) { return mgr, nil },
		})
	}()

	mute.Emit([]byte{11, 0, 187, 8})

	deadline := time.Now().Add(2 * time.Second)
	for {
		_, keys, _, _ := rec.Snapshot()
		if len(keys) == 1 {
			assert.Equal(t, []string{"audio_play"}, keys)
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timeout waiting for action")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop")
	}
	assert.True(t, mute.Closed())
}

func TestPause(t *testing.T) {
	var out bytes.Buffer
	pause(strings.NewReader("\n"), &out)
	assert.Equal(t, "Press Enter to exit...", out.String())
}
