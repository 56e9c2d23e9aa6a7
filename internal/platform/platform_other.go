//go:build !windows

package platform

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const commandTimeout = 2 * time.Second

func native() Ports {
	return Ports{Volume: newSystemVolume(), Injector: xdotool{}, Tone: bell{w: os.Stderr}}
}

var runCommand = func(name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return out, nil
}

// xdotool injects X11 input events.
type xdotool struct{}

func (xdotool) KeyTap(name string) error {
	k, ok := lookupKey(name)
	if !ok {
		return unknownKey(name)
	}
	_, err := runCommand("xdotool", "key", k.keysym)
	return err
}

func (xdotool) MouseClick(name string) error {
	b, ok := mouseButtons[strings.ToLower(name)]
	if !ok {
		return unknownButton(name)
	}
	_, err := runCommand("xdotool", "click", strconv.Itoa(b))
	return err
}

// bell rings the terminal bell; its length is up to the terminal.
type bell struct {
	w io.Writer
}

func (b bell) Beep(d time.Duration) error {
	if d <= 0 {
		return nil
	}
	_, err := io.WriteString(b.w, "\a")
	return err
}
