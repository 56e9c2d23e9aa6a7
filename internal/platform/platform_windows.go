//go:build windows

package platform

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/sys/windows"
)

var (
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")
	user32   = windows.NewLazySystemDLL("user32.dll")

	procBeep       = kernel32.NewProc("Beep")
	procKeybdEvent = user32.NewProc("keybd_event")
	procMouseEvent = user32.NewProc("mouse_event")
)

const (
	KEYEVENTF_EXTENDEDKEY = 0x0001
	KEYEVENTF_KEYUP       = 0x0002

	MOUSEEVENTF_LEFTDOWN   = 0x0002
	MOUSEEVENTF_LEFTUP     = 0x0004
	MOUSEEVENTF_RIGHTDOWN  = 0x0008
	MOUSEEVENTF_RIGHTUP    = 0x0010
	MOUSEEVENTF_MIDDLEDOWN = 0x0020
	MOUSEEVENTF_MIDDLEUP   = 0x0040

	beepFrequency = 500 // Hz
)

func native() Ports {
	return Ports{Volume: newSystemVolume(), Injector: winInjector{}, Tone: winTone{}}
}

type winTone struct{}

func (winTone) Beep(d time.Duration) error {
	if d <= 0 {
		return nil
	}
	r, _, err := procBeep.Call(beepFrequency, uintptr(d.Milliseconds()))
	if r == 0 {
		return fmt.Errorf("Beep failed: %v", err)
	}
	return nil
}

type winInjector struct{}

func (winInjector) KeyTap(name string) error {
	k, ok := lookupKey(name)
	if !ok {
		return unknownKey(name)
	}
	if k.vk == 0 {
		return fmt.Errorf("key %q has no virtual-key code on Windows", name)
	}
	var flags uintptr
	if k.extended {
		flags = KEYEVENTF_EXTENDEDKEY
	}
	procKeybdEvent.Call(uintptr(k.vk), 0, flags, 0)
	procKeybdEvent.Call(uintptr(k.vk), 0, flags|KEYEVENTF_KEYUP, 0)
	return nil
}

func (winInjector) MouseClick(name string) error {
	var down, up uintptr
	switch strings.ToLower(name) {
	case "left":
		down, up = MOUSEEVENTF_LEFTDOWN, MOUSEEVENTF_LEFTUP
	case "right":
		down, up = MOUSEEVENTF_RIGHTDOWN, MOUSEEVENTF_RIGHTUP
	case "middle":
		down, up = MOUSEEVENTF_MIDDLEDOWN, MOUSEEVENTF_MIDDLEUP
	default:
		return unknownButton(name)
	}
	procMouseEvent.Call(down, 0, 0, 0, 0)
	procMouseEvent.Call(up, 0, 0, 0, 0)
	return nil
}
