package platform

import (
	"strconv"
	"strings"
)

// Key names accepted in action values, mapped to Windows virtual-key codes
// and X keysyms. A zero vk means Windows has no key for the name; tapping it
// there fails and the dispatcher logs it.
type key struct {
	vk       uint8
	keysym   string
	extended bool
}

var keys = map[string]key{
	"backspace":     {vk: 0x08, keysym: "BackSpace"},
	"tab":           {vk: 0x09, keysym: "Tab"},
	"enter":         {vk: 0x0D, keysym: "Return"},
	"shift":         {vk: 0x10, keysym: "Shift_L"},
	"right_shift":   {vk: 0xA1, keysym: "Shift_R"},
	"control":       {vk: 0x11, keysym: "Control_L"},
	"left_control":  {vk: 0xA2, keysym: "Control_L"},
	"right_control": {vk: 0xA3, keysym: "Control_R", extended: true},
	"alt":           {vk: 0x12, keysym: "Alt_L"},
	"right_alt":     {vk: 0xA5, keysym: "Alt_R", extended: true},
	"caps_lock":     {vk: 0x14, keysym: "Caps_Lock"},
	"escape":        {vk: 0x1B, keysym: "Escape"},
	"space":         {vk: 0x20, keysym: "space"},
	"pageup":        {vk: 0x21, keysym: "Prior", extended: true},
	"pagedown":      {vk: 0x22, keysym: "Next", extended: true},
	"end":           {vk: 0x23, keysym: "End", extended: true},
	"home":          {vk: 0x24, keysym: "Home", extended: true},
	"left":          {vk: 0x25, keysym: "Left", extended: true},
	"up":            {vk: 0x26, keysym: "Up", extended: true},
	"right":         {vk: 0x27, keysym: "Right", extended: true},
	"down":          {vk: 0x28, keysym: "Down", extended: true},
	"insert":        {vk: 0x2D, keysym: "Insert", extended: true},
	"delete":        {vk: 0x2E, keysym: "Delete", extended: true},
	"command":       {vk: 0x5B, keysym: "Super_L", extended: true},
	"menu":          {vk: 0x5D, keysym: "Menu", extended: true},
	"printscreen":   {vk: 0x2C, keysym: "Print", extended: true},

	"numpad_lock": {vk: 0x90, keysym: "Num_Lock"},
	"numpad_*":    {vk: 0x6A, keysym: "KP_Multiply"},
	"numpad_+":    {vk: 0x6B, keysym: "KP_Add"},
	"numpad_-":    {vk: 0x6D, keysym: "KP_Subtract"},
	"numpad_.":    {vk: 0x6E, keysym: "KP_Decimal"},
	"numpad_/":    {vk: 0x6F, keysym: "KP_Divide", extended: true},

	"audio_mute":     {vk: 0xAD, keysym: "XF86AudioMute", extended: true},
	"audio_vol_down": {vk: 0xAE, keysym: "XF86AudioLowerVolume", extended: true},
	"audio_vol_up":   {vk: 0xAF, keysym: "XF86AudioRaiseVolume", extended: true},
	"audio_next":     {vk: 0xB0, keysym: "XF86AudioNext", extended: true},
	"audio_prev":     {vk: 0xB1, keysym: "XF86AudioPrev", extended: true},
	"audio_stop":     {vk: 0xB2, keysym: "XF86AudioStop", extended: true},
	"audio_play":     {vk: 0xB3, keysym: "XF86AudioPlay", extended: true},
	"audio_pause":    {vk: 0xB3, keysym: "XF86AudioPause", extended: true},
	"audio_rewind":   {keysym: "XF86AudioRewind"},
	"audio_forward":  {keysym: "XF86AudioForward"},
	"audio_repeat":   {keysym: "XF86AudioRepeat"},
	"audio_random":   {keysym: "XF86AudioRandomPlay"},

	"lights_mon_up":     {keysym: "XF86MonBrightnessUp"},
	"lights_mon_down":   {keysym: "XF86MonBrightnessDown"},
	"lights_kbd_toggle": {keysym: "XF86KbdLightOnOff"},
	"lights_kbd_up":     {keysym: "XF86KbdBrightnessUp"},
	"lights_kbd_down":   {keysym: "XF86KbdBrightnessDown"},
}

var mouseButtons = map[string]int{
	"left":   1,
	"middle": 2,
	"right":  3,
}

func init() {
	for c := 'a'; c <= 'z'; c++ {
		keys[string(c)] = key{vk: uint8(c - 'a' + 'A'), keysym: string(c)}
	}
	for c := '0'; c <= '9'; c++ {
		keys[string(c)] = key{vk: uint8(c), keysym: string(c)}
		keys["numpad_"+string(c)] = key{vk: uint8(0x60 + c - '0'), keysym: "KP_" + string(c)}
	}
	for i := 0; i < 24; i++ {
		name := "F" + strconv.Itoa(i+1)
		keys[strings.ToLower(name)] = key{vk: uint8(0x70 + i), keysym: name}
	}
}

func lookupKey(name string) (key, bool) {
	k, ok := keys[strings.ToLower(name)]
	return k, ok
}

// KnownKey reports whether name can be used as a keyboard action value.
func KnownKey(name string) bool {
	_, ok := lookupKey(name)
	return ok
}

// KnownButton reports whether name can be used as a mouse action value.
func KnownButton(name string) bool {
	_, ok := mouseButtons[strings.ToLower(name)]
	return ok
}
