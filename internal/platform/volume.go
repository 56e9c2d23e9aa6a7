package platform

import (
	"fmt"

	volume "github.com/itchyny/volume-go"
)

// systemVolume drives the master volume of the default output endpoint,
// the one a headset's wheel moves. Windows goes through Core Audio, other
// systems through pactl or amixer.
type systemVolume struct {
	get func() (int, error)
	set func(int) error
}

func newSystemVolume() systemVolume {
	return systemVolume{get: volume.GetVolume, set: volume.SetVolume}
}

func (v systemVolume) Get() (int, error) {
	level, err := v.get()
	if err != nil {
		return 0, fmt.Errorf("get system volume: %w", err)
	}
	return clampLevel(level), nil
}

func (v systemVolume) Set(level int) error {
	if err := v.set(clampLevel(level)); err != nil {
		return fmt.Errorf("set system volume: %w", err)
	}
	return nil
}
