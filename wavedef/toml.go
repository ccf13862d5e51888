package wavedef

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// deviceFile is the on-disk shape of a custom device table.
type deviceFile struct {
	Device    string         `toml:"device"`
	Waveforms []waveformToml `toml:"waveform"`
}

type waveformToml struct {
	Name string `toml:"name"`
	ID   int    `toml:"id"`
	// Channel restricts the mapping to one channel; omitted means both.
	Channel *int `toml:"channel"`
}

// LoadDeviceFile registers a device described by a TOML file and returns
// the registered device name. This is the escape hatch for instruments
// whose id tables are not built in: waveform id assignments are
// firmware-revision-sensitive, so they are data, not code.
func LoadDeviceFile(path string) (string, error) {
	var df deviceFile
	if _, err := toml.DecodeFile(path, &df); err != nil {
		return "", fmt.Errorf("wavedef: load %s: %w", path, err)
	}
	if df.Device == "" {
		return "", fmt.Errorf("wavedef: %s: missing device name", path)
	}
	df.Device = strings.ToLower(df.Device)

	defs := make([]Definition, 0, len(df.Waveforms))
	for _, w := range df.Waveforms {
		if w.Name == "" {
			return "", fmt.Errorf("wavedef: %s: waveform with no name", path)
		}
		if w.ID < 0 || w.ID > 99 {
			return "", fmt.Errorf("wavedef: %s: waveform %q id %d out of range", path, w.Name, w.ID)
		}

		sel := df.Device + ":"
		if w.Channel != nil {
			if *w.Channel != 0 && *w.Channel != 1 {
				return "", fmt.Errorf("wavedef: %s: waveform %q channel %d out of range", path, w.Name, *w.Channel)
			}
			sel += strconv.Itoa(*w.Channel)
		}

		defs = append(defs, Definition{
			Name:     w.Name,
			Mappings: map[string]int{sel: w.ID},
		})
	}

	if err := RegisterDevice(df.Device, defs); err != nil {
		return "", err
	}
	return df.Device, nil
}
