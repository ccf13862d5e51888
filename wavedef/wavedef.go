package wavedef

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// UnsupportedDeviceError indicates a device name outside the registered set.
type UnsupportedDeviceError struct {
	Device string
}

func (e *UnsupportedDeviceError) Error() string {
	return fmt.Sprintf("device %q is not supported, supported devices are %s",
		e.Device, strings.Join(SupportedDevices(), ", "))
}

// UnknownWaveError indicates a waveform name with no id mapping for the
// requested device and channel.
type UnknownWaveError struct {
	Device  string
	Name    string
	Channel int
}

func (e *UnknownWaveError) Error() string {
	return fmt.Sprintf("unknown waveform %q for device %q channel %d",
		e.Name, e.Device, e.Channel)
}

// UnknownWaveIDError indicates a waveform id with no name mapping for the
// requested device and channel.
type UnknownWaveIDError struct {
	Device  string
	ID      int
	Channel int
}

func (e *UnknownWaveIDError) Error() string {
	return fmt.Sprintf("unknown waveform id %d for device %q channel %d",
		e.ID, e.Device, e.Channel)
}

// InvalidChannelError indicates a channel other than 0 or 1.
type InvalidChannelError struct {
	Channel int
}

func (e *InvalidChannelError) Error() string {
	return fmt.Sprintf("invalid channel %d, only 0 or 1 is supported", e.Channel)
}

// Definition describes one waveform: its name and its id mappings, keyed
// by "device:channel" selectors (see the package documentation).
type Definition struct {
	Name     string
	Mappings map[string]int
}

var (
	mu      sync.RWMutex
	devices = map[string]bool{
		"":       true,
		"fy2300": true,
		"fy6800": true,
	}
	defs    []Definition
	idTable map[string]int    // "name:device:channel" -> id
	nameTab map[string]string // "id:device:channel" -> name
)

// The built-in table covers the FY2300 and FY6800 families. Channel 1
// lacks adj-pulse, so ids past 2 differ between channels.
var builtinDefs = []Definition{
	{"sin", map[string]int{":": 0}},
	{"square", map[string]int{":": 1}},
	{"cmos", map[string]int{":": 2}},
	{"adj-pulse", map[string]int{":0": 3}},
	{"dc", map[string]int{":0": 4, ":1": 3}},
	{"tri", map[string]int{":0": 5, ":1": 4}},
	{"ramp", map[string]int{":0": 6, ":1": 5}},
	{"neg-ramp", map[string]int{":0": 7, ":1": 6}},
	{"stair-tri", map[string]int{":0": 8, ":1": 7}},
	{"stair", map[string]int{":0": 9, ":1": 8}},
	{"neg-stair", map[string]int{":0": 10, ":1": 9}},
	{"exp", map[string]int{":0": 11, ":1": 10}},
	{"neg-exp", map[string]int{":0": 12, ":1": 11}},
	{"fall-exp", map[string]int{":0": 13, ":1": 12}},
	{"neg-fall-exp", map[string]int{":0": 14, ":1": 13}},
	{"log", map[string]int{":0": 15, ":1": 14}},
	{"neg-log", map[string]int{":0": 16, ":1": 15}},
	{"fall-log", map[string]int{":0": 17, ":1": 16}},
	{"neg-fall-log", map[string]int{":0": 18, ":1": 17}},
	{"full-wav", map[string]int{":0": 19, ":1": 18}},
	{"neg-full-wav", map[string]int{":0": 20, ":1": 19}},
	{"half-wav", map[string]int{":0": 21, ":1": 20}},
	{"neg-half-wav", map[string]int{":0": 22, ":1": 21}},
	{"lorentz", map[string]int{":0": 23, ":1": 22}},
	{"multitone", map[string]int{":0": 24, ":1": 23}},
	{"rand", map[string]int{":0": 25, ":1": 24}},
	{"ecg", map[string]int{":0": 26, ":1": 25}},
	{"trap", map[string]int{":0": 27, ":1": 26}},
	{"sinc", map[string]int{":0": 28, ":1": 27}},
	{"impulse", map[string]int{":0": 29, ":1": 28}},
	{"gauss", map[string]int{":0": 30, ":1": 29}},
	{"am", map[string]int{":0": 31, ":1": 30}},
	{"fm", map[string]int{":0": 32, ":1": 31}},
	{"chirp", map[string]int{":0": 33, ":1": 32}},
}

// ArbSlotCount is the number of arbitrary waveform slots on FY23xx/FY68xx
// hardware.
const ArbSlotCount = 64

func init() {
	idTable = make(map[string]int)
	nameTab = make(map[string]string)

	for _, d := range builtinDefs {
		addDef(d)
	}

	// arb1..arb64 follow the fixed waves, inheriting the same per-channel
	// id shift.
	ch0, ch1 := 34, 33
	for i := 1; i <= ArbSlotCount; i++ {
		addDef(Definition{
			Name:     fmt.Sprintf("arb%d", i),
			Mappings: map[string]int{":0": ch0, ":1": ch1},
		})
		ch0++
		ch1++
	}
}

// addDef indexes a definition. Callers hold mu when registration happens
// after init.
func addDef(d Definition) {
	defs = append(defs, d)
	for sel, id := range d.Mappings {
		idTable[d.Name+":"+sel] = id
		nameTab[strconv.Itoa(id)+":"+sel] = d.Name
	}
}

// SupportedDevices returns the registered device names, sorted. The empty
// name (generic mappings only) is not listed.
func SupportedDevices() []string {
	mu.RLock()
	defer mu.RUnlock()

	var out []string
	for d := range devices {
		if d != "" {
			out = append(out, d)
		}
	}
	sort.Strings(out)
	return out
}

// GetID looks up the wire id for a waveform name on the given device and
// channel.
func GetID(device, name string, channel int) (int, error) {
	mu.RLock()
	defer mu.RUnlock()

	ch := strconv.Itoa(channel)
	for _, key := range []string{
		name + ":" + device + ":" + ch,
		name + ":" + device + ":",
		name + "::" + ch,
		name + "::",
	} {
		if id, ok := idTable[key]; ok {
			return id, nil
		}
	}

	if err := checkLookup(device, channel); err != nil {
		return 0, err
	}
	return 0, &UnknownWaveError{Device: device, Name: name, Channel: channel}
}

// GetName looks up the waveform name for a wire id on the given device
// and channel.
func GetName(device string, id, channel int) (string, error) {
	mu.RLock()
	defer mu.RUnlock()

	ch := strconv.Itoa(channel)
	idStr := strconv.Itoa(id)
	for _, key := range []string{
		idStr + ":" + device + ":" + ch,
		idStr + ":" + device + ":",
		idStr + "::" + ch,
		idStr + "::",
	} {
		if name, ok := nameTab[key]; ok {
			return name, nil
		}
	}

	if err := checkLookup(device, channel); err != nil {
		return "", err
	}
	return "", &UnknownWaveIDError{Device: device, ID: id, Channel: channel}
}

// checkLookup distinguishes "bad device/channel" from "unknown waveform".
// Callers hold at least a read lock.
func checkLookup(device string, channel int) error {
	if !devices[device] {
		return &UnsupportedDeviceError{Device: device}
	}
	if channel != 0 && channel != 1 {
		return &InvalidChannelError{Channel: channel}
	}
	return nil
}

// ValidList returns the sorted names of every waveform available on the
// given device and channel.
func ValidList(device string, channel int) ([]string, error) {
	mu.RLock()
	defer mu.RUnlock()

	if err := checkLookup(device, channel); err != nil {
		return nil, err
	}

	selectors := []string{
		fmt.Sprintf("%s:%d", device, channel),
		fmt.Sprintf(":%d", channel),
		device + ":",
		":",
	}

	var out []string
	for _, d := range defs {
		for _, sel := range selectors {
			if _, ok := d.Mappings[sel]; ok {
				out = append(out, d.Name)
				break
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// Detect maps a device model string, as reported by the instrument, to
// the best-matching supported device name. Matching is by four-character
// prefix so that e.g. an FY2350H maps to fy2300.
func Detect(model string) (string, error) {
	model = strings.ToLower(model)

	mu.RLock()
	defer mu.RUnlock()

	var candidates []string
	for d := range devices {
		if d != "" {
			candidates = append(candidates, d)
		}
	}
	sort.Strings(candidates)

	for _, d := range candidates {
		if len(model) >= 4 && d[:4] == model[:4] {
			return d, nil
		}
	}
	return "", &UnsupportedDeviceError{Device: model}
}

// RegisterDevice adds a device and its waveform id mappings. Waveforms
// already known keep their generic mappings; the new definitions take
// precedence for this device. Registration is intended for program
// startup, before any lookups for the device.
func RegisterDevice(name string, deviceDefs []Definition) error {
	if name == "" {
		return &UnsupportedDeviceError{Device: name}
	}
	name = strings.ToLower(name)

	mu.Lock()
	defer mu.Unlock()

	devices[name] = true
	for _, d := range deviceDefs {
		for sel := range d.Mappings {
			if !strings.Contains(sel, ":") {
				return fmt.Errorf("wavedef: selector %q for %q must contain a \":\"", sel, d.Name)
			}
		}
		addDef(d)
	}
	return nil
}
