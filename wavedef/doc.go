// Package wavedef maps waveform names to the numeric ids FY-series
// instruments use on the wire.
//
// Waveform id assignments vary by device model and can even vary between
// the two channels of one device (channel 1 lacks the adjustable pulse
// wave, shifting every id after it down by one). Each waveform therefore
// carries a mapping from "device:channel" selectors to ids; lookups try
// the most specific selector first:
//
//	"fy2300:0"  exact device and channel
//	"fy2300:"   device, any channel
//	":0"        any device, specific channel
//	":"         any device, any channel
//
// Arbitrary waveform slots are exposed as arb1..arb64.
//
// Devices not in the built-in set can be described in a TOML file and
// registered at runtime with LoadDeviceFile:
//
//	device = "fy6900"
//
//	[[waveform]]
//	name = "sin"
//	id = 0
//
//	[[waveform]]
//	name = "dc"
//	id = 4
//	channel = 0
package wavedef
