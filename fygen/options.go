package fygen

import (
	"io"
	"os"

	"github.com/mattwach/fygen/protocol"
)

// Debug levels for command tracing.
const (
	// DebugSilent disables command echo
	DebugSilent = 0

	// DebugEcho echoes every command and response to the diagnostic sink
	DebugEcho = 1

	// DebugConfirm echoes and additionally blocks for manual
	// confirmation before each send
	DebugConfirm = 2
)

// Config holds the generator configuration.
type Config struct {
	// DeviceName selects the waveform id table ("fy2300", "fy6800").
	// DetectDevice can set it from the instrument's model string.
	DeviceName string

	// DefaultChannels are the channels used when Set is called without
	// explicit channels
	DefaultChannels []int

	// ReadBeforeWrite enables the reconciliation algorithm: read first,
	// skip writes that would be no-ops, confirm writes afterwards.
	// Without it writes are fire-and-forget and device-side failures go
	// undetected; that trade is speed for certainty.
	ReadBeforeWrite bool

	// InitState fills omitted parameters from the default table on the
	// first Set per channel
	InitState bool

	// DebugLevel is one of DebugSilent, DebugEcho, DebugConfirm
	DebugLevel int

	// Diagnostics receives command echo at DebugEcho and above
	Diagnostics io.Writer

	// ConfirmInput is read for confirmation at DebugConfirm
	ConfirmInput io.Reader

	// MinVolts and MaxVolts bound amplitude and offset intents
	MinVolts float64
	MaxVolts float64

	// ValueCount is the expected waveform sample array length
	ValueCount int

	// ForceSweepEnable overrides the sweep-enable firmware bug guard
	ForceSweepEnable bool

	// Logger receives operation logs (optional)
	Logger Logger
}

func defaultConfig() Config {
	return Config{
		DeviceName:      "fy2300",
		DefaultChannels: []int{0},
		ReadBeforeWrite: true,
		InitState:       true,
		Diagnostics:     os.Stdout,
		ConfirmInput:    os.Stdin,
		MinVolts:        -20.0,
		MaxVolts:        20.0,
		ValueCount:      protocol.DefaultValueCount,
	}
}

// Option is a functional option for configuring the Generator.
type Option func(*Config)

// WithDeviceName selects the waveform id table. Leave unset for fy2300
// or call DetectDevice after connecting.
func WithDeviceName(name string) Option {
	return func(c *Config) {
		c.DeviceName = name
	}
}

// WithDefaultChannels sets the channels used when Set is called without
// explicit channels.
func WithDefaultChannels(channels ...int) Option {
	return func(c *Config) {
		if len(channels) > 0 {
			c.DefaultChannels = channels
		}
	}
}

// WithReadBeforeWrite enables or disables read-before-write
// reconciliation. Default is true.
func WithReadBeforeWrite(enabled bool) Option {
	return func(c *Config) {
		c.ReadBeforeWrite = enabled
	}
}

// WithInitState enables or disables default-value injection on first
// channel use. Default is true.
func WithInitState(enabled bool) Option {
	return func(c *Config) {
		c.InitState = enabled
	}
}

// WithDebugLevel sets command tracing (DebugSilent, DebugEcho or
// DebugConfirm).
func WithDebugLevel(level int) Option {
	return func(c *Config) {
		if level >= DebugSilent && level <= DebugConfirm {
			c.DebugLevel = level
		}
	}
}

// WithDiagnostics redirects debug echo away from stdout.
func WithDiagnostics(w io.Writer) Option {
	return func(c *Config) {
		if w != nil {
			c.Diagnostics = w
		}
	}
}

// WithConfirmInput sets the reader consulted at DebugConfirm.
func WithConfirmInput(r io.Reader) Option {
	return func(c *Config) {
		if r != nil {
			c.ConfirmInput = r
		}
	}
}

// WithVoltageLimits bounds amplitude and offset intents. Defaults are
// -20 V to 20 V.
func WithVoltageLimits(minVolts, maxVolts float64) Option {
	return func(c *Config) {
		if maxVolts > minVolts {
			c.MinVolts = minVolts
			c.MaxVolts = maxVolts
		}
	}
}

// WithValueCount overrides the expected waveform sample count for
// devices with a different arbitrary waveform memory size.
func WithValueCount(count int) Option {
	return func(c *Config) {
		if count > 0 {
			c.ValueCount = count
		}
	}
}

// WithForceSweepEnable allows SetSweep to issue the sweep enable
// command despite the known firmware bug. See SweepConfig.Enable.
func WithForceSweepEnable(force bool) Option {
	return func(c *Config) {
		c.ForceSweepEnable = force
	}
}

// WithLogger sets a logger for generator operations.
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}
