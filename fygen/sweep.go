package fygen

import (
	"context"

	"github.com/mattwach/fygen/protocol"
)

// SweepMode selects which parameter the sweep varies.
type SweepMode int

const (
	SweepFrequency SweepMode = iota
	SweepVolts
	SweepOffsetVolts
	SweepDutyCycle
)

func (m SweepMode) String() string {
	switch m {
	case SweepFrequency:
		return "frequency"
	case SweepVolts:
		return "volts"
	case SweepOffsetVolts:
		return "offset_volts"
	case SweepDutyCycle:
		return "duty_cycle"
	}
	return "unknown"
}

// SweepSource selects what advances the sweep.
type SweepSource int

const (
	SweepSourceTime SweepSource = iota
	SweepSourceVCO
)

// The firmware stores offset sweep bounds with a fixed +10 V bias.
const sweepOffsetBias = 10.0

// SweepConfig describes a sweep setup. Nil fields are left untouched on
// the instrument. Bounds come in start/end pairs for exactly one
// parameter; Mode may be omitted and is then inferred from which pair
// is present.
type SweepConfig struct {
	// Enable starts or stops the sweep. Starting requires
	// WithForceSweepEnable; see SetSweep.
	Enable *bool

	Mode        *SweepMode
	Logarithmic *bool
	Source      *SweepSource
	TimeSeconds *float64

	StartFreqHz *float64
	EndFreqHz   *float64

	StartVolts *float64
	EndVolts   *float64

	StartOffsetVolts *float64
	EndOffsetVolts   *float64

	StartDutyCycle *float64
	EndDutyCycle   *float64
}

// SweepModePtr returns a pointer to m, for filling SweepConfig inline.
func SweepModePtr(m SweepMode) *SweepMode { return &m }

// SweepSourcePtr returns a pointer to s, for filling SweepConfig inline.
func SweepSourcePtr(s SweepSource) *SweepSource { return &s }

// SetSweep configures the sweep engine. The sweep is always stopped
// before any parameter changes so the instrument never sweeps through a
// half-configured range.
//
// Enabling the sweep over the serial port puts tested FY2300 firmware
// into a state where the front panel stops responding, so Enable=true
// fails with *FirmwareBugError unless the generator was built with
// WithForceSweepEnable. Stopping (Enable=false) is always allowed.
func (g *Generator) SetSweep(ctx context.Context, sc SweepConfig) error {
	mode, err := sc.resolveMode()
	if err != nil {
		return err
	}

	// Stop first. Also clears a sweep left running by a previous process.
	if _, err := g.send(ctx, protocol.BuildSweepEnableCmd(false)); err != nil {
		return err
	}
	g.sweepOn = false

	if mode != nil {
		cmd, err := protocol.BuildSweepModeCmd(int(*mode))
		if err != nil {
			return err
		}
		if _, err := g.send(ctx, cmd); err != nil {
			return err
		}
	}

	if sc.Logarithmic != nil {
		if _, err := g.send(ctx, protocol.BuildSweepLogCmd(*sc.Logarithmic)); err != nil {
			return err
		}
	}

	if sc.Source != nil {
		cmd, err := protocol.BuildSweepSourceCmd(int(*sc.Source))
		if err != nil {
			return err
		}
		if _, err := g.send(ctx, cmd); err != nil {
			return err
		}
	}

	if sc.TimeSeconds != nil {
		cmd, err := protocol.BuildSweepTimeCmd(*sc.TimeSeconds)
		if err != nil {
			return err
		}
		if _, err := g.send(ctx, cmd); err != nil {
			return err
		}
	}

	if err := g.sendSweepBounds(ctx, sc); err != nil {
		return err
	}

	if sc.Enable != nil && *sc.Enable {
		if !g.cfg.ForceSweepEnable {
			return &FirmwareBugError{
				Op: "sweep_enable",
				Reason: "enabling the sweep over the serial port locks up the " +
					"front panel on tested firmware; use WithForceSweepEnable " +
					"to send it anyway",
			}
		}
		if _, err := g.send(ctx, protocol.BuildSweepEnableCmd(true)); err != nil {
			return err
		}
		g.sweepOn = true
		g.logInfo("sweep enabled")
	}

	return nil
}

// SweepEnabled reports whether this engine believes the sweep is
// running. The instrument has no sweep state read command, so this
// tracks what the engine last sent, not independent device state.
func (g *Generator) SweepEnabled() bool {
	return g.sweepOn
}

// resolveMode validates that at most one bound pair is present and that
// pairs are complete, and infers the mode when it was not given.
func (sc SweepConfig) resolveMode() (*SweepMode, error) {
	type pair struct {
		mode       SweepMode
		start, end *float64
	}
	pairs := []pair{
		{SweepFrequency, sc.StartFreqHz, sc.EndFreqHz},
		{SweepVolts, sc.StartVolts, sc.EndVolts},
		{SweepOffsetVolts, sc.StartOffsetVolts, sc.EndOffsetVolts},
		{SweepDutyCycle, sc.StartDutyCycle, sc.EndDutyCycle},
	}

	var found *SweepMode
	for _, p := range pairs {
		if p.start == nil && p.end == nil {
			continue
		}
		if p.start == nil || p.end == nil {
			return nil, &protocol.ValidationError{
				Reason: "sweep " + p.mode.String() + " bounds must be given as a start/end pair",
			}
		}
		if found != nil {
			return nil, &protocol.ValidationError{
				Reason: "sweep bounds given for more than one parameter",
			}
		}
		m := p.mode
		found = &m
	}

	if sc.Mode != nil {
		if found != nil && *found != *sc.Mode {
			return nil, &protocol.ValidationError{
				Reason: "sweep mode " + sc.Mode.String() + " does not match the " +
					found.String() + " bounds given",
			}
		}
		return sc.Mode, nil
	}
	return found, nil
}

func (g *Generator) sendSweepBounds(ctx context.Context, sc SweepConfig) error {
	type bound struct {
		end   bool
		value *float64
		build func(end bool, v float64) (protocol.Command, error)
	}

	offsetBound := func(end bool, v float64) (protocol.Command, error) {
		if v+sweepOffsetBias < 0 {
			return protocol.Command{}, &protocol.EncodingError{
				Op:     "sweep_offset",
				Value:  formatFloat(v),
				Reason: "offset below the firmware's representable range",
			}
		}
		return protocol.BuildSweepOffsetBoundCmd(end, v+sweepOffsetBias), nil
	}

	bounds := []bound{
		{false, sc.StartFreqHz, protocol.BuildSweepFreqBoundCmd},
		{true, sc.EndFreqHz, protocol.BuildSweepFreqBoundCmd},
		{false, sc.StartVolts, protocol.BuildSweepVoltsBoundCmd},
		{true, sc.EndVolts, protocol.BuildSweepVoltsBoundCmd},
		{false, sc.StartOffsetVolts, offsetBound},
		{true, sc.EndOffsetVolts, offsetBound},
		{false, sc.StartDutyCycle, protocol.BuildSweepDutyBoundCmd},
		{true, sc.EndDutyCycle, protocol.BuildSweepDutyBoundCmd},
	}

	for _, b := range bounds {
		if b.value == nil {
			continue
		}
		cmd, err := b.build(b.end, *b.value)
		if err != nil {
			return err
		}
		if _, err := g.send(ctx, cmd); err != nil {
			return err
		}
	}
	return nil
}
