package fygen

import (
	"context"

	"github.com/mattwach/fygen/protocol"
)

// Coupling selects the measurement input coupling.
type Coupling int

const (
	CouplingAC Coupling = iota
	CouplingDC
)

// GateTime selections for frequency measurement. Longer gates trade
// update rate for resolution.
const (
	Gate1Sec = iota
	Gate10Sec
	Gate100Sec
)

// MeasurementConfig describes a measurement setup. Nil fields are left
// untouched on the instrument.
type MeasurementConfig struct {
	// Pause freezes the measurement display and counters
	Pause *bool

	// GateTime is one of Gate1Sec, Gate10Sec, Gate100Sec
	GateTime *int

	Coupling *Coupling

	// ResetCounter zeroes the pulse counter
	ResetCounter bool
}

// CouplingPtr returns a pointer to c, for filling MeasurementConfig
// inline.
func CouplingPtr(c Coupling) *Coupling { return &c }

// Measurement is one decoded set of measurement readings.
type Measurement struct {
	FrequencyHz          float64
	PeriodSeconds        float64
	PositiveWidthSeconds float64
	NegativeWidthSeconds float64
	DutyCycle            float64
}

// SetMeasurement configures the measurement engine. The counter reset,
// when requested, goes last so it clears any counts accumulated while
// the other settings changed.
func (g *Generator) SetMeasurement(ctx context.Context, mc MeasurementConfig) error {
	if mc.Pause != nil {
		if _, err := g.send(ctx, protocol.BuildMeasurementPauseCmd(*mc.Pause)); err != nil {
			return err
		}
	}

	if mc.GateTime != nil {
		cmd, err := protocol.BuildGateTimeCmd(*mc.GateTime)
		if err != nil {
			return err
		}
		if _, err := g.send(ctx, cmd); err != nil {
			return err
		}
	}

	if mc.Coupling != nil {
		cmd, err := protocol.BuildCouplingCmd(int(*mc.Coupling))
		if err != nil {
			return err
		}
		if _, err := g.send(ctx, cmd); err != nil {
			return err
		}
	}

	if mc.ResetCounter {
		if _, err := g.send(ctx, protocol.BuildCounterResetCmd()); err != nil {
			return err
		}
	}

	return nil
}

// GetMeasurement reads every measurement value in one pass.
//
// The first reading after a configuration change reflects a partially
// elapsed gate; discard it when accuracy matters.
func (g *Generator) GetMeasurement(ctx context.Context) (Measurement, error) {
	var m Measurement

	freq, err := g.MeasureFrequency(ctx)
	if err != nil {
		return m, err
	}
	m.FrequencyHz = freq

	reads := []struct {
		op   string
		dest *float64
	}{
		{protocol.ReadPeriodOp, &m.PeriodSeconds},
		{protocol.ReadPositiveWidthOp, &m.PositiveWidthSeconds},
		{protocol.ReadNegativeWidthOp, &m.NegativeWidthSeconds},
	}
	for _, r := range reads {
		resp, err := g.send(ctx, protocol.ReadOp(r.op))
		if err != nil {
			return m, err
		}
		*r.dest, err = protocol.ParseNanoseconds(r.op, resp)
		if err != nil {
			return m, err
		}
	}

	resp, err := g.send(ctx, protocol.ReadOp(protocol.ReadDutyOp))
	if err != nil {
		return m, err
	}
	m.DutyCycle, err = protocol.ParseMeasuredDuty(resp)
	if err != nil {
		return m, err
	}

	return m, nil
}

// MeasureFrequency reads the measured input frequency in Hz. The gate
// time is read first so the raw count can be scaled correctly.
//
// Reading the frequency resets the pulse counter on this hardware; do
// not interleave MeasureFrequency with Counter reads.
func (g *Generator) MeasureFrequency(ctx context.Context) (float64, error) {
	resp, err := g.send(ctx, protocol.ReadOp(protocol.ReadGateTimeOp))
	if err != nil {
		return 0, err
	}
	gate, err := protocol.ParseGateTime(resp)
	if err != nil {
		return 0, err
	}

	resp, err = g.send(ctx, protocol.ReadOp(protocol.ReadFrequencyOp))
	if err != nil {
		return 0, err
	}
	return protocol.ParseMeasuredFrequency(resp, gate)
}

// Counter reads the pulse counter.
func (g *Generator) Counter(ctx context.Context) (uint64, error) {
	resp, err := g.send(ctx, protocol.ReadOp(protocol.ReadCounterOp))
	if err != nil {
		return 0, err
	}
	return protocol.ParseCounter(resp)
}

// ResetCounter zeroes the pulse counter.
func (g *Generator) ResetCounter(ctx context.Context) error {
	_, err := g.send(ctx, protocol.BuildCounterResetCmd())
	return err
}
