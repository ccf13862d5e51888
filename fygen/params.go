package fygen

import (
	"math"
	"strconv"

	"github.com/mattwach/fygen/protocol"
	"github.com/mattwach/fygen/wavedef"
)

// Channel aliases, for callers who prefer the front panel numbering.
const (
	CH1 = 0
	CH2 = 1
)

// Params is a desired parameter set for one or more channels. Nil fields
// are absent: they are neither written nor confirmed. Absence is
// meaningful: on the first Set per channel, absent fields are filled
// from the default table (see WithInitState).
//
// Frequency may be given in Hz (float) or uHz (integer, for intents that
// must not pass through floating point); never both. Likewise the wave
// may be named (looked up in wavedef for the configured device) or given
// as a raw id.
type Params struct {
	Enable       *bool
	Wave         *string
	WaveID       *int
	FreqHz       *float64
	FreqUHz      *uint64
	Volts        *float64
	OffsetVolts  *float64
	PhaseDegrees *float64
	DutyCycle    *float64
}

// Bool returns a pointer to v, for filling Params fields inline.
func Bool(v bool) *bool { return &v }

// Int returns a pointer to v, for filling Params fields inline.
func Int(v int) *int { return &v }

// Float returns a pointer to v, for filling Params fields inline.
func Float(v float64) *float64 { return &v }

// Uint64 returns a pointer to v, for filling Params fields inline.
func Uint64(v uint64) *uint64 { return &v }

// String returns a pointer to v, for filling Params fields inline.
func String(v string) *string { return &v }

// defaultParams is the initial state injected on the first Set per
// channel: a disabled 10 kHz, 5 V sine.
func defaultParams() Params {
	return Params{
		Enable:       Bool(false),
		Wave:         String("sin"),
		FreqHz:       Float(10000),
		Volts:        Float(5),
		OffsetVolts:  Float(0),
		PhaseDegrees: Float(0),
		DutyCycle:    Float(0.5),
	}
}

// withDefaults fills every absent field of p from the default table.
// A frequency or wave intent in either form counts as present.
func withDefaults(p Params) Params {
	d := defaultParams()
	if p.Enable == nil {
		p.Enable = d.Enable
	}
	if p.Wave == nil && p.WaveID == nil {
		p.Wave = d.Wave
	}
	if p.FreqHz == nil && p.FreqUHz == nil {
		p.FreqHz = d.FreqHz
	}
	if p.Volts == nil {
		p.Volts = d.Volts
	}
	if p.OffsetVolts == nil {
		p.OffsetVolts = d.OffsetVolts
	}
	if p.PhaseDegrees == nil {
		p.PhaseDegrees = d.PhaseDegrees
	}
	if p.DutyCycle == nil {
		p.DutyCycle = d.DutyCycle
	}
	return p
}

// paramValue is one (parameter, device-unit value) pair queued for
// reconciliation.
type paramValue struct {
	param protocol.Param
	raw   int64
}

// resolve converts a Params into ordered device-unit pairs for one
// channel, validating domains that depend on generator configuration
// (voltage limits, wave table). Enable is ordered first when disabling
// and last when enabling, so connected equipment never sees a transient
// configuration while the output is live.
func (g *Generator) resolve(channel int, p Params) ([]paramValue, error) {
	var pairs []paramValue

	if p.Wave != nil && p.WaveID != nil {
		return nil, &protocol.EncodingError{
			Op: "wave", Reason: "provide Wave or WaveID, not both",
		}
	}
	if p.Wave != nil {
		id, err := wavedef.GetID(g.cfg.DeviceName, *p.Wave, channel)
		if err != nil {
			return nil, &protocol.EncodingError{
				Op: "wave", Value: *p.Wave, Reason: err.Error(),
			}
		}
		pairs = append(pairs, paramValue{protocol.ParamWave, int64(id)})
	} else if p.WaveID != nil {
		pairs = append(pairs, paramValue{protocol.ParamWave, int64(*p.WaveID)})
	}

	if p.FreqHz != nil && p.FreqUHz != nil {
		return nil, &protocol.EncodingError{
			Op: "freq", Reason: "provide FreqHz or FreqUHz, not both",
		}
	}
	if p.FreqHz != nil {
		pairs = append(pairs, paramValue{protocol.ParamFreqUHz, int64(math.Round(*p.FreqHz * 1e6))})
	} else if p.FreqUHz != nil {
		pairs = append(pairs, paramValue{protocol.ParamFreqUHz, int64(*p.FreqUHz)})
	}

	if p.Volts != nil {
		if *p.Volts > g.cfg.MaxVolts {
			return nil, &protocol.EncodingError{
				Op:     "volts",
				Value:  formatFloat(*p.Volts),
				Reason: "amplitude above configured limit of " + formatFloat(g.cfg.MaxVolts) + " V",
			}
		}
		pairs = append(pairs, paramValue{protocol.ParamVolts, int64(math.Round(*p.Volts * 100))})
	}

	if p.OffsetVolts != nil {
		if *p.OffsetVolts > g.cfg.MaxVolts || *p.OffsetVolts < g.cfg.MinVolts {
			return nil, &protocol.EncodingError{
				Op:     "offset_volts",
				Value:  formatFloat(*p.OffsetVolts),
				Reason: "offset outside configured limits",
			}
		}
		pairs = append(pairs, paramValue{protocol.ParamOffsetVolts, int64(math.Round(*p.OffsetVolts * 100))})
	}

	if p.PhaseDegrees != nil {
		pairs = append(pairs, paramValue{protocol.ParamPhaseDegrees, int64(math.Round(*p.PhaseDegrees * 1000))})
	}

	if p.DutyCycle != nil {
		pairs = append(pairs, paramValue{protocol.ParamDutyCycle, int64(math.Round(*p.DutyCycle * 1000))})
	}

	if p.Enable != nil {
		if *p.Enable {
			pairs = append(pairs, paramValue{protocol.ParamEnable, 1})
		} else {
			pairs = append([]paramValue{{protocol.ParamEnable, 0}}, pairs...)
		}
	}

	return pairs, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
