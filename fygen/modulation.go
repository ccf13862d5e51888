package fygen

import (
	"context"
	"math"

	"github.com/mattwach/fygen/protocol"
)

// ModulationMode selects how channel 1 modulates channel 0.
type ModulationMode int

const (
	ModFSK ModulationMode = iota
	ModASK
	ModPSK
	ModBurst
	ModAM
	ModFM
	ModPM
)

// Trigger selects what triggers burst and keyed modulation modes.
type Trigger int

const (
	TriggerChannel2 Trigger = iota
	TriggerExternal
	TriggerManual
	TriggerExternalDC
)

// ModulationConfig describes a modulation setup. Nil fields are left
// untouched on the instrument.
//
// Hop and FM bias frequencies may each be given in Hz or uHz, never
// both forms at once.
type ModulationConfig struct {
	Mode *ModulationMode

	// HopFreq is the FSK hop frequency
	HopFreqHz  *float64
	HopFreqUHz *uint64

	// FMBiasFreq is the peak frequency deviation in FM mode
	FMBiasFreqHz  *float64
	FMBiasFreqUHz *uint64

	// BurstCount is the number of cycles generated per trigger
	BurstCount *int

	Trigger *Trigger

	// AMAttenuation is the AM modulation depth as a ratio, 0 to 2
	AMAttenuation *float64

	// PMBiasDegrees is the PM phase deviation, folded into [0, 360)
	PMBiasDegrees *float64
}

// ModulationModePtr returns a pointer to m, for filling
// ModulationConfig inline.
func ModulationModePtr(m ModulationMode) *ModulationMode { return &m }

// TriggerPtr returns a pointer to t, for filling ModulationConfig
// inline.
func TriggerPtr(t Trigger) *Trigger { return &t }

// SetModulation configures the modulation engine. Frequencies are sent
// before the mode change so the instrument never runs the new mode with
// stale frequencies.
func (g *Generator) SetModulation(ctx context.Context, mc ModulationConfig) error {
	hop, err := freqUHz("hop_freq", mc.HopFreqHz, mc.HopFreqUHz)
	if err != nil {
		return err
	}
	if hop != nil {
		cmd, err := protocol.BuildHopFreqCmd(*hop)
		if err != nil {
			return err
		}
		if _, err := g.send(ctx, cmd); err != nil {
			return err
		}
	}

	fmBias, err := freqUHz("fm_bias_freq", mc.FMBiasFreqHz, mc.FMBiasFreqUHz)
	if err != nil {
		return err
	}
	if fmBias != nil {
		cmd, err := protocol.BuildFMBiasFreqCmd(*fmBias)
		if err != nil {
			return err
		}
		if _, err := g.send(ctx, cmd); err != nil {
			return err
		}
	}

	if mc.Mode != nil {
		cmd, err := protocol.BuildModulationModeCmd(int(*mc.Mode))
		if err != nil {
			return err
		}
		if _, err := g.send(ctx, cmd); err != nil {
			return err
		}
	}

	if mc.BurstCount != nil {
		cmd, err := protocol.BuildBurstCountCmd(*mc.BurstCount)
		if err != nil {
			return err
		}
		if _, err := g.send(ctx, cmd); err != nil {
			return err
		}
	}

	if mc.Trigger != nil {
		cmd, err := protocol.BuildTriggerCmd(int(*mc.Trigger))
		if err != nil {
			return err
		}
		if _, err := g.send(ctx, cmd); err != nil {
			return err
		}
	}

	if mc.AMAttenuation != nil {
		cmd, err := protocol.BuildAMAttenuationCmd(*mc.AMAttenuation)
		if err != nil {
			return err
		}
		if _, err := g.send(ctx, cmd); err != nil {
			return err
		}
	}

	if mc.PMBiasDegrees != nil {
		if _, err := g.send(ctx, protocol.BuildPMBiasCmd(*mc.PMBiasDegrees)); err != nil {
			return err
		}
	}

	return nil
}

// freqUHz reduces an Hz/uHz pair to uHz, rejecting both forms at once.
func freqUHz(op string, hz *float64, uhz *uint64) (*int64, error) {
	if hz != nil && uhz != nil {
		return nil, &protocol.EncodingError{
			Op: op, Reason: "provide the Hz or uHz form, not both",
		}
	}
	if hz != nil {
		v := int64(math.Round(*hz * 1e6))
		return &v, nil
	}
	if uhz != nil {
		v := int64(*uhz)
		return &v, nil
	}
	return nil, nil
}
