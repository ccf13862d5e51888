package fygen

import (
	"context"

	"github.com/mattwach/fygen/protocol"
	"github.com/mattwach/fygen/wavedef"
)

// ChannelSettings is a decoded snapshot of one channel, as read from the
// instrument.
type ChannelSettings struct {
	Enable       bool
	Wave         string
	WaveID       int
	FreqUHz      uint64
	FreqHz       float64
	Volts        float64
	OffsetVolts  float64
	PhaseDegrees float64
	DutyCycle    float64
}

// Params converts the snapshot back into a Params, suitable for
// replaying onto another channel or another instrument. Frequency is
// carried in uHz so the round trip is exact.
func (s ChannelSettings) Params() Params {
	p := Params{
		Enable:       Bool(s.Enable),
		FreqUHz:      Uint64(s.FreqUHz),
		Volts:        Float(s.Volts),
		OffsetVolts:  Float(s.OffsetVolts),
		PhaseDegrees: Float(s.PhaseDegrees),
		DutyCycle:    Float(s.DutyCycle),
	}
	if s.Wave != "" {
		p.Wave = String(s.Wave)
	} else {
		p.WaveID = Int(s.WaveID)
	}
	return p
}

// GetChannel reads every channel parameter from the instrument and
// returns the decoded snapshot. Each read also refreshes the engine's
// last-known value cache.
func (g *Generator) GetChannel(ctx context.Context, channel int) (ChannelSettings, error) {
	var s ChannelSettings

	for _, param := range protocol.ChannelParams {
		if err := ctx.Err(); err != nil {
			return s, err
		}

		raw, err := g.readParam(ctx, channel, param)
		if err != nil {
			return s, err
		}
		g.channels[channel].put(param, raw)

		switch param {
		case protocol.ParamEnable:
			s.Enable = raw != 0
		case protocol.ParamWave:
			s.WaveID = int(raw)
			// An id without a name is still useful; arbitrary slots on
			// some devices have no registered name.
			if name, err := wavedef.GetName(g.cfg.DeviceName, int(raw), channel); err == nil {
				s.Wave = name
			}
		case protocol.ParamFreqUHz:
			s.FreqUHz = uint64(raw)
			s.FreqHz = float64(raw) / 1e6
		case protocol.ParamVolts:
			s.Volts = float64(raw) / 100.0
		case protocol.ParamOffsetVolts:
			s.OffsetVolts = float64(raw) / 100.0
		case protocol.ParamPhaseDegrees:
			s.PhaseDegrees = float64(raw) / 1000.0
		case protocol.ParamDutyCycle:
			s.DutyCycle = float64(raw) / 1000.0
		}
	}

	return s, nil
}

// GetEnable reads whether the channel output is on.
func (g *Generator) GetEnable(ctx context.Context, channel int) (bool, error) {
	raw, err := g.getParam(ctx, channel, protocol.ParamEnable)
	return raw != 0, err
}

// GetWaveID reads the channel's waveform id.
func (g *Generator) GetWaveID(ctx context.Context, channel int) (int, error) {
	raw, err := g.getParam(ctx, channel, protocol.ParamWave)
	return int(raw), err
}

// GetWave reads the channel's waveform and resolves its name for the
// configured device.
func (g *Generator) GetWave(ctx context.Context, channel int) (string, error) {
	raw, err := g.getParam(ctx, channel, protocol.ParamWave)
	if err != nil {
		return "", err
	}
	return wavedef.GetName(g.cfg.DeviceName, int(raw), channel)
}

// GetFreqUHz reads the channel frequency in uHz.
func (g *Generator) GetFreqUHz(ctx context.Context, channel int) (uint64, error) {
	raw, err := g.getParam(ctx, channel, protocol.ParamFreqUHz)
	return uint64(raw), err
}

// GetFreqHz reads the channel frequency in Hz.
func (g *Generator) GetFreqHz(ctx context.Context, channel int) (float64, error) {
	raw, err := g.getParam(ctx, channel, protocol.ParamFreqUHz)
	return float64(raw) / 1e6, err
}

// GetVolts reads the channel amplitude in volts.
func (g *Generator) GetVolts(ctx context.Context, channel int) (float64, error) {
	raw, err := g.getParam(ctx, channel, protocol.ParamVolts)
	return float64(raw) / 100.0, err
}

// GetOffsetVolts reads the channel DC offset in volts.
func (g *Generator) GetOffsetVolts(ctx context.Context, channel int) (float64, error) {
	raw, err := g.getParam(ctx, channel, protocol.ParamOffsetVolts)
	return float64(raw) / 100.0, err
}

// GetPhaseDegrees reads the channel phase in degrees.
func (g *Generator) GetPhaseDegrees(ctx context.Context, channel int) (float64, error) {
	raw, err := g.getParam(ctx, channel, protocol.ParamPhaseDegrees)
	return float64(raw) / 1000.0, err
}

// GetDutyCycle reads the channel duty cycle as a fraction.
func (g *Generator) GetDutyCycle(ctx context.Context, channel int) (float64, error) {
	raw, err := g.getParam(ctx, channel, protocol.ParamDutyCycle)
	return float64(raw) / 1000.0, err
}

func (g *Generator) getParam(ctx context.Context, channel int, param protocol.Param) (int64, error) {
	if channel < 0 || channel >= protocol.ChannelCount {
		return 0, &protocol.EncodingError{
			Op: string(param), Reason: "invalid channel, only 0 or 1 is supported",
		}
	}

	raw, err := g.readParam(ctx, channel, param)
	if err != nil {
		return 0, err
	}
	g.channels[channel].put(param, raw)
	return raw, nil
}
