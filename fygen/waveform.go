package fygen

import (
	"context"
	"fmt"

	"github.com/mattwach/fygen/protocol"
	"github.com/mattwach/fygen/wavedef"
)

// Waveform describes one arbitrary waveform upload. Exactly one of
// Values or Raw must be set. Values are floating-point samples mapped
// linearly from [MinValue, MaxValue] onto the DAC range; Raw are 14-bit
// samples passed through unchanged. With MinValue and MaxValue both
// zero, the range defaults to [-1, 1].
type Waveform struct {
	// Slot is the arbitrary waveform slot to write, starting at 1
	Slot int

	Values []float64
	Raw    []int

	MinValue float64
	MaxValue float64
}

// SetWaveform uploads a waveform into an arbitrary slot.
//
// The upload is refused with *WaveformInUseError when the target slot is
// the selected waveform on either channel: rewriting an active slot
// corrupts the stored data on known firmware. Deselect the slot first
// (Set with a different wave), upload, then reselect.
//
// The sample count must match the configured value count (see
// WithValueCount); the instrument silently mangles short or long
// uploads.
func (g *Generator) SetWaveform(ctx context.Context, w Waveform) error {
	if (w.Values == nil) == (w.Raw == nil) {
		return &protocol.ValidationError{
			Reason: "provide Values or Raw, not both and not neither",
		}
	}

	raw := w.Raw
	if w.Values != nil {
		minValue, maxValue := w.MinValue, w.MaxValue
		if minValue == 0 && maxValue == 0 {
			minValue, maxValue = -1.0, 1.0
		}
		var err error
		raw, err = protocol.ConvertSamples(w.Values, minValue, maxValue)
		if err != nil {
			return err
		}
	}

	if len(raw) != g.cfg.ValueCount {
		return &protocol.ValidationError{
			Reason: fmt.Sprintf("waveform has %d samples, device slot holds %d",
				len(raw), g.cfg.ValueCount),
		}
	}

	if err := g.checkSlotInactive(ctx, w.Slot); err != nil {
		return err
	}

	data, err := protocol.EncodeWaveformData(raw)
	if err != nil {
		return err
	}

	cmd, err := protocol.BuildWaveformLoadCmd(w.Slot)
	if err != nil {
		return err
	}

	resp, err := g.send(ctx, cmd)
	if err != nil {
		return err
	}
	if !g.passive && resp != protocol.WaveformLoadAck {
		return &NotAcknowledgedError{Command: cmd.Text, Response: resp}
	}

	g.logInfo("uploading waveform", "slot", w.Slot, "samples", len(raw))

	for _, chunk := range protocol.ChunkWaveformData(data, protocol.DefaultUploadChunkSize) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := g.port.Write(chunk); err != nil {
			return fmt.Errorf("waveform upload: %w", err)
		}
	}

	resp, err = g.recv("waveform upload")
	if err != nil {
		return err
	}
	if !g.passive && resp != protocol.WaveformDataAck {
		return &NotAcknowledgedError{Command: cmd.Text, Response: resp}
	}

	g.logInfo("waveform uploaded", "slot", w.Slot)
	return nil
}

// checkSlotInactive reads the selected wave on both channels and refuses
// the upload when either has the target arb slot live. Skipped on a
// passive port, which cannot be read.
func (g *Generator) checkSlotInactive(ctx context.Context, slot int) error {
	if g.passive {
		return nil
	}

	name := fmt.Sprintf("arb%d", slot)
	for ch := 0; ch < protocol.ChannelCount; ch++ {
		id, err := wavedef.GetID(g.cfg.DeviceName, name, ch)
		if err != nil {
			return &protocol.ValidationError{Reason: err.Error()}
		}

		current, err := g.readParam(ctx, ch, protocol.ParamWave)
		if err != nil {
			return err
		}
		g.channels[ch].put(protocol.ParamWave, current)

		if current == int64(id) {
			return &WaveformInUseError{Slot: slot, Channel: ch}
		}
	}
	return nil
}
