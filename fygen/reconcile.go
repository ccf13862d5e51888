package fygen

import (
	"context"
	"strconv"

	"github.com/mattwach/fygen/protocol"
)

// writeAttempts bounds the reconciliation write loop: the initial write
// plus one retry.
const writeAttempts = 2

// writeState tracks one (channel, parameter) pair through
// reconciliation.
type writeState int

const (
	stateUnwritten writeState = iota
	stateWritten
	stateConfirmed
	stateFailed
)

func (s writeState) String() string {
	switch s {
	case stateUnwritten:
		return "unwritten"
	case stateWritten:
		return "written"
	case stateConfirmed:
		return "confirmed"
	case stateFailed:
		return "failed"
	}
	return "unknown"
}

// Set reconciles the desired parameters onto the given channels (the
// configured default channels when none are given).
//
// With read-before-write enabled, each parameter is read first and the
// write skipped when the instrument already holds the desired value;
// written parameters are confirmed by a second read and retried once.
// A write the instrument refuses to adopt fails with
// *WriteNotConfirmedError. Processing is fail-fast: parameters already
// applied when an error occurs stay applied.
//
// The first Set for a channel fills omitted parameters from the default
// table (see WithInitState) so the channel lands in a fully known state.
func (g *Generator) Set(ctx context.Context, p Params, channels ...int) error {
	if len(channels) == 0 {
		channels = g.cfg.DefaultChannels
	}

	for _, ch := range channels {
		if ch < 0 || ch >= protocol.ChannelCount {
			return &protocol.EncodingError{
				Op:     "channel",
				Value:  strconv.Itoa(ch),
				Reason: "invalid channel, only 0 or 1 is supported",
			}
		}

		desired := p
		if !g.channels[ch].initialized {
			if g.cfg.InitState {
				desired = withDefaults(p)
			}
			g.channels[ch].initialized = true
		}

		pairs, err := g.resolve(ch, desired)
		if err != nil {
			return err
		}

		for _, pv := range pairs {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := g.applyParam(ctx, ch, pv.param, pv.raw); err != nil {
				return err
			}
		}
	}

	return nil
}

// applyParam reconciles a single (channel, parameter) pair.
func (g *Generator) applyParam(ctx context.Context, channel int, param protocol.Param, desired int64) error {
	if g.cfg.ReadBeforeWrite {
		observed, err := g.readParam(ctx, channel, param)
		if err != nil {
			return err
		}
		g.channels[channel].put(param, observed)

		if observed == desired {
			g.logDebug("skipping write, value already set",
				"channel", channel,
				"param", param,
				"value", protocol.DisplayValue(param, desired))
			return nil
		}
	}

	cmd, err := protocol.Encode(param, channel, desired)
	if err != nil {
		return err
	}

	st := stateUnwritten
	var observed int64

	for attempt := 0; attempt < writeAttempts && st != stateConfirmed; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if _, err := g.send(ctx, cmd); err != nil {
			return err
		}
		st = stateWritten
		// Optimistic: corrected below if the confirming read disagrees.
		g.channels[channel].put(param, desired)

		if !g.cfg.ReadBeforeWrite {
			// No confirmation path in this mode; device-side write
			// failures go undetected.
			return nil
		}

		observed, err = g.readParam(ctx, channel, param)
		if err != nil {
			return err
		}
		g.channels[channel].put(param, observed)

		if observed == desired {
			st = stateConfirmed
		} else {
			g.logDebug("write not confirmed",
				"channel", channel,
				"param", param,
				"attempt", attempt+1,
				"desired", protocol.DisplayValue(param, desired),
				"observed", protocol.DisplayValue(param, observed))
		}
	}

	if st != stateConfirmed {
		st = stateFailed
		g.logError("write failed",
			"channel", channel,
			"param", param,
			"state", st.String(),
			"desired", protocol.DisplayValue(param, desired),
			"observed", protocol.DisplayValue(param, observed))
		return &WriteNotConfirmedError{
			Channel:  channel,
			Param:    param,
			Desired:  desired,
			Observed: observed,
		}
	}

	return nil
}

// readParam reads and decodes one parameter from the instrument.
func (g *Generator) readParam(ctx context.Context, channel int, param protocol.Param) (int64, error) {
	cmd, err := protocol.ReadCommand(param, channel)
	if err != nil {
		return 0, err
	}

	resp, err := g.send(ctx, cmd)
	if err != nil {
		return 0, err
	}

	return protocol.Decode(param, resp)
}
