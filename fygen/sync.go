package fygen

import (
	"context"

	"github.com/mattwach/fygen/protocol"
)

// Parameter synchronization modes. When a parameter is synchronized,
// channel 1 follows channel 0.
const (
	syncWave = iota
	syncFreq
	syncVolts
	syncOffset
	syncDuty
)

// SyncConfig selects which parameters channel 1 mirrors from channel 0.
// Nil fields are left untouched on the instrument.
type SyncConfig struct {
	Wave        *bool
	Freq        *bool
	Volts       *bool
	OffsetVolts *bool
	DutyCycle   *bool
}

// SyncState is the decoded synchronization state, one flag per
// parameter.
type SyncState struct {
	Wave        bool
	Freq        bool
	Volts       bool
	OffsetVolts bool
	DutyCycle   bool
}

func (sc SyncConfig) modes() [protocol.SyncModeCount]*bool {
	return [protocol.SyncModeCount]*bool{
		syncWave:   sc.Wave,
		syncFreq:   sc.Freq,
		syncVolts:  sc.Volts,
		syncOffset: sc.OffsetVolts,
		syncDuty:   sc.DutyCycle,
	}
}

// SetSync enables or disables parameter synchronization between the
// channels. Disables are sent before enables so a transition never
// passes through a state with more parameters linked than either the
// old or the new configuration.
func (g *Generator) SetSync(ctx context.Context, sc SyncConfig) error {
	modes := sc.modes()

	for _, enable := range []bool{false, true} {
		for mode, want := range modes {
			if want == nil || *want != enable {
				continue
			}
			cmd, err := protocol.BuildSyncCmd(mode, enable)
			if err != nil {
				return err
			}
			if _, err := g.send(ctx, cmd); err != nil {
				return err
			}
		}
	}

	return nil
}

// GetSync reads the synchronization state of every parameter.
func (g *Generator) GetSync(ctx context.Context) (SyncState, error) {
	var st SyncState
	flags := [protocol.SyncModeCount]*bool{
		syncWave:   &st.Wave,
		syncFreq:   &st.Freq,
		syncVolts:  &st.Volts,
		syncOffset: &st.OffsetVolts,
		syncDuty:   &st.DutyCycle,
	}

	for mode, dest := range flags {
		cmd, err := protocol.ReadSyncCmd(mode)
		if err != nil {
			return st, err
		}
		resp, err := g.send(ctx, cmd)
		if err != nil {
			return st, err
		}
		*dest, err = protocol.ParseBoolResponse(protocol.ReadSyncOp, resp)
		if err != nil {
			return st, err
		}
	}

	return st, nil
}
