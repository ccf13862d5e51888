package fygen

import (
	"context"

	"github.com/mattwach/fygen/protocol"
)

// UplinkConfig describes a master/slave link setup between two
// instruments. Nil fields are left untouched.
type UplinkConfig struct {
	// Master makes this instrument drive the link (true) or follow it
	// (false)
	Master *bool

	// Enable turns the link on or off
	Enable *bool
}

// UplinkState is the decoded link state.
type UplinkState struct {
	Master  bool
	Enabled bool
}

// SetUplink configures instrument linking. The link is dropped before a
// master/slave role change and re-enabled only afterwards, so the role
// never flips while the link is live.
func (g *Generator) SetUplink(ctx context.Context, uc UplinkConfig) error {
	enabling := uc.Enable != nil && *uc.Enable

	if uc.Master != nil || (uc.Enable != nil && !*uc.Enable) {
		if _, err := g.send(ctx, protocol.BuildUplinkEnableCmd(false)); err != nil {
			return err
		}
	}

	if uc.Master != nil {
		if _, err := g.send(ctx, protocol.BuildUplinkMasterCmd(*uc.Master)); err != nil {
			return err
		}
	}

	if enabling {
		if _, err := g.send(ctx, protocol.BuildUplinkEnableCmd(true)); err != nil {
			return err
		}
	}

	return nil
}

// GetUplink reads the link state.
func (g *Generator) GetUplink(ctx context.Context) (UplinkState, error) {
	var st UplinkState

	resp, err := g.send(ctx, protocol.ReadOp(protocol.ReadUplinkOp))
	if err != nil {
		return st, err
	}
	st.Enabled, err = protocol.ParseBoolResponse(protocol.ReadUplinkOp, resp)
	if err != nil {
		return st, err
	}

	resp, err = g.send(ctx, protocol.ReadOp(protocol.ReadMasterOp))
	if err != nil {
		return st, err
	}
	slave, err := protocol.ParseBoolResponse(protocol.ReadMasterOp, resp)
	if err != nil {
		return st, err
	}
	// Inverted on the wire: 0 is master.
	st.Master = !slave

	return st, nil
}
