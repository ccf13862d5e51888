package fygen

import (
	"fmt"

	"github.com/mattwach/fygen/protocol"
)

// WriteNotConfirmedError indicates the instrument did not adopt a written
// value after the bounded retry budget was exhausted. Values are in
// device units; the message renders them in display units.
type WriteNotConfirmedError struct {
	Channel  int
	Param    protocol.Param
	Desired  int64
	Observed int64
}

func (e *WriteNotConfirmedError) Error() string {
	return fmt.Sprintf("write not confirmed on channel %d: %s set to %s, instrument reports %s",
		e.Channel, e.Param,
		protocol.DisplayValue(e.Param, e.Desired),
		protocol.DisplayValue(e.Param, e.Observed))
}

// WaveformInUseError indicates an attempt to rewrite an arbitrary
// waveform slot that is selected on a channel. Rewriting an active slot
// corrupts the stored waveform on known firmware, so the upload is
// refused before any command is sent.
type WaveformInUseError struct {
	Slot    int
	Channel int
}

func (e *WaveformInUseError) Error() string {
	return fmt.Sprintf("cannot update arb%d because it is active on channel %d",
		e.Slot, e.Channel)
}

// NotAcknowledgedError indicates the instrument answered a command with
// something other than the expected acknowledgement token.
type NotAcknowledgedError struct {
	Command  string
	Response string
}

func (e *NotAcknowledgedError) Error() string {
	return fmt.Sprintf("%s was not acknowledged (got %q)", e.Command, e.Response)
}

// FirmwareBugError indicates an operation that is known not to work on
// the tested firmware. The engine refuses to pretend it succeeded; see
// WithForceSweepEnable for the override.
type FirmwareBugError struct {
	Op     string
	Reason string
}

func (e *FirmwareBugError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}
