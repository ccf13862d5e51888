// Package protocol implements the FY-series ASCII command codec.
//
// FY23xx/FY68xx function generators speak a line-oriented ASCII protocol:
// every command is a short token string terminated by a newline, and every
// response is a single ASCII line. This package is the pure encode/decode
// layer: it maps (parameter, channel, value) triples to wire command
// strings and parses response lines back into typed values. It performs no
// I/O and holds no state.
//
// # Command Grammar
//
// Channel parameter writes use a per-channel prefix followed by a
// parameter opcode and a scaled decimal payload:
//
//	WMW01       select wave id 1 (square) on channel 0
//	WFF00010000000000   set channel 1 frequency to 10 kHz (payload is uHz)
//	WMA3.00     set channel 0 amplitude to 3.00 V
//
// Reads swap the write prefix (WM/WF) for the read prefix (RM/RF) and
// carry no payload:
//
//	RMW         read the wave id currently selected on channel 0
//
// # Device Units
//
// All values cross this package as int64 "device units": the smallest
// increment the instrument can represent for that parameter (uHz for
// frequency, centivolts for amplitude and offset, per-mille for duty
// cycle, millidegrees for phase). Comparing desired against observed
// state is therefore exact integer equality, never float comparison.
//
// # Usage
//
//	cmd, err := protocol.Encode(protocol.ParamVolts, 0, 300) // 3.00 V
//	// cmd.Text == "WMA3.00"
//
//	raw, err := protocol.Decode(protocol.ParamVolts, "30000")
//	// raw == 300
//
// Encode returns *EncodingError for values outside a parameter's legal
// domain; Decode returns *DecodingError when a response does not match the
// expected grammar.
package protocol
