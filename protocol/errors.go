package protocol

import "fmt"

// EncodingError indicates a value outside a parameter's legal domain, or
// an otherwise unencodable intent. The reconciliation engine treats it as
// non-retriable and aborts the current call.
type EncodingError struct {
	// Op is the parameter or operation being encoded, e.g. "duty_cycle"
	// or "sweep_time"
	Op string

	// Value is the offending value, already formatted for display
	Value string

	// Reason describes the domain violation
	Reason string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("cannot encode %s=%s: %s", e.Op, e.Value, e.Reason)
}

// DecodingError indicates a device response that does not match the
// expected grammar for the parameter being read.
type DecodingError struct {
	// Op is the parameter or operation being decoded
	Op string

	// Response is the raw response line as received
	Response string

	// Reason describes the grammar mismatch
	Reason string
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("cannot decode %s response %q: %s", e.Op, e.Response, e.Reason)
}

// ValidationError indicates a waveform buffer that cannot be uploaded:
// wrong sample count or samples outside the raw range.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid waveform: " + e.Reason
}
