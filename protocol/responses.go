package protocol

import (
	"math"
	"strconv"
	"strings"
)

// Decoder helpers for channel parameter reads. The instrument reports most
// parameters as plain integers in finer units than the write resolution;
// decoders round to write resolution so that a confirmed read compares
// equal to the value that was written.

func decodeBool(param Param) func(string) (int64, error) {
	return func(resp string) (int64, error) {
		n, err := strconv.ParseInt(strings.TrimSpace(resp), 10, 64)
		if err != nil {
			return 0, &DecodingError{Op: string(param), Response: resp, Reason: "expected an integer"}
		}
		if n != 0 {
			return 1, nil
		}
		return 0, nil
	}
}

func decodeInt(param Param) func(string) (int64, error) {
	return func(resp string) (int64, error) {
		n, err := strconv.ParseInt(strings.TrimSpace(resp), 10, 64)
		if err != nil {
			return 0, &DecodingError{Op: string(param), Response: resp, Reason: "expected an integer"}
		}
		if n < 0 {
			return 0, &DecodingError{Op: string(param), Response: resp, Reason: "expected a non-negative integer"}
		}
		return n, nil
	}
}

// decodeScaledFloat parses a decimal response and rounds raw/divisor to
// the parameter's device units.
func decodeScaledFloat(param Param, divisor float64) func(string) (int64, error) {
	return func(resp string) (int64, error) {
		f, err := strconv.ParseFloat(strings.TrimSpace(resp), 64)
		if err != nil {
			return 0, &DecodingError{Op: string(param), Response: resp, Reason: "expected a number"}
		}
		return int64(math.Round(f / divisor)), nil
	}
}

// decodeFreqUHz parses the frequency read response, which is formatted as
// hertz with a six-digit fractional part ("10000.000000"). Parsed
// textually; a float round-trip would lose uHz precision on large values.
func decodeFreqUHz(resp string) (int64, error) {
	s := strings.TrimSpace(resp)
	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}

	badResp := func(reason string) (int64, error) {
		return 0, &DecodingError{Op: string(ParamFreqUHz), Response: resp, Reason: reason}
	}

	if intPart == "" {
		return badResp("missing integer part")
	}
	hz, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil || hz < 0 {
		return badResp("expected a non-negative number")
	}

	// Normalize the fractional part to exactly six digits (uHz).
	if len(fracPart) > 6 {
		fracPart = fracPart[:6]
	}
	for len(fracPart) < 6 {
		fracPart += "0"
	}
	frac, err := strconv.ParseInt(fracPart, 10, 64)
	if err != nil {
		return badResp("malformed fractional part")
	}

	return hz*1000000 + frac, nil
}

// decodeOffsetVolts parses the offset read response, working around a
// firmware bug: negative offsets are reported as unsigned 32-bit values.
// The response is in millivolts; device units are centivolts.
func decodeOffsetVolts(resp string) (int64, error) {
	u, err := strconv.ParseUint(strings.TrimSpace(resp), 10, 64)
	if err != nil {
		return 0, &DecodingError{Op: string(ParamOffsetVolts), Response: resp, Reason: "expected an unsigned integer"}
	}

	mv := int64(u)
	if u > 0x80000000 {
		mv = -int64(0x100000000 - u)
	}

	return divRound(mv, 10), nil
}

// ParseBoolResponse parses a 0/1 style response (sync state, buzzer,
// uplink enable).
func ParseBoolResponse(op, resp string) (bool, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(resp), 10, 64)
	if err != nil {
		return false, &DecodingError{Op: op, Response: resp, Reason: "expected an integer"}
	}
	return n != 0, nil
}

// ParseGateTime parses the measurement gate time response (0, 1 or 2 for
// 1 s, 10 s and 100 s gates).
func ParseGateTime(resp string) (int, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(resp), 10, 64)
	if err != nil || n < 0 || n > 2 {
		return 0, &DecodingError{Op: ReadGateTimeOp, Response: resp, Reason: "expected a gate time of 0, 1 or 2"}
	}
	return int(n), nil
}

// ParseMeasuredFrequency converts the raw counter frequency response using
// the active gate time: the instrument reports counts over the gate, so
// the reading is scaled by 10^gate.
func ParseMeasuredFrequency(resp string, gateTime int) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(resp), 64)
	if err != nil {
		return 0, &DecodingError{Op: ReadFrequencyOp, Response: resp, Reason: "expected a number"}
	}
	return f / math.Pow(10, float64(gateTime)), nil
}

// ParseCounter parses the pulse counter response.
func ParseCounter(resp string) (uint64, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(resp), 10, 64)
	if err != nil {
		return 0, &DecodingError{Op: ReadCounterOp, Response: resp, Reason: "expected an unsigned integer"}
	}
	return n, nil
}

// ParseNanoseconds parses a nanosecond-resolution interval response
// (period, pulse widths) into seconds.
func ParseNanoseconds(op, resp string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(resp), 64)
	if err != nil {
		return 0, &DecodingError{Op: op, Response: resp, Reason: "expected a number"}
	}
	return f / 1e9, nil
}

// ParseMeasuredDuty parses the measured duty cycle response into a
// fraction in [0, 1].
func ParseMeasuredDuty(resp string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(resp), 64)
	if err != nil {
		return 0, &DecodingError{Op: ReadDutyOp, Response: resp, Reason: "expected a number"}
	}
	return f / 1000.0, nil
}

// divRound divides with rounding half away from zero.
func divRound(n, d int64) int64 {
	if n >= 0 {
		return (n + d/2) / d
	}
	return -((-n + d/2) / d)
}
