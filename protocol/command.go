package protocol

import (
	"fmt"
	"strconv"
)

// Param identifies a channel parameter.
type Param string

// Channel parameters. The string values double as the stable names used in
// error messages and logs.
const (
	ParamEnable       Param = "enable"
	ParamWave         Param = "wave"
	ParamFreqUHz      Param = "freq_uhz"
	ParamVolts        Param = "volts"
	ParamOffsetVolts  Param = "offset_volts"
	ParamPhaseDegrees Param = "phase_degrees"
	ParamDutyCycle    Param = "duty_cycle"
)

// Command is one wire-format unit, ready to send. Text does not include
// the terminating newline; the transport layer appends it.
type Command struct {
	// Op is the parameter or operation this command encodes
	Op string

	// Channel is the target channel, or NoChannel
	Channel int

	// Text is the complete command string without the newline
	Text string
}

// paramCodec is one row of the codec dispatch table: the opcode suffix
// shared by the read and write forms of a parameter, plus its encode,
// decode and display functions. All functions work in device units.
type paramCodec struct {
	op      string
	encode  func(raw int64) (string, error)
	decode  func(resp string) (int64, error)
	display func(raw int64) string
}

// Device unit scaling, one entry per parameter:
//
//	enable         0 or 1
//	wave           waveform id
//	freq_uhz       microhertz
//	volts          centivolts (write resolution is 0.01 V)
//	offset_volts   centivolts
//	phase_degrees  millidegrees
//	duty_cycle     per-mille (write resolution is 0.1%)
var paramCodecs = map[Param]paramCodec{
	ParamEnable: {
		op: "N",
		encode: func(raw int64) (string, error) {
			if raw != 0 && raw != 1 {
				return "", encodeErr(ParamEnable, raw, "must be 0 or 1")
			}
			return strconv.FormatInt(raw, 10), nil
		},
		decode: decodeBool(ParamEnable),
		display: func(raw int64) string {
			if raw != 0 {
				return "on"
			}
			return "off"
		},
	},
	ParamWave: {
		op: "W",
		encode: func(raw int64) (string, error) {
			if raw < 0 || raw > MaxWaveID {
				return "", encodeErr(ParamWave, raw, "waveform id out of range")
			}
			return fmt.Sprintf("%02d", raw), nil
		},
		decode: decodeInt(ParamWave),
		display: func(raw int64) string {
			return fmt.Sprintf("wave id %d", raw)
		},
	},
	ParamFreqUHz: {
		op: "F",
		encode: func(raw int64) (string, error) {
			if raw <= 0 {
				return "", encodeErr(ParamFreqUHz, raw, "frequency must be > 0")
			}
			return fmt.Sprintf("%014d", raw), nil
		},
		decode: decodeFreqUHz,
		display: func(raw int64) string {
			return fmt.Sprintf("%d.%06d Hz", raw/1000000, raw%1000000)
		},
	},
	ParamVolts: {
		op: "A",
		encode: func(raw int64) (string, error) {
			if raw < 0 {
				return "", encodeErr(ParamVolts, raw, "amplitude must be >= 0")
			}
			return formatFixed(raw, 100, 2), nil
		},
		// Reads are in units of 0.1 mV; round to write resolution.
		decode:  decodeScaledFloat(ParamVolts, 100),
		display: displayFixed(100, 2, " V"),
	},
	ParamOffsetVolts: {
		op:      "O",
		encode:  func(raw int64) (string, error) { return formatFixed(raw, 100, 2), nil },
		decode:  decodeOffsetVolts,
		display: displayFixed(100, 2, " V"),
	},
	ParamPhaseDegrees: {
		op: "P",
		encode: func(raw int64) (string, error) {
			// The device accepts [0, 360); fold like the front panel does.
			raw = ((raw % 360000) + 360000) % 360000
			return formatFixed(raw, 1000, 3), nil
		},
		decode:  decodeScaledFloat(ParamPhaseDegrees, 1),
		display: displayFixed(1000, 3, " deg"),
	},
	ParamDutyCycle: {
		op: "D",
		encode: func(raw int64) (string, error) {
			if raw <= 0 || raw >= 1000 {
				return "", encodeErr(ParamDutyCycle, raw, "duty cycle must be within (0, 1)")
			}
			return formatFixed(raw, 10, 1), nil
		},
		decode:  decodeScaledFloat(ParamDutyCycle, 100),
		display: displayFixed(10, 1, "%"),
	},
}

// ChannelParams lists every channel parameter in canonical write order.
// Enable is listed last; the reconciliation engine moves it to the front
// of a write sequence when disabling.
var ChannelParams = []Param{
	ParamWave,
	ParamFreqUHz,
	ParamVolts,
	ParamOffsetVolts,
	ParamPhaseDegrees,
	ParamDutyCycle,
	ParamEnable,
}

// Encode builds the write command that sets param on channel to the given
// device-unit value.
func Encode(param Param, channel int, raw int64) (Command, error) {
	pc, ok := paramCodecs[param]
	if !ok {
		return Command{}, &EncodingError{Op: string(param), Reason: "unknown parameter"}
	}

	prefix, err := writePrefix(param, channel)
	if err != nil {
		return Command{}, err
	}

	payload, err := pc.encode(raw)
	if err != nil {
		return Command{}, err
	}

	return Command{
		Op:      string(param),
		Channel: channel,
		Text:    prefix + pc.op + payload,
	}, nil
}

// ReadCommand builds the read command for param on channel.
func ReadCommand(param Param, channel int) (Command, error) {
	pc, ok := paramCodecs[param]
	if !ok {
		return Command{}, &EncodingError{Op: string(param), Reason: "unknown parameter"}
	}

	prefix, err := readPrefix(param, channel)
	if err != nil {
		return Command{}, err
	}

	return Command{
		Op:      string(param),
		Channel: channel,
		Text:    prefix + pc.op,
	}, nil
}

// Decode parses a read response for param into device units.
func Decode(param Param, response string) (int64, error) {
	pc, ok := paramCodecs[param]
	if !ok {
		return 0, &DecodingError{Op: string(param), Response: response, Reason: "unknown parameter"}
	}
	return pc.decode(response)
}

// DisplayValue renders a device-unit value for diagnostics.
func DisplayValue(param Param, raw int64) string {
	pc, ok := paramCodecs[param]
	if !ok {
		return strconv.FormatInt(raw, 10)
	}
	return pc.display(raw)
}

func writePrefix(param Param, channel int) (string, error) {
	switch channel {
	case 0:
		return WritePrefixCh0, nil
	case 1:
		return WritePrefixCh1, nil
	}
	return "", &EncodingError{
		Op:     string(param),
		Value:  strconv.Itoa(channel),
		Reason: "invalid channel, only 0 or 1 is supported",
	}
}

func readPrefix(param Param, channel int) (string, error) {
	switch channel {
	case 0:
		return ReadPrefixCh0, nil
	case 1:
		return ReadPrefixCh1, nil
	}
	return "", &EncodingError{
		Op:     string(param),
		Value:  strconv.Itoa(channel),
		Reason: "invalid channel, only 0 or 1 is supported",
	}
}

func encodeErr(param Param, raw int64, reason string) *EncodingError {
	return &EncodingError{
		Op:     string(param),
		Value:  strconv.FormatInt(raw, 10),
		Reason: reason,
	}
}

// formatFixed renders a device-unit value as a fixed-point decimal with
// the given scale (device units per display unit) and decimal places.
func formatFixed(raw, scale int64, decimals int) string {
	neg := raw < 0
	if neg {
		raw = -raw
	}
	s := fmt.Sprintf("%d.%0*d", raw/scale, decimals, raw%scale)
	if neg {
		return "-" + s
	}
	return s
}

func displayFixed(scale int64, decimals int, unit string) func(int64) string {
	return func(raw int64) string {
		return formatFixed(raw, scale, decimals) + unit
	}
}
