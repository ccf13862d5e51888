package protocol

import (
	"errors"
	"testing"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name    string
		param   Param
		channel int
		raw     int64
		want    string
	}{
		{
			name:    "wave channel 0",
			param:   ParamWave,
			channel: 0,
			raw:     2,
			want:    "WMW02",
		},
		{
			name:    "wave channel 1",
			param:   ParamWave,
			channel: 1,
			raw:     46,
			want:    "WFW46",
		},
		{
			name:    "freq 10 kHz",
			param:   ParamFreqUHz,
			channel: 0,
			raw:     10000000000,
			want:    "WMF00010000000000",
		},
		{
			name:    "freq sub-Hz",
			param:   ParamFreqUHz,
			channel: 1,
			raw:     500000,
			want:    "WFF00000000500000",
		},
		{
			name:    "volts 5V",
			param:   ParamVolts,
			channel: 0,
			raw:     500,
			want:    "WMA5.00",
		},
		{
			name:    "volts 0.01V resolution",
			param:   ParamVolts,
			channel: 0,
			raw:     1,
			want:    "WMA0.01",
		},
		{
			name:    "negative offset",
			param:   ParamOffsetVolts,
			channel: 0,
			raw:     -125,
			want:    "WMO-1.25",
		},
		{
			name:    "phase",
			param:   ParamPhaseDegrees,
			channel: 1,
			raw:     90500,
			want:    "WFP90.500",
		},
		{
			name:    "negative phase folds",
			param:   ParamPhaseDegrees,
			channel: 0,
			raw:     -90000,
			want:    "WMP270.000",
		},
		{
			name:    "duty cycle",
			param:   ParamDutyCycle,
			channel: 0,
			raw:     105,
			want:    "WMD10.5",
		},
		{
			name:    "enable on",
			param:   ParamEnable,
			channel: 1,
			raw:     1,
			want:    "WFN1",
		},
		{
			name:    "enable off",
			param:   ParamEnable,
			channel: 0,
			raw:     0,
			want:    "WMN0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := Encode(tt.param, tt.channel, tt.raw)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if cmd.Text != tt.want {
				t.Errorf("Encode() = %q, want %q", cmd.Text, tt.want)
			}
			if cmd.Channel != tt.channel {
				t.Errorf("Encode() channel = %d, want %d", cmd.Channel, tt.channel)
			}
		})
	}
}

func TestEncodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		param   Param
		channel int
		raw     int64
	}{
		{"zero frequency", ParamFreqUHz, 0, 0},
		{"negative frequency", ParamFreqUHz, 0, -1},
		{"negative amplitude", ParamVolts, 0, -1},
		{"wave id too large", ParamWave, 0, 100},
		{"negative wave id", ParamWave, 0, -1},
		{"duty cycle zero", ParamDutyCycle, 0, 0},
		{"duty cycle full", ParamDutyCycle, 0, 1000},
		{"enable out of range", ParamEnable, 0, 2},
		{"invalid channel", ParamVolts, 2, 500},
		{"negative channel", ParamVolts, -1, 500},
		{"unknown parameter", Param("bogus"), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(tt.param, tt.channel, tt.raw)
			if err == nil {
				t.Fatal("Encode() expected error, got nil")
			}
			var encErr *EncodingError
			if !errors.As(err, &encErr) {
				t.Errorf("Encode() error type = %T, want *EncodingError", err)
			}
		})
	}
}

func TestReadCommand(t *testing.T) {
	tests := []struct {
		param   Param
		channel int
		want    string
	}{
		{ParamWave, 0, "RMW"},
		{ParamWave, 1, "RFW"},
		{ParamFreqUHz, 0, "RMF"},
		{ParamVolts, 1, "RFA"},
		{ParamOffsetVolts, 0, "RMO"},
		{ParamPhaseDegrees, 1, "RFP"},
		{ParamDutyCycle, 0, "RMD"},
		{ParamEnable, 1, "RFN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			cmd, err := ReadCommand(tt.param, tt.channel)
			if err != nil {
				t.Fatalf("ReadCommand() error = %v", err)
			}
			if cmd.Text != tt.want {
				t.Errorf("ReadCommand() = %q, want %q", cmd.Text, tt.want)
			}
		})
	}

	if _, err := ReadCommand(ParamVolts, 2); err == nil {
		t.Error("ReadCommand() with invalid channel expected error, got nil")
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		param    Param
		response string
		want     int64
	}{
		{
			name:     "freq 10 kHz",
			param:    ParamFreqUHz,
			response: "10000.000000",
			want:     10000000000,
		},
		{
			name:     "freq 1 uHz",
			param:    ParamFreqUHz,
			response: "0.000001",
			want:     1,
		},
		{
			name:     "freq short fraction pads",
			param:    ParamFreqUHz,
			response: "12.5",
			want:     12500000,
		},
		{
			name:     "freq no fraction",
			param:    ParamFreqUHz,
			response: "440",
			want:     440000000,
		},
		{
			// Reported in 0.1 mV units.
			name:     "volts 5V",
			param:    ParamVolts,
			response: "50000",
			want:     500,
		},
		{
			// Reported in millivolts.
			name:     "offset positive",
			param:    ParamOffsetVolts,
			response: "1250",
			want:     125,
		},
		{
			// Negative offsets come back as unsigned 32-bit values.
			name:     "offset negative unsigned wraparound",
			param:    ParamOffsetVolts,
			response: "4294966046",
			want:     -125,
		},
		{
			name:     "phase millidegrees",
			param:    ParamPhaseDegrees,
			response: "90500",
			want:     90500,
		},
		{
			// Reported in 0.001% units.
			name:     "duty cycle",
			param:    ParamDutyCycle,
			response: "10500",
			want:     105,
		},
		{
			name:     "enable nonzero is on",
			param:    ParamEnable,
			response: "255",
			want:     1,
		},
		{
			name:     "enable off",
			param:    ParamEnable,
			response: "0",
			want:     0,
		},
		{
			name:     "wave id",
			param:    ParamWave,
			response: "33",
			want:     33,
		},
		{
			name:     "surrounding whitespace",
			param:    ParamWave,
			response: " 7\r\n",
			want:     7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.param, tt.response)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Decode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name     string
		param    Param
		response string
	}{
		{"empty response", ParamWave, ""},
		{"garbage", ParamFreqUHz, "oops"},
		{"negative wave id", ParamWave, "-1"},
		{"freq missing integer part", ParamFreqUHz, ".5"},
		{"freq bad fraction", ParamFreqUHz, "10.x"},
		{"offset not a number", ParamOffsetVolts, "1.25"},
		{"unknown parameter", Param("bogus"), "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.param, tt.response)
			if err == nil {
				t.Fatal("Decode() expected error, got nil")
			}
			var decErr *DecodingError
			if !errors.As(err, &decErr) {
				t.Errorf("Decode() error type = %T, want *DecodingError", err)
			}
		})
	}
}

// A written value must decode back equal from the instrument's finer read
// units, otherwise the reconciliation engine would loop on every write.
func TestWriteReadRoundTrip(t *testing.T) {
	tests := []struct {
		param    Param
		raw      int64
		response string
	}{
		{ParamVolts, 500, "50000"},
		{ParamVolts, 1, "100"},
		{ParamOffsetVolts, -125, "4294966046"},
		{ParamDutyCycle, 105, "10500"},
		{ParamFreqUHz, 10000000000, "10000.000000"},
	}

	for _, tt := range tests {
		got, err := Decode(tt.param, tt.response)
		if err != nil {
			t.Fatalf("Decode(%s, %q) error = %v", tt.param, tt.response, err)
		}
		if got != tt.raw {
			t.Errorf("Decode(%s, %q) = %d, want written value %d",
				tt.param, tt.response, got, tt.raw)
		}
	}
}

func TestDisplayValue(t *testing.T) {
	tests := []struct {
		param Param
		raw   int64
		want  string
	}{
		{ParamEnable, 1, "on"},
		{ParamEnable, 0, "off"},
		{ParamWave, 5, "wave id 5"},
		{ParamFreqUHz, 10000000000, "10000.000000 Hz"},
		{ParamVolts, 500, "5.00 V"},
		{ParamOffsetVolts, -125, "-1.25 V"},
		{ParamPhaseDegrees, 90500, "90.500 deg"},
		{ParamDutyCycle, 105, "10.5%"},
	}

	for _, tt := range tests {
		if got := DisplayValue(tt.param, tt.raw); got != tt.want {
			t.Errorf("DisplayValue(%s, %d) = %q, want %q", tt.param, tt.raw, got, tt.want)
		}
	}
}
