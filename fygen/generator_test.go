package fygen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/mattwach/fygen/transport"
)

// fakeDevice simulates an FY-series instrument for testing. It records
// every command line sent, answers reads from a settable state table,
// and applies channel parameter writes back into that table so that
// confirming reads see them, mimicking real hardware.
type fakeDevice struct {
	sent  []string
	state map[string]string

	// refuse lists 3-character command prefixes (e.g. "WMA") whose
	// writes are acknowledged but silently not applied
	refuse map[string]bool

	// emptyFirst makes the next N responses for a read command empty,
	// simulating the instrument's occasional dropped response
	emptyFirst map[string]int

	// waveformBytes is the binary payload size expected after a
	// DDS_WAVE command; loadAck overrides the ready ack when set
	waveformBytes int
	loadAck       string

	pending    []string
	binaryLeft int
	binaryGot  int
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		state:      make(map[string]string),
		refuse:     make(map[string]bool),
		emptyFirst: make(map[string]int),
	}
}

func (f *fakeDevice) Write(p []byte) (int, error) {
	if f.binaryLeft > 0 {
		f.binaryLeft -= len(p)
		f.binaryGot += len(p)
		if f.binaryLeft <= 0 {
			f.pending = append(f.pending, "HN")
		}
		return len(p), nil
	}

	line := strings.TrimSuffix(string(p), "\n")
	f.sent = append(f.sent, line)

	switch {
	case strings.HasPrefix(line, "DDS_WAVE"):
		ack := f.loadAck
		if ack == "" {
			ack = "W"
		}
		f.pending = append(f.pending, ack)
		f.binaryLeft = f.waveformBytes

	case line[0] == 'R' || line == "UMO" || line == "UID":
		if f.emptyFirst[line] > 0 {
			f.emptyFirst[line]--
			f.pending = append(f.pending, "")
			break
		}
		f.pending = append(f.pending, f.state[line])

	default:
		if len(line) >= 4 && !f.refuse[line[:3]] {
			f.applyWrite(line)
		}
		f.pending = append(f.pending, "ok")
	}

	return len(p), nil
}

// applyWrite reflects a channel parameter write into the read state, in
// the units the instrument reports (which are finer than the write
// resolution for most parameters).
func (f *fakeDevice) applyWrite(line string) {
	prefix, op, val := line[:2], line[2:3], line[3:]

	var readPrefix string
	switch prefix {
	case "WM":
		readPrefix = "RM"
	case "WF":
		readPrefix = "RF"
	default:
		return
	}

	var resp string
	switch op {
	case "N", "W":
		resp = strings.TrimLeft(val, "0")
		if resp == "" {
			resp = "0"
		}
	case "F":
		uhz, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return
		}
		resp = fmt.Sprintf("%d.%06d", uhz/1000000, uhz%1000000)
	case "A":
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return
		}
		resp = strconv.FormatInt(int64(math.Round(v*10000)), 10)
	case "O":
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return
		}
		mv := int64(math.Round(v * 1000))
		if mv < 0 {
			mv += 0x100000000
		}
		resp = strconv.FormatInt(mv, 10)
	case "P", "D":
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return
		}
		resp = strconv.FormatInt(int64(math.Round(v*1000)), 10)
	default:
		return
	}

	f.state[readPrefix+op] = resp
}

func (f *fakeDevice) ReadLine() (string, error) {
	if len(f.pending) == 0 {
		return "", nil
	}
	resp := f.pending[0]
	f.pending = f.pending[1:]
	return resp, nil
}

func (f *fakeDevice) Close() error {
	return nil
}

// setChannel0NonDefault seeds channel 0 read state with arbitrary non-default
// values so that default injection has to write every parameter.
func (f *fakeDevice) setChannel0NonDefault() {
	f.state["RMN"] = "1"
	f.state["RMW"] = "1"
	f.state["RMF"] = "1.000000"
	f.state["RMA"] = "10000"
	f.state["RMO"] = "100"
	f.state["RMP"] = "1000"
	f.state["RMD"] = "20000"
}

func (f *fakeDevice) sentCount(cmd string) int {
	n := 0
	for _, s := range f.sent {
		if s == cmd {
			n++
		}
	}
	return n
}

func assertSent(t *testing.T, f *fakeDevice, want []string) {
	t.Helper()
	if len(f.sent) != len(want) {
		t.Fatalf("sent %d commands %v, want %d %v", len(f.sent), f.sent, len(want), want)
	}
	for i := range want {
		if f.sent[i] != want[i] {
			t.Errorf("command %d = %q, want %q", i, f.sent[i], want[i])
		}
	}
}

func TestSetInjectsDefaultsOnFirstUse(t *testing.T) {
	f := newFakeDevice()
	f.setChannel0NonDefault()
	g := New(f)

	if err := g.Set(context.Background(), Params{FreqHz: Float(5000)}, 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// Every default differs from the seeded device state, so each
	// parameter is read, written and confirmed. Enable lands first
	// because the default disables the output.
	assertSent(t, f, []string{
		"RMN", "WMN0", "RMN",
		"RMW", "WMW00", "RMW",
		"RMF", "WMF00005000000000", "RMF",
		"RMA", "WMA5.00", "RMA",
		"RMO", "WMO0.00", "RMO",
		"RMP", "WMP0.000", "RMP",
		"RMD", "WMD50.0", "RMD",
	})
}

func TestSecondSetOnlyTouchesGivenParams(t *testing.T) {
	f := newFakeDevice()
	f.setChannel0NonDefault()
	g := New(f)

	if err := g.Set(context.Background(), Params{}, 0); err != nil {
		t.Fatalf("first Set() error = %v", err)
	}

	f.sent = nil
	if err := g.Set(context.Background(), Params{FreqHz: Float(7000)}, 0); err != nil {
		t.Fatalf("second Set() error = %v", err)
	}

	assertSent(t, f, []string{
		"RMF", "WMF00007000000000", "RMF",
	})
}

func TestSecondSetWithEmptyParamsIsNoOp(t *testing.T) {
	f := newFakeDevice()
	f.setChannel0NonDefault()
	g := New(f)

	if err := g.Set(context.Background(), Params{}, 0); err != nil {
		t.Fatalf("first Set() error = %v", err)
	}

	// Defaults were injected once; an empty set afterwards has nothing
	// to reconcile.
	f.sent = nil
	if err := g.Set(context.Background(), Params{}, 0); err != nil {
		t.Fatalf("second Set() error = %v", err)
	}
	if len(f.sent) != 0 {
		t.Errorf("empty second Set() sent %v, want nothing", f.sent)
	}
}

func TestReadBeforeWriteSkipsMatchingValue(t *testing.T) {
	f := newFakeDevice()
	f.state["RMF"] = "10000.000000"
	g := New(f, WithInitState(false))

	if err := g.Set(context.Background(), Params{FreqHz: Float(10000)}, 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	assertSent(t, f, []string{"RMF"})
}

func TestSetRetriesOnceThenFails(t *testing.T) {
	f := newFakeDevice()
	f.state["RMA"] = "10000"
	f.refuse["WMA"] = true
	g := New(f, WithInitState(false))

	err := g.Set(context.Background(), Params{Volts: Float(5)}, 0)

	var notConfirmed *WriteNotConfirmedError
	if !errors.As(err, &notConfirmed) {
		t.Fatalf("Set() error = %v, want *WriteNotConfirmedError", err)
	}
	if notConfirmed.Desired != 500 || notConfirmed.Observed != 100 {
		t.Errorf("error desired/observed = %d/%d, want 500/100",
			notConfirmed.Desired, notConfirmed.Observed)
	}

	// Pre-read, then two write+confirm attempts.
	assertSent(t, f, []string{
		"RMA", "WMA5.00", "RMA", "WMA5.00", "RMA",
	})
}

func TestSetWaveByName(t *testing.T) {
	f := newFakeDevice()
	f.state["RFW"] = "0"
	g := New(f, WithInitState(false))

	// square is id 1 on both channels; channel 1 uses the WF prefix.
	if err := g.Set(context.Background(), Params{Wave: String("square")}, 1); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	assertSent(t, f, []string{"RFW", "WFW01", "RFW"})
}

func TestSetDefaultChannels(t *testing.T) {
	f := newFakeDevice()
	f.state["RMN"] = "0"
	f.state["RFN"] = "0"
	g := New(f,
		WithInitState(false),
		WithDefaultChannels(CH1, CH2),
	)

	if err := g.Set(context.Background(), Params{Enable: Bool(true)}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	assertSent(t, f, []string{
		"RMN", "WMN1", "RMN",
		"RFN", "WFN1", "RFN",
	})
}

func TestSetValidation(t *testing.T) {
	tests := []struct {
		name     string
		params   Params
		channels []int
	}{
		{
			name:     "wave name and id together",
			params:   Params{Wave: String("sin"), WaveID: Int(0)},
			channels: []int{0},
		},
		{
			name:     "freq hz and uhz together",
			params:   Params{FreqHz: Float(1), FreqUHz: Uint64(1000000)},
			channels: []int{0},
		},
		{
			name:     "volts above limit",
			params:   Params{Volts: Float(25)},
			channels: []int{0},
		},
		{
			name:     "offset below limit",
			params:   Params{OffsetVolts: Float(-25)},
			channels: []int{0},
		},
		{
			name:     "unknown wave name",
			params:   Params{Wave: String("nonsense")},
			channels: []int{0},
		},
		{
			name:     "invalid channel",
			params:   Params{Volts: Float(1)},
			channels: []int{2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeDevice()
			g := New(f, WithInitState(false))

			if err := g.Set(context.Background(), tt.params, tt.channels...); err == nil {
				t.Fatal("Set() expected error, got nil")
			}
			if len(f.sent) != 0 {
				t.Errorf("Set() sent %v before failing validation", f.sent)
			}
		})
	}
}

func TestSetEmptyResponseRetries(t *testing.T) {
	f := newFakeDevice()
	f.state["RMF"] = "10000.000000"
	f.emptyFirst["RMF"] = 2
	g := New(f, WithInitState(false))

	if err := g.Set(context.Background(), Params{FreqHz: Float(10000)}, 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if got := f.sentCount("RMF"); got != 3 {
		t.Errorf("RMF sent %d times, want 3 (two empty responses, then the value)", got)
	}
}

func TestSetContextCancelled(t *testing.T) {
	f := newFakeDevice()
	g := New(f, WithInitState(false))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := g.Set(ctx, Params{Volts: Float(1)}, 0)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Set() error = %v, want context.Canceled", err)
	}
}

func TestGetChannel(t *testing.T) {
	f := newFakeDevice()
	f.state["RMW"] = "1"
	f.state["RMF"] = "440.000000"
	f.state["RMA"] = "25000"
	f.state["RMO"] = "4294966046"
	f.state["RMP"] = "90500"
	f.state["RMD"] = "30000"
	f.state["RMN"] = "1"
	g := New(f)

	s, err := g.GetChannel(context.Background(), 0)
	if err != nil {
		t.Fatalf("GetChannel() error = %v", err)
	}

	if !s.Enable {
		t.Error("Enable = false, want true")
	}
	if s.Wave != "square" || s.WaveID != 1 {
		t.Errorf("Wave = %q (id %d), want square (id 1)", s.Wave, s.WaveID)
	}
	if s.FreqUHz != 440000000 {
		t.Errorf("FreqUHz = %d, want 440000000", s.FreqUHz)
	}
	if math.Abs(s.FreqHz-440) > 1e-9 {
		t.Errorf("FreqHz = %g, want 440", s.FreqHz)
	}
	if math.Abs(s.Volts-2.5) > 1e-9 {
		t.Errorf("Volts = %g, want 2.5", s.Volts)
	}
	if math.Abs(s.OffsetVolts+1.25) > 1e-9 {
		t.Errorf("OffsetVolts = %g, want -1.25", s.OffsetVolts)
	}
	if math.Abs(s.PhaseDegrees-90.5) > 1e-9 {
		t.Errorf("PhaseDegrees = %g, want 90.5", s.PhaseDegrees)
	}
	if math.Abs(s.DutyCycle-0.3) > 1e-9 {
		t.Errorf("DutyCycle = %g, want 0.3", s.DutyCycle)
	}
}

func TestGetChannelSnapshotReplays(t *testing.T) {
	f := newFakeDevice()
	f.state["RMW"] = "0"
	f.state["RMF"] = "1000.000000"
	f.state["RMA"] = "10000"
	f.state["RMO"] = "0"
	f.state["RMP"] = "0"
	f.state["RMD"] = "5000"
	f.state["RMN"] = "0"
	g := New(f)

	s, err := g.GetChannel(context.Background(), 0)
	if err != nil {
		t.Fatalf("GetChannel() error = %v", err)
	}

	// Replaying the snapshot onto a channel already in that state must
	// be a pure read pass: every write would be a no-op.
	f.sent = nil
	if err := g.Set(context.Background(), s.Params(), 0); err != nil {
		t.Fatalf("Set(snapshot) error = %v", err)
	}
	for _, cmd := range f.sent {
		if cmd[0] != 'R' {
			t.Errorf("replay sent write %q, want reads only", cmd)
		}
	}
}

func TestPerParamGetters(t *testing.T) {
	f := newFakeDevice()
	f.state["RMF"] = "123.456789"
	f.state["RMN"] = "1"
	g := New(f)

	uhz, err := g.GetFreqUHz(context.Background(), 0)
	if err != nil {
		t.Fatalf("GetFreqUHz() error = %v", err)
	}
	if uhz != 123456789 {
		t.Errorf("GetFreqUHz() = %d, want 123456789", uhz)
	}

	on, err := g.GetEnable(context.Background(), 0)
	if err != nil {
		t.Fatalf("GetEnable() error = %v", err)
	}
	if !on {
		t.Error("GetEnable() = false, want true")
	}

	if _, err := g.GetVolts(context.Background(), 2); err == nil {
		t.Error("GetVolts() with invalid channel expected error, got nil")
	}
}

func TestLastKnownTracksReads(t *testing.T) {
	f := newFakeDevice()
	f.state["RMA"] = "25000"
	g := New(f)

	if _, ok := g.LastKnown(0, "volts"); ok {
		t.Error("LastKnown() before any read reported a value")
	}

	if _, err := g.GetVolts(context.Background(), 0); err != nil {
		t.Fatalf("GetVolts() error = %v", err)
	}

	raw, ok := g.LastKnown(0, "volts")
	if !ok || raw != 250 {
		t.Errorf("LastKnown() = %d, %v, want 250, true", raw, ok)
	}
}

func TestDeviceUtilities(t *testing.T) {
	f := newFakeDevice()
	f.state["UMO"] = "FY6800-60M"
	f.state["UID"] = "0123456789"
	f.state["RBZ"] = "1"
	g := New(f)
	ctx := context.Background()

	model, err := g.Model(ctx)
	if err != nil {
		t.Fatalf("Model() error = %v", err)
	}
	if model != "FY6800-60M" {
		t.Errorf("Model() = %q", model)
	}

	id, err := g.ID(ctx)
	if err != nil {
		t.Fatalf("ID() error = %v", err)
	}
	if id != "0123456789" {
		t.Errorf("ID() = %q", id)
	}

	device, err := g.DetectDevice(ctx)
	if err != nil {
		t.Fatalf("DetectDevice() error = %v", err)
	}
	if device != "fy6800" {
		t.Errorf("DetectDevice() = %q, want \"fy6800\"", device)
	}

	on, err := g.Buzzer(ctx)
	if err != nil {
		t.Fatalf("Buzzer() error = %v", err)
	}
	if !on {
		t.Error("Buzzer() = false, want true")
	}

	f.sent = nil
	if err := g.SaveState(ctx, 2); err != nil {
		t.Fatalf("SaveState() error = %v", err)
	}
	if err := g.LoadState(ctx, 2); err != nil {
		t.Fatalf("LoadState() error = %v", err)
	}
	if err := g.SetBuzzer(ctx, false); err != nil {
		t.Fatalf("SetBuzzer() error = %v", err)
	}
	assertSent(t, f, []string{"USN02", "ULN02", "UBZ0"})
}

func TestSendTooShort(t *testing.T) {
	g := New(newFakeDevice())
	if _, err := g.Send(context.Background(), "AB"); err == nil {
		t.Error("Send() with a short command expected error, got nil")
	}
}

func TestPassiveCaptureWritesWithoutReads(t *testing.T) {
	var buf bytes.Buffer
	g := New(transport.NewCapture(&buf), WithInitState(false))

	if err := g.Set(context.Background(), Params{
		FreqHz: Float(1000),
		Enable: Bool(true),
	}, 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	want := "WMF00001000000000\nWMN1\n"
	if buf.String() != want {
		t.Errorf("captured %q, want %q", buf.String(), want)
	}
}

func TestDebugEcho(t *testing.T) {
	f := newFakeDevice()
	f.state["RBZ"] = "0"
	var diag bytes.Buffer
	g := New(f, WithDebugLevel(DebugEcho), WithDiagnostics(&diag))

	if _, err := g.Buzzer(context.Background()); err != nil {
		t.Fatalf("Buzzer() error = %v", err)
	}

	if diag.String() != "RBZ -> 0\n" {
		t.Errorf("diagnostics = %q, want \"RBZ -> 0\\n\"", diag.String())
	}
}
