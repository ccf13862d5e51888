package fygen

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mattwach/fygen/protocol"
	"github.com/mattwach/fygen/transport"
	"github.com/mattwach/fygen/wavedef"
)

// Empty or missing responses happen: the instrument occasionally answers
// a query with nothing. Matching the reference driver, the command is
// resent a few times before the timeout surfaces.
const (
	responseRetries = 5
	responseDelay   = 100 * time.Millisecond
)

// Generator drives one FY-series function generator through a
// transport.Port. It owns the port exclusively for the lifetime of the
// connection.
//
// Generator is not safe for concurrent use; see the package
// documentation.
type Generator struct {
	port    transport.Port
	cfg     Config
	passive bool
	confirm *bufio.Reader

	channels [protocol.ChannelCount]channelState
	sweepOn  bool
}

// New creates a Generator on the given port.
//
// Example:
//
//	port, _ := transport.OpenSerial("/dev/ttyUSB0")
//	gen := fygen.New(port,
//	    fygen.WithDeviceName("fy6800"),
//	    fygen.WithDefaultChannels(fygen.CH1, fygen.CH2),
//	)
func New(port transport.Port, opts ...Option) *Generator {
	if port == nil {
		panic("port cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	g := &Generator{
		port: port,
		cfg:  cfg,
	}

	if p, ok := port.(transport.Passive); ok && p.Passive() {
		// A capture port never answers, so nothing can be read back or
		// confirmed.
		g.passive = true
		g.cfg.ReadBeforeWrite = false
	}

	return g
}

// Close releases the underlying port. Call at program exit for a clean
// shutdown.
func (g *Generator) Close() error {
	return g.port.Close()
}

// Send transmits a raw command string and returns the instrument's
// response line. Most callers want Set and friends; Send is the
// low-level escape hatch for commands the library does not model.
func (g *Generator) Send(ctx context.Context, command string) (string, error) {
	return g.sendText(ctx, command)
}

func (g *Generator) send(ctx context.Context, cmd protocol.Command) (string, error) {
	return g.sendText(ctx, cmd.Text)
}

func (g *Generator) sendText(ctx context.Context, text string) (string, error) {
	if len(text) < protocol.MinCommandLength {
		return "", &protocol.EncodingError{
			Op: "send", Value: text, Reason: "command too short",
		}
	}

	if g.cfg.DebugLevel >= DebugConfirm {
		fmt.Fprintf(g.cfg.Diagnostics, "%s (press enter to send)", text)
		g.waitForConfirm()
	}

	data := []byte(text + "\n")

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		if _, err := g.port.Write(data); err != nil {
			return "", fmt.Errorf("send %s: %w", text, err)
		}

		if g.passive {
			return "", nil
		}

		resp, err := g.port.ReadLine()
		if err != nil {
			if transport.IsTimeout(err) && attempt < responseRetries {
				time.Sleep(responseDelay)
				continue
			}
			return "", fmt.Errorf("send %s: %w", text, err)
		}

		resp = strings.TrimSpace(resp)
		if g.cfg.DebugLevel >= DebugEcho {
			fmt.Fprintf(g.cfg.Diagnostics, "%s -> %s\n", text, resp)
		}

		if resp == "" && attempt < responseRetries {
			time.Sleep(responseDelay)
			continue
		}

		g.logDebug("command", "cmd", text, "response", resp)
		return resp, nil
	}
}

// recv reads one response line outside the usual command/response
// pairing (used after a raw waveform payload, which has no command
// line of its own).
func (g *Generator) recv(label string) (string, error) {
	if g.passive {
		return "", nil
	}

	resp, err := g.port.ReadLine()
	if err != nil {
		return "", fmt.Errorf("%s: %w", label, err)
	}

	resp = strings.TrimSpace(resp)
	if g.cfg.DebugLevel >= DebugEcho {
		fmt.Fprintf(g.cfg.Diagnostics, "%s -> %s\n", label, resp)
	}
	return resp, nil
}

func (g *Generator) waitForConfirm() {
	if g.confirm == nil {
		g.confirm = bufio.NewReader(g.cfg.ConfirmInput)
	}
	g.confirm.ReadString('\n')
}

// ID returns the instrument's unique id string.
func (g *Generator) ID(ctx context.Context) (string, error) {
	return g.send(ctx, protocol.ReadOp(protocol.ReadID))
}

// Model returns the instrument's model string, e.g. "FY2300-20M".
func (g *Generator) Model(ctx context.Context) (string, error) {
	return g.send(ctx, protocol.ReadOp(protocol.ReadModel))
}

// DetectDevice queries the instrument's model and selects the
// best-matching waveform id table. Returns the selected device name.
func (g *Generator) DetectDevice(ctx context.Context) (string, error) {
	model, err := g.Model(ctx)
	if err != nil {
		return "", err
	}

	device, err := wavedef.Detect(model)
	if err != nil {
		return "", err
	}

	g.cfg.DeviceName = device
	g.logInfo("detected device", "model", model, "device", device)
	return device, nil
}

// SaveState saves the current device state to an internal slot. Slot 1
// holds the power-on state.
func (g *Generator) SaveState(ctx context.Context, slot int) error {
	cmd, err := protocol.BuildSaveStateCmd(slot)
	if err != nil {
		return err
	}
	_, err = g.send(ctx, cmd)
	return err
}

// LoadState restores device state saved earlier to an internal slot.
// The restored settings are internal to the device: the engine's
// last-known values are not updated, so follow with GetChannel if the
// cache matters.
func (g *Generator) LoadState(ctx context.Context, slot int) error {
	cmd, err := protocol.BuildLoadStateCmd(slot)
	if err != nil {
		return err
	}
	_, err = g.send(ctx, cmd)
	return err
}

// SetBuzzer enables or disables the front panel buzzer.
func (g *Generator) SetBuzzer(ctx context.Context, on bool) error {
	_, err := g.send(ctx, protocol.BuildBuzzerCmd(on))
	return err
}

// Buzzer reports whether the front panel buzzer is enabled.
func (g *Generator) Buzzer(ctx context.Context) (bool, error) {
	resp, err := g.send(ctx, protocol.ReadOp(protocol.ReadBuzzer))
	if err != nil {
		return false, err
	}
	return protocol.ParseBoolResponse(protocol.ReadBuzzer, resp)
}
