package transport

import (
	"time"

	"go.bug.st/serial"
)

const (
	// DefaultBaudRate works for FY2300/FY6800 units; FY2320 owners have
	// reported needing 9600.
	DefaultBaudRate = 115200

	// DefaultReadTimeout bounds a single response read.
	DefaultReadTimeout = 5 * time.Second
)

type serialConfig struct {
	baudRate    int
	readTimeout time.Duration
}

// SerialOption configures OpenSerial.
type SerialOption func(*serialConfig)

// WithBaudRate overrides the serial baud rate.
func WithBaudRate(baud int) SerialOption {
	return func(c *serialConfig) {
		if baud > 0 {
			c.baudRate = baud
		}
	}
}

// WithReadTimeout overrides the per-read deadline.
func WithReadTimeout(timeout time.Duration) SerialOption {
	return func(c *serialConfig) {
		if timeout > 0 {
			c.readTimeout = timeout
		}
	}
}

// SerialPort is a Port backed by a real serial device.
type SerialPort struct {
	port    serial.Port
	timeout time.Duration
}

// OpenSerial opens the instrument's USB serial device at path
// (e.g. /dev/ttyUSB0) in 8N1 framing.
func OpenSerial(path string, opts ...SerialOption) (*SerialPort, error) {
	cfg := serialConfig{
		baudRate:    DefaultBaudRate,
		readTimeout: DefaultReadTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	mode := &serial.Mode{
		BaudRate: cfg.baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, &IOError{Op: "open " + path, Err: err}
	}

	if err := port.SetReadTimeout(cfg.readTimeout); err != nil {
		port.Close()
		return nil, &IOError{Op: "set read timeout", Err: err}
	}

	sp := &SerialPort{port: port, timeout: cfg.readTimeout}

	// Start from a clean slate; the instrument may have queued output
	// from a previous session.
	port.ResetInputBuffer()
	port.ResetOutputBuffer()

	return sp, nil
}

// Write sends one command. Stale input is drained first so the next
// ReadLine sees only the response to this command; the protocol has no
// request ids to match responses otherwise.
func (s *SerialPort) Write(p []byte) (int, error) {
	if err := s.port.ResetInputBuffer(); err != nil {
		return 0, &IOError{Op: "reset input", Err: err}
	}

	n, err := s.port.Write(p)
	if err != nil {
		return n, &IOError{Op: "write", Err: err}
	}

	if err := s.port.Drain(); err != nil {
		return n, &IOError{Op: "drain", Err: err}
	}
	return n, nil
}

// ReadLine reads one newline-terminated response.
func (s *SerialPort) ReadLine() (string, error) {
	buf := make([]byte, 0, 32)
	one := make([]byte, 1)

	for len(buf) < maxLineBytes {
		n, err := s.port.Read(one)
		if err != nil {
			return "", &IOError{Op: "read", Err: err}
		}
		if n == 0 {
			// go.bug.st/serial signals a timeout as a zero-byte read.
			if len(buf) == 0 {
				return "", &TimeoutError{Timeout: s.timeout}
			}
			break
		}
		if one[0] == '\n' {
			break
		}
		buf = append(buf, one[0])
	}

	return string(buf), nil
}

// Close releases the serial device.
func (s *SerialPort) Close() error {
	if err := s.port.Close(); err != nil {
		return &IOError{Op: "close", Err: err}
	}
	return nil
}
