package transport

import "io"

// Capture is a dry-run Port: commands are recorded to an io.Writer and
// reads return nothing. Point it at os.Stdout to preview the exact
// command traffic an operation would generate, or at a buffer to record
// it.
type Capture struct {
	w io.Writer
}

// NewCapture wraps w as a passive Port.
func NewCapture(w io.Writer) *Capture {
	return &Capture{w: w}
}

func (c *Capture) Write(p []byte) (int, error) {
	return c.w.Write(p)
}

// ReadLine always returns an empty response; a capture has no instrument
// behind it.
func (c *Capture) ReadLine() (string, error) {
	return "", nil
}

// Passive marks the port as not connected to a live instrument.
func (c *Capture) Passive() bool {
	return true
}

func (c *Capture) Close() error {
	return nil
}
