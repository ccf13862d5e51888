// Package transport provides the byte stream the protocol engine talks
// through: a line-oriented duplex Port, a real serial implementation, and
// a dry-run capture port for inspecting command traffic without hardware.
package transport

import (
	"fmt"
	"io"
	"time"
)

// maxLineBytes bounds a single response line.
const maxLineBytes = 256

// Port is a duplex channel to one instrument. Commands are written as
// raw bytes (the engine appends the newline terminator); responses are
// read one line at a time.
//
// A Port is not safe for concurrent use; the engine assumes exclusive
// ownership for the lifetime of the connection.
type Port interface {
	io.Writer

	// ReadLine blocks until a newline-terminated response arrives or
	// the read timeout expires. The returned line has the terminator
	// stripped. A timeout with no data yields a *TimeoutError; a
	// timeout after partial data returns the partial line.
	ReadLine() (string, error)

	Close() error
}

// Passive is implemented by ports that are not connected to a live
// instrument and never produce responses (e.g. Capture). The engine
// disables read-before-write and response checking for passive ports.
type Passive interface {
	Passive() bool
}

// TimeoutError indicates a read deadline expired with no response.
type TimeoutError struct {
	// Timeout is the deadline that expired
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("read timed out after %s", e.Timeout)
}

// IsTimeout reports whether err is a transport timeout.
func IsTimeout(err error) bool {
	_, ok := err.(*TimeoutError)
	return ok
}

// IOError wraps a failure of the underlying device stream.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
