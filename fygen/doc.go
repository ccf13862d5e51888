// Package fygen controls FY-series function generators (FY2300, FY6800
// and compatible) over their line-oriented ASCII serial protocol.
//
// The central type is Generator, which reconciles desired parameter
// state against the instrument. With read-before-write enabled (the
// default) every parameter write is preceded by a read, so values the
// instrument already holds are skipped, and followed by a confirming
// read with one bounded retry. Unconfirmed writes surface as
// *WriteNotConfirmedError.
//
// # Usage
//
//	port, err := transport.OpenSerial("/dev/ttyUSB0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
//	gen := fygen.New(port)
//	err = gen.Set(ctx, fygen.Params{
//	    Wave:   fygen.String("square"),
//	    FreqHz: fygen.Float(2500),
//	    Volts:  fygen.Float(3.3),
//	    Enable: fygen.Bool(true),
//	})
//
// The first Set on a channel fills in every omitted parameter from a
// fixed default table, so the instrument starts from a known state; pass
// WithInitState(false) to disable.
//
// For a dry run, hand New a transport.Capture instead of a serial port:
// commands are recorded and never sent to hardware.
//
// # Concurrency
//
// A Generator is single-threaded by design: the protocol has no request
// ids, so commands cannot be pipelined, and every operation runs a
// blocking write/read exchange to completion. Callers sharing one
// Generator across goroutines must serialize access externally (one
// mutex around each exported call). Cancellation via context is honored
// between commands, never mid-command.
package fygen
