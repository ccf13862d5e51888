package fygen

import "github.com/mattwach/fygen/protocol"

// channelState is the per-channel record of last-known parameter values,
// in device units. It is mutated only by the reconciler: optimistically
// after a write, and with the observed value after every read. The
// initialized flag is set on the first reconciliation and never cleared
// except by constructing a new Generator.
type channelState struct {
	values      map[protocol.Param]int64
	initialized bool
}

func (c *channelState) get(param protocol.Param) (int64, bool) {
	v, ok := c.values[param]
	return v, ok
}

func (c *channelState) put(param protocol.Param, raw int64) {
	if c.values == nil {
		c.values = make(map[protocol.Param]int64)
	}
	c.values[param] = raw
}

// LastKnown returns the engine's last observed (or, without
// read-before-write, last written) device-unit value for a channel
// parameter. ok is false if the parameter has never been touched.
func (g *Generator) LastKnown(channel int, param protocol.Param) (raw int64, ok bool) {
	if channel < 0 || channel >= protocol.ChannelCount {
		return 0, false
	}
	return g.channels[channel].get(param)
}
