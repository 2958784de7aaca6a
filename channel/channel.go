// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// Package channel provides the minimal ordered, flushable byte-transport
// abstraction the edabits core is written against. The real transport
// (TLS, framing, session setup) is explicitly out of scope (spec §1); this
// is only the thin seam `FCom` and the role wrappers read and write
// through, so the protocol code never depends on net.Conn directly.
package channel

import (
	"bufio"
	"io"
)

// Channel is an ordered, flushable, authenticated byte channel, matching
// the `AbstractChannel` collaborator of §6: read/write bytes, flush, and
// read_block/write_block for the 128-bit uniform values used to seed PRGs.
type Channel struct {
	r *bufio.Reader
	w *bufio.Writer
}

// New wraps an already-connected reader/writer pair (a net.Conn, a
// net.Pipe half, or any bidirectional byte stream) as a Channel.
func New(r io.Reader, w io.Writer) *Channel {
	return &Channel{r: bufio.NewReader(r), w: bufio.NewWriter(w)}
}

func (c *Channel) Write(p []byte) (int, error) { return c.w.Write(p) }

func (c *Channel) Read(p []byte) (int, error) { return io.ReadFull(c.r, p) }

// Flush pushes any buffered writes out, the synchronization point the
// spec requires after every batched write before the peer can proceed.
func (c *Channel) Flush() error { return c.w.Flush() }

// WriteBlock sends a 128-bit uniform value, used to jointly seed PRGs
// (the fdabit challenge and the cut-and-choose shuffle).
func (c *Channel) WriteBlock(b [16]byte) error {
	if _, err := c.w.Write(b[:]); err != nil {
		return err
	}
	return c.Flush()
}

// ReadBlock receives a 128-bit uniform value written by WriteBlock.
func (c *Channel) ReadBlock() ([16]byte, error) {
	var b [16]byte
	_, err := io.ReadFull(c.r, b[:])
	return b, err
}
