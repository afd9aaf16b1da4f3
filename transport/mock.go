// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

package transport

import (
	"sync"
)

// MockDialer is a scriptable in-memory dialer for testing. Failures maps
// addresses to errors returned when they are dialed; everything else
// succeeds and yields a MockConn the test can drive.
type MockDialer struct {
	mu       sync.Mutex
	Failures map[string]error
	dialed   []string
	conns    []*MockConn
}

// NewMockDialer returns a new instance of MockDialer.
func NewMockDialer() *MockDialer {
	return &MockDialer{Failures: map[string]error{}}
}

// Protocol returns the uri scheme of connections the dialer makes.
func (d *MockDialer) Protocol() string {
	return "mock"
}

// Dial records the attempt and either fails per script or opens a MockConn.
func (d *MockDialer) Dial(addr string, h Handler) (Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.dialed = append(d.dialed, addr)
	if err, ok := d.Failures[addr]; ok {
		return nil, err
	}

	c := &MockConn{Addr: addr, h: h}
	d.conns = append(d.conns, c)
	return c, nil
}

// Dialed returns the addresses dialed, in order.
func (d *MockDialer) Dialed() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string{}, d.dialed...)
}

// Last returns the most recently opened connection, or nil.
func (d *MockDialer) Last() *MockConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.conns) == 0 {
		return nil
	}
	return d.conns[len(d.conns)-1]
}

// MockConn is an in-memory connection capturing outbound frames and letting
// tests inject inbound events.
type MockConn struct {
	Addr string

	mu     sync.Mutex
	h      Handler
	sent   [][]byte
	closed bool
}

// Send captures one outbound frame.
func (c *MockConn) Send(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnectionClosed
	}

	c.sent = append(c.sent, append([]byte{}, b...))
	return nil
}

// Close marks the connection closed.
func (c *MockConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Closed reports whether Close was called.
func (c *MockConn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Sent returns the captured outbound frames, in order.
func (c *MockConn) Sent() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte{}, c.sent...)
}

// Deliver injects one inbound frame.
func (c *MockConn) Deliver(b []byte) {
	c.h.OnMessage(b)
}

// Fail injects a transport error.
func (c *MockConn) Fail(err error) {
	c.h.OnError(err)
}

// Drop injects an orderly close by the peer.
func (c *MockConn) Drop() {
	c.h.OnClose()
}

var _ Dialer = (*MockDialer)(nil)
