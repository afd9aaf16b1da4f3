// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

package transport

import (
	"bufio"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"sync/atomic"
	"time"

	"github.com/camstream/mqttc/packets"
)

// TCPConfig contains configuration values for the tcp dialer.
type TCPConfig struct {
	TLSConfig   *tls.Config   // TLS to use on the connection; nil dials plaintext
	DialTimeout time.Duration // connect deadline, default 30s
}

// TCPDialer establishes plain tcp or tls connections and recovers the packet
// framing from the byte stream, so each delivered message is one control
// packet like the datagram transports produce.
type TCPDialer struct {
	config *TCPConfig
}

// NewTCPDialer initialises and returns a new tcp dialer.
func NewTCPDialer(config *TCPConfig) *TCPDialer {
	if config == nil {
		config = new(TCPConfig)
	}
	if config.DialTimeout == 0 {
		config.DialTimeout = 30 * time.Second
	}

	return &TCPDialer{config: config}
}

// Protocol returns the uri scheme of connections the dialer makes.
func (d *TCPDialer) Protocol() string {
	if d.config.TLSConfig != nil {
		return "tcps"
	}

	return "tcp"
}

// SetTLSConfig switches future dials to tls with the given configuration.
func (d *TCPDialer) SetTLSConfig(c *tls.Config) {
	d.config.TLSConfig = c
}

// Dial connects to a broker at addr (host:port) and starts the read loop.
func (d *TCPDialer) Dial(addr string, h Handler) (Conn, error) {
	var c net.Conn
	var err error
	if d.config.TLSConfig != nil {
		dialer := &net.Dialer{Timeout: d.config.DialTimeout}
		c, err = tls.DialWithDialer(dialer, "tcp", addr, d.config.TLSConfig)
	} else {
		c, err = net.DialTimeout("tcp", addr, d.config.DialTimeout)
	}
	if err != nil {
		return nil, err
	}

	tc := &tcpConn{c: c, h: h}
	go tc.readLoop()

	return tc, nil
}

// tcpConn adapts a stream connection to the Conn interface.
type tcpConn struct {
	c      net.Conn
	h      Handler
	closed atomic.Bool
}

// Send writes the raw bytes of one control packet.
func (tc *tcpConn) Send(b []byte) error {
	if tc.closed.Load() {
		return ErrConnectionClosed
	}

	_, err := tc.c.Write(b)
	return err
}

// Close tears down the connection. Events stop after a local close.
func (tc *tcpConn) Close() error {
	if !tc.closed.CompareAndSwap(false, true) {
		return nil
	}

	return tc.c.Close()
}

// readLoop de-frames the stream and delivers one packet per message.
func (tc *tcpConn) readLoop() {
	r := bufio.NewReader(tc.c)
	for {
		frame, err := packets.ReadFrame(r)
		if tc.closed.Load() {
			return
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				tc.h.OnClose()
			} else {
				tc.h.OnError(err)
			}
			return
		}

		tc.h.OnMessage(frame)
	}
}

var _ Dialer = (*TCPDialer)(nil)
