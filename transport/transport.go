// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

// Package transport provides the duplex, message-framed socket boundary the
// client speaks through. Each inbound message delivered to a Handler is the
// raw bytes of exactly one control packet.
package transport

import (
	"crypto/tls"
	"errors"
)

var (
	// ErrInvalidMessage indicates that a received frame was not binary.
	ErrInvalidMessage = errors.New("message type not binary")

	// ErrConnectionClosed indicates a send on a closed connection.
	ErrConnectionClosed = errors.New("connection not open")
)

// Handler receives transport lifecycle events. Calls are made from the
// transport's read goroutine; after OnError or OnClose no further events
// follow for the same connection.
type Handler interface {

	// OnMessage delivers the raw bytes of one inbound control packet.
	OnMessage(b []byte)

	// OnError reports a transport failure.
	OnError(err error)

	// OnClose reports an orderly close by the peer.
	OnClose()
}

// Conn is an established duplex connection.
type Conn interface {

	// Send writes the raw bytes of one control packet as a single frame.
	Send(b []byte) error

	// Close tears the connection down. Closing a closed connection is a no-op
	// and no events are delivered for a locally closed connection.
	Close() error
}

// TLSSetter is implemented by dialers whose transport security can be
// reconfigured between connect attempts.
type TLSSetter interface {
	SetTLSConfig(c *tls.Config)
}

// Dialer establishes connections to a broker address.
type Dialer interface {

	// Dial connects to addr and begins delivering events to h.
	Dial(addr string, h Handler) (Conn, error)

	// Protocol returns the uri scheme of connections the dialer makes.
	Protocol() string
}
