// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

package transport

import (
	"crypto/tls"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// defaultWSPath is the endpoint path dialed when none is configured.
const defaultWSPath = "/mqtt"

// WebsocketConfig contains configuration values for the websocket dialer.
type WebsocketConfig struct {
	TLSConfig        *tls.Config   // TLS to use for wss connections; nil dials ws
	Path             string        // endpoint path, default /mqtt
	HandshakeTimeout time.Duration // handshake deadline, default 30s
}

// WebsocketDialer establishes websocket connections carrying one control
// packet per binary frame.
type WebsocketDialer struct {
	config *WebsocketConfig
}

// NewWebsocketDialer initialises and returns a new websocket dialer.
func NewWebsocketDialer(config *WebsocketConfig) *WebsocketDialer {
	if config == nil {
		config = new(WebsocketConfig)
	}
	if config.Path == "" {
		config.Path = defaultWSPath
	}
	if config.HandshakeTimeout == 0 {
		config.HandshakeTimeout = 30 * time.Second
	}

	return &WebsocketDialer{config: config}
}

// Protocol returns the uri scheme of connections the dialer makes.
func (d *WebsocketDialer) Protocol() string {
	if d.config.TLSConfig != nil {
		return "wss"
	}

	return "ws"
}

// SetTLSConfig switches future dials to wss with the given configuration.
func (d *WebsocketDialer) SetTLSConfig(c *tls.Config) {
	d.config.TLSConfig = c
}

// Dial connects to a broker at addr (host:port) and starts the read loop.
func (d *WebsocketDialer) Dial(addr string, h Handler) (Conn, error) {
	u := url.URL{Scheme: d.Protocol(), Host: addr, Path: d.config.Path}

	dialer := &websocket.Dialer{
		Subprotocols:     []string{"mqtt"},
		TLSClientConfig:  d.config.TLSConfig,
		HandshakeTimeout: d.config.HandshakeTimeout,
	}

	c, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		return nil, err
	}

	wc := &wsConn{c: c, h: h}
	go wc.readLoop()

	return wc, nil
}

// wsConn adapts a websocket connection to the Conn interface.
type wsConn struct {
	c      *websocket.Conn
	h      Handler
	closed atomic.Bool
}

// Send writes one control packet as a single binary frame.
func (wc *wsConn) Send(b []byte) error {
	if wc.closed.Load() {
		return ErrConnectionClosed
	}

	return wc.c.WriteMessage(websocket.BinaryMessage, b)
}

// Close tears down the connection. Events stop after a local close.
func (wc *wsConn) Close() error {
	if !wc.closed.CompareAndSwap(false, true) {
		return nil
	}

	return wc.c.Close()
}

// readLoop delivers inbound frames until the connection ends.
func (wc *wsConn) readLoop() {
	for {
		op, b, err := wc.c.ReadMessage()
		if wc.closed.Load() {
			return
		}

		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				wc.h.OnClose()
			} else {
				wc.h.OnError(err)
			}
			return
		}

		if op != websocket.BinaryMessage {
			wc.h.OnError(ErrInvalidMessage)
			return
		}

		wc.h.OnMessage(b)
	}
}

var _ Dialer = (*WebsocketDialer)(nil)
