// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

package transport

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// newWSTestServer runs a websocket endpoint which hands the upgraded
// connection to serve.
func newWSTestServer(t *testing.T, serve func(c *websocket.Conn)) string {
	t.Helper()

	upgrader := &websocket.Upgrader{Subprotocols: []string{"mqtt"}}
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()
		serve(c)
	}))
	t.Cleanup(s.Close)

	return strings.TrimPrefix(s.URL, "http://")
}

func TestWebsocketDialerRoundTrip(t *testing.T) {
	addr := newWSTestServer(t, func(c *websocket.Conn) {
		// Echo binary frames back.
		for {
			op, b, err := c.ReadMessage()
			if err != nil {
				return
			}
			if err := c.WriteMessage(op, b); err != nil {
				return
			}
		}
	})

	d := NewWebsocketDialer(&WebsocketConfig{Path: "/"})
	require.Equal(t, "ws", d.Protocol())

	h := newChanHandler()
	c, err := d.Dial(addr, h)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Send([]byte{0xC0, 0x00}))

	select {
	case got := <-h.msgs:
		require.Equal(t, []byte{0xC0, 0x00}, got)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for echoed frame")
	}
}

func TestWebsocketDialerRejectsTextFrames(t *testing.T) {
	addr := newWSTestServer(t, func(c *websocket.Conn) {
		_ = c.WriteMessage(websocket.TextMessage, []byte("nope"))
		time.Sleep(200 * time.Millisecond)
	})

	h := newChanHandler()
	c, err := NewWebsocketDialer(&WebsocketConfig{Path: "/"}).Dial(addr, h)
	require.NoError(t, err)
	defer c.Close()

	select {
	case err := <-h.errs:
		require.ErrorIs(t, err, ErrInvalidMessage)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for error event")
	}
}

func TestWebsocketDialerPeerClose(t *testing.T) {
	addr := newWSTestServer(t, func(c *websocket.Conn) {
		_ = c.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	})

	h := newChanHandler()
	c, err := NewWebsocketDialer(&WebsocketConfig{Path: "/"}).Dial(addr, h)
	require.NoError(t, err)
	defer c.Close()

	select {
	case <-h.closes:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for close event")
	}
}

func TestWebsocketDialerRefused(t *testing.T) {
	h := newChanHandler()
	_, err := NewWebsocketDialer(&WebsocketConfig{Path: "/", HandshakeTimeout: time.Second}).Dial("127.0.0.1:1", h)
	require.Error(t, err)
}

func TestMockDialer(t *testing.T) {
	d := NewMockDialer()
	d.Failures["h1:1883"] = ErrConnectionClosed

	h := newChanHandler()
	_, err := d.Dial("h1:1883", h)
	require.Error(t, err)

	c, err := d.Dial("h2:1883", h)
	require.NoError(t, err)
	require.Equal(t, []string{"h1:1883", "h2:1883"}, d.Dialed())

	require.NoError(t, c.Send([]byte{0xC0, 0x00}))
	require.Equal(t, [][]byte{{0xC0, 0x00}}, d.Last().Sent())

	d.Last().Deliver([]byte{0xD0, 0x00})
	require.Equal(t, []byte{0xD0, 0x00}, <-h.msgs)

	require.NoError(t, c.Close())
	require.ErrorIs(t, c.Send(nil), ErrConnectionClosed)
}
