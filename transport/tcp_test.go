// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

package transport

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/camstream/mqttc/packets"
)

// chanHandler funnels transport events into channels for test assertions.
type chanHandler struct {
	msgs   chan []byte
	errs   chan error
	closes chan struct{}
}

func newChanHandler() *chanHandler {
	return &chanHandler{
		msgs:   make(chan []byte, 8),
		errs:   make(chan error, 1),
		closes: make(chan struct{}, 1),
	}
}

func (h *chanHandler) OnMessage(b []byte) { h.msgs <- b }
func (h *chanHandler) OnError(err error)  { h.errs <- err }
func (h *chanHandler) OnClose()           { h.closes <- struct{}{} }

func encodeTestPacket(t *testing.T, pk packets.Packet) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, pk.Encode(buf))
	return buf.Bytes()
}

func TestTCPDialerFraming(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	pingresp := encodeTestPacket(t, &packets.PingrespPacket{FixedHeader: packets.NewFixedHeader(packets.Pingresp)})
	connack := encodeTestPacket(t, &packets.ConnackPacket{FixedHeader: packets.NewFixedHeader(packets.Connack)})

	serverGot := make(chan []byte, 1)
	go func() {
		sc, err := ln.Accept()
		if err != nil {
			return
		}
		defer sc.Close()

		// Two packets in one write; the dialer must split them.
		_, _ = sc.Write(append(append([]byte{}, connack...), pingresp...))

		buf := make([]byte, 64)
		n, err := sc.Read(buf)
		if err == nil {
			serverGot <- buf[:n]
		}
	}()

	h := newChanHandler()
	d := NewTCPDialer(nil)
	require.Equal(t, "tcp", d.Protocol())

	c, err := d.Dial(ln.Addr().String(), h)
	require.NoError(t, err)
	defer c.Close()

	require.Equal(t, connack, <-h.msgs)
	require.Equal(t, pingresp, <-h.msgs)

	pingreq := encodeTestPacket(t, &packets.PingreqPacket{FixedHeader: packets.NewFixedHeader(packets.Pingreq)})
	require.NoError(t, c.Send(pingreq))

	select {
	case got := <-serverGot:
		require.Equal(t, pingreq, got)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for server read")
	}
}

func TestTCPDialerClose(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		sc, err := ln.Accept()
		if err != nil {
			return
		}
		sc.Close() // immediate orderly close
	}()

	h := newChanHandler()
	c, err := NewTCPDialer(nil).Dial(ln.Addr().String(), h)
	require.NoError(t, err)
	defer c.Close()

	select {
	case <-h.closes:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for close event")
	}
}

func TestTCPDialerLocalCloseSuppressesEvents(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		sc, err := ln.Accept()
		if err != nil {
			return
		}
		defer sc.Close()
		buf := make([]byte, 1)
		_, _ = sc.Read(buf) // hold open until the client closes
	}()

	h := newChanHandler()
	c, err := NewTCPDialer(nil).Dial(ln.Addr().String(), h)
	require.NoError(t, err)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close()) // idempotent
	require.ErrorIs(t, c.Send([]byte{0}), ErrConnectionClosed)

	select {
	case err := <-h.errs:
		t.Fatalf("unexpected error event after local close: %v", err)
	case <-h.closes:
		t.Fatal("unexpected close event after local close")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestTCPDialerRefused(t *testing.T) {
	h := newChanHandler()
	_, err := NewTCPDialer(&TCPConfig{DialTimeout: time.Second}).Dial("127.0.0.1:1", h)
	require.Error(t, err)
}
