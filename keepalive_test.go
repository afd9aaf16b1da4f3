// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

package mqttc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// inline runs scheduled work immediately, standing in for the engine loop.
func inline(op func()) {
	op()
}

func TestKeepalivePingsWhenIdle(t *testing.T) {
	clk := newFakeClock()

	var pings, fails int
	k := newKeepalive(clk, time.Minute, inline,
		func() { pings++ },
		func() { fails++ })
	defer k.stop()

	clk.advance(time.Minute)
	require.Equal(t, 1, pings)
	require.Zero(t, fails)
}

func TestKeepaliveSuppressedByOutboundTraffic(t *testing.T) {
	clk := newFakeClock()

	var pings int
	k := newKeepalive(clk, time.Minute, inline,
		func() { pings++ },
		func() {})
	defer k.stop()

	k.noteSent()
	clk.advance(time.Minute)
	require.Zero(t, pings)

	// the next idle interval pings again
	clk.advance(time.Minute)
	require.Equal(t, 1, pings)
}

func TestKeepaliveFailsWithoutResponse(t *testing.T) {
	clk := newFakeClock()

	var pings, fails int
	k := newKeepalive(clk, time.Minute, inline,
		func() { pings++ },
		func() { fails++ })
	defer k.stop()

	clk.advance(time.Minute)
	require.Equal(t, 1, pings)

	clk.advance(time.Minute)
	require.Equal(t, 1, fails)
}

func TestKeepaliveRecoveredByInboundTraffic(t *testing.T) {
	clk := newFakeClock()

	var fails int
	k := newKeepalive(clk, time.Minute, inline,
		func() {},
		func() { fails++ })
	defer k.stop()

	clk.advance(time.Minute) // ping goes out
	k.noteRecv()
	clk.advance(time.Minute) // response arrived in time
	require.Zero(t, fails)
}

func TestKeepaliveStop(t *testing.T) {
	clk := newFakeClock()

	var pings int
	k := newKeepalive(clk, time.Minute, inline,
		func() { pings++ },
		func() {})

	k.stop()
	clk.advance(time.Minute)
	require.Zero(t, pings)
}

func TestDeadlineFires(t *testing.T) {
	clk := newFakeClock()

	var fired int
	newDeadline(clk, time.Second, inline, func() { fired++ })

	clk.advance(time.Second)
	require.Equal(t, 1, fired)
}

func TestDeadlineCancelled(t *testing.T) {
	clk := newFakeClock()

	var fired int
	d := newDeadline(clk, time.Second, inline, func() { fired++ })
	d.cancel()

	clk.advance(time.Second)
	require.Zero(t, fired)
}

func TestDeadlineNilCancel(t *testing.T) {
	var d *deadline
	d.cancel() // must not panic
}
