// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

package mqttc

import (
	"time"
)

// Clock schedules deferred work. The engine timers run against a Clock so
// tests can substitute a manual implementation.
type Clock interface {

	// AfterFunc runs f in its own goroutine after d elapses.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a scheduled callback which can be rearmed or disarmed.
type Timer interface {
	Reset(d time.Duration) bool
	Stop() bool
}

// realClock schedules on the runtime timers.
type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// keepalive supervises connection liveness on one interval with two proof-of
// life inputs: bytes sent and bytes received. Each tick it emits a PINGREQ if
// the send side was idle, and declares the connection dead if nothing was
// received for a full interval after a PINGREQ went out. All methods are
// called from the engine loop.
type keepalive struct {
	interval    time.Duration
	timer       Timer
	emit        func() // write a PINGREQ
	fail        func() // liveness lost, tear the connection down
	sent        bool   // anything written since the last tick
	recv        bool   // anything received since the last tick
	outstanding bool   // a PINGREQ went out and no data has proven life since
	stopped     bool
}

// newKeepalive arms a keepalive supervisor. The schedule function is invoked
// with the tick to run and must route it onto the engine loop.
func newKeepalive(clock Clock, interval time.Duration, schedule func(func()), emit, fail func()) *keepalive {
	k := &keepalive{interval: interval, emit: emit, fail: fail}
	k.timer = clock.AfterFunc(interval, func() {
		schedule(k.tick)
	})

	return k
}

// noteSent records outbound activity.
func (k *keepalive) noteSent() {
	k.sent = true
}

// noteRecv records inbound activity, proving the peer alive.
func (k *keepalive) noteRecv() {
	k.recv = true
}

// tick advances the supervisor by one interval.
func (k *keepalive) tick() {
	if k.stopped {
		return
	}

	if k.outstanding && !k.recv {
		k.fail()
		return
	}

	if k.recv {
		k.outstanding = false
	}

	if !k.sent {
		k.emit()
		k.outstanding = true
	}

	k.sent, k.recv = false, false
	k.timer.Reset(k.interval)
}

// stop disarms the supervisor permanently.
func (k *keepalive) stop() {
	k.stopped = true
	k.timer.Stop()
}

// deadline fires an action once after a delay unless cancelled first.
type deadline struct {
	timer     Timer
	cancelled bool
}

// newDeadline arms a one-shot deadline. The schedule function must route the
// action onto the engine loop; the action checks cancelled before acting.
func newDeadline(clock Clock, d time.Duration, schedule func(func()), action func()) *deadline {
	dl := &deadline{}
	dl.timer = clock.AfterFunc(d, func() {
		schedule(func() {
			if !dl.cancelled {
				action()
			}
		})
	})

	return dl
}

// cancel disarms the deadline. Cancelling a nil or fired deadline is a no-op.
func (d *deadline) cancel() {
	if d == nil {
		return
	}

	d.cancelled = true
	d.timer.Stop()
}
