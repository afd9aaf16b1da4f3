// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

package mqttc

import (
	"sort"
	"sync"

	"github.com/camstream/mqttc/packets"
)

// maxPacketID is the maximum value of a message identifier. Identifiers are
// non-zero 16-bit values.
const maxPacketID = 65535

// sentEntry is one pending outbound message awaiting acknowledgement.
type sentEntry struct {
	packet *packets.PublishPacket
	pubrec bool   // QoS 2 only: PUBREC received, resend as PUBREL
	seq    uint64 // original send order, restored after a restart
}

// inflight tracks pending outbound and inbound messages and owns message
// identifier allocation. Identifiers in use are unique across sent entries
// and reserved subscribe/unsubscribe calls.
type inflight struct {
	sync.Mutex
	maxPending int
	nextID     uint16
	nextSeq    uint64
	sent       map[uint16]*sentEntry
	recv       map[uint16]*packets.PublishPacket
	reserved   map[uint16]struct{}
}

// newInflight returns an empty inflight tracker capped at maxPending
// concurrently pending identifiers.
func newInflight(maxPending int) *inflight {
	return &inflight{
		maxPending: maxPending,
		sent:       map[uint16]*sentEntry{},
		recv:       map[uint16]*packets.PublishPacket{},
		reserved:   map[uint16]struct{}{},
	}
}

// nextFreeID allocates the next free identifier, advancing monotonically
// with wraparound and skipping values in use. Callers must hold the lock.
func (i *inflight) nextFreeID() (uint16, error) {
	if len(i.sent)+len(i.reserved) >= i.maxPending {
		return 0, CodeTooManyInflight.Err(i.maxPending)
	}

	for {
		i.nextID++
		if i.nextID == 0 {
			i.nextID = 1 // zero is not a valid identifier
		}

		if _, ok := i.sent[i.nextID]; ok {
			continue
		}
		if _, ok := i.reserved[i.nextID]; ok {
			continue
		}

		return i.nextID, nil
	}
}

// addSent allocates an identifier for the packet and records it as pending
// with the next send sequence number.
func (i *inflight) addSent(pk *packets.PublishPacket) (uint16, error) {
	i.Lock()
	defer i.Unlock()

	id, err := i.nextFreeID()
	if err != nil {
		return 0, err
	}

	pk.PacketID = id
	i.nextSeq++
	i.sent[id] = &sentEntry{packet: pk, seq: i.nextSeq}

	return id, nil
}

// reserveID allocates an identifier for a subscribe or unsubscribe call.
func (i *inflight) reserveID() (uint16, error) {
	i.Lock()
	defer i.Unlock()

	id, err := i.nextFreeID()
	if err != nil {
		return 0, err
	}

	i.reserved[id] = struct{}{}
	return id, nil
}

// releaseID frees a reserved identifier.
func (i *inflight) releaseID(id uint16) {
	i.Lock()
	defer i.Unlock()
	delete(i.reserved, id)
}

// getSent returns the pending sent entry for an identifier.
func (i *inflight) getSent(id uint16) (*sentEntry, bool) {
	i.Lock()
	defer i.Unlock()

	e, ok := i.sent[id]
	return e, ok
}

// setPubrec marks the sent entry as having received its PUBREC. The entry is
// never re-sent as PUBLISH afterwards.
func (i *inflight) setPubrec(id uint16) (*sentEntry, bool) {
	i.Lock()
	defer i.Unlock()

	e, ok := i.sent[id]
	if ok {
		e.pubrec = true
	}
	return e, ok
}

// delSent removes and returns the pending sent entry for an identifier.
func (i *inflight) delSent(id uint16) (*sentEntry, bool) {
	i.Lock()
	defer i.Unlock()

	e, ok := i.sent[id]
	if ok {
		delete(i.sent, id)
	}
	return e, ok
}

// setRecv records a pending inbound QoS 2 message held until its PUBREL.
func (i *inflight) setRecv(id uint16, pk *packets.PublishPacket) {
	i.Lock()
	defer i.Unlock()
	i.recv[id] = pk
}

// delRecv removes and returns the pending inbound message for an identifier.
func (i *inflight) delRecv(id uint16) (*packets.PublishPacket, bool) {
	i.Lock()
	defer i.Unlock()

	pk, ok := i.recv[id]
	if ok {
		delete(i.recv, id)
	}
	return pk, ok
}

// sentOrdered returns the pending sent entries in original send order.
func (i *inflight) sentOrdered() []*sentEntry {
	i.Lock()
	defer i.Unlock()

	out := make([]*sentEntry, 0, len(i.sent))
	for _, e := range i.sent {
		out = append(out, e)
	}
	sort.Slice(out, func(a, b int) bool {
		return out[a].seq < out[b].seq
	})

	return out
}

// restoreSent files a sent entry recovered from the durable store, bumping
// the sequence counter past anything seen.
func (i *inflight) restoreSent(pk *packets.PublishPacket, pubrec bool, seq uint64) {
	i.Lock()
	defer i.Unlock()

	i.sent[pk.PacketID] = &sentEntry{packet: pk, pubrec: pubrec, seq: seq}
	if seq > i.nextSeq {
		i.nextSeq = seq
	}
}

// restoreRecv files an inbound entry recovered from the durable store.
func (i *inflight) restoreRecv(pk *packets.PublishPacket) {
	i.Lock()
	defer i.Unlock()
	i.recv[pk.PacketID] = pk
}

// clear drops all pending entries and reservations.
func (i *inflight) clear() {
	i.Lock()
	defer i.Unlock()

	i.sent = map[uint16]*sentEntry{}
	i.recv = map[uint16]*packets.PublishPacket{}
	i.reserved = map[uint16]struct{}{}
}

// lens returns the pending sent and received counts.
func (i *inflight) lens() (sent, recv int) {
	i.Lock()
	defer i.Unlock()
	return len(i.sent), len(i.recv)
}
