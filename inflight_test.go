// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

package mqttc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/camstream/mqttc/packets"
)

func pub(topic string, qos byte) *packets.PublishPacket {
	pk := &packets.PublishPacket{
		FixedHeader: packets.NewFixedHeader(packets.Publish),
		TopicName:   topic,
		Payload:     []byte("x"),
	}
	pk.Qos = qos
	return pk
}

func TestInflightAllocatesSequentialIDs(t *testing.T) {
	fl := newInflight(10)

	for want := uint16(1); want <= 3; want++ {
		pk := pub("t", 1)
		id, err := fl.addSent(pk)
		require.NoError(t, err)
		require.Equal(t, want, id)
		require.Equal(t, want, pk.PacketID)
	}
}

func TestInflightSkipsUsedIDs(t *testing.T) {
	fl := newInflight(10)
	fl.restoreSent(pubWithID("t", 1, 1), false, 1)
	fl.restoreSent(pubWithID("t", 1, 2), false, 2)

	id, err := fl.addSent(pub("t", 1))
	require.NoError(t, err)
	require.Equal(t, uint16(3), id)
}

func TestInflightWrapsAround(t *testing.T) {
	fl := newInflight(10)
	fl.nextID = maxPacketID - 1

	id, err := fl.addSent(pub("t", 1))
	require.NoError(t, err)
	require.Equal(t, uint16(maxPacketID), id)

	id, err = fl.addSent(pub("t", 1))
	require.NoError(t, err)
	require.Equal(t, uint16(1), id)
}

func TestInflightExhaustion(t *testing.T) {
	fl := newInflight(2)

	_, err := fl.addSent(pub("t", 1))
	require.NoError(t, err)
	_, err = fl.reserveID()
	require.NoError(t, err)

	_, err = fl.addSent(pub("t", 1))
	require.True(t, CodeTooManyInflight.Is(err))
	_, err = fl.reserveID()
	require.True(t, CodeTooManyInflight.Is(err))
}

func TestInflightReleaseFreesCapacity(t *testing.T) {
	fl := newInflight(1)

	id, err := fl.reserveID()
	require.NoError(t, err)

	_, err = fl.reserveID()
	require.True(t, CodeTooManyInflight.Is(err))

	fl.releaseID(id)
	_, err = fl.reserveID()
	require.NoError(t, err)
}

func TestInflightSentLifecycle(t *testing.T) {
	fl := newInflight(10)
	id, err := fl.addSent(pub("t", 2))
	require.NoError(t, err)

	e, ok := fl.getSent(id)
	require.True(t, ok)
	require.False(t, e.pubrec)

	e, ok = fl.setPubrec(id)
	require.True(t, ok)
	require.True(t, e.pubrec)

	e, ok = fl.delSent(id)
	require.True(t, ok)
	require.True(t, e.pubrec)

	_, ok = fl.delSent(id)
	require.False(t, ok)
}

func TestInflightRecvLifecycle(t *testing.T) {
	fl := newInflight(10)
	fl.setRecv(9, pubWithID("t", 2, 9))

	pk, ok := fl.delRecv(9)
	require.True(t, ok)
	require.Equal(t, uint16(9), pk.PacketID)

	_, ok = fl.delRecv(9)
	require.False(t, ok)
}

func TestInflightSentOrdered(t *testing.T) {
	fl := newInflight(10)
	fl.restoreSent(pubWithID("b", 1, 20), false, 7)
	fl.restoreSent(pubWithID("a", 1, 10), false, 3)
	fl.restoreSent(pubWithID("c", 2, 30), true, 9)

	ordered := fl.sentOrdered()
	require.Len(t, ordered, 3)
	require.Equal(t, "a", ordered[0].packet.TopicName)
	require.Equal(t, "b", ordered[1].packet.TopicName)
	require.Equal(t, "c", ordered[2].packet.TopicName)
}

func TestInflightRestoreBumpsSequence(t *testing.T) {
	fl := newInflight(10)
	fl.restoreSent(pubWithID("a", 1, 1), false, 5)

	id, err := fl.addSent(pub("b", 1))
	require.NoError(t, err)

	e, ok := fl.getSent(id)
	require.True(t, ok)
	require.Equal(t, uint64(6), e.seq)
}

func TestInflightClear(t *testing.T) {
	fl := newInflight(10)
	_, err := fl.addSent(pub("t", 1))
	require.NoError(t, err)
	fl.setRecv(5, pubWithID("t", 2, 5))
	_, err = fl.reserveID()
	require.NoError(t, err)

	fl.clear()
	sent, recv := fl.lens()
	require.Zero(t, sent)
	require.Zero(t, recv)
}

func pubWithID(topic string, qos byte, id uint16) *packets.PublishPacket {
	pk := pub(topic, qos)
	pk.PacketID = id
	return pk
}
