// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/camstream/mqttc/packets"
)

func TestIdentityAndKeys(t *testing.T) {
	require.Equal(t, "cam.example.net:1883/cam1", Identity("cam.example.net", 1883, "cam1"))
	require.Equal(t, "sent/17", SentKey(17))
	require.Equal(t, "recv/17", ReceivedKey(17))

	dir, id, err := SplitKey("sent/17")
	require.NoError(t, err)
	require.Equal(t, DirSent, dir)
	require.Equal(t, uint16(17), id)

	dir, id, err = SplitKey("recv/65535")
	require.NoError(t, err)
	require.Equal(t, DirReceived, dir)
	require.Equal(t, uint16(65535), id)

	_, _, err = SplitKey("bogus/1")
	require.Error(t, err)

	_, _, err = SplitKey("sent/notanumber")
	require.Error(t, err)
}

func TestRecordRoundTrip(t *testing.T) {
	pk := &packets.PublishPacket{
		FixedHeader: packets.NewFixedHeader(packets.Publish),
		TopicName:   "cam/ptz",
		PacketID:    17,
		Payload:     []byte{0x01, 0xFF, 0x00},
	}
	pk.Qos = 2
	pk.Retain = true

	r := NewRecord(pk, 9, true)
	require.Equal(t, SchemaVersion, r.Version)
	require.Equal(t, "01ff00", r.Payload)
	require.Equal(t, uint64(9), r.Seq)
	require.True(t, r.Pubrec)

	data, err := r.MarshalBinary()
	require.NoError(t, err)

	var back Record
	require.NoError(t, back.UnmarshalBinary(data))
	require.Equal(t, r, back)

	got, err := back.Packet()
	require.NoError(t, err)
	require.Equal(t, pk, got)
}

func TestRecordValidate(t *testing.T) {
	pk := &packets.PublishPacket{FixedHeader: packets.NewFixedHeader(packets.Publish), TopicName: "t"}

	r := NewRecord(pk, 0, false)
	require.NoError(t, r.Validate())

	r.T = packets.Subscribe
	require.ErrorIs(t, r.Validate(), ErrUnsupportedPacket)

	r = NewRecord(pk, 0, false)
	r.Version = "99"
	require.ErrorIs(t, r.Validate(), ErrUnknownSchema)
	_, err := r.Packet()
	require.ErrorIs(t, err, ErrUnknownSchema)
}
