// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

package packets

import (
	"bytes"
)

// PublishPacket contains the values of an MQTT PUBLISH packet.
type PublishPacket struct {
	FixedHeader

	TopicName string
	PacketID  uint16
	Payload   []byte
}

// Encode encodes and writes the packet data values to the buffer.
func (pk *PublishPacket) Encode(buf *bytes.Buffer) error {
	var body bytes.Buffer

	body.Write(encodeString(pk.TopicName))

	// A packet identifier is present iff QoS > 0, and must be non-zero.
	if pk.Qos > 0 {
		if pk.PacketID == 0 {
			return ErrMissingPacketID
		}

		body.Write(encodeUint16(pk.PacketID))
	}

	pk.FixedHeader.Remaining = body.Len() + len(pk.Payload)
	if err := pk.FixedHeader.Encode(buf); err != nil {
		return err
	}
	buf.Write(body.Bytes())
	buf.Write(pk.Payload)

	return nil
}

// Decode extracts the data values from the packet. The QoS governing whether a
// packet id is present was reconstructed from the fixed header flags.
func (pk *PublishPacket) Decode(buf []byte) error {
	var offset int
	var err error

	pk.TopicName, offset, err = decodeString(buf, 0)
	if err != nil {
		return ErrMalformedTopic
	}

	if pk.Qos > 0 {
		pk.PacketID, offset, err = decodeUint16(buf, offset)
		if err != nil {
			return ErrMalformedPacketID
		}
	}

	// Everything remaining is payload; its extent is bounded by the
	// remaining length, not a prefix.
	pk.Payload = buf[offset:]

	return nil
}

// Copy returns a duplicate of the packet bearing the same topic and payload
// but a fresh fixed header, for inheriting new QoS and DUP flags.
func (pk *PublishPacket) Copy() *PublishPacket {
	return &PublishPacket{
		FixedHeader: NewFixedHeader(Publish),
		TopicName:   pk.TopicName,
		Payload:     pk.Payload,
	}
}
