// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

package packets

import (
	"bytes"
)

// SubscribePacket contains the values of an MQTT SUBSCRIBE packet.
type SubscribePacket struct {
	FixedHeader

	PacketID uint16
	Topics   []string
	Qoss     []byte
}

// Encode encodes and writes the packet data values to the buffer.
func (pk *SubscribePacket) Encode(buf *bytes.Buffer) error {
	if pk.PacketID == 0 {
		return ErrMissingPacketID
	}

	var body bytes.Buffer
	body.Write(encodeUint16(pk.PacketID))

	for i, topic := range pk.Topics {
		body.Write(encodeString(topic))
		if i < len(pk.Qoss) {
			body.WriteByte(pk.Qoss[i])
		} else {
			body.WriteByte(0)
		}
	}

	pk.FixedHeader.Remaining = body.Len()
	if err := pk.FixedHeader.Encode(buf); err != nil {
		return err
	}
	buf.Write(body.Bytes())

	return nil
}

// Decode extracts the data values from the packet.
func (pk *SubscribePacket) Decode(buf []byte) error {
	var offset int
	var err error

	pk.PacketID, offset, err = decodeUint16(buf, 0)
	if err != nil {
		return ErrMalformedPacketID
	}

	pk.Topics = nil
	pk.Qoss = nil
	for offset < len(buf) {
		var topic string
		topic, offset, err = decodeString(buf, offset)
		if err != nil {
			return ErrMalformedTopic
		}

		var qos byte
		qos, offset, err = decodeByte(buf, offset)
		if err != nil || qos > 2 {
			return ErrMalformedQoS
		}

		pk.Topics = append(pk.Topics, topic)
		pk.Qoss = append(pk.Qoss, qos)
	}

	return nil
}
