// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

package packets

import (
	"bytes"
)

// UnsubscribePacket contains the values of an MQTT UNSUBSCRIBE packet.
type UnsubscribePacket struct {
	FixedHeader

	PacketID uint16
	Topics   []string
}

// Encode encodes and writes the packet data values to the buffer.
func (pk *UnsubscribePacket) Encode(buf *bytes.Buffer) error {
	if pk.PacketID == 0 {
		return ErrMissingPacketID
	}

	var body bytes.Buffer
	body.Write(encodeUint16(pk.PacketID))

	for _, topic := range pk.Topics {
		body.Write(encodeString(topic))
	}

	pk.FixedHeader.Remaining = body.Len()
	if err := pk.FixedHeader.Encode(buf); err != nil {
		return err
	}
	buf.Write(body.Bytes())

	return nil
}

// Decode extracts the data values from the packet.
func (pk *UnsubscribePacket) Decode(buf []byte) error {
	var offset int
	var err error

	pk.PacketID, offset, err = decodeUint16(buf, 0)
	if err != nil {
		return ErrMalformedPacketID
	}

	pk.Topics = nil
	for offset < len(buf) {
		var topic string
		topic, offset, err = decodeString(buf, offset)
		if err != nil {
			return ErrMalformedTopic
		}

		pk.Topics = append(pk.Topics, topic)
	}

	return nil
}
