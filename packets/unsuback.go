// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

package packets

import (
	"bytes"
)

// UnsubackPacket contains the values of an MQTT UNSUBACK packet.
type UnsubackPacket struct {
	FixedHeader

	PacketID uint16
}

// Encode encodes and writes the packet data values to the buffer.
func (pk *UnsubackPacket) Encode(buf *bytes.Buffer) error {
	return encodeAck(&pk.FixedHeader, pk.PacketID, buf)
}

// Decode extracts the data values from the packet.
func (pk *UnsubackPacket) Decode(buf []byte) error {
	return decodeAck(buf, &pk.PacketID)
}
