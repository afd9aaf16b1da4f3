// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

package packets

import (
	"bytes"
)

// PingreqPacket contains the values of an MQTT PINGREQ packet.
type PingreqPacket struct {
	FixedHeader
}

// Encode encodes and writes the packet data values to the buffer.
func (pk *PingreqPacket) Encode(buf *bytes.Buffer) error {
	pk.FixedHeader.Remaining = 0
	return pk.FixedHeader.Encode(buf)
}

// Decode extracts the data values from the packet.
func (pk *PingreqPacket) Decode(buf []byte) error {
	return nil
}

// PingrespPacket contains the values of an MQTT PINGRESP packet.
type PingrespPacket struct {
	FixedHeader
}

// Encode encodes and writes the packet data values to the buffer.
func (pk *PingrespPacket) Encode(buf *bytes.Buffer) error {
	pk.FixedHeader.Remaining = 0
	return pk.FixedHeader.Encode(buf)
}

// Decode extracts the data values from the packet.
func (pk *PingrespPacket) Decode(buf []byte) error {
	return nil
}
