// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

package packets

import (
	"bytes"
)

// DisconnectPacket contains the values of an MQTT DISCONNECT packet.
type DisconnectPacket struct {
	FixedHeader
}

// Encode encodes and writes the packet data values to the buffer.
func (pk *DisconnectPacket) Encode(buf *bytes.Buffer) error {
	pk.FixedHeader.Remaining = 0
	return pk.FixedHeader.Encode(buf)
}

// Decode extracts the data values from the packet.
func (pk *DisconnectPacket) Decode(buf []byte) error {
	return nil
}
