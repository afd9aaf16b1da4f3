// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

package packets

import (
	"bytes"
)

// SubackPacket contains the values of an MQTT SUBACK packet.
type SubackPacket struct {
	FixedHeader

	PacketID    uint16
	GrantedQoss []byte // one granted QoS per requested filter
}

// Encode encodes and writes the packet data values to the buffer.
func (pk *SubackPacket) Encode(buf *bytes.Buffer) error {
	if pk.PacketID == 0 {
		return ErrMissingPacketID
	}

	pk.FixedHeader.Remaining = 2 + len(pk.GrantedQoss)
	if err := pk.FixedHeader.Encode(buf); err != nil {
		return err
	}
	buf.Write(encodeUint16(pk.PacketID))
	buf.Write(pk.GrantedQoss)

	return nil
}

// Decode extracts the data values from the packet.
func (pk *SubackPacket) Decode(buf []byte) error {
	var offset int
	var err error

	pk.PacketID, offset, err = decodeUint16(buf, 0)
	if err != nil {
		return ErrMalformedPacketID
	}

	pk.GrantedQoss = append([]byte{}, buf[offset:]...)

	return nil
}
