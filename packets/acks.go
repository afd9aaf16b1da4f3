// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

package packets

import (
	"bytes"
)

// The four publish acknowledgement packets share a two-byte body holding only
// a packet identifier; PUBREL additionally carries the 0x02 flag nibble.

// PubackPacket contains the values of an MQTT PUBACK packet.
type PubackPacket struct {
	FixedHeader

	PacketID uint16
}

// Encode encodes and writes the packet data values to the buffer.
func (pk *PubackPacket) Encode(buf *bytes.Buffer) error {
	return encodeAck(&pk.FixedHeader, pk.PacketID, buf)
}

// Decode extracts the data values from the packet.
func (pk *PubackPacket) Decode(buf []byte) error {
	return decodeAck(buf, &pk.PacketID)
}

// PubrecPacket contains the values of an MQTT PUBREC packet.
type PubrecPacket struct {
	FixedHeader

	PacketID uint16
}

// Encode encodes and writes the packet data values to the buffer.
func (pk *PubrecPacket) Encode(buf *bytes.Buffer) error {
	return encodeAck(&pk.FixedHeader, pk.PacketID, buf)
}

// Decode extracts the data values from the packet.
func (pk *PubrecPacket) Decode(buf []byte) error {
	return decodeAck(buf, &pk.PacketID)
}

// PubrelPacket contains the values of an MQTT PUBREL packet.
type PubrelPacket struct {
	FixedHeader

	PacketID uint16
}

// Encode encodes and writes the packet data values to the buffer.
func (pk *PubrelPacket) Encode(buf *bytes.Buffer) error {
	return encodeAck(&pk.FixedHeader, pk.PacketID, buf)
}

// Decode extracts the data values from the packet.
func (pk *PubrelPacket) Decode(buf []byte) error {
	return decodeAck(buf, &pk.PacketID)
}

// PubcompPacket contains the values of an MQTT PUBCOMP packet.
type PubcompPacket struct {
	FixedHeader

	PacketID uint16
}

// Encode encodes and writes the packet data values to the buffer.
func (pk *PubcompPacket) Encode(buf *bytes.Buffer) error {
	return encodeAck(&pk.FixedHeader, pk.PacketID, buf)
}

// Decode extracts the data values from the packet.
func (pk *PubcompPacket) Decode(buf []byte) error {
	return decodeAck(buf, &pk.PacketID)
}

func encodeAck(fh *FixedHeader, id uint16, buf *bytes.Buffer) error {
	if id == 0 {
		return ErrMissingPacketID
	}

	fh.Remaining = 2
	if err := fh.Encode(buf); err != nil {
		return err
	}
	buf.Write(encodeUint16(id))

	return nil
}

func decodeAck(buf []byte, id *uint16) error {
	v, _, err := decodeUint16(buf, 0)
	if err != nil {
		return ErrMalformedPacketID
	}
	*id = v

	return nil
}
