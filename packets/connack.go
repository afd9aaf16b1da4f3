// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

package packets

import (
	"bytes"
)

// ConnackPacket contains the values of an MQTT CONNACK packet.
type ConnackPacket struct {
	FixedHeader

	SessionPresent bool
	ReturnCode     byte
}

// Encode encodes and writes the packet data values to the buffer.
func (pk *ConnackPacket) Encode(buf *bytes.Buffer) error {
	pk.FixedHeader.Remaining = 2
	if err := pk.FixedHeader.Encode(buf); err != nil {
		return err
	}

	buf.WriteByte(encodeBool(pk.SessionPresent))
	buf.WriteByte(pk.ReturnCode)

	return nil
}

// Decode extracts the data values from the packet.
func (pk *ConnackPacket) Decode(buf []byte) error {
	var offset int
	var err error

	pk.SessionPresent, offset, err = decodeByteBool(buf, 0)
	if err != nil {
		return ErrMalformedSessionPresent
	}

	pk.ReturnCode, _, err = decodeByte(buf, offset)
	if err != nil {
		return ErrMalformedReturnCode
	}

	return nil
}
