// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

package packets

import (
	"bytes"
	"fmt"
)

// ConnectPacket contains the values of an MQTT CONNECT packet.
type ConnectPacket struct {
	FixedHeader

	ProtocolName     string
	ProtocolVersion  byte
	CleanSession     bool
	WillFlag         bool
	WillQos          byte
	WillRetain       bool
	UsernameFlag     bool
	PasswordFlag     bool
	Keepalive        uint16
	ClientIdentifier string
	WillTopic        string
	WillMessage      []byte // a payload, so stored as a byte array
	Username         string
	Password         string
}

// NewConnectPacket returns a CONNECT packet for the given client id with the
// fixed protocol identifier and level preset.
func NewConnectPacket(clientID string) *ConnectPacket {
	return &ConnectPacket{
		FixedHeader:      NewFixedHeader(Connect),
		ProtocolName:     ProtocolName,
		ProtocolVersion:  ProtocolVersion,
		ClientIdentifier: clientID,
	}
}

// Encode encodes and writes the packet data values to the buffer.
func (pk *ConnectPacket) Encode(buf *bytes.Buffer) error {
	var body bytes.Buffer

	body.Write(encodeString(pk.ProtocolName))
	body.WriteByte(pk.ProtocolVersion)
	body.WriteByte(encodeBool(pk.CleanSession)<<1 | encodeBool(pk.WillFlag)<<2 | pk.WillQos<<3 | encodeBool(pk.WillRetain)<<5 | encodeBool(pk.PasswordFlag)<<6 | encodeBool(pk.UsernameFlag)<<7)
	body.Write(encodeUint16(pk.Keepalive))
	body.Write(encodeString(pk.ClientIdentifier))

	if pk.WillFlag {
		body.Write(encodeString(pk.WillTopic))
		body.Write(encodeBytes(pk.WillMessage))
	}

	if pk.UsernameFlag {
		body.Write(encodeString(pk.Username))
	}

	if pk.PasswordFlag {
		body.Write(encodeString(pk.Password))
	}

	pk.FixedHeader.Remaining = body.Len()
	if err := pk.FixedHeader.Encode(buf); err != nil {
		return err
	}
	buf.Write(body.Bytes())

	return nil
}

// Decode extracts the data values from the packet.
func (pk *ConnectPacket) Decode(buf []byte) error {
	var offset int
	var err error

	pk.ProtocolName, offset, err = decodeString(buf, 0)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedProtocolName, err)
	}

	pk.ProtocolVersion, offset, err = decodeByte(buf, offset)
	if err != nil {
		return ErrMalformedProtocolVersion
	}

	flags, offset, err := decodeByte(buf, offset)
	if err != nil {
		return ErrMalformedFlags
	}
	pk.CleanSession = flags&(1<<1) > 0
	pk.WillFlag = flags&(1<<2) > 0
	pk.WillQos = (flags >> 3) & 0x03
	pk.WillRetain = flags&(1<<5) > 0
	pk.PasswordFlag = flags&(1<<6) > 0
	pk.UsernameFlag = flags&(1<<7) > 0

	pk.Keepalive, offset, err = decodeUint16(buf, offset)
	if err != nil {
		return ErrMalformedKeepalive
	}

	pk.ClientIdentifier, offset, err = decodeString(buf, offset)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedClientID, err)
	}

	if pk.WillFlag {
		pk.WillTopic, offset, err = decodeString(buf, offset)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrMalformedWillTopic, err)
		}

		// The will payload is opaque bytes, not a validated string.
		pk.WillMessage, offset, err = decodeBytes(buf, offset)
		if err != nil {
			return ErrMalformedWillMessage
		}
	}

	if pk.UsernameFlag {
		pk.Username, offset, err = decodeString(buf, offset)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrMalformedUsername, err)
		}
	}

	if pk.PasswordFlag {
		pk.Password, _, err = decodeString(buf, offset)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrMalformedPassword, err)
		}
	}

	return nil
}
