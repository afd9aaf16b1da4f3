// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

// Package packets implements the MQTT v3.1 control packet wire format.
package packets

import (
	"bytes"
	"fmt"
)

// ProtocolName is the protocol identifier carried in the CONNECT variable header.
const ProtocolName = "MQIsdp"

// ProtocolVersion is the protocol level for MQTT v3.1.
const ProtocolVersion byte = 3

// All of the valid packet types and their packet identifiers.
const (
	Reserved    byte = iota
	Connect          // 1
	Connack          // 2
	Publish          // 3
	Puback           // 4
	Pubrec           // 5
	Pubrel           // 6
	Pubcomp          // 7
	Subscribe        // 8
	Suback           // 9
	Unsubscribe      // 10
	Unsuback         // 11
	Pingreq          // 12
	Pingresp         // 13
	Disconnect       // 14
)

// Names provides human-readable names for the different packet types.
var Names = map[byte]string{
	0:  "RESERVED",
	1:  "CONNECT",
	2:  "CONNACK",
	3:  "PUBLISH",
	4:  "PUBACK",
	5:  "PUBREC",
	6:  "PUBREL",
	7:  "PUBCOMP",
	8:  "SUBSCRIBE",
	9:  "SUBACK",
	10: "UNSUBSCRIBE",
	11: "UNSUBACK",
	12: "PINGREQ",
	13: "PINGRESP",
	14: "DISCONNECT",
}

// Packet is the base interface all control packets implement.
type Packet interface {

	// Encode encodes the packet, fixed header included, into a byte buffer.
	Encode(*bytes.Buffer) error

	// Decode decodes the variable header and payload of a packet. The fixed
	// header is expected to have been decoded separately, and the buffer to
	// contain exactly the remaining-length bytes.
	Decode([]byte) error
}

// NewPacket returns a zeroed packet of the given type with its fixed header
// prepared, or nil for an unknown type.
func NewPacket(t byte) Packet {
	switch t {
	case Connect:
		return &ConnectPacket{FixedHeader: NewFixedHeader(Connect)}
	case Connack:
		return &ConnackPacket{FixedHeader: NewFixedHeader(Connack)}
	case Publish:
		return &PublishPacket{FixedHeader: NewFixedHeader(Publish)}
	case Puback:
		return &PubackPacket{FixedHeader: NewFixedHeader(Puback)}
	case Pubrec:
		return &PubrecPacket{FixedHeader: NewFixedHeader(Pubrec)}
	case Pubrel:
		return &PubrelPacket{FixedHeader: NewFixedHeader(Pubrel)}
	case Pubcomp:
		return &PubcompPacket{FixedHeader: NewFixedHeader(Pubcomp)}
	case Subscribe:
		return &SubscribePacket{FixedHeader: NewFixedHeader(Subscribe)}
	case Suback:
		return &SubackPacket{FixedHeader: NewFixedHeader(Suback)}
	case Unsubscribe:
		return &UnsubscribePacket{FixedHeader: NewFixedHeader(Unsubscribe)}
	case Unsuback:
		return &UnsubackPacket{FixedHeader: NewFixedHeader(Unsuback)}
	case Pingreq:
		return &PingreqPacket{FixedHeader: NewFixedHeader(Pingreq)}
	case Pingresp:
		return &PingrespPacket{FixedHeader: NewFixedHeader(Pingresp)}
	case Disconnect:
		return &DisconnectPacket{FixedHeader: NewFixedHeader(Disconnect)}
	}

	return nil
}

// Decode decodes one complete framed control packet, fixed header included.
func Decode(raw []byte) (Packet, error) {
	if len(raw) < 2 {
		return nil, ErrInsufficientBytes
	}

	fh := new(FixedHeader)
	err := fh.Decode(raw[0])
	if err != nil {
		return nil, err
	}

	length, n, err := decodeLength(raw, 1)
	if err != nil {
		return nil, err
	}

	if n+length != len(raw) {
		return nil, fmt.Errorf("%w: remaining length %d, have %d", ErrMalformedRemainingLength, length, len(raw)-n)
	}
	fh.Remaining = length

	pk := NewPacket(fh.Type)
	if pk == nil {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPacketType, fh.Type)
	}

	setFixedHeader(pk, *fh)
	err = pk.Decode(raw[n:])
	if err != nil {
		return nil, err
	}

	return pk, nil
}

// setFixedHeader installs a decoded fixed header into a packet struct.
func setFixedHeader(pk Packet, fh FixedHeader) {
	switch p := pk.(type) {
	case *ConnectPacket:
		p.FixedHeader = fh
	case *ConnackPacket:
		p.FixedHeader = fh
	case *PublishPacket:
		p.FixedHeader = fh
	case *PubackPacket:
		p.FixedHeader = fh
	case *PubrecPacket:
		p.FixedHeader = fh
	case *PubrelPacket:
		p.FixedHeader = fh
	case *PubcompPacket:
		p.FixedHeader = fh
	case *SubscribePacket:
		p.FixedHeader = fh
	case *SubackPacket:
		p.FixedHeader = fh
	case *UnsubscribePacket:
		p.FixedHeader = fh
	case *UnsubackPacket:
		p.FixedHeader = fh
	case *PingreqPacket:
		p.FixedHeader = fh
	case *PingrespPacket:
		p.FixedHeader = fh
	case *DisconnectPacket:
		p.FixedHeader = fh
	}
}
