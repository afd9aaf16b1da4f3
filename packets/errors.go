// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

package packets

import (
	"errors"
)

// CONNACK return codes.
const (
	Accepted                      byte = 0x00
	CodeConnectBadProtocolVersion byte = 0x01
	CodeConnectBadClientID        byte = 0x02
	CodeConnectServerUnavailable  byte = 0x03
	CodeConnectBadAuthValues      byte = 0x04
	CodeConnectNotAuthorised      byte = 0x05
)

// ConnackReasons maps CONNACK return codes to human-readable reasons.
var ConnackReasons = map[byte]string{
	0: "Connection Accepted",
	1: "Connection Refused: unacceptable protocol version",
	2: "Connection Refused: identifier rejected",
	3: "Connection Refused: server unavailable",
	4: "Connection Refused: bad user name or password",
	5: "Connection Refused: not authorized",
}

var (
	// CONNECT
	ErrMalformedProtocolName    = errors.New("malformed packet: protocol name")
	ErrMalformedProtocolVersion = errors.New("malformed packet: protocol version")
	ErrMalformedFlags           = errors.New("malformed packet: flags")
	ErrMalformedKeepalive       = errors.New("malformed packet: keepalive")
	ErrMalformedClientID        = errors.New("malformed packet: client id")
	ErrMalformedWillTopic       = errors.New("malformed packet: will topic")
	ErrMalformedWillMessage     = errors.New("malformed packet: will message")
	ErrMalformedUsername        = errors.New("malformed packet: username")
	ErrMalformedPassword        = errors.New("malformed packet: password")

	// CONNACK
	ErrMalformedSessionPresent = errors.New("malformed packet: session present")
	ErrMalformedReturnCode     = errors.New("malformed packet: return code")

	// PUBLISH
	ErrMalformedTopic    = errors.New("malformed packet: topic name")
	ErrMalformedPacketID = errors.New("malformed packet: packet id")

	// SUBSCRIBE
	ErrMalformedQoS = errors.New("malformed packet: qos")

	// Strings
	ErrMalformedUTF8      = errors.New("malformed UTF data")
	ErrMalformedString    = errors.New("malformed string")
	ErrUnpairedSurrogate  = errors.New("malformed string: unpaired surrogate")
	ErrStringContainsNull = errors.New("malformed string: embedded null")

	// Framing
	ErrInvalidPacketType        = errors.New("invalid packet type")
	ErrInvalidFlags             = errors.New("invalid flags set for packet")
	ErrInsufficientBytes        = errors.New("insufficient bytes in buffer")
	ErrOversizedLengthIndicator = errors.New("protocol violation: oversized length indicator")
	ErrMalformedRemainingLength = errors.New("malformed packet: remaining length")
	ErrMissingPacketID          = errors.New("missing packet id")
)
