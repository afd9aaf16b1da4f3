// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

package packets

import (
	"bytes"
)

// MaxRemainingLength is the largest value encodable in the variable-length
// remaining-length field (4 digits of 7 bits each).
const MaxRemainingLength = 268435455

// FixedHeader contains the values of the fixed header portion of a packet.
type FixedHeader struct {

	// Type is the type of the packet (PUBLISH, SUBSCRIBE, etc) from bits 7-4 of byte 1.
	Type byte

	// Dup indicates the packet is a redelivery of an earlier attempt.
	Dup bool

	// Qos indicates the quality of service expected.
	Qos byte

	// Retain indicates whether the message should be retained.
	Retain bool

	// Remaining is the number of bytes following the fixed header.
	Remaining int
}

// NewFixedHeader returns a fixed header for the given packet type with the
// mandatory flag nibble preset where the type requires it.
func NewFixedHeader(t byte) FixedHeader {
	fh := FixedHeader{Type: t}
	if t == Subscribe || t == Unsubscribe || t == Pubrel {
		fh.Qos = 1 // flag nibble 0x02
	}

	return fh
}

// Encode writes the fixed header, remaining-length digits included, to the buffer.
func (fh *FixedHeader) Encode(buf *bytes.Buffer) error {
	if fh.Remaining > MaxRemainingLength {
		return ErrOversizedLengthIndicator
	}

	buf.WriteByte(fh.Type<<4 | encodeBool(fh.Dup)<<3 | fh.Qos<<1 | encodeBool(fh.Retain))
	encodeLength(buf, fh.Remaining)
	return nil
}

// Decode extracts the type and flag bits from the first header byte. The
// remaining-length digits which follow are decoded separately via decodeLength.
func (fh *FixedHeader) Decode(headerByte byte) error {
	fh.Type = headerByte >> 4

	switch fh.Type {
	case Publish:
		fh.Dup = (headerByte>>3)&0x01 > 0
		fh.Qos = (headerByte >> 1) & 0x03
		fh.Retain = headerByte&0x01 > 0
		if fh.Qos == 3 {
			return ErrMalformedQoS
		}

	case Pubrel, Subscribe, Unsubscribe:
		fh.Qos = (headerByte >> 1) & 0x03

	default:
		// Flag bits are reserved for the remaining types and must be zero.
		if headerByte&0x0F > 0 {
			return ErrInvalidFlags
		}
	}

	return nil
}

// encodeLength writes the remaining-length digits, 7 bits per byte with the
// high bit indicating continuation, least significant digit first.
func encodeLength(buf *bytes.Buffer, length int) {
	for {
		digit := byte(length % 128)
		length /= 128
		if length > 0 {
			digit |= 0x80
		}
		buf.WriteByte(digit)
		if length == 0 {
			break
		}
	}
}

// decodeLength reads a remaining-length value beginning at offset, returning
// the value and the offset of the first byte after the final digit.
func decodeLength(buf []byte, offset int) (int, int, error) {
	var value, multiplier int
	for {
		if offset >= len(buf) {
			return 0, 0, ErrInsufficientBytes
		}
		if multiplier > 21 { // more than 4 digits
			return 0, 0, ErrOversizedLengthIndicator
		}

		digit := buf[offset]
		offset++
		value |= int(digit&0x7F) << multiplier
		if digit&0x80 == 0 {
			return value, offset, nil
		}
		multiplier += 7
	}
}
