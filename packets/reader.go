// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

package packets

import (
	"bufio"
	"io"
)

// ReadFrame reads one complete framed control packet from a byte stream and
// returns its raw bytes, fixed header included. It is used by stream
// transports to recover the message framing that datagram transports get
// for free.
func ReadFrame(r *bufio.Reader) ([]byte, error) {
	header, err := r.ReadByte()
	if err != nil {
		return nil, err
	}

	frame := make([]byte, 1, 5)
	frame[0] = header

	var length, multiplier int
	for {
		if multiplier > 21 { // more than 4 digits
			return nil, ErrOversizedLengthIndicator
		}

		digit, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		frame = append(frame, digit)

		length |= int(digit&0x7F) << multiplier
		if digit&0x80 == 0 {
			break
		}
		multiplier += 7
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}

	return append(frame, body...), nil
}
