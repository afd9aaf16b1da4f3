// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

package packets

import (
	"bytes"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"
)

const (
	surrHighStart = 0xD800
	surrLowStart  = 0xDC00
	surrEnd       = 0xE000
)

// EncodeUTF16 transcodes UTF-16 code units into UTF-8 bytes. Codepoints above
// U+FFFF arrive as surrogate pairs and become 4-byte UTF-8 sequences. An
// unpaired surrogate fails.
func EncodeUTF16(units []uint16) ([]byte, error) {
	var buf bytes.Buffer
	for i := 0; i < len(units); i++ {
		u := units[i]
		switch {
		case u >= surrHighStart && u < surrLowStart:
			if i+1 >= len(units) || units[i+1] < surrLowStart || units[i+1] >= surrEnd {
				return nil, fmt.Errorf("%w: 0x%04X", ErrUnpairedSurrogate, u)
			}
			buf.WriteRune(utf16.DecodeRune(rune(u), rune(units[i+1])))
			i++

		case u >= surrLowStart && u < surrEnd:
			return nil, fmt.Errorf("%w: 0x%04X", ErrUnpairedSurrogate, u)

		default:
			buf.WriteRune(rune(u))
		}
	}

	return buf.Bytes(), nil
}

// DecodeUTF16 transcodes UTF-8 bytes into UTF-16 code units, producing a
// surrogate pair for each 4-byte sequence. Malformed input fails with the
// offending bytes identified in hex.
func DecodeUTF16(b []byte) ([]uint16, error) {
	if err := ValidateUTF8(b); err != nil {
		return nil, err
	}

	units := make([]uint16, 0, len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size <= 1 {
			return nil, fmt.Errorf("%w: 0x%02X", ErrMalformedUTF8, b[0])
		}

		if r > 0xFFFF {
			hi, lo := utf16.EncodeRune(r)
			units = append(units, uint16(hi), uint16(lo))
		} else {
			units = append(units, uint16(r))
		}
		b = b[size:]
	}

	return units, nil
}
