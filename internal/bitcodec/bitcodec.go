// Package bitcodec converts text to and from the bit stream representation
// used for LSB embedding, and frames payloads with the end marker that tells
// extraction where the hidden message stops.
package bitcodec

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/stegavox/stegavox/domain/entities"
)

// endMarker is the 16-bit terminator 1010101010101010 appended after the
// payload bits.
var endMarker = []byte{1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0}

// EndMarker returns a copy of the framing marker bit pattern.
func EndMarker() []byte {
	marker := make([]byte, len(endMarker))
	copy(marker, endMarker)
	return marker
}

// Encode expands each UTF-8 byte of text into eight bits, most significant
// first. The returned slice holds one 0/1 value per bit.
func Encode(text string) []byte {
	raw := []byte(text)
	bits := make([]byte, 0, len(raw)*8)
	for _, b := range raw {
		for shift := 7; shift >= 0; shift-- {
			bits = append(bits, (b>>uint(shift))&1)
		}
	}
	return bits
}

// Decode reassembles bits into bytes and decodes them as UTF-8. A trailing
// group shorter than eight bits is dropped. Invalid UTF-8 sequences are
// substituted rather than failing, so Decode is total.
func Decode(bits []byte) string {
	raw := make([]byte, 0, len(bits)/8)
	for i := 0; i+8 <= len(bits); i += 8 {
		var b byte
		for j := 0; j < 8; j++ {
			b = b<<1 | bits[i+j]
		}
		raw = append(raw, b)
	}
	if utf8.Valid(raw) {
		return string(raw)
	}
	return strings.ToValidUTF8(string(raw), "")
}

// Frame appends the end marker after the payload bits.
func Frame(bits []byte) []byte {
	framed := make([]byte, 0, len(bits)+len(endMarker))
	framed = append(framed, bits...)
	framed = append(framed, endMarker...)
	return framed
}

// Unframe returns the payload up to the first occurrence of the end marker.
// If the marker pattern happens to occur inside the payload itself the
// message is truncated early; that is a known limitation of the framing
// scheme. A missing marker yields entities.ErrMarkerNotFound.
func Unframe(bits []byte) ([]byte, error) {
	pos := bytes.Index(bits, endMarker)
	if pos == -1 {
		return nil, entities.ErrMarkerNotFound
	}
	return bits[:pos], nil
}
