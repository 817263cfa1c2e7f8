package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrMarkerNotFound is returned when extraction finds no end marker in the carrier.
	ErrMarkerNotFound = errors.New("end marker not found, carrier does not hold a message")
	// ErrUnsupportedMedia is returned for media types that cannot host embedded payloads.
	ErrUnsupportedMedia = errors.New("unsupported media type")
)

// CapacityError reports a payload that does not fit into the carrier.
type CapacityError struct {
	RequiredBits  int
	AvailableBits int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("message too large: needs %d bits, carrier holds %d bits", e.RequiredBits, e.AvailableBits)
}

// DecryptionError reports a failed decryption. The reason never includes the
// password or any plaintext.
type DecryptionError struct {
	Reason string
}

func (e *DecryptionError) Error() string {
	return fmt.Sprintf("decryption failed: %s", e.Reason)
}

// AuthenticationError reports a voice verification that did not clear the
// similarity threshold.
type AuthenticationError struct {
	ExpectedText    string
	TranscribedText string
	Score           float64
	Threshold       float64
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("voice authentication failed: similarity %.2f below threshold %.2f", e.Score, e.Threshold)
}
