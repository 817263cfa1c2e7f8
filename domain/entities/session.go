package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// HideSessionStatus represents the status of a hide session
type HideSessionStatus string

const (
	HideSessionStatusActive   HideSessionStatus = "active"
	HideSessionStatusRevealed HideSessionStatus = "revealed"
	HideSessionStatusExpired  HideSessionStatus = "expired"
)

// HideSession retains the hide-time context a caller needs to run an
// integrity check at reveal time. It stores only the message hash and the
// passphrase text, never the plaintext or the password.
type HideSession struct {
	ID             string            `json:"id" bson:"_id"`
	MediaType      MediaType         `json:"media_type" bson:"media_type"`
	MessageHash    string            `json:"message_hash" bson:"message_hash"`
	PassphraseText string            `json:"passphrase_text" bson:"passphrase_text"`
	StegoFilename  string            `json:"stego_filename" bson:"stego_filename"`
	CreatedAt      time.Time         `json:"created_at" bson:"created_at"`
	ExpiresAt      time.Time         `json:"expires_at" bson:"expires_at"`
	Status         HideSessionStatus `json:"status" bson:"status"`
}

// NewHideSession creates a hide session for a freshly produced stego carrier
func NewHideSession(mediaType MediaType, messageHash, passphraseText, stegoFilename string) *HideSession {
	now := time.Now()
	return &HideSession{
		ID:             uuid.NewString(),
		MediaType:      mediaType,
		MessageHash:    messageHash,
		PassphraseText: passphraseText,
		StegoFilename:  stegoFilename,
		CreatedAt:      now,
		ExpiresAt:      now.Add(24 * time.Hour),
		Status:         HideSessionStatusActive,
	}
}

// MarkRevealed records that the hidden message was successfully revealed
func (s *HideSession) MarkRevealed() {
	s.Status = HideSessionStatusRevealed
}

// IsExpired checks if the session has expired
func (s *HideSession) IsExpired() bool {
	return time.Now().After(s.ExpiresAt) || s.Status == HideSessionStatusExpired
}

// Validate validates the session data
func (s *HideSession) Validate() error {
	if s.ID == "" {
		return errors.New("id is required")
	}

	if s.MessageHash == "" {
		return errors.New("message_hash is required")
	}

	switch s.Status {
	case HideSessionStatusActive, HideSessionStatusRevealed, HideSessionStatusExpired:
	default:
		return errors.New("invalid session status")
	}

	return nil
}
