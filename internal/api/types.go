package api

import (
	"github.com/stegavox/stegavox/domain/entities"
)

// AuthRequest is the token request for API clients
type AuthRequest struct {
	ClientID string `json:"client_id"`
}

// AuthResponse carries the issued bearer token
type AuthResponse struct {
	Token string `json:"token"`
}

// HideRequest is the JSON body for POST /api/v1/hide. Binary fields travel
// base64 encoded.
type HideRequest struct {
	MediaType      string  `json:"media_type"`
	Cover          string  `json:"cover"`
	Message        string  `json:"message"`
	Password       string  `json:"password"`
	PassphraseText string  `json:"passphrase_text"`
	VoiceSample    string  `json:"voice_sample"`
	Threshold      float64 `json:"threshold,omitempty"`
}

// HideResponse is the result of a successful hide
type HideResponse struct {
	Stego        string                      `json:"stego"`
	Filename     string                      `json:"filename"`
	SessionID    string                      `json:"session_id,omitempty"`
	Verification entities.VerificationResult `json:"verification"`
	Metrics      entities.SecurityMetrics    `json:"security_metrics"`
}

// RevealRequest is the JSON body for POST /api/v1/reveal
type RevealRequest struct {
	MediaType       string `json:"media_type"`
	Stego           string `json:"stego"`
	Password        string `json:"password"`
	VoiceSample     string `json:"voice_sample"`
	OriginalMessage string `json:"original_message,omitempty"`
	SessionID       string `json:"session_id,omitempty"`
}

// RevealResponse is the result of a successful reveal
type RevealResponse struct {
	Message    string                    `json:"message"`
	Transcript entities.Transcript       `json:"transcript"`
	Integrity  *entities.IntegrityRecord `json:"integrity,omitempty"`
}

// CapacityRequest is the JSON body for POST /api/v1/capacity
type CapacityRequest struct {
	MediaType string `json:"media_type"`
	Carrier   string `json:"carrier"`
}

// MetricsRequest is the JSON body for POST /api/v1/metrics
type MetricsRequest struct {
	Message  string `json:"message"`
	Password string `json:"password"`
}

// ErrorResponse is the uniform error body
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}
