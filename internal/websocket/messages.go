package websocket

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/stegavox/stegavox/domain/entities"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Supported message types
const (
	MessageTypeVerifyStart        MessageType = "verify_start"
	MessageTypeVerifyStarted      MessageType = "verify_started"
	MessageTypeAudioChunk         MessageType = "audio_chunk"
	MessageTypeVerificationResult MessageType = "verification_result"
	MessageTypePing               MessageType = "ping"
	MessageTypePong               MessageType = "pong"
	MessageTypeError              MessageType = "error"
)

// BaseMessage defines the common structure for all WebSocket messages
type BaseMessage struct {
	Type      MessageType `json:"type"`
	Timestamp string      `json:"timestamp"`
	MessageID string      `json:"message_id,omitempty"`
}

// VerifyStartMessage opens a verification attempt over the connection
type VerifyStartMessage struct {
	BaseMessage
	ExpectedText string  `json:"expected_text"`
	Threshold    float64 `json:"threshold,omitempty"`
	SampleRate   int     `json:"sample_rate,omitempty"`
	Encoding     string  `json:"encoding,omitempty"`
}

// AudioChunkMessage carries one chunk of the spoken passphrase
type AudioChunkMessage struct {
	BaseMessage
	AudioData string `json:"audio_data"` // base64 encoded
	ChunkSeq  int    `json:"chunk_sequence,omitempty"`
	IsFinal   bool   `json:"is_final"`
}

// VerifyStartedMessage acknowledges that the recognizer stream is open
type VerifyStartedMessage struct {
	BaseMessage
	SampleRate int    `json:"sample_rate"`
	Encoding   string `json:"encoding"`
}

// VerificationResultMessage carries the gate decision for the attempt
type VerificationResultMessage struct {
	BaseMessage
	Result entities.VerificationResult `json:"result"`
}

// PingMessage represents a ping message for connection health check
type PingMessage struct {
	BaseMessage
	Data string `json:"data,omitempty"`
}

// PongMessage represents a pong response
type PongMessage struct {
	BaseMessage
	Data string `json:"data,omitempty"`
}

// ErrorMessage represents an error response
type ErrorMessage struct {
	BaseMessage
	Code    string `json:"error_code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ParseMessage parses and validates an incoming message
func ParseMessage(messageBytes []byte) (interface{}, error) {
	// First parse as base message to get type
	var base BaseMessage
	if err := json.Unmarshal(messageBytes, &base); err != nil {
		return nil, fmt.Errorf("invalid JSON format: %w", err)
	}

	switch base.Type {
	case MessageTypeVerifyStart:
		var msg VerifyStartMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid verify start message: %w", err)
		}
		if msg.ExpectedText == "" {
			return nil, fmt.Errorf("expected_text is required")
		}
		if msg.SampleRate != 0 && (msg.SampleRate < 8000 || msg.SampleRate > 48000) {
			return nil, fmt.Errorf("sample_rate must be between 8000 and 48000")
		}
		return &msg, nil

	case MessageTypeAudioChunk:
		var msg AudioChunkMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid audio chunk message: %w", err)
		}
		if msg.AudioData == "" && !msg.IsFinal {
			return nil, fmt.Errorf("audio_data is required")
		}
		return &msg, nil

	case MessageTypePing:
		var msg PingMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid ping message: %w", err)
		}
		return &msg, nil

	default:
		return nil, fmt.Errorf("unsupported message type: %s", base.Type)
	}
}

// CreateErrorMessage creates a standardized error message
func CreateErrorMessage(code, message, details string) *ErrorMessage {
	return &ErrorMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeError,
			Timestamp: time.Now().Format(time.RFC3339),
		},
		Code:    code,
		Message: message,
		Details: details,
	}
}

// CreatePongMessage creates a pong response message
func CreatePongMessage(data string) *PongMessage {
	return &PongMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypePong,
			Timestamp: time.Now().Format(time.RFC3339),
		},
		Data: data,
	}
}

// CreateVerifyStartedMessage acknowledges an accepted verify_start
func CreateVerifyStartedMessage(sampleRate int, encoding string) *VerifyStartedMessage {
	return &VerifyStartedMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeVerifyStarted,
			Timestamp: time.Now().Format(time.RFC3339),
		},
		SampleRate: sampleRate,
		Encoding:   encoding,
	}
}

// CreateVerificationResultMessage wraps a gate decision for the wire
func CreateVerificationResultMessage(result entities.VerificationResult) *VerificationResultMessage {
	return &VerificationResultMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeVerificationResult,
			Timestamp: time.Now().Format(time.RFC3339),
		},
		Result: result,
	}
}
