package websocket

import (
	"context"
	"encoding/json"
	"testing"

	"go.uber.org/zap"

	"github.com/stegavox/stegavox/domain/repositories"
	"github.com/stegavox/stegavox/usecase"
)

// captureSpeechToText records the context the streaming session was opened
// with, so tests can observe its lifetime.
type captureSpeechToText struct {
	streamCtx  context.Context
	transcript string
}

func (c *captureSpeechToText) TranscribeAudio(ctx context.Context, audioData []byte, config repositories.AudioConfig) (repositories.RecognitionResult, error) {
	return repositories.RecognitionResult{Text: c.transcript, Language: config.Language, Confidence: 0.9}, nil
}

func (c *captureSpeechToText) InitTranscribeStreaming(ctx context.Context, config repositories.AudioConfig) (repositories.SpeechToTextStreaming, error) {
	c.streamCtx = ctx
	return &captureStream{owner: c}, nil
}

type captureStream struct {
	owner *captureSpeechToText
}

// Stream fails once the stream's context is done, like the gRPC-backed
// recognizer does.
func (s *captureStream) Stream(data []byte) error {
	return s.owner.streamCtx.Err()
}

func (s *captureStream) End() (repositories.RecognitionResult, error) {
	if err := s.owner.streamCtx.Err(); err != nil {
		return repositories.RecognitionResult{}, err
	}
	return repositories.RecognitionResult{Text: s.owner.transcript, Language: "en-US", Confidence: 0.9}, nil
}

func newTestSession(speechToText repositories.SpeechToText) *verifySession {
	logger := zap.NewNop()
	return &verifySession{
		send:   make(chan WriteData, 256),
		gate:   usecase.NewVoiceGate(speechToText, "en-US", logger),
		logger: logger,
	}
}

func nextMessageType(t *testing.T, session *verifySession) MessageType {
	t.Helper()

	select {
	case data := <-session.send:
		var base BaseMessage
		if err := json.Unmarshal(data.Payload, &base); err != nil {
			t.Fatalf("unmarshalling outbound message: %v", err)
		}
		return base.Type
	default:
		t.Fatal("Expected an outbound message, got none")
		return ""
	}
}

func TestStreamContextOutlivesVerifyStart(t *testing.T) {
	speechToText := &captureSpeechToText{transcript: "open the vault"}
	session := newTestSession(speechToText)

	session.handleVerifyStart(&VerifyStartMessage{
		BaseMessage:  BaseMessage{Type: MessageTypeVerifyStart},
		ExpectedText: "open the vault",
	})
	if got := nextMessageType(t, session); got != MessageTypeVerifyStarted {
		t.Fatalf("Expected %s, got %s", MessageTypeVerifyStarted, got)
	}

	// Chunks arrive long after handleVerifyStart has returned; the stream's
	// context must still be alive
	if err := speechToText.streamCtx.Err(); err != nil {
		t.Fatalf("Stream context ended before the attempt did: %v", err)
	}

	session.streamChunk([]byte("audio"), false)
	if len(session.send) != 0 {
		t.Errorf("Expected no reply for a mid-attempt chunk, got %s", nextMessageType(t, session))
	}

	session.streamChunk(nil, true)
	if got := nextMessageType(t, session); got != MessageTypeVerificationResult {
		t.Errorf("Expected %s, got %s", MessageTypeVerificationResult, got)
	}

	// Finishing the attempt releases the stream's context
	if speechToText.streamCtx.Err() != context.Canceled {
		t.Errorf("Expected cancelled stream context after the attempt, got %v", speechToText.streamCtx.Err())
	}
}

func TestAbandonStreamReleasesContext(t *testing.T) {
	speechToText := &captureSpeechToText{transcript: "open the vault"}
	session := newTestSession(speechToText)

	session.handleVerifyStart(&VerifyStartMessage{
		BaseMessage:  BaseMessage{Type: MessageTypeVerifyStart},
		ExpectedText: "open the vault",
	})
	<-session.send

	session.abandonStream()

	if speechToText.streamCtx.Err() != context.Canceled {
		t.Errorf("Expected cancelled stream context after disconnect, got %v", speechToText.streamCtx.Err())
	}
	if session.sttStreaming != nil {
		t.Error("Expected the stream to be released on disconnect")
	}
}
