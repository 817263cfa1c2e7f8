package stt

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/stegavox/stegavox/domain/repositories"
)

// MockSpeechToText is a scripted recognizer for tests and local development.
// It returns the configured transcript for any audio, or the configured
// error.
type MockSpeechToText struct {
	logger     *zap.Logger
	Transcript string
	Confidence float64
	Err        error
}

// NewMockSpeechToText creates a mock recognizer that always hears transcript
func NewMockSpeechToText(logger *zap.Logger, transcript string) *MockSpeechToText {
	return &MockSpeechToText{
		logger:     logger,
		Transcript: transcript,
		Confidence: 0.92,
	}
}

// TranscribeAudio implements repositories.SpeechToText
func (s *MockSpeechToText) TranscribeAudio(ctx context.Context, audioData []byte, config repositories.AudioConfig) (repositories.RecognitionResult, error) {
	s.logger.Debug("Mock transcription",
		zap.Int("audioSize", len(audioData)),
		zap.Int("sampleRate", config.SampleRate),
		zap.String("encoding", config.Encoding))

	if s.Err != nil {
		return repositories.RecognitionResult{}, s.Err
	}
	if len(audioData) == 0 {
		return repositories.RecognitionResult{}, fmt.Errorf("no audio data received")
	}

	return repositories.RecognitionResult{
		Text:       s.Transcript,
		Language:   config.Language,
		Confidence: s.Confidence,
	}, nil
}

// InitTranscribeStreaming implements repositories.SpeechToText
func (s *MockSpeechToText) InitTranscribeStreaming(ctx context.Context, config repositories.AudioConfig) (repositories.SpeechToTextStreaming, error) {
	return &mockStream{parent: s, language: config.Language}, nil
}

type mockStream struct {
	parent        *MockSpeechToText
	language      string
	audioReceived bool
}

func (m *mockStream) Stream(data []byte) error {
	if len(data) > 0 {
		m.audioReceived = true
	}
	return nil
}

func (m *mockStream) End() (repositories.RecognitionResult, error) {
	if m.parent.Err != nil {
		return repositories.RecognitionResult{}, m.parent.Err
	}
	if !m.audioReceived {
		return repositories.RecognitionResult{}, fmt.Errorf("no audio data received")
	}
	return repositories.RecognitionResult{
		Text:       m.parent.Transcript,
		Language:   m.language,
		Confidence: m.parent.Confidence,
	}, nil
}
