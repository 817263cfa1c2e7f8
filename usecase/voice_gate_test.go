package usecase

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/stegavox/stegavox/adapters/stt"
	"github.com/stegavox/stegavox/domain/entities"
)

func TestNormalizeText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  Hello, World!  ", "hello world"},
		{"OPEN   SESAME", "open sesame"},
		{"it's a   test...", "its a test"},
		{"", ""},
		{"!!!", ""},
	}

	for _, c := range cases {
		if got := NormalizeText(c.in); got != c.want {
			t.Errorf("NormalizeText(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestJaccardSimilarity(t *testing.T) {
	if score := JaccardSimilarity("hello world", "hello world"); score != 1.0 {
		t.Errorf("Identical texts should score 1.0, got %f", score)
	}

	// Order-insensitive
	if score := JaccardSimilarity("hello world", "world hello"); score != 1.0 {
		t.Errorf("Reordered tokens should score 1.0, got %f", score)
	}

	if score := JaccardSimilarity("alpha beta", "gamma delta"); score != 0.0 {
		t.Errorf("Disjoint token sets should score 0.0, got %f", score)
	}

	if score := JaccardSimilarity("", "hello"); score != 0.0 {
		t.Errorf("Empty text should score 0.0, got %f", score)
	}

	// 4 shared tokens out of a 5-token union
	if score := JaccardSimilarity("a b c d e", "a b c d"); score != 0.8 {
		t.Errorf("Expected 0.8, got %f", score)
	}
}

func TestVerifyThresholdBoundary(t *testing.T) {
	logger := zap.NewNop()

	// Score 0.8 exactly: passes at threshold 0.8
	mock := stt.NewMockSpeechToText(logger, "open the vault now")
	gate := NewVoiceGate(mock, "en-US", logger)

	result := gate.Verify(context.Background(), []byte("audio"), "open the vault now please", 0.8)
	if result.Score != 0.8 {
		t.Fatalf("Expected similarity 0.8, got %f", result.Score)
	}
	if !result.Pass {
		t.Error("Score equal to threshold should pass")
	}
	if result.State != entities.GateStateVerified {
		t.Errorf("Expected verified state, got %s", result.State)
	}

	// The same score fails a higher threshold
	result = gate.Verify(context.Background(), []byte("audio"), "open the vault now please", 0.81)
	if result.Pass {
		t.Error("Score below threshold should not pass")
	}
	if result.State != entities.GateStateRejected {
		t.Errorf("Expected rejected state, got %s", result.State)
	}
}

func TestVerifyExactMatch(t *testing.T) {
	logger := zap.NewNop()
	mock := stt.NewMockSpeechToText(logger, "Open Sesame!")
	gate := NewVoiceGate(mock, "en-US", logger)

	result := gate.Verify(context.Background(), []byte("audio"), "open sesame", 0)
	if result.Score != 1.0 {
		t.Errorf("Normalized exact match should score 1.0, got %f", result.Score)
	}
	if !result.Pass {
		t.Error("Exact match should pass")
	}
	if result.Threshold != DefaultSimilarityThreshold {
		t.Errorf("Expected default threshold %f, got %f", DefaultSimilarityThreshold, result.Threshold)
	}
}

func TestVerifyTranscriptionFailureFailsSoft(t *testing.T) {
	logger := zap.NewNop()
	mock := stt.NewMockSpeechToText(logger, "")
	mock.Err = errors.New("model exploded")
	gate := NewVoiceGate(mock, "en-US", logger)

	// Transcribe must not raise across the boundary
	transcript := gate.Transcribe(context.Background(), []byte("audio"))
	if transcript.Success {
		t.Error("Expected failed transcript")
	}
	if transcript.Reason == "" {
		t.Error("Expected a failure reason on the transcript")
	}

	result := gate.Verify(context.Background(), []byte("audio"), "open sesame", 0.8)
	if result.Pass {
		t.Error("Failed transcription should never pass the gate")
	}
	if result.State != entities.GateStateRejected {
		t.Errorf("Expected rejected state, got %s", result.State)
	}
	if result.Score != 0.0 {
		t.Errorf("Expected score 0.0 for failed transcription, got %f", result.Score)
	}
}

func TestTranscribeMalformedWAVFailsSoft(t *testing.T) {
	logger := zap.NewNop()
	mock := stt.NewMockSpeechToText(logger, "anything")
	gate := NewVoiceGate(mock, "en-US", logger)

	// A RIFF header with garbage after it triggers the conversion path
	transcript := gate.Transcribe(context.Background(), []byte("RIFFgarbage"))
	if transcript.Success {
		t.Error("Expected conversion failure to yield a failed transcript")
	}
}
