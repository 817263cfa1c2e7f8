package usecase

import (
	"bytes"
	"context"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/stegavox/stegavox/domain/entities"
	"github.com/stegavox/stegavox/domain/repositories"
	"github.com/stegavox/stegavox/internal/audioconv"
)

// DefaultSimilarityThreshold is the gate decision cutoff used when the
// caller does not override it.
const DefaultSimilarityThreshold = 0.8

// VoiceGate verifies spoken passphrases: it transcribes a voice sample and
// scores the transcript against the expected phrase with Jaccard similarity
// over word token sets.
type VoiceGate struct {
	speechToText repositories.SpeechToText
	language     string
	logger       *zap.Logger
}

// NewVoiceGate creates a new voice gate
func NewVoiceGate(speechToText repositories.SpeechToText, language string, logger *zap.Logger) *VoiceGate {
	if language == "" {
		language = "en-US"
	}
	return &VoiceGate{
		speechToText: speechToText,
		language:     language,
		logger:       logger,
	}
}

// Transcribe converts a voice sample to a Transcript. WAV input is first
// normalized to the canonical mono 16 kHz waveform. This boundary fails
// SOFT: any conversion or recognizer error is captured into the returned
// Transcript instead of being raised.
func (g *VoiceGate) Transcribe(ctx context.Context, audio []byte) entities.Transcript {
	config := repositories.AudioConfig{
		SampleRate: 16000,
		Encoding:   "LINEAR16",
		Language:   g.language,
	}

	sample := audio
	if bytes.HasPrefix(audio, []byte("RIFF")) {
		pcm, rate, err := audioconv.NormalizeWAV(audio)
		if err != nil {
			g.logger.Warn("Audio conversion failed", zap.Error(err))
			return entities.FailedTranscript("audio conversion failed: " + err.Error())
		}
		sample = pcm
		config.SampleRate = rate
	}

	result, err := g.speechToText.TranscribeAudio(ctx, sample, config)
	if err != nil {
		g.logger.Warn("Transcription failed", zap.Error(err))
		return entities.FailedTranscript("transcription failed: " + err.Error())
	}

	transcript := entities.Transcript{
		Text:           strings.TrimSpace(result.Text),
		NormalizedText: NormalizeText(result.Text),
		Language:       result.Language,
		Confidence:     result.Confidence,
		Success:        true,
	}

	g.logger.Info("Transcription completed",
		zap.String("language", transcript.Language),
		zap.Float64("confidence", transcript.Confidence))

	return transcript
}

// Verify runs a full verification attempt: transcribe the voice sample,
// normalize both texts, score their similarity and decide against the
// threshold. A caller must not proceed to decrypt unless Pass is true.
func (g *VoiceGate) Verify(ctx context.Context, audio []byte, expectedPassphrase string, threshold float64) entities.VerificationResult {
	transcript := g.Transcribe(ctx, audio)
	return g.Score(transcript, expectedPassphrase, threshold)
}

// InitStream opens a streaming recognition session. The websocket
// verification path feeds audio chunks into it and scores the final
// transcript with Score.
func (g *VoiceGate) InitStream(ctx context.Context, sampleRate int, encoding string) (repositories.SpeechToTextStreaming, error) {
	config := repositories.AudioConfig{
		SampleRate: sampleRate,
		Encoding:   encoding,
		Language:   g.language,
	}
	if config.SampleRate <= 0 {
		config.SampleRate = 16000
	}
	if config.Encoding == "" {
		config.Encoding = "LINEAR16"
	}
	return g.speechToText.InitTranscribeStreaming(ctx, config)
}

// ScoreRecognition wraps a raw recognizer result into a transcript and
// decides it like Score.
func (g *VoiceGate) ScoreRecognition(result repositories.RecognitionResult, expectedPassphrase string, threshold float64) entities.VerificationResult {
	transcript := entities.Transcript{
		Text:           strings.TrimSpace(result.Text),
		NormalizedText: NormalizeText(result.Text),
		Language:       result.Language,
		Confidence:     result.Confidence,
		Success:        true,
	}
	return g.Score(transcript, expectedPassphrase, threshold)
}

// Score decides a verification attempt for an already obtained transcript.
// The websocket streaming path uses this directly.
func (g *VoiceGate) Score(transcript entities.Transcript, expectedPassphrase string, threshold float64) entities.VerificationResult {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}

	result := entities.VerificationResult{
		State:              entities.GateStateTranscribing,
		Transcript:         transcript,
		ExpectedText:       expectedPassphrase,
		ExpectedNormalized: NormalizeText(expectedPassphrase),
		Threshold:          threshold,
	}

	if !transcript.Success {
		result.State = entities.GateStateRejected
		g.logger.Warn("Voice verification rejected", zap.String("reason", transcript.Reason))
		return result
	}

	result.State = entities.GateStateScoring
	result.Score = JaccardSimilarity(transcript.NormalizedText, result.ExpectedNormalized)
	result.Pass = result.Score >= threshold

	if result.Pass {
		result.State = entities.GateStateVerified
		g.logger.Info("Voice verification passed", zap.Float64("similarity", result.Score))
	} else {
		result.State = entities.GateStateRejected
		g.logger.Warn("Voice verification rejected",
			zap.Float64("similarity", result.Score),
			zap.Float64("threshold", threshold))
	}

	return result
}

// NormalizeText lowercases, strips punctuation and collapses whitespace so
// transcripts and expected passphrases compare on words alone.
func NormalizeText(text string) string {
	lowered := strings.ToLower(strings.TrimSpace(text))
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, lowered)
	return strings.Join(strings.Fields(cleaned), " ")
}

// JaccardSimilarity scores two normalized texts as intersection over union
// of their distinct word token sets. Identical texts score 1.0 and an empty
// side scores 0.0; word order does not matter.
func JaccardSimilarity(text1, text2 string) float64 {
	if text1 == "" || text2 == "" {
		return 0.0
	}
	if text1 == text2 {
		return 1.0
	}

	words1 := make(map[string]struct{})
	for _, w := range strings.Fields(text1) {
		words1[w] = struct{}{}
	}
	words2 := make(map[string]struct{})
	for _, w := range strings.Fields(text2) {
		words2[w] = struct{}{}
	}
	if len(words1) == 0 || len(words2) == 0 {
		return 0.0
	}

	intersection := 0
	for w := range words1 {
		if _, ok := words2[w]; ok {
			intersection++
		}
	}
	union := len(words1) + len(words2) - intersection

	return float64(intersection) / float64(union)
}
