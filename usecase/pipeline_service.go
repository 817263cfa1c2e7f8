package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/stegavox/stegavox/domain/entities"
	"github.com/stegavox/stegavox/domain/repositories"
	"github.com/stegavox/stegavox/internal/bitcodec"
	"github.com/stegavox/stegavox/internal/cipherbox"
	"github.com/stegavox/stegavox/internal/integrity"
)

// PipelineService orchestrates the secure payload pipeline: voice
// verification gates encryption, encryption precedes embedding, and
// extraction precedes decryption.
type PipelineService struct {
	carriers  map[entities.MediaType]repositories.Carrier
	voiceGate *VoiceGate
	sessions  repositories.SessionRepository
	logger    *zap.Logger
}

// NewPipelineService creates a new pipeline service. sessions may be nil
// when no hide-time context should be retained across operations.
func NewPipelineService(
	carriers []repositories.Carrier,
	voiceGate *VoiceGate,
	sessions repositories.SessionRepository,
	logger *zap.Logger,
) *PipelineService {
	byType := make(map[entities.MediaType]repositories.Carrier, len(carriers))
	for _, c := range carriers {
		byType[c.MediaType()] = c
	}
	return &PipelineService{
		carriers:  byType,
		voiceGate: voiceGate,
		sessions:  sessions,
		logger:    logger,
	}
}

// HideRequest carries everything a hide operation needs.
type HideRequest struct {
	MediaType      entities.MediaType
	Cover          []byte
	Plaintext      string
	Password       string
	PassphraseText string
	VoiceSample    []byte
	Threshold      float64
}

// HideResult is the outcome of a successful hide operation.
type HideResult struct {
	Stego        []byte
	Filename     string
	Verification entities.VerificationResult
	Metrics      entities.SecurityMetrics
	SessionID    string
}

// Hide verifies the spoken passphrase, encrypts the message, frames it and
// embeds it into the cover. The voice gate runs FIRST: nothing is encrypted
// or embedded unless verification passes, and a failed embed leaves the
// cover untouched.
func (s *PipelineService) Hide(ctx context.Context, req HideRequest) (*HideResult, error) {
	adapter, err := s.adapterFor(req.MediaType)
	if err != nil {
		return nil, err
	}

	verification := s.voiceGate.Verify(ctx, req.VoiceSample, req.PassphraseText, req.Threshold)
	if !verification.Pass {
		return nil, &entities.AuthenticationError{
			ExpectedText:    verification.ExpectedText,
			TranscribedText: verification.Transcript.Text,
			Score:           verification.Score,
			Threshold:       verification.Threshold,
		}
	}

	ciphertext, err := cipherbox.Encrypt(req.Plaintext, req.Password)
	if err != nil {
		return nil, fmt.Errorf("encrypting message: %w", err)
	}

	bits := bitcodec.Frame(bitcodec.Encode(ciphertext))
	stego, err := adapter.Embed(req.Cover, bits)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Message hidden",
		zap.String("mediaType", string(req.MediaType)),
		zap.Int("payloadBits", len(bits)))

	result := &HideResult{
		Stego:        stego,
		Filename:     integrity.StegoFilename(req.Plaintext, req.MediaType),
		Verification: verification,
		Metrics:      EstimateSecurityMetrics(req.Plaintext, req.Password),
	}

	if s.sessions != nil {
		session := entities.NewHideSession(req.MediaType, integrity.Hash(req.Plaintext), req.PassphraseText, result.Filename)
		if err := s.sessions.Create(ctx, session); err != nil {
			// Session context is a convenience for later integrity
			// checks; its loss does not undo a completed hide.
			s.logger.Warn("Failed to store hide session", zap.Error(err))
		} else {
			result.SessionID = session.ID
		}
	}

	return result, nil
}

// RevealRequest carries everything a reveal operation needs. Exactly one of
// OriginalPlaintext or SessionID may be set to request an integrity check.
type RevealRequest struct {
	MediaType         entities.MediaType
	Stego             []byte
	Password          string
	VoiceSample       []byte
	OriginalPlaintext string
	SessionID         string
}

// RevealResult is the outcome of a successful reveal operation.
type RevealResult struct {
	Plaintext  string
	Transcript entities.Transcript
	Integrity  *entities.IntegrityRecord
}

// Reveal extracts and decrypts the hidden message. The voice check here only
// requires a successful transcription, not a match against the hide-time
// passphrase text; see DESIGN.md for the rationale behind the asymmetry.
func (s *PipelineService) Reveal(ctx context.Context, req RevealRequest) (*RevealResult, error) {
	adapter, err := s.adapterFor(req.MediaType)
	if err != nil {
		return nil, err
	}

	rawBits, err := adapter.Extract(req.Stego, 0)
	if err != nil {
		return nil, err
	}
	payload, err := bitcodec.Unframe(rawBits)
	if err != nil {
		return nil, err
	}
	ciphertext := bitcodec.Decode(payload)

	transcript := s.voiceGate.Transcribe(ctx, req.VoiceSample)
	if !transcript.Success {
		return nil, &entities.AuthenticationError{
			TranscribedText: transcript.Text,
			Threshold:       DefaultSimilarityThreshold,
		}
	}

	plaintext, err := cipherbox.Decrypt(ciphertext, req.Password)
	if err != nil {
		return nil, err
	}

	result := &RevealResult{
		Plaintext:  plaintext,
		Transcript: transcript,
	}

	switch {
	case req.OriginalPlaintext != "":
		record := integrity.Compare(req.OriginalPlaintext, plaintext)
		result.Integrity = &record
	case req.SessionID != "" && s.sessions != nil:
		session, err := s.sessions.GetByID(ctx, req.SessionID)
		if err != nil {
			s.logger.Warn("Failed to load hide session", zap.Error(err))
		} else if session != nil {
			record := integrity.CompareAgainstHash(session.MessageHash, plaintext)
			result.Integrity = &record
			session.MarkRevealed()
			if err := s.sessions.Update(ctx, session); err != nil {
				s.logger.Warn("Failed to update hide session", zap.Error(err))
			}
		}
	}

	s.logger.Info("Message revealed",
		zap.String("mediaType", string(req.MediaType)),
		zap.Int("length", len(plaintext)))

	return result, nil
}

// Capacity returns the collaborator-facing capacity report for a carrier.
func (s *PipelineService) Capacity(mediaType entities.MediaType, carrier []byte) (entities.CapacityReport, error) {
	adapter, err := s.adapterFor(mediaType)
	if err != nil {
		return entities.CapacityReport{}, err
	}
	return adapter.Describe(carrier)
}

func (s *PipelineService) adapterFor(mediaType entities.MediaType) (repositories.Carrier, error) {
	adapter, ok := s.carriers[mediaType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", entities.ErrUnsupportedMedia, mediaType)
	}
	return adapter, nil
}
