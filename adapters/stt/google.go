package stt

import (
	"context"
	"fmt"
	"io"
	"sync"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"

	"github.com/stegavox/stegavox/domain/repositories"
)

// GoogleSpeechToText implements SpeechToText for Google Cloud. The underlying
// client is an expensive resource created once per process; the first caller
// pays the initialization cost and concurrent first-use callers are guarded
// against duplicate loads.
type GoogleSpeechToText struct {
	once    sync.Once
	client  *speech.Client
	initErr error
}

// NewGoogleSpeechToText creates the adapter without touching the network.
// The client is initialized lazily on first use.
func NewGoogleSpeechToText() *GoogleSpeechToText {
	return &GoogleSpeechToText{}
}

func (g *GoogleSpeechToText) getClient(ctx context.Context) (*speech.Client, error) {
	g.once.Do(func() {
		g.client, g.initErr = speech.NewClient(ctx)
	})
	if g.initErr != nil {
		return nil, fmt.Errorf("creating speech client: %w", g.initErr)
	}
	return g.client, nil
}

// Close releases the shared client.
func (g *GoogleSpeechToText) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// TranscribeAudio converts audio data to text using Google Cloud
// Speech-to-Text (non-streaming)
func (g *GoogleSpeechToText) TranscribeAudio(ctx context.Context, audioData []byte, config repositories.AudioConfig) (repositories.RecognitionResult, error) {
	client, err := g.getClient(ctx)
	if err != nil {
		return repositories.RecognitionResult{}, err
	}

	encoding, err := getAudioEncoding(config.Encoding)
	if err != nil {
		return repositories.RecognitionResult{}, fmt.Errorf("unsupported audio encoding: %s", config.Encoding)
	}

	resp, err := client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        encoding,
			SampleRateHertz: int32(config.SampleRate),
			LanguageCode:    config.Language,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audioData},
		},
	})
	if err != nil {
		return repositories.RecognitionResult{}, fmt.Errorf("recognize request failed: %w", err)
	}

	return collectResults(resp.Results, config.Language)
}

// collectResults concatenates the best alternative of every result and
// averages their confidence scores.
func collectResults(results []*speechpb.SpeechRecognitionResult, fallbackLanguage string) (repositories.RecognitionResult, error) {
	out := repositories.RecognitionResult{Language: fallbackLanguage}

	var confidenceSum float64
	var scored int
	for _, result := range results {
		if len(result.Alternatives) == 0 {
			continue
		}
		best := result.Alternatives[0]
		if out.Text != "" {
			out.Text += " "
		}
		out.Text += best.Transcript
		if best.Confidence > 0 {
			confidenceSum += float64(best.Confidence)
			scored++
		}
		if result.LanguageCode != "" {
			out.Language = result.LanguageCode
		}
	}

	if scored > 0 {
		out.Confidence = confidenceSum / float64(scored)
	}
	if out.Text == "" {
		return out, fmt.Errorf("no speech detected in audio")
	}
	return out, nil
}

// InitTranscribeStreaming initializes a streaming transcription session
func (g *GoogleSpeechToText) InitTranscribeStreaming(ctx context.Context, config repositories.AudioConfig) (repositories.SpeechToTextStreaming, error) {
	client, err := g.getClient(ctx)
	if err != nil {
		return nil, err
	}

	stream, err := client.StreamingRecognize(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create streaming recognize: %w", err)
	}

	encoding, err := getAudioEncoding(config.Encoding)
	if err != nil {
		stream.CloseSend()
		return nil, fmt.Errorf("unsupported audio encoding: %s", config.Encoding)
	}

	// Send initial configuration
	if err := stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: &speechpb.StreamingRecognitionConfig{
				Config: &speechpb.RecognitionConfig{
					Encoding:        encoding,
					SampleRateHertz: int32(config.SampleRate),
					LanguageCode:    config.Language,
				},
				InterimResults:  false, // We only want final results
				SingleUtterance: true,  // Treat as single utterance
			},
		},
	}); err != nil {
		stream.CloseSend()
		return nil, fmt.Errorf("failed to send streaming config: %w", err)
	}

	return &GoogleSpeechToTextStream{
		stream:     stream,
		ctx:        ctx,
		language:   config.Language,
		resultChan: make(chan repositories.RecognitionResult, 1),
		errorChan:  make(chan error, 1),
	}, nil
}

type GoogleSpeechToTextStream struct {
	stream         speechpb.Speech_StreamingRecognizeClient
	ctx            context.Context
	language       string
	audioReceived  bool
	resultChan     chan repositories.RecognitionResult
	errorChan      chan error
	receiverActive bool
}

func (g *GoogleSpeechToTextStream) Stream(data []byte) error {
	// Start the result receiver goroutine only once
	if !g.receiverActive {
		g.receiverActive = true
		go g.receiveResults()
	}

	if len(data) > 0 {
		g.audioReceived = true

		if err := g.stream.Send(&speechpb.StreamingRecognizeRequest{
			StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{
				AudioContent: data,
			},
		}); err != nil {
			return fmt.Errorf("failed to send audio data: %w", err)
		}
	}

	return nil
}

func (g *GoogleSpeechToTextStream) End() (repositories.RecognitionResult, error) {
	if !g.audioReceived {
		return repositories.RecognitionResult{}, fmt.Errorf("no audio data received")
	}

	// Close the send stream to signal end of audio
	if err := g.stream.CloseSend(); err != nil {
		return repositories.RecognitionResult{}, fmt.Errorf("failed to close send stream: %w", err)
	}

	// Wait for final result or error
	select {
	case <-g.ctx.Done():
		return repositories.RecognitionResult{}, fmt.Errorf("context cancelled while waiting for result: %w", g.ctx.Err())
	case err := <-g.errorChan:
		return repositories.RecognitionResult{}, err
	case result := <-g.resultChan:
		if result.Text == "" {
			return repositories.RecognitionResult{}, fmt.Errorf("no speech detected in audio")
		}
		return result, nil
	}
}

func (g *GoogleSpeechToTextStream) receiveResults() {
	var collected []*speechpb.SpeechRecognitionResult

	for {
		resp, err := g.stream.Recv()
		if err == io.EOF {
			result, _ := collectResults(collected, g.language)
			g.resultChan <- result
			return
		}
		if err != nil {
			g.errorChan <- fmt.Errorf("failed to receive response: %w", err)
			return
		}

		// Process results - only consider final ones
		for _, result := range resp.Results {
			if result.IsFinal && len(result.Alternatives) > 0 {
				collected = append(collected, &speechpb.SpeechRecognitionResult{
					Alternatives: result.Alternatives,
					LanguageCode: result.LanguageCode,
				})
			}
		}
	}
}

// getAudioEncoding converts string encoding to Google Speech API enum
func getAudioEncoding(encoding string) (speechpb.RecognitionConfig_AudioEncoding, error) {
	switch encoding {
	case "WAV", "LINEAR16":
		return speechpb.RecognitionConfig_LINEAR16, nil
	case "FLAC":
		return speechpb.RecognitionConfig_FLAC, nil
	case "MULAW":
		return speechpb.RecognitionConfig_MULAW, nil
	case "OGG_OPUS":
		return speechpb.RecognitionConfig_OGG_OPUS, nil
	case "WEBM_OPUS":
		return speechpb.RecognitionConfig_WEBM_OPUS, nil
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED, fmt.Errorf("unsupported encoding: %s", encoding)
	}
}
