package carrier

import (
	"bytes"
	"fmt"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"go.uber.org/zap"

	"github.com/stegavox/stegavox/domain/entities"
	"github.com/stegavox/stegavox/domain/repositories"
)

// AudioCarrier embeds bits into the least-significant bit of 16-bit PCM
// samples in a WAV container. The output preserves the original sample rate,
// channel count and bit depth. Compressed or non-PCM audio is rejected for
// embedding; Describe falls back to a file-size estimate for such inputs.
type AudioCarrier struct {
	logger *zap.Logger
}

// NewAudioCarrier creates the audio carrier adapter
func NewAudioCarrier(logger *zap.Logger) repositories.Carrier {
	return &AudioCarrier{logger: logger}
}

func (c *AudioCarrier) MediaType() entities.MediaType {
	return entities.MediaTypeAudio
}

func (c *AudioCarrier) decodePCM(carrier []byte) (*audio.IntBuffer, error) {
	decoder := wav.NewDecoder(bytes.NewReader(carrier))
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%w: not an uncompressed PCM WAV file", entities.ErrUnsupportedMedia)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("reading PCM samples: %w", err)
	}
	if decoder.BitDepth != 16 {
		return nil, fmt.Errorf("%w: requires 16-bit PCM samples, got %d-bit", entities.ErrUnsupportedMedia, decoder.BitDepth)
	}
	return buf, nil
}

func (c *AudioCarrier) Capacity(carrier []byte) (int, error) {
	buf, err := c.decodePCM(carrier)
	if err != nil {
		return 0, err
	}
	return len(buf.Data), nil
}

func (c *AudioCarrier) Embed(carrier []byte, bits []byte) ([]byte, error) {
	buf, err := c.decodePCM(carrier)
	if err != nil {
		return nil, err
	}

	if len(bits) > len(buf.Data) {
		return nil, &entities.CapacityError{RequiredBits: len(bits), AvailableBits: len(buf.Data)}
	}

	stego := &audio.IntBuffer{
		Format:         buf.Format,
		SourceBitDepth: buf.SourceBitDepth,
		Data:           make([]int, len(buf.Data)),
	}
	copy(stego.Data, buf.Data)
	for i, bit := range bits {
		stego.Data[i] = stego.Data[i]&^1 | int(bit)
	}

	out := newWriteSeeker()
	encoder := wav.NewEncoder(out, buf.Format.SampleRate, 16, buf.Format.NumChannels, 1)
	if err := encoder.Write(stego); err != nil {
		return nil, fmt.Errorf("writing stego samples: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("finalizing stego audio: %w", err)
	}

	c.logger.Debug("Embedded payload into audio",
		zap.Int("bits", len(bits)),
		zap.Int("capacity", len(buf.Data)),
		zap.Int("sampleRate", buf.Format.SampleRate))

	return out.Bytes(), nil
}

func (c *AudioCarrier) Extract(carrier []byte, maxBits int) ([]byte, error) {
	buf, err := c.decodePCM(carrier)
	if err != nil {
		return nil, err
	}

	if maxBits <= 0 || maxBits > len(buf.Data) {
		maxBits = len(buf.Data)
	}

	bits := make([]byte, maxBits)
	for i := 0; i < maxBits; i++ {
		bits[i] = byte(buf.Data[i] & 1)
	}
	return bits, nil
}

func (c *AudioCarrier) Describe(carrier []byte) (entities.CapacityReport, error) {
	buf, err := c.decodePCM(carrier)
	if err != nil {
		// Compressed formats still get a rough estimate so callers can
		// size a message before converting the cover to WAV.
		report := entities.NewCapacityReport(entities.MediaTypeAudio, len(carrier), 0)
		report.Estimated = true
		return report, nil
	}

	report := entities.NewCapacityReport(entities.MediaTypeAudio, len(buf.Data), buf.Format.NumChannels)
	report.SampleRate = buf.Format.SampleRate
	if buf.Format.SampleRate > 0 && buf.Format.NumChannels > 0 {
		frames := len(buf.Data) / buf.Format.NumChannels
		report.DurationSeconds = float64(frames) / float64(buf.Format.SampleRate)
	}
	return report, nil
}
