// Package audioconv prepares recorded audio for speech recognition.
package audioconv

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/go-audio/wav"
)

// canonicalSampleRate is the waveform the recognizer expects.
const canonicalSampleRate = 16000

// NormalizeWAV converts a WAV file to the canonical mono 16 kHz LINEAR16
// waveform: channels are downmixed by averaging and the signal is resampled
// with linear interpolation. The returned bytes are raw little-endian int16
// samples ready for the recognizer.
func NormalizeWAV(data []byte) ([]byte, int, error) {
	decoder := wav.NewDecoder(bytes.NewReader(data))
	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("not a PCM WAV file")
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("reading PCM samples: %w", err)
	}
	if decoder.BitDepth != 16 {
		return nil, 0, fmt.Errorf("requires 16-bit PCM samples, got %d-bit", decoder.BitDepth)
	}

	channels := buf.Format.NumChannels
	sampleRate := buf.Format.SampleRate
	if channels <= 0 || sampleRate <= 0 {
		return nil, 0, fmt.Errorf("invalid WAV format: %d channels at %d Hz", channels, sampleRate)
	}

	// Downmix to mono
	frames := len(buf.Data) / channels
	mono := make([]int, frames)
	for i := 0; i < frames; i++ {
		sum := 0
		for ch := 0; ch < channels; ch++ {
			sum += buf.Data[i*channels+ch]
		}
		mono[i] = sum / channels
	}

	// Resample to 16 kHz
	if sampleRate != canonicalSampleRate {
		mono = resampleLinear(mono, sampleRate, canonicalSampleRate)
	}

	out := make([]byte, len(mono)*2)
	for i, sample := range mono {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(sample)))
	}
	return out, canonicalSampleRate, nil
}

// resampleLinear interpolates samples onto the target rate's time grid.
// Good enough for speech recognition input, not for playback quality.
func resampleLinear(samples []int, fromRate, toRate int) []int {
	if len(samples) == 0 || fromRate == toRate {
		return samples
	}

	outLen := len(samples) * toRate / fromRate
	if outLen == 0 {
		return nil
	}

	out := make([]int, outLen)
	ratio := float64(fromRate) / float64(toRate)
	for i := range out {
		pos := float64(i) * ratio
		left := int(pos)
		if left >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := pos - float64(left)
		out[i] = int(float64(samples[left])*(1-frac) + float64(samples[left+1])*frac)
	}
	return out
}
