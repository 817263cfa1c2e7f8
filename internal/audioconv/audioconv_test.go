package audioconv

import (
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

type sliceWriteSeeker struct {
	buf []byte
	pos int
}

func (ws *sliceWriteSeeker) Write(p []byte) (int, error) {
	if grow := ws.pos + len(p) - len(ws.buf); grow > 0 {
		ws.buf = append(ws.buf, make([]byte, grow)...)
	}
	copy(ws.buf[ws.pos:], p)
	ws.pos += len(p)
	return len(p), nil
}

func (ws *sliceWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case 0:
		ws.pos = int(offset)
	case 1:
		ws.pos += int(offset)
	case 2:
		ws.pos = len(ws.buf) + int(offset)
	}
	return int64(ws.pos), nil
}

func encodeWAV(t *testing.T, samples, sampleRate, channels int) []byte {
	t.Helper()

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		SourceBitDepth: 16,
		Data:           make([]int, samples),
	}
	for i := range buf.Data {
		buf.Data[i] = (i % 256) * 100
	}

	out := &sliceWriteSeeker{}
	encoder := wav.NewEncoder(out, sampleRate, 16, channels, 1)
	if err := encoder.Write(buf); err != nil {
		t.Fatalf("writing test WAV: %v", err)
	}
	if err := encoder.Close(); err != nil {
		t.Fatalf("closing test WAV: %v", err)
	}
	return out.buf
}

func TestNormalizeWAVAlreadyCanonical(t *testing.T) {
	data := encodeWAV(t, 1600, 16000, 1)

	pcm, rate, err := NormalizeWAV(data)
	if err != nil {
		t.Fatalf("NormalizeWAV failed: %v", err)
	}
	if rate != 16000 {
		t.Errorf("Expected 16000 Hz, got %d", rate)
	}
	if len(pcm) != 1600*2 {
		t.Errorf("Expected %d bytes, got %d", 1600*2, len(pcm))
	}
}

func TestNormalizeWAVDownmixAndResample(t *testing.T) {
	// Stereo 44.1 kHz in, mono 16 kHz out
	data := encodeWAV(t, 8820, 44100, 2)

	pcm, rate, err := NormalizeWAV(data)
	if err != nil {
		t.Fatalf("NormalizeWAV failed: %v", err)
	}
	if rate != 16000 {
		t.Errorf("Expected 16000 Hz, got %d", rate)
	}

	// 4410 frames at 44.1 kHz resample to 1600 frames at 16 kHz
	if len(pcm) != 1600*2 {
		t.Errorf("Expected %d bytes, got %d", 1600*2, len(pcm))
	}
}

func TestNormalizeWAVRejectsGarbage(t *testing.T) {
	if _, _, err := NormalizeWAV([]byte("not audio")); err == nil {
		t.Error("Expected error for non-WAV input")
	}
}

func TestResampleLinear(t *testing.T) {
	samples := []int{0, 100, 200, 300}

	same := resampleLinear(samples, 16000, 16000)
	if len(same) != 4 {
		t.Errorf("Expected identity resample, got %d samples", len(same))
	}

	down := resampleLinear(samples, 32000, 16000)
	if len(down) != 2 {
		t.Errorf("Expected 2 samples after halving, got %d", len(down))
	}
}
