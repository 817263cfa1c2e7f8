package carrier

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"go.uber.org/zap"

	"github.com/stegavox/stegavox/domain/entities"
	"github.com/stegavox/stegavox/internal/bitcodec"
)

func makePNG(t *testing.T, width, height int, withAlpha bool) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			alpha := uint8(255)
			if withAlpha {
				alpha = uint8(100 + (x+y)%100)
			}
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 7 % 256),
				G: uint8(y * 13 % 256),
				B: uint8((x + y) * 29 % 256),
				A: alpha,
			})
		}
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

func TestImageCapacityRGB(t *testing.T) {
	adapter := NewImageCarrier(zap.NewNop())
	cover := makePNG(t, 100, 100, false)

	capacity, err := adapter.Capacity(cover)
	if err != nil {
		t.Fatalf("Capacity failed: %v", err)
	}

	// 100x100 RGB carrier holds 30,000 embeddable bits
	if capacity != 30000 {
		t.Errorf("Expected capacity 30000, got %d", capacity)
	}
}

func TestImageCapacityExcludesAlpha(t *testing.T) {
	adapter := NewImageCarrier(zap.NewNop())
	cover := makePNG(t, 10, 10, true)

	capacity, err := adapter.Capacity(cover)
	if err != nil {
		t.Fatalf("Capacity failed: %v", err)
	}

	// Alpha never carries payload, so an RGBA cover holds the same
	// 3 bits per pixel as an RGB one
	if capacity != 300 {
		t.Errorf("Expected capacity 300 for 10x10 RGBA, got %d", capacity)
	}
}

func TestImageLayoutStableAcrossEmbed(t *testing.T) {
	adapter := NewImageCarrier(zap.NewNop())

	// A single barely transparent pixel: if alpha took part in the sample
	// layout, embedding could turn the image fully opaque and shift the
	// channel count between embed and extract
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 13), B: uint8(x + y), A: 255})
		}
	}
	img.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 254})

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	cover := buf.Bytes()

	before, err := adapter.Capacity(cover)
	if err != nil {
		t.Fatalf("Capacity failed: %v", err)
	}
	if before != 300 {
		t.Fatalf("Expected capacity 300, got %d", before)
	}

	bits := []byte{1, 1, 1, 1}
	stego, err := adapter.Embed(cover, bits)
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	after, err := adapter.Capacity(stego)
	if err != nil {
		t.Fatalf("Capacity on stego failed: %v", err)
	}
	if after != before {
		t.Errorf("Capacity changed across embed: before=%d after=%d", before, after)
	}

	extracted, err := adapter.Extract(stego, len(bits))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !bytes.Equal(extracted, bits) {
		t.Errorf("Extracted %v, want %v", extracted, bits)
	}

	// The transparent pixel survives untouched
	decoded, _, err := image.Decode(bytes.NewReader(stego))
	if err != nil {
		t.Fatalf("decoding stego image: %v", err)
	}
	if _, _, _, a := decoded.At(0, 0).RGBA(); a>>8 != 254 {
		t.Errorf("Expected alpha 254 preserved, got %d", a>>8)
	}
}

func TestImageEmbedExtractRoundTrip(t *testing.T) {
	adapter := NewImageCarrier(zap.NewNop())
	cover := makePNG(t, 100, 100, false)

	// "HI" is 16 text bits plus the 16-bit marker
	bits := bitcodec.Frame(bitcodec.Encode("HI"))
	if len(bits) != 32 {
		t.Fatalf("Expected 32 framed bits, got %d", len(bits))
	}

	stego, err := adapter.Embed(cover, bits)
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	extracted, err := adapter.Extract(stego, 0)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	payload, err := bitcodec.Unframe(extracted)
	if err != nil {
		t.Fatalf("Unframe failed: %v", err)
	}

	if message := bitcodec.Decode(payload); message != "HI" {
		t.Errorf("Expected message %q, got %q", "HI", message)
	}
}

func TestImageEmbedDoesNotMutateCover(t *testing.T) {
	adapter := NewImageCarrier(zap.NewNop())
	cover := makePNG(t, 20, 20, false)
	original := make([]byte, len(cover))
	copy(original, cover)

	if _, err := adapter.Embed(cover, bitcodec.Frame(bitcodec.Encode("untouched"))); err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	if !bytes.Equal(cover, original) {
		t.Error("Embed must not mutate the input carrier")
	}
}

func TestImageCapacityBoundary(t *testing.T) {
	adapter := NewImageCarrier(zap.NewNop())
	cover := makePNG(t, 4, 4, false)

	capacity, err := adapter.Capacity(cover)
	if err != nil {
		t.Fatalf("Capacity failed: %v", err)
	}

	// Exactly at capacity succeeds
	bits := make([]byte, capacity)
	for i := range bits {
		bits[i] = byte(i % 2)
	}
	stego, err := adapter.Embed(cover, bits)
	if err != nil {
		t.Fatalf("Embed at exact capacity failed: %v", err)
	}

	extracted, err := adapter.Extract(stego, capacity)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !bytes.Equal(extracted, bits) {
		t.Error("Extracted bits do not match embedded bits at full capacity")
	}

	// One bit over fails with the exact two numbers
	_, err = adapter.Embed(cover, append(bits, 1))
	var capErr *entities.CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("Expected CapacityError, got %v", err)
	}
	if capErr.RequiredBits != capacity+1 || capErr.AvailableBits != capacity {
		t.Errorf("Expected %d/%d in error, got %d/%d",
			capacity+1, capacity, capErr.RequiredBits, capErr.AvailableBits)
	}
}

func TestImageDescribe(t *testing.T) {
	adapter := NewImageCarrier(zap.NewNop())
	cover := makePNG(t, 100, 50, false)

	report, err := adapter.Describe(cover)
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}

	if report.MediaType != entities.MediaTypeImage {
		t.Errorf("Expected media type image, got %s", report.MediaType)
	}
	if report.Dimensions != "100x50" {
		t.Errorf("Expected dimensions 100x50, got %s", report.Dimensions)
	}
	if report.Channels != 3 {
		t.Errorf("Expected 3 channels, got %d", report.Channels)
	}
	if report.TotalBits != 15000 {
		t.Errorf("Expected 15000 total bits, got %d", report.TotalBits)
	}
	if report.MaxCharacters != 1875 {
		t.Errorf("Expected 1875 max characters, got %d", report.MaxCharacters)
	}
	if report.RecommendedLen != 1825 {
		t.Errorf("Expected recommended length 1825, got %d", report.RecommendedLen)
	}
}

func TestImageDecodeGarbage(t *testing.T) {
	adapter := NewImageCarrier(zap.NewNop())
	if _, err := adapter.Capacity([]byte("definitely not an image")); err == nil {
		t.Error("Expected error for non-image input")
	}
}
