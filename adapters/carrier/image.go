// Package carrier implements the cover media adapters. Each adapter exposes
// the same contract: a flat view of the carrier's samples, a bit capacity,
// and LSB embed/extract primitives that never mutate the input carrier.
package carrier

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	_ "image/gif"
	_ "image/jpeg"

	"go.uber.org/zap"

	"github.com/stegavox/stegavox/domain/entities"
	"github.com/stegavox/stegavox/domain/repositories"
)

// imageChannels is the number of embeddable channels per pixel. Payload bits
// live in R, G and B only: alpha is copied through untouched, so the PNG
// encoder's opaque/non-opaque choice can never shift the sample layout
// between embed and extract.
const imageChannels = 3

// ImageCarrier embeds bits into the least-significant bit of each pixel
// color channel, row-major. Output is always lossless PNG so the embedded
// bits survive storage.
type ImageCarrier struct {
	logger *zap.Logger
}

// NewImageCarrier creates the image carrier adapter
func NewImageCarrier(logger *zap.Logger) repositories.Carrier {
	return &ImageCarrier{logger: logger}
}

func (c *ImageCarrier) MediaType() entities.MediaType {
	return entities.MediaTypeImage
}

// decodeFlat normalizes an arbitrary input image to an NRGBA grid and
// returns the flattened R,G,B samples. Alpha is not part of the sample
// sequence.
func (c *ImageCarrier) decodeFlat(carrier []byte) (flat []byte, img *image.NRGBA, err error) {
	decoded, _, err := image.Decode(bytes.NewReader(carrier))
	if err != nil {
		return nil, nil, fmt.Errorf("decoding image: %w", err)
	}

	bounds := decoded.Bounds()
	img = image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(img, img.Bounds(), decoded, bounds.Min, draw.Src)

	width, height := img.Rect.Dx(), img.Rect.Dy()
	flat = make([]byte, 0, width*height*imageChannels)
	for y := 0; y < height; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+width*4]
		for x := 0; x < width; x++ {
			flat = append(flat, row[x*4:x*4+imageChannels]...)
		}
	}
	return flat, img, nil
}

func (c *ImageCarrier) Capacity(carrier []byte) (int, error) {
	flat, _, err := c.decodeFlat(carrier)
	if err != nil {
		return 0, err
	}
	return len(flat), nil
}

func (c *ImageCarrier) Embed(carrier []byte, bits []byte) ([]byte, error) {
	flat, img, err := c.decodeFlat(carrier)
	if err != nil {
		return nil, err
	}

	if len(bits) > len(flat) {
		return nil, &entities.CapacityError{RequiredBits: len(bits), AvailableBits: len(flat)}
	}

	stego := make([]byte, len(flat))
	copy(stego, flat)
	for i, bit := range bits {
		stego[i] = stego[i]&0xFE | bit
	}

	// Write the modified samples back into the pixel grid; alpha and
	// untouched color channels keep their original values.
	width, height := img.Rect.Dx(), img.Rect.Dy()
	out := image.NewNRGBA(img.Rect)
	copy(out.Pix, img.Pix)
	i := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			off := y*out.Stride + x*4
			copy(out.Pix[off:off+imageChannels], stego[i:i+imageChannels])
			i += imageChannels
		}
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, out); err != nil {
		return nil, fmt.Errorf("encoding stego image: %w", err)
	}

	c.logger.Debug("Embedded payload into image",
		zap.Int("bits", len(bits)),
		zap.Int("capacity", len(flat)))

	return buf.Bytes(), nil
}

func (c *ImageCarrier) Extract(carrier []byte, maxBits int) ([]byte, error) {
	flat, _, err := c.decodeFlat(carrier)
	if err != nil {
		return nil, err
	}

	if maxBits <= 0 || maxBits > len(flat) {
		maxBits = len(flat)
	}

	bits := make([]byte, maxBits)
	for i := 0; i < maxBits; i++ {
		bits[i] = flat[i] & 1
	}
	return bits, nil
}

func (c *ImageCarrier) Describe(carrier []byte) (entities.CapacityReport, error) {
	flat, img, err := c.decodeFlat(carrier)
	if err != nil {
		return entities.CapacityReport{}, err
	}

	report := entities.NewCapacityReport(entities.MediaTypeImage, len(flat), imageChannels)
	report.Dimensions = fmt.Sprintf("%dx%d", img.Rect.Dx(), img.Rect.Dy())
	return report, nil
}
