package carrier

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/stegavox/stegavox/domain/entities"
	"github.com/stegavox/stegavox/domain/repositories"
)

// VideoCarrier is a deliberate stub. Frame-level video embedding is not
// implemented, so every operation deterministically reports unsupported
// instead of fabricating success.
type VideoCarrier struct {
	logger *zap.Logger
}

// NewVideoCarrier creates the video carrier stub
func NewVideoCarrier(logger *zap.Logger) repositories.Carrier {
	return &VideoCarrier{logger: logger}
}

func (c *VideoCarrier) MediaType() entities.MediaType {
	return entities.MediaTypeVideo
}

func (c *VideoCarrier) Capacity(carrier []byte) (int, error) {
	return 0, c.unsupported()
}

func (c *VideoCarrier) Embed(carrier []byte, bits []byte) ([]byte, error) {
	return nil, c.unsupported()
}

func (c *VideoCarrier) Extract(carrier []byte, maxBits int) ([]byte, error) {
	return nil, c.unsupported()
}

func (c *VideoCarrier) Describe(carrier []byte) (entities.CapacityReport, error) {
	return entities.CapacityReport{}, c.unsupported()
}

func (c *VideoCarrier) unsupported() error {
	return fmt.Errorf("%w: video embedding is not implemented", entities.ErrUnsupportedMedia)
}
