package repositories

import "github.com/stegavox/stegavox/domain/entities"

// Carrier abstracts a cover media type that can host payload bits in the
// least-significant bits of its samples. Implementations are stateless and
// never mutate the input carrier: Embed always returns a new encoded buffer.
type Carrier interface {
	// MediaType reports which media kind this adapter handles
	MediaType() entities.MediaType
	// Capacity returns the number of embeddable bits in the carrier
	Capacity(carrier []byte) (int, error)
	// Embed overwrites the first len(bits) sample LSBs and returns the
	// re-encoded carrier. It fails with *entities.CapacityError when the
	// payload does not fit.
	Embed(carrier []byte, bits []byte) ([]byte, error)
	// Extract reads sample LSBs. maxBits <= 0 reads every sample.
	Extract(carrier []byte, maxBits int) ([]byte, error)
	// Describe returns the collaborator-facing capacity report
	Describe(carrier []byte) (entities.CapacityReport, error)
}
