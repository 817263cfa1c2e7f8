package entities

// MediaType identifies the kind of cover media hosting an embedded message.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeAudio MediaType = "audio"
	MediaTypeVideo MediaType = "video"
)

// EndMarkerBits is the number of bits the framing marker occupies in a carrier.
const EndMarkerBits = 16

// CapacityReport describes how much payload a carrier can host.
type CapacityReport struct {
	MediaType       MediaType `json:"media_type"`
	Dimensions      string    `json:"dimensions,omitempty"`       // image: "WxH"
	DurationSeconds float64   `json:"duration_seconds,omitempty"` // audio
	SampleRate      int       `json:"sample_rate,omitempty"`      // audio
	Channels        int       `json:"channels"`
	TotalBits       int       `json:"total_bits"`
	MaxCharacters   int       `json:"max_characters"`
	RecommendedLen  int       `json:"recommended_message_length"`
	Estimated       bool      `json:"estimated,omitempty"` // capacity inferred from file size, not samples
}

// NewCapacityReport fills in the derived fields shared by every media type.
// Recommended length leaves headroom for the end marker and framing slack.
func NewCapacityReport(mediaType MediaType, totalBits, channels int) CapacityReport {
	maxChars := totalBits / 8
	recommended := maxChars - 50
	if recommended < 0 {
		recommended = 0
	}
	return CapacityReport{
		MediaType:      mediaType,
		Channels:       channels,
		TotalBits:      totalBits,
		MaxCharacters:  maxChars,
		RecommendedLen: recommended,
	}
}
