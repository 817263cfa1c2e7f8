package entities

// GateState tracks a voice verification attempt through its lifecycle.
type GateState string

const (
	GateStateIdle         GateState = "idle"
	GateStateTranscribing GateState = "transcribing"
	GateStateScoring      GateState = "scoring"
	GateStateVerified     GateState = "verified"
	GateStateRejected     GateState = "rejected"
)

// Transcript is the outcome of one transcription attempt. It is derived,
// ephemeral state and never cached. A failed attempt still yields a Transcript
// with Success=false and the failure captured in Reason.
type Transcript struct {
	Text           string  `json:"text"`
	NormalizedText string  `json:"normalized_text"`
	Language       string  `json:"language"`
	Confidence     float64 `json:"confidence"`
	Success        bool    `json:"success"`
	Reason         string  `json:"reason,omitempty"`
}

// FailedTranscript builds the soft-failure Transcript for a transcription or
// conversion error.
func FailedTranscript(reason string) Transcript {
	return Transcript{
		Language: "unknown",
		Success:  false,
		Reason:   reason,
	}
}

// VerificationResult is the decision record of one passphrase verification
// attempt. It is created per attempt and never persisted.
type VerificationResult struct {
	State              GateState  `json:"state"`
	Transcript         Transcript `json:"transcript"`
	ExpectedText       string     `json:"expected_text"`
	ExpectedNormalized string     `json:"expected_normalized"`
	Score              float64    `json:"similarity"`
	Threshold          float64    `json:"threshold"`
	Pass               bool       `json:"verified"`
}
