package entities

// IntegrityRecord compares the hash of a revealed message against the hash of
// the original. It is advisory only and never blocks decryption.
type IntegrityRecord struct {
	OriginalHash  string `json:"original_hash"`
	ExtractedHash string `json:"extracted_hash"`
	Match         bool   `json:"hash_match"`
	Score         int    `json:"integrity_score"` // 100 on match, 0 otherwise
}

// SecurityMetrics is an advisory estimate of how resilient a hide operation is.
// It never gates the pipeline.
type SecurityMetrics struct {
	MessageEntropy   float64  `json:"message_entropy"`
	PasswordStrength int      `json:"password_strength"` // percentage, 0-100
	SecurityScore    float64  `json:"security_score"`
	Rating           string   `json:"security_rating"`
	Recommendations  []string `json:"recommendations"`
}
