// Package integrity hashes messages and compares an original against a
// round-tripped candidate. The check is advisory: it detects corruption after
// the fact and never blocks decryption.
package integrity

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/stegavox/stegavox/domain/entities"
)

// Hash returns the hex-encoded SHA-256 digest of the message.
func Hash(message string) string {
	sum := sha256.Sum256([]byte(message))
	return hex.EncodeToString(sum[:])
}

// Compare hashes both messages and reports whether they match. Any single
// differing byte yields score 0; only an exact match scores 100.
func Compare(original, candidate string) entities.IntegrityRecord {
	originalHash := Hash(original)
	candidateHash := Hash(candidate)
	match := originalHash == candidateHash

	score := 0
	if match {
		score = 100
	}

	return entities.IntegrityRecord{
		OriginalHash:  originalHash,
		ExtractedHash: candidateHash,
		Match:         match,
		Score:         score,
	}
}

// CompareAgainstHash is Compare for callers that retained only the original
// hash, such as a stored hide session.
func CompareAgainstHash(originalHash, candidate string) entities.IntegrityRecord {
	candidateHash := Hash(candidate)
	match := originalHash == candidateHash

	score := 0
	if match {
		score = 100
	}

	return entities.IntegrityRecord{
		OriginalHash:  originalHash,
		ExtractedHash: candidateHash,
		Match:         match,
		Score:         score,
	}
}

// StegoFilename derives a content-addressed output filename for a stego
// carrier, e.g. stego_1a2b3c4d5e.png.
func StegoFilename(message string, mediaType entities.MediaType) string {
	ext := ".png"
	switch mediaType {
	case entities.MediaTypeAudio:
		ext = ".wav"
	case entities.MediaTypeVideo:
		ext = ".mp4"
	}
	return "stego_" + Hash(message)[:10] + ext
}
