package usecase

import (
	"strings"
	"unicode"

	"github.com/stegavox/stegavox/domain/entities"
)

// EstimateSecurityMetrics scores a hide request's password strength and
// message character diversity. The result is advisory guidance for the
// caller and never gates the pipeline.
func EstimateSecurityMetrics(message, password string) entities.SecurityMetrics {
	entropy := 0.0
	if len(message) > 0 {
		distinct := make(map[rune]struct{})
		for _, r := range strings.ToLower(message) {
			distinct[r] = struct{}{}
		}
		entropy = float64(len(distinct)) / float64(len([]rune(message)))
	}

	strength := 0
	if len(password) >= 8 {
		strength += 25
	}
	if strings.ContainsFunc(password, unicode.IsUpper) {
		strength += 25
	}
	if strings.ContainsFunc(password, unicode.IsLower) {
		strength += 25
	}
	if strings.ContainsFunc(password, unicode.IsDigit) {
		strength += 25
	}

	score := (float64(strength) + entropy*100) / 2

	rating := "WEAK"
	switch {
	case score >= 80:
		rating = "EXCELLENT"
	case score >= 60:
		rating = "GOOD"
	case score >= 40:
		rating = "MODERATE"
	}

	var recommendations []string
	if strength < 75 {
		recommendations = append(recommendations, "Use a stronger password with mixed case, numbers, and symbols")
	}
	if entropy < 0.3 {
		recommendations = append(recommendations, "Consider using a more varied message with different characters")
	}
	if len(recommendations) == 0 {
		recommendations = append(recommendations, "Excellent security configuration")
	}

	return entities.SecurityMetrics{
		MessageEntropy:   entropy,
		PasswordStrength: strength,
		SecurityScore:    score,
		Rating:           rating,
		Recommendations:  recommendations,
	}
}
