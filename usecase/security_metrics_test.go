package usecase

import "testing"

func TestEstimateSecurityMetricsStrongConfiguration(t *testing.T) {
	metrics := EstimateSecurityMetrics("The quick brown fox jumps!", "Sup3rSecret")

	if metrics.PasswordStrength != 100 {
		t.Errorf("Expected password strength 100, got %d", metrics.PasswordStrength)
	}
	if metrics.SecurityScore < 60 {
		t.Errorf("Expected a good security score, got %f", metrics.SecurityScore)
	}
	if len(metrics.Recommendations) == 0 {
		t.Error("Expected at least one recommendation entry")
	}
}

func TestEstimateSecurityMetricsWeakPassword(t *testing.T) {
	metrics := EstimateSecurityMetrics("aaaaaaaaaaaaaaaaaaaa", "abc")

	if metrics.PasswordStrength != 25 {
		t.Errorf("Expected password strength 25 for lowercase-only short password, got %d", metrics.PasswordStrength)
	}
	if metrics.Rating != "WEAK" {
		t.Errorf("Expected WEAK rating, got %s", metrics.Rating)
	}
	if len(metrics.Recommendations) < 2 {
		t.Errorf("Expected recommendations for both password and message, got %v", metrics.Recommendations)
	}
}

func TestEstimateSecurityMetricsEmptyMessage(t *testing.T) {
	metrics := EstimateSecurityMetrics("", "Password1")

	if metrics.MessageEntropy != 0 {
		t.Errorf("Expected zero entropy for empty message, got %f", metrics.MessageEntropy)
	}
}
