package models

import "testing"

func TestIsValidVerificationTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		// Happy path
		{VerificationNotStarted, VerificationProofSubmitted, true},
		{VerificationProofSubmitted, VerificationUnderReview, true},
		{VerificationProofSubmitted, VerificationVerified, true},
		{VerificationProofSubmitted, VerificationRejected, true},
		{VerificationUnderReview, VerificationVerified, true},
		{VerificationUnderReview, VerificationRejected, true},

		// Resubmission after rejection (new proof row)
		{VerificationRejected, VerificationProofSubmitted, true},

		// Invalid transitions
		{VerificationNotStarted, VerificationVerified, false},
		{VerificationNotStarted, VerificationRejected, false},
		{VerificationNotStarted, VerificationUnderReview, false},
		{VerificationVerified, VerificationRejected, false},
		{VerificationVerified, VerificationProofSubmitted, false},
		{VerificationRejected, VerificationVerified, false},
		{VerificationUnderReview, VerificationProofSubmitted, false},
		{"nonexistent", VerificationProofSubmitted, false},
		{VerificationNotStarted, "nonexistent", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			result := IsValidVerificationTransition(tt.from, tt.to)
			if result != tt.expected {
				t.Errorf("IsValidVerificationTransition(%q, %q) = %v, want %v", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestVerifiedIsTerminal(t *testing.T) {
	if len(ValidVerificationTransitions[VerificationVerified]) != 0 {
		t.Errorf("verified should have no outgoing transitions, got %v", ValidVerificationTransitions[VerificationVerified])
	}
}

func TestEscrowReleasable(t *testing.T) {
	tests := []struct {
		status   string
		expected bool
	}{
		{EscrowStatusPaymentPending, true},
		{EscrowStatusHeld, true},
		{EscrowStatusNone, false},
		{EscrowStatusReleased, false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			if got := EscrowReleasable(tt.status); got != tt.expected {
				t.Errorf("EscrowReleasable(%q) = %v, want %v", tt.status, got, tt.expected)
			}
		})
	}
}

func TestIsValidProofType(t *testing.T) {
	for _, pt := range AllProofTypes {
		if !IsValidProofType(pt) {
			t.Errorf("IsValidProofType(%q) = false, want true", pt)
		}
	}
	if IsValidProofType("pdf") {
		t.Error("IsValidProofType(\"pdf\") = true, want false")
	}
}
