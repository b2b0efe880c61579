package rbac

import (
	"testing"

	"github.com/google/uuid"
)

func TestParseRole(t *testing.T) {
	for _, s := range []string{"advertiser", "creator", "admin"} {
		if _, ok := ParseRole(s); !ok {
			t.Errorf("ParseRole(%q) not ok", s)
		}
	}
	if _, ok := ParseRole("superuser"); ok {
		t.Error("ParseRole(\"superuser\") ok, want false")
	}
}

func TestCanReleaseEscrow(t *testing.T) {
	advertiserID := uuid.New()
	creatorID := uuid.New()
	strangerID := uuid.New()

	tests := []struct {
		name     string
		actor    Actor
		expected bool
	}{
		{"advertiser owns campaign", Actor{UserID: advertiserID, Role: RoleAdvertiser}, true},
		{"admin", Actor{UserID: strangerID, Role: RoleAdmin}, true},
		{"creator of campaign", Actor{UserID: creatorID, Role: RoleCreator}, false},
		{"unrelated advertiser", Actor{UserID: strangerID, Role: RoleAdvertiser}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanReleaseEscrow(tt.actor, advertiserID); got != tt.expected {
				t.Errorf("CanReleaseEscrow = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCanReviewProof(t *testing.T) {
	advertiserID := uuid.New()
	creatorID := uuid.New()

	if CanReviewProof(Actor{UserID: creatorID, Role: RoleCreator}, advertiserID, creatorID) {
		t.Error("creator must not review their own proof")
	}
	if !CanReviewProof(Actor{UserID: advertiserID, Role: RoleAdvertiser}, advertiserID, creatorID) {
		t.Error("advertiser should review proofs on their campaign")
	}
	if !CanReviewProof(Actor{UserID: uuid.New(), Role: RoleAdmin}, advertiserID, creatorID) {
		t.Error("admin should review any proof")
	}
	if CanReviewProof(Actor{UserID: uuid.New(), Role: RoleAdvertiser}, advertiserID, creatorID) {
		t.Error("unrelated advertiser must not review")
	}
}

func TestCanFundEscrow(t *testing.T) {
	advertiserID := uuid.New()
	if !CanFundEscrow(Actor{UserID: advertiserID, Role: RoleAdvertiser}, advertiserID) {
		t.Error("owning advertiser should fund")
	}
	// Admins manage disputes, they do not fund campaigns.
	if CanFundEscrow(Actor{UserID: advertiserID, Role: RoleAdmin}, advertiserID) {
		t.Error("admin should not fund")
	}
	if CanFundEscrow(Actor{UserID: uuid.New(), Role: RoleAdvertiser}, advertiserID) {
		t.Error("non-owner should not fund")
	}
}

func TestCanWithdraw(t *testing.T) {
	if !CanWithdraw(Actor{UserID: uuid.New(), Role: RoleCreator}) {
		t.Error("creator should withdraw")
	}
	if CanWithdraw(Actor{UserID: uuid.New(), Role: RoleAdvertiser}) {
		t.Error("advertiser should not withdraw")
	}
}
