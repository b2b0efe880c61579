package rbac

import "github.com/google/uuid"

// Role is a typed role carried in the JWT. Replaces the original
// boolean-ish has_role RPC with an explicit enum and policy functions.
type Role string

const (
	RoleAdvertiser Role = "advertiser"
	RoleCreator    Role = "creator"
	RoleAdmin      Role = "admin"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdvertiser, RoleCreator, RoleAdmin:
		return Role(s), true
	default:
		return "", false
	}
}

// Actor is a request-scoped identity: resolved once per call from the
// token, then passed explicitly to every policy check.
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanFundEscrow: only the campaign's own advertiser funds it.
func CanFundEscrow(a Actor, advertiserID uuid.UUID) bool {
	return a.Role == RoleAdvertiser && a.UserID == advertiserID
}

// CanReleaseEscrow: the campaign's advertiser or an admin.
func CanReleaseEscrow(a Actor, advertiserID uuid.UUID) bool {
	return a.UserID == advertiserID || a.IsAdmin()
}

// CanSubmitProof: only the assigned creator.
func CanSubmitProof(a Actor, creatorID uuid.UUID) bool {
	return a.UserID == creatorID
}

// CanReviewProof: the campaign's advertiser or an admin. The creator
// never reviews their own proof, admin or not their own campaign.
func CanReviewProof(a Actor, advertiserID, creatorID uuid.UUID) bool {
	if a.UserID == creatorID {
		return false
	}
	return a.UserID == advertiserID || a.IsAdmin()
}

// CanViewCampaign: either side of the campaign, or an admin.
func CanViewCampaign(a Actor, advertiserID, creatorID uuid.UUID) bool {
	return a.UserID == advertiserID || a.UserID == creatorID || a.IsAdmin()
}

// CanWithdraw: creators only; wallets belong to creators.
func CanWithdraw(a Actor) bool {
	return a.Role == RoleCreator
}
