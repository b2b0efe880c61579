package dto

// Money amounts cross the API in BRL (reais, decimal); conversion to
// centavos happens once at the handler boundary.

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"` // advertiser or creator
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateCampaignRequest struct {
	CreatorID   string  `json:"creator_id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
}

type FundEscrowRequest struct {
	CreatorID     string  `json:"creator_id"`
	Amount        float64 `json:"amount"`
	CPVRate       float64 `json:"cpv_rate"`
	ExpectedViews int64   `json:"expected_views"`
}

type SubmitLinkProofRequest struct {
	ProofType string `json:"proof_type"`
	LinkURL   string `json:"link_url"`
	ViewCount *int64 `json:"view_count"`
}

type ReviewProofRequest struct {
	Decision string  `json:"decision"` // approved or rejected
	Notes    *string `json:"notes"`
}

type WithdrawalRequest struct {
	Amount float64 `json:"amount"`
	PixKey string  `json:"pix_key"`
}

type SettleWithdrawalRequest struct {
	Paid bool `json:"paid"`
}
