package dto

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type SuccessResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

type FundEscrowResponse struct {
	ClientSecret    string  `json:"client_secret"`
	PaymentIntentID string  `json:"payment_intent_id"`
	Amount          float64 `json:"amount"`
	PlatformFee     float64 `json:"platform_fee"`
	CreatorPayout   float64 `json:"creator_payout"`
}

type ReleaseEscrowResponse struct {
	Payout float64 `json:"payout"`
}
