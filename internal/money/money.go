package money

import (
	"fmt"
	"math"
)

// Cents is a BRL amount in centavos. All balances, prices and fees are
// stored and computed as integer centavos; floats only appear at the API
// boundary.
type Cents int64

// FromBRL converts a currency-unit amount (e.g. a JSON number from the
// client) to centavos, rounding half away from zero.
func FromBRL(amount float64) Cents {
	return Cents(math.Round(amount * 100))
}

// BRL converts back to currency units for API responses.
func (c Cents) BRL() float64 {
	return float64(c) / 100
}

func (c Cents) String() string {
	return fmt.Sprintf("R$ %d.%02d", c/100, abs(int64(c))%100)
}

// SplitFee computes the platform fee and creator payout for an escrow
// amount. The fee is feePercent of the amount, rounded half up on the
// scaled value (amount*percent, then /100) so the split is exact in
// integer centavos and fee+payout always equals amount.
func SplitFee(amount Cents, feePercent int) (fee, payout Cents) {
	if amount <= 0 || feePercent <= 0 {
		return 0, amount
	}
	fee = Cents((int64(amount)*int64(feePercent) + 50) / 100)
	return fee, amount - fee
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
