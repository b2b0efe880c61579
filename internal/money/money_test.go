package money

import "testing"

func TestSplitFee(t *testing.T) {
	tests := []struct {
		name       string
		amount     Cents
		feePercent int
		wantFee    Cents
		wantPayout Cents
	}{
		{"200 BRL at 18%", 20000, 18, 3600, 16400},
		{"100 BRL at 18%", 10000, 18, 1800, 8200},
		{"odd centavos round half up", 999, 18, 180, 819}, // 999*18/100 = 179.82
		{"exact half rounds up", 250, 18, 45, 205},        // 250*18/100 = 45 exact
		{"one centavo", 1, 18, 0, 1},                      // 0.18 rounds down
		{"three centavos", 3, 18, 1, 2},                   // 0.54 rounds up
		{"zero amount", 0, 18, 0, 0},
		{"zero percent", 20000, 0, 0, 20000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, payout := SplitFee(tt.amount, tt.feePercent)
			if fee != tt.wantFee {
				t.Errorf("SplitFee(%d, %d) fee = %d, want %d", tt.amount, tt.feePercent, fee, tt.wantFee)
			}
			if payout != tt.wantPayout {
				t.Errorf("SplitFee(%d, %d) payout = %d, want %d", tt.amount, tt.feePercent, payout, tt.wantPayout)
			}
			if fee+payout != tt.amount {
				t.Errorf("fee %d + payout %d != amount %d", fee, payout, tt.amount)
			}
		})
	}
}

func TestSplitFeeAlwaysBalances(t *testing.T) {
	for amount := Cents(1); amount <= 100000; amount += 37 {
		fee, payout := SplitFee(amount, 18)
		if fee+payout != amount {
			t.Fatalf("amount %d: fee %d + payout %d != amount", amount, fee, payout)
		}
		if fee < 0 || payout < 0 {
			t.Fatalf("amount %d: negative split fee=%d payout=%d", amount, fee, payout)
		}
	}
}

func TestFromBRL(t *testing.T) {
	tests := []struct {
		in   float64
		want Cents
	}{
		{200, 20000},
		{0.01, 1},
		{49.99, 4999},
		{50, 5000},
		{163.999, 16400},
	}
	for _, tt := range tests {
		if got := FromBRL(tt.in); got != tt.want {
			t.Errorf("FromBRL(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestBRLRoundTrip(t *testing.T) {
	c := Cents(16400)
	if c.BRL() != 164.0 {
		t.Errorf("BRL() = %v, want 164.0", c.BRL())
	}
}
