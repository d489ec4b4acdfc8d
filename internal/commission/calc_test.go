package commission

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateWithFlatFee(t *testing.T) {
	b := Calculate(Inputs{
		DealValue:          1_000_000,
		FeePercent:         0.06,
		FlatFee:            50_000, // flat fee wins over percent
		ReferralFeePercent: 0.10,
		HousePercent:       0.20,
	})

	assert.Equal(t, 50_000.0, b.GCI)
	assert.Equal(t, 5_000.0, b.ReferralFee)
	assert.Equal(t, 9_000.0, b.HouseFee)
	assert.Equal(t, 36_000.0, b.AGCI)
}

func TestCalculateWithFeePercent(t *testing.T) {
	b := Calculate(Inputs{
		DealValue:  2_500_000,
		FeePercent: 0.04,
	})

	assert.Equal(t, 100_000.0, b.GCI)
	assert.Equal(t, 0.0, b.ReferralFee)
	assert.Equal(t, 0.0, b.HouseFee)
	assert.Equal(t, 100_000.0, b.AGCI)
}

func TestCalculateRoundsToCents(t *testing.T) {
	b := Calculate(Inputs{
		DealValue:          333_333,
		FeePercent:         0.03,
		ReferralFeePercent: 0.07,
		HousePercent:       0.15,
	})

	// GCI = 9999.99; referral = 700.00 (699.9993 rounded); remainder splits cleanly
	assert.Equal(t, 9999.99, b.GCI)
	assert.Equal(t, 700.0, b.ReferralFee)
	assert.Equal(t, 1395.0, b.HouseFee)
	assert.Equal(t, 7904.99, b.AGCI)
	assert.Equal(t, b.GCI, RoundCents(b.ReferralFee+b.HouseFee+b.AGCI))
}

func TestBreakdownAmount(t *testing.T) {
	b := Breakdown{AGCI: 36_000}
	assert.Equal(t, 18_000.0, b.Amount(0.5))
	assert.Equal(t, 11_880.0, b.Amount(0.33))
}

func TestTotalPercent(t *testing.T) {
	splits := []Split{
		{SplitPercent: 0.5},
		{SplitPercent: 0.3},
	}
	assert.InDelta(t, 0.8, TotalPercent(splits), 1e-12)
	assert.Zero(t, TotalPercent(nil))
}
