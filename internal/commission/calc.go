package commission

import "math"

// Inputs are the fee fields of a deal that drive the commission math.
type Inputs struct {
	DealValue          float64
	FeePercent         float64 // fraction of deal value, used when FlatFee is 0
	FlatFee            float64 // overrides FeePercent when > 0
	ReferralFeePercent float64 // fraction of GCI
	HousePercent       float64 // fraction of GCI net of referral
}

// Breakdown is the derived commission waterfall.
//
//	GCI         gross commission income
//	ReferralFee GCI x referral percent, paid out first
//	HouseFee    (GCI - ReferralFee) x house percent
//	AGCI        what remains to split among brokers
type Breakdown struct {
	GCI         float64 `json:"gci"`
	ReferralFee float64 `json:"referralFee"`
	HouseFee    float64 `json:"houseFee"`
	AGCI        float64 `json:"agci"`
}

// RoundCents rounds to two decimal places, half away from zero.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// Calculate derives the commission waterfall from deal fee fields.
func Calculate(in Inputs) Breakdown {
	gci := in.FlatFee
	if gci <= 0 {
		gci = in.DealValue * in.FeePercent
	}
	gci = RoundCents(gci)

	referral := RoundCents(gci * in.ReferralFeePercent)
	house := RoundCents((gci - referral) * in.HousePercent)

	return Breakdown{
		GCI:         gci,
		ReferralFee: referral,
		HouseFee:    house,
		AGCI:        RoundCents(gci - referral - house),
	}
}

// Amount is one broker's share of the AGCI.
func (b Breakdown) Amount(splitPercent float64) float64 {
	return RoundCents(b.AGCI * splitPercent)
}

// TotalPercent sums split percents; callers reject totals above 1.0.
func TotalPercent(splits []Split) float64 {
	var total float64
	for _, s := range splits {
		total += s.SplitPercent
	}
	return total
}
