package aggregation

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Ratios are the derived performance metrics. All values are rounded to two places.
type Ratios struct {
	CTR  decimal.Decimal `json:"ctr"`
	CPC  decimal.Decimal `json:"cpc"`
	CPA  decimal.Decimal `json:"cpa"`
	ROAS decimal.Decimal `json:"roas"`
}

// ComputeRatios derives CTR (percent), CPC, CPA and ROAS. A zero divisor yields zero.
func ComputeRatios(impressions, clicks, conversions int64, spend, revenue decimal.Decimal) Ratios {
	return Ratios{
		CTR:  safeDiv(decimal.NewFromInt(clicks).Mul(hundred), decimal.NewFromInt(impressions)),
		CPC:  safeDiv(spend, decimal.NewFromInt(clicks)),
		CPA:  safeDiv(spend, decimal.NewFromInt(conversions)),
		ROAS: safeDiv(revenue, spend),
	}
}

// Ratios returns the derived metrics for the bucket.
func (b Bucket) Ratios() Ratios {
	return ComputeRatios(b.Impressions, b.Clicks, b.Conversions, b.Spend, b.Revenue)
}

func safeDiv(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.DivRound(den, 4).Round(2)
}
