package aggregation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestComputeRatios(t *testing.T) {
	tests := []struct {
		name                                string
		impressions, clicks, convs          int64
		spend, revenue                      string
		wantCTR, wantCPC, wantCPA, wantROAS string
	}{
		{
			name:        "reference scenario",
			impressions: 1000, clicks: 25, convs: 3,
			spend: "30", revenue: "120",
			wantCTR: "2.50", wantCPC: "1.20", wantCPA: "10.00", wantROAS: "4.00",
		},
		{
			name:  "all zero divisors",
			spend: "0", revenue: "0",
			wantCTR: "0.00", wantCPC: "0.00", wantCPA: "0.00", wantROAS: "0.00",
		},
		{
			name:        "revenue without spend",
			impressions: 10, convs: 1,
			spend: "0", revenue: "50",
			wantCTR: "0.00", wantCPC: "0.00", wantCPA: "0.00", wantROAS: "0.00",
		},
		{
			name:        "rounding",
			impressions: 3, clicks: 1,
			spend: "1", revenue: "0",
			wantCTR: "33.33", wantCPC: "1.00", wantCPA: "0.00", wantROAS: "0.00",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := ComputeRatios(tc.impressions, tc.clicks, tc.convs,
				decimal.RequireFromString(tc.spend), decimal.RequireFromString(tc.revenue))
			require.Equal(t, tc.wantCTR, r.CTR.StringFixed(2))
			require.Equal(t, tc.wantCPC, r.CPC.StringFixed(2))
			require.Equal(t, tc.wantCPA, r.CPA.StringFixed(2))
			require.Equal(t, tc.wantROAS, r.ROAS.StringFixed(2))
		})
	}
}
