package pricing

import (
	"errors"
	"testing"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name     string
		base     int64
		wantFee  int64
		wantTotal int64
	}{
		{
			name:      "wedding price",
			base:      15000,
			wantFee:   750,
			wantTotal: 15750,
		},
		{
			name:      "grih pravesh price",
			base:      8000,
			wantFee:   400,
			wantTotal: 8400,
		},
		{
			name:      "rounds half up",
			base:      1010, // 5% = 50.5
			wantFee:   51,
			wantTotal: 1061,
		},
		{
			name:      "rounds down below half",
			base:      1009, // 5% = 50.45
			wantFee:   50,
			wantTotal: 1059,
		},
		{
			name:      "smallest price",
			base:      1, // 5% = 0.05
			wantFee:   0,
			wantTotal: 1,
		},
		{
			name:      "exact half rounds up",
			base:      10, // 5% = 0.5
			wantFee:   1,
			wantTotal: 11,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := Compute(tt.base)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if quote.BasePrice != tt.base {
				t.Errorf("BasePrice = %d, want %d", quote.BasePrice, tt.base)
			}
			if quote.PlatformFee != tt.wantFee {
				t.Errorf("PlatformFee = %d, want %d", quote.PlatformFee, tt.wantFee)
			}
			if quote.TotalAmount != tt.wantTotal {
				t.Errorf("TotalAmount = %d, want %d", quote.TotalAmount, tt.wantTotal)
			}
			if quote.BasePrice+quote.PlatformFee != quote.TotalAmount {
				t.Errorf("total %d does not equal base %d + fee %d", quote.TotalAmount, quote.BasePrice, quote.PlatformFee)
			}
		})
	}
}

func TestCompute_InvalidPrice(t *testing.T) {
	for _, base := range []int64{0, -1, -15000} {
		_, err := Compute(base)
		if !errors.Is(err, ErrInvalidPrice) {
			t.Errorf("Compute(%d) error = %v, want ErrInvalidPrice", base, err)
		}
	}
}
