package pricing

import "errors"

// PlatformFeePercent is the marketplace surcharge applied to every booking.
const PlatformFeePercent = 5

var ErrInvalidPrice = errors.New("base price must be positive")

// Quote is the pricing snapshot frozen onto a booking at creation time.
type Quote struct {
	BasePrice   int64 `json:"base_price"`
	PlatformFee int64 `json:"platform_fee"`
	TotalAmount int64 `json:"total_amount"`
}

// Compute derives the platform fee and total from a base price in whole
// currency units. The fee is 5% of the base, rounded half-up to the nearest
// unit. Pure: callers may invoke it any number of times, but the result must
// be stored once on the booking and never recomputed.
func Compute(basePrice int64) (Quote, error) {
	if basePrice <= 0 {
		return Quote{}, ErrInvalidPrice
	}

	fee := (basePrice*PlatformFeePercent + 50) / 100

	return Quote{
		BasePrice:   basePrice,
		PlatformFee: fee,
		TotalAmount: basePrice + fee,
	}, nil
}
