package utils

import (
	"fmt"
	"time"

	"fleetrent-backend/internal/domain"

	"github.com/shopspring/decimal"
)

// Prices are rounded to cents.
const pricePlaces = 2

// PriceBreakdown itemises a rental price
type PriceBreakdown struct {
	Days         int             `json:"days"`
	DailyRate    decimal.Decimal `json:"daily_rate"`
	BaseCost     decimal.Decimal `json:"base_cost"`
	AddOnCost    decimal.Decimal `json:"add_on_cost"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	DiscountRate decimal.Decimal `json:"discount_rate"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"`
}

type discountTier struct {
	minDays int
	rate    decimal.Decimal
}

// Longest tier first; only the first matching tier applies.
var discountTiers = []discountTier{
	{minDays: 30, rate: decimal.RequireFromString("0.15")},
	{minDays: 14, rate: decimal.RequireFromString("0.10")},
	{minDays: 7, rate: decimal.RequireFromString("0.05")},
}

// ParseDate converts a yyyy-mm-dd formatted string into a calendar date
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date format, expected yyyy-mm-dd", domain.ErrValidation)
	}
	return t, nil
}

// DiscountRate returns the fractional discount for a rental of the given length
func DiscountRate(days int) decimal.Decimal {
	for _, tier := range discountTiers {
		if days >= tier.minDays {
			return tier.rate
		}
	}
	return decimal.Zero
}

// CalculateRentalPrice computes the total for renting at dailyRate for the
// given number of days with the selected add-ons.
func CalculateRentalPrice(dailyRate decimal.Decimal, days int, addOns []domain.AddOn) (decimal.Decimal, error) {
	b, err := CalculateRentalPriceWithBreakdown(dailyRate, days, addOns)
	if err != nil {
		return decimal.Zero, err
	}
	return b.Total, nil
}

// CalculateRentalPriceWithBreakdown provides detailed breakdown of the rental price
func CalculateRentalPriceWithBreakdown(dailyRate decimal.Decimal, days int, addOns []domain.AddOn) (PriceBreakdown, error) {
	if dailyRate.IsNegative() {
		return PriceBreakdown{}, fmt.Errorf("%w: negative daily rate %s", domain.ErrInvalidPricingInput, dailyRate)
	}
	if days < 0 {
		return PriceBreakdown{}, fmt.Errorf("%w: negative duration %d", domain.ErrInvalidPricingInput, days)
	}

	n := decimal.NewFromInt(int64(days))
	addOnCost := decimal.Zero
	for _, a := range addOns {
		if a.DailySurcharge.IsNegative() {
			return PriceBreakdown{}, fmt.Errorf("%w: negative surcharge on add-on %d", domain.ErrInvalidPricingInput, a.ID)
		}
		addOnCost = addOnCost.Add(a.DailySurcharge.Mul(n))
	}

	base := dailyRate.Mul(n)
	subtotal := base.Add(addOnCost)
	rate := DiscountRate(days)
	total := subtotal.Mul(decimal.NewFromInt(1).Sub(rate)).Round(pricePlaces)

	return PriceBreakdown{
		Days:         days,
		DailyRate:    dailyRate,
		BaseCost:     base.Round(pricePlaces),
		AddOnCost:    addOnCost.Round(pricePlaces),
		Subtotal:     subtotal.Round(pricePlaces),
		DiscountRate: rate,
		Discount:     subtotal.Round(pricePlaces).Sub(total),
		Total:        total,
	}, nil
}
