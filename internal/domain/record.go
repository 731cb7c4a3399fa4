package domain

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Trend classifies a percent difference for display
type Trend string

const (
	TrendFavorable   Trend = "FAVORABLE"   // price went down
	TrendUnfavorable Trend = "UNFAVORABLE" // price went up
	TrendNeutral     Trend = "NEUTRAL"
)

var (
	hundred = decimal.NewFromInt(100)

	sliderLow  = decimal.RequireFromString("0.5")
	sliderHigh = decimal.RequireFromString("1.5")
)

// Supported price precision. Text longer than maxPriceLength is rejected before parsing.
const (
	maxPriceLength   = 40
	maxPriceDigits   = 18 // digits before the decimal point
	maxPriceDecimals = 8
)

// PriceRecord is a single tracked item within a day bucket
type PriceRecord struct {
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	PreviousPrice  decimal.Decimal  `json:"previousPrice"`
	CurrentPrice   decimal.Decimal  `json:"currentPrice"`
	Category       string           `json:"category"`
	CreatedAt      Day              `json:"createdAt"`
	TargetPurchase *decimal.Decimal `json:"targetPurchase,omitempty"`
	LastPrice      *decimal.Decimal `json:"lastPrice,omitempty"` // latest CurrentPrice set by an adjustment
}

// Difference returns the signed percent change from PreviousPrice to CurrentPrice
func (r PriceRecord) Difference() decimal.Decimal {
	return PercentDifference(r.PreviousPrice, r.CurrentPrice)
}

// UnitsToBuy returns how many units TargetPurchase buys at CurrentPrice
func (r PriceRecord) UnitsToBuy() (decimal.Decimal, bool) {
	if r.TargetPurchase == nil {
		return decimal.Zero, false
	}
	return UnitsToBuy(*r.TargetPurchase, r.CurrentPrice)
}

// ItemInput is the raw form data for creating or editing a record.
// Prices arrive as text and are parsed by Parse.
type ItemInput struct {
	Name           string
	PreviousPrice  string
	Category       string
	TargetPurchase string // optional
}

// ParsedItem is a validated ItemInput
type ParsedItem struct {
	Name           string
	PreviousPrice  decimal.Decimal
	Category       string
	TargetPurchase *decimal.Decimal
}

// Parse validates the input and converts its prices.
// Returns a *ValidationError if a required field is missing or a price is not positive.
func (in ItemInput) Parse() (ParsedItem, error) {
	if strings.TrimSpace(in.Name) == "" {
		return ParsedItem{}, NewValidationError("name", "please fill in all required fields")
	}
	if strings.TrimSpace(in.PreviousPrice) == "" {
		return ParsedItem{}, NewValidationError("previousPrice", "please fill in all required fields")
	}

	price, ok := ParsePrice(in.PreviousPrice)
	if !ok || !price.IsPositive() {
		return ParsedItem{}, NewValidationError("previousPrice", "please enter a valid positive price")
	}

	parsed := ParsedItem{
		Name:          in.Name,
		PreviousPrice: price,
		Category:      in.Category,
	}

	if target := strings.TrimSpace(in.TargetPurchase); target != "" {
		amount, ok := ParsePrice(target)
		if !ok || !amount.IsPositive() {
			return ParsedItem{}, NewValidationError("targetPurchase", "please enter a valid positive target purchase")
		}
		parsed.TargetPurchase = &amount
	}

	return parsed, nil
}

// ParsePrice converts text to a price.
// Reports false when s is not a decimal number or falls outside InPriceRange.
func ParsePrice(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxPriceLength {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !InPriceRange(d) {
		return decimal.Zero, false
	}
	return d, true
}

// InPriceRange reports whether d has at most 18 integer digits and 8 decimal places.
// Exponent notation such as "1e10000000" parses cheaply but would expand to millions
// of digits whenever the value is formatted, so it is bounded here.
func InPriceRange(d decimal.Decimal) bool {
	exp := int(d.Exponent())
	if exp < -maxPriceDecimals {
		return false
	}
	return d.NumDigits()+exp <= maxPriceDigits
}

// PercentDifference returns (current - previous) / previous * 100.
// A zero previous price yields zero.
func PercentDifference(previous, current decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred)
}

// UnitsToBuy returns target / current.
// The second result is false when current is zero, in which case no value is shown.
func UnitsToBuy(target, current decimal.Decimal) (decimal.Decimal, bool) {
	if current.IsZero() {
		return decimal.Zero, false
	}
	return target.Div(current), true
}

// TrendOf classifies a percent difference
func TrendOf(diff decimal.Decimal) Trend {
	switch diff.Sign() {
	case -1:
		return TrendFavorable
	case 1:
		return TrendUnfavorable
	default:
		return TrendNeutral
	}
}

// SliderBounds returns the inclusive range a current price may be adjusted within
func SliderBounds(previous decimal.Decimal) (low, high decimal.Decimal) {
	return previous.Mul(sliderLow), previous.Mul(sliderHigh)
}

// ClampPrice snaps price to the 0.01 slider step and clamps it into SliderBounds(previous).
// The reconciliation engine never calls this; it is for callers acting as the slider.
func ClampPrice(previous, price decimal.Decimal) decimal.Decimal {
	low, high := SliderBounds(previous)
	price = price.Round(2)
	if price.LessThan(low) {
		return low
	}
	if price.GreaterThan(high) {
		return high
	}
	return price
}
