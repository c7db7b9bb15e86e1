package services

import (
	"errors"

	"github.com/yungbote/lumina-backend/internal/pkg/money"
)

const (
	// Orders strictly above this subtotal ship free.
	FreeShippingThreshold = money.Amount(5000)
	FlatShippingCost      = money.Amount(1000)
	TaxPercent            = 8
)

// ErrTotalTooLarge means an order's total does not fit in money.Max.
var ErrTotalTooLarge = errors.New("order total is too large")

type PriceLine struct {
	Price    money.Amount
	Quantity int
}

type OrderTotals struct {
	Subtotal money.Amount
	Shipping money.Amount
	Tax      money.Amount
	Discount money.Amount
	Total    money.Amount
}

// PriceOrder computes checkout totals. All arithmetic is in cents; tax rounds
// half-up to the cent. Line products and the running sum are overflow checked
// and the total is capped at money.Max.
func PriceOrder(lines []PriceLine) (OrderTotals, error) {
	var t OrderTotals
	for _, l := range lines {
		line, ok := l.Price.MulChecked(l.Quantity)
		if !ok {
			return OrderTotals{}, ErrTotalTooLarge
		}
		if t.Subtotal, ok = t.Subtotal.AddChecked(line); !ok || t.Subtotal > money.Max {
			return OrderTotals{}, ErrTotalTooLarge
		}
	}
	if t.Subtotal <= FreeShippingThreshold {
		t.Shipping = FlatShippingCost
	}
	t.Tax = t.Subtotal.PercentOf(TaxPercent)
	t.Total = t.Subtotal + t.Shipping + t.Tax - t.Discount
	if t.Total > money.Max {
		return OrderTotals{}, ErrTotalTooLarge
	}
	return t, nil
}
