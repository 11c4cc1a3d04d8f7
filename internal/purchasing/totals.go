package purchasing

import (
	"github.com/shopspring/decimal"

	"github.com/paintdepot/inkstock-backend/pkg/db/models"
)

// LineSubtotal values one request line. The approved quantity takes precedence
// over the requested one, and the actual price over the estimate. A line with
// no price at all contributes zero.
func LineSubtotal(line models.RequestLine) decimal.Decimal {
	quantity := line.QuantityRequested
	if line.QuantityApproved != nil {
		quantity = *line.QuantityApproved
	}

	var price decimal.Decimal
	switch {
	case line.ActualPrice != nil:
		price = *line.ActualPrice
	case line.EstimatedPrice != nil:
		price = *line.EstimatedPrice
	default:
		return decimal.Zero
	}

	return price.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// RequestTotal sums the line subtotals, rounded to two decimal places.
func RequestTotal(lines []models.RequestLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(LineSubtotal(line))
	}
	return total.Round(2)
}
