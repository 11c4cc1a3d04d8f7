package purchasing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/paintdepot/inkstock-backend/pkg/db/models"
)

func priceOf(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}

func qtyOf(value int) *int {
	return &value
}

func TestRequestTotalFromEstimates(t *testing.T) {
	lines := []models.RequestLine{
		{QuantityRequested: 10, EstimatedPrice: priceOf("5.00")},
		{QuantityRequested: 4, EstimatedPrice: priceOf("2.50")},
	}

	assert.Equal(t, "60.00", RequestTotal(lines).StringFixed(2))
}

func TestRequestTotalPrefersApprovedQuantities(t *testing.T) {
	lines := []models.RequestLine{
		{QuantityRequested: 10, QuantityApproved: qtyOf(8), EstimatedPrice: priceOf("5.00")},
		{QuantityRequested: 4, QuantityApproved: qtyOf(4), EstimatedPrice: priceOf("2.50")},
	}

	assert.Equal(t, "50.00", RequestTotal(lines).StringFixed(2))
}

func TestLineSubtotalPrefersActualPrice(t *testing.T) {
	line := models.RequestLine{
		QuantityRequested: 10,
		QuantityApproved:  qtyOf(8),
		EstimatedPrice:    priceOf("5.00"),
		ActualPrice:       priceOf("4.75"),
	}

	assert.Equal(t, "38.00", LineSubtotal(line).StringFixed(2))
}

func TestLineSubtotalWithoutPriceIsZero(t *testing.T) {
	line := models.RequestLine{QuantityRequested: 10}

	assert.True(t, LineSubtotal(line).IsZero())
}

func TestRequestTotalEmpty(t *testing.T) {
	assert.True(t, RequestTotal(nil).IsZero())
}
