package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zenithfin/zenith/internal/models"
)

func TestNormalizeUpstoxFieldFallbacks(t *testing.T) {
	tests := []struct {
		name    string
		record  models.RawHoldingRecord
		want    string
		wantQty float64
	}{
		{
			name:    "primary keys",
			record:  models.RawHoldingRecord{"tradingsymbol": "RELIANCE", "quantity": 10.0},
			want:    "RELIANCE",
			wantQty: 10,
		},
		{
			name:    "snake case alias",
			record:  models.RawHoldingRecord{"trading_symbol": "TCS", "buy_quantity": 5.0},
			want:    "TCS",
			wantQty: 5,
		},
		{
			name:    "company name fallback",
			record:  models.RawHoldingRecord{"company_name": "Infosys Ltd", "quantity": 3.0},
			want:    "Infosys Ltd",
			wantQty: 3,
		},
		{
			name:    "higher priority key wins",
			record:  models.RawHoldingRecord{"tradingsymbol": "INFY", "company_name": "Infosys Ltd", "quantity": 1.0},
			want:    "INFY",
			wantQty: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Normalize(models.BrokerUpstox, tt.record)
			assert.Equal(t, tt.want, h.Name)
			assert.Equal(t, tt.wantQty, h.Quantity)
			assert.Equal(t, models.BrokerUpstox, h.BrokerID)
			assert.Equal(t, models.ValuationPerUnit, h.Mode)
		})
	}
}

func TestNormalizeDefaultsForMissingFields(t *testing.T) {
	h := Normalize(models.BrokerUpstox, models.RawHoldingRecord{})

	assert.Equal(t, "Unknown", h.Name)
	assert.Equal(t, models.InstrumentStock, h.Type)
	assert.Zero(t, h.Quantity)
	assert.Zero(t, h.AvgPrice)
	assert.Zero(t, h.CurrentPrice)
}

func TestNormalizeStringNumbers(t *testing.T) {
	h := Normalize(models.BrokerAngelOne, models.RawHoldingRecord{
		"tradingsymbol": "SBIN-EQ",
		"quantity":      "25",
		"averageprice":  "550.75",
		"ltp":           612.4,
	})

	assert.Equal(t, 25.0, h.Quantity)
	assert.Equal(t, 550.75, h.AvgPrice)
	assert.Equal(t, 612.4, h.CurrentPrice)
}

func TestNormalizeUnparseableNumberFallsThrough(t *testing.T) {
	h := Normalize(models.BrokerFyers, models.RawHoldingRecord{
		"symbol":   "NSE:IDEA-EQ",
		"quantity": "n/a",
		"qty":      40.0,
	})

	assert.Equal(t, 40.0, h.Quantity)
}

func TestInferType(t *testing.T) {
	tests := []struct {
		hint string
		name string
		want models.InstrumentType
	}{
		{"EQ", "RELIANCE", models.InstrumentStock},
		{"NSE_ETF", "GOLDETF", models.InstrumentETF},
		{"", "NIFTYBEES", models.InstrumentETF},
		{"MUTUALFUND", "AXISGROWTH", models.InstrumentMutualFund},
		{"MF", "HDFC-MF", models.InstrumentMutualFund},
		{"NSE_MF", "AXISGROWTH", models.InstrumentMutualFund},
		{"", "AXIS Mutual Fund Direct", models.InstrumentMutualFund},
		{"CNC", "TATAMOTORS", models.InstrumentStock},
		{"", "", models.InstrumentStock},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, inferType(tt.hint, tt.name), "hint=%q name=%q", tt.hint, tt.name)
	}
}

func TestNormalizeFyersSegmentAndCostPrice(t *testing.T) {
	h := Normalize(models.BrokerFyers, models.RawHoldingRecord{
		"symbol":    "NSE:RELIANCE-EQ",
		"segment":   "EQ",
		"quantity":  10.0,
		"costPrice": 2400.0,
		"ltp":       2500.0,
	})

	assert.Equal(t, "NSE:RELIANCE-EQ", h.Name)
	assert.Equal(t, models.InstrumentStock, h.Type)
	assert.Equal(t, 2400.0, h.AvgPrice)
	assert.Equal(t, 2500.0, h.CurrentPrice)
}

func TestNormalizeUnknownBrokerUsesGenericFields(t *testing.T) {
	h := Normalize(models.BrokerID("other"), models.RawHoldingRecord{
		"symbol": "XYZ",
		"qty":    7.0,
		"ltp":    100.0,
	})

	assert.Equal(t, "XYZ", h.Name)
	assert.Equal(t, 7.0, h.Quantity)
	assert.Equal(t, 100.0, h.CurrentPrice)
}
