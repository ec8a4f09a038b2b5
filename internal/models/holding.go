// Package models defines the domain types for Zenith
package models

// InstrumentType classifies an investment holding.
type InstrumentType string

const (
	InstrumentStock      InstrumentType = "Stock"
	InstrumentETF        InstrumentType = "ETF"
	InstrumentMutualFund InstrumentType = "Mutual Fund"
)

// ValuationMode says how a holding's numeric fields are to be read.
// PerUnit: Quantity is a unit count, AvgPrice/CurrentPrice are per-unit prices.
// Total: the entry tracks whole-position totals — AvgPrice is the amount
// invested and CurrentPrice the current value, Quantity is ignored.
type ValuationMode string

const (
	ValuationPerUnit ValuationMode = "per_unit"
	ValuationTotal   ValuationMode = "total"
)

// Holding is a position in a financial instrument. Broker-sourced holdings
// carry the BrokerID of the broker they were synced from; manually entered
// holdings leave it empty. IDs are generated at creation and never reused;
// a sync replaces a broker's holdings wholesale rather than patching by id.
type Holding struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Type         InstrumentType `json:"type"`
	Quantity     float64        `json:"quantity"`
	AvgPrice     float64        `json:"avgPrice"`
	CurrentPrice float64        `json:"currentPrice"`
	BrokerID     BrokerID       `json:"brokerId,omitempty"`
	Mode         ValuationMode  `json:"valuationMode,omitempty"`
}

// IsManual reports whether the holding was entered by the user rather than
// synced from a broker.
func (h *Holding) IsManual() bool {
	return h.BrokerID == ""
}

// InvestedValue returns the total amount invested in the position.
func (h *Holding) InvestedValue() float64 {
	if h.Mode == ValuationTotal {
		return h.AvgPrice
	}
	return h.Quantity * h.AvgPrice
}

// CurrentValue returns the current market value of the position.
func (h *Holding) CurrentValue() float64 {
	if h.Mode == ValuationTotal {
		return h.CurrentPrice
	}
	return h.Quantity * h.CurrentPrice
}

// GainLoss returns the unrealized gain or loss on the position.
func (h *Holding) GainLoss() float64 {
	return h.CurrentValue() - h.InvestedValue()
}
