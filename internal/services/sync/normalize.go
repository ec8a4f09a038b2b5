package sync

import (
	"strconv"
	"strings"

	"github.com/zenithfin/zenith/internal/models"
)

// fieldMap lists, per record field, the candidate keys to probe in priority
// order. Broker payloads drift between API versions and the same account can
// return records from several endpoints, so parsing is deliberately liberal:
// take the first candidate present, fall back to a safe default, never fail
// a record.
type fieldMap struct {
	name    []string
	kind    []string
	qty     []string
	avg     []string
	current []string
}

var brokerFields = map[models.BrokerID]fieldMap{
	models.BrokerUpstox: {
		name:    []string{"tradingsymbol", "trading_symbol", "company_name", "instrument_token"},
		kind:    []string{"instrument_type", "product"},
		qty:     []string{"quantity", "buy_quantity"},
		avg:     []string{"average_price", "avg_price", "buy_price", "avg_cost"},
		current: []string{"last_price", "close_price", "ltp", "current_price"},
	},
	models.BrokerAngelOne: {
		name:    []string{"tradingsymbol", "trading_symbol", "symbolname", "name"},
		kind:    []string{"product", "instrument_type"},
		qty:     []string{"quantity", "realisedquantity"},
		avg:     []string{"averageprice", "average_price", "avg_price"},
		current: []string{"ltp", "close", "last_price", "current_price"},
	},
	models.BrokerFyers: {
		name:    []string{"symbol", "tradingsymbol", "fyToken"},
		kind:    []string{"segment", "instrument_type", "product"},
		qty:     []string{"quantity", "qty"},
		avg:     []string{"costPrice", "cost_price", "average_price"},
		current: []string{"ltp", "marketVal", "last_price"},
	},
}

// genericFields is the fallback table for brokers without a dedicated map.
var genericFields = fieldMap{
	name:    []string{"tradingsymbol", "trading_symbol", "symbol", "name"},
	kind:    []string{"instrument_type", "product", "segment"},
	qty:     []string{"quantity", "qty"},
	avg:     []string{"average_price", "averageprice", "avg_price", "costPrice"},
	current: []string{"last_price", "ltp", "current_price", "close_price"},
}

// Normalize converts a raw broker record into a Holding. It never returns an
// error: missing fields default to "Unknown" and zero so one malformed record
// cannot sink a sync that fetched fine.
func Normalize(broker models.BrokerID, rec models.RawHoldingRecord) models.Holding {
	fields, ok := brokerFields[broker]
	if !ok {
		fields = genericFields
	}

	name := firstString(rec, fields.name)
	if name == "" {
		name = "Unknown"
	}

	return models.Holding{
		Name:         name,
		Type:         inferType(firstString(rec, fields.kind), name),
		Quantity:     firstNumber(rec, fields.qty),
		AvgPrice:     firstNumber(rec, fields.avg),
		CurrentPrice: firstNumber(rec, fields.current),
		BrokerID:     broker,
		Mode:         models.ValuationPerUnit,
	}
}

// NormalizeAll maps a batch of raw records.
func NormalizeAll(broker models.BrokerID, recs []models.RawHoldingRecord) []models.Holding {
	holdings := make([]models.Holding, 0, len(recs))
	for _, rec := range recs {
		holdings = append(holdings, Normalize(broker, rec))
	}
	return holdings
}

// inferType classifies the instrument from the broker's type/segment hint,
// falling back to clues in the symbol itself. Brokers encode this every
// possible way: "ETF", "NSE_ETF", "MUTUALFUND", "MF", a Fyers segment code.
func inferType(hint, name string) models.InstrumentType {
	h := strings.ToLower(hint)
	n := strings.ToLower(name)

	switch {
	case strings.Contains(h, "etf") || strings.Contains(n, "etf") || strings.Contains(n, "bees"):
		return models.InstrumentETF
	case strings.Contains(h, "mutual") || strings.Contains(h, "mf") || strings.Contains(n, "mutual"):
		return models.InstrumentMutualFund
	default:
		return models.InstrumentStock
	}
}

// firstString returns the first non-empty string among the candidate keys.
func firstString(rec models.RawHoldingRecord, keys []string) string {
	for _, key := range keys {
		switch v := rec[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// firstNumber returns the first parseable number among the candidate keys.
// Brokers serve numeric fields as JSON numbers or quoted strings, sometimes
// both within the same payload.
func firstNumber(rec models.RawHoldingRecord, keys []string) float64 {
	for _, key := range keys {
		switch v := rec[key].(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f
			}
		}
	}
	return 0
}
