package feed

import (
	"iter"
	"strconv"
	"strings"

	"github.com/damon-houk/cnb-exchange-rate-provider/internal/domain/entity"
	"github.com/shopspring/decimal"
)

const (
	fieldSeparator = "|"
	minFields      = 3
)

// RawRecord is a candidate record split into its positional fields, before numeric parsing
type RawRecord struct {
	AmountUnit   string
	CurrencyCode string
	QuotedPrice  string
}

// ParseRecord splits a candidate record. It reports false when the record
// has fewer than three fields.
func ParseRecord(candidate string) (RawRecord, bool) {
	fields := strings.Split(candidate, fieldSeparator)
	if len(fields) < minFields {
		return RawRecord{}, false
	}

	return RawRecord{
		AmountUnit:   fields[0],
		CurrencyCode: fields[1],
		QuotedPrice:  fields[2],
	}, true
}

// Rate computes the price of one unit of the record's currency.
// It reports false when either number does not parse or the amount unit is not positive.
func (r RawRecord) Rate() (decimal.Decimal, bool) {
	amount, err := strconv.ParseInt(strings.TrimSpace(r.AmountUnit), 10, 64)
	if err != nil || amount <= 0 {
		return decimal.Decimal{}, false
	}

	price, err := decimal.NewFromString(strings.TrimSpace(r.QuotedPrice))
	if err != nil {
		return decimal.Decimal{}, false
	}

	return price.Div(decimal.NewFromInt(amount)), true
}

// Match resolves the candidates whose currency code is exactly one of the requested codes.
// Unusable candidates are skipped. Feed order and duplicates are preserved.
func Match(candidates iter.Seq[string], requested []entity.Currency) []entity.ExchangeRate {
	rates := []entity.ExchangeRate{}
	if len(requested) == 0 {
		return rates
	}

	codes := make(map[string]struct{}, len(requested))
	for _, currency := range requested {
		codes[currency.Code] = struct{}{}
	}

	for candidate := range candidates {
		record, ok := ParseRecord(candidate)
		if !ok {
			continue
		}

		if _, wanted := codes[record.CurrencyCode]; !wanted {
			continue
		}

		rate, ok := record.Rate()
		if !ok {
			continue
		}

		rates = append(rates, entity.NewExchangeRate(entity.NewCurrency(record.CurrencyCode), rate))
	}

	return rates
}

// ExchangeRates extracts and matches the rates for the requested currencies from the feed text.
// headerRecords leading records are discarded as header.
func ExchangeRates(text string, requested []entity.Currency, headerRecords int) []entity.ExchangeRate {
	if len(requested) == 0 {
		return []entity.ExchangeRate{}
	}

	return Match(Extract(text, headerRecords), requested)
}
