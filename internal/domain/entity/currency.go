package entity

// Currency is identified by its code exactly as the feed spells it
type Currency struct {
	Code string `json:"code"`
}

// BaseCurrency is the Czech crown, the currency every CNB fixing is quoted in
var BaseCurrency = Currency{Code: "CZK"}

// NewCurrency creates a currency for the given code. The code is kept as is.
func NewCurrency(code string) Currency {
	return Currency{Code: code}
}

// NewCurrencies creates currencies from a list of codes, keeping order
func NewCurrencies(codes ...string) []Currency {
	currencies := make([]Currency, 0, len(codes))
	for _, code := range codes {
		currencies = append(currencies, NewCurrency(code))
	}
	return currencies
}

func (c Currency) String() string {
	return c.Code
}
