package contribution

import (
	"github.com/shopspring/decimal"
)

type BracketResponse struct {
	Lower      decimal.Decimal  `json:"lower"`
	Upper      *decimal.Decimal `json:"upper,omitempty"`
	Amount     decimal.Decimal  `json:"amount"`
	Rate       decimal.Decimal  `json:"rate"`
	BaseAmount decimal.Decimal  `json:"base_amount"`
}

type TableResponse struct {
	ID            string            `json:"id"`
	Scheme        string            `json:"scheme"`
	EffectiveDate string            `json:"effective_date"`
	FloorAmount   decimal.Decimal   `json:"floor_amount"`
	CeilingAmount decimal.Decimal   `json:"ceiling_amount"`
	MaxPerPeriod  decimal.Decimal   `json:"max_per_period"`
	Brackets      []BracketResponse `json:"brackets"`
}
