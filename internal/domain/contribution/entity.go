package contribution

import (
	"time"

	"github.com/shopspring/decimal"
)

type Scheme string

const (
	SchemeSSS            Scheme = "sss"
	SchemePhilHealth     Scheme = "philhealth"
	SchemePagIBIG        Scheme = "pagibig"
	SchemeWithholdingTax Scheme = "withholding_tax"
)

// Bracket is one row of a contribution table. Lower is inclusive, Upper is
// exclusive; a nil Upper means the bracket is open-ended. Depending on the
// scheme a bracket carries a flat Amount, a Rate, or (for withholding tax)
// an additive BaseAmount plus a marginal Rate.
type Bracket struct {
	Lower      decimal.Decimal
	Upper      *decimal.Decimal
	Amount     decimal.Decimal
	Rate       decimal.Decimal
	BaseAmount decimal.Decimal
}

// Contains reports whether base selects this bracket. A value exactly equal
// to Upper belongs to the next bracket.
func (b Bracket) Contains(base decimal.Decimal) bool {
	if base.LessThan(b.Lower) {
		return false
	}
	return b.Upper == nil || base.LessThan(*b.Upper)
}

// Table is a versioned bracket table for one scheme. Tables are pure
// configuration: annual government rate changes are a data change, never a
// code change.
type Table struct {
	ID            string
	Scheme        Scheme
	EffectiveDate time.Time
	// FloorAmount and CeilingAmount bound the base before a rate is applied
	// (PhilHealth, Pag-IBIG). Zero values mean unbounded.
	FloorAmount   decimal.Decimal
	CeilingAmount decimal.Decimal
	// MaxPerPeriod caps the computed contribution. Zero means uncapped.
	MaxPerPeriod decimal.Decimal
	Brackets     []Bracket
}

// Validate rejects malformed tables: empty, unordered, overlapping, or
// gapped bracket sequences, and any non-terminal open-ended bracket. A
// malformed table is a fatal configuration error for the calculation that
// tried to use it; calculators never fall back to a default bracket.
func (t Table) Validate() error {
	if len(t.Brackets) == 0 {
		return &ConfigError{Scheme: t.Scheme, Reason: "table has no brackets"}
	}

	for i, b := range t.Brackets {
		if b.Upper != nil && !b.Lower.LessThan(*b.Upper) {
			return &ConfigError{Scheme: t.Scheme, Reason: "bracket lower bound must be below its upper bound"}
		}
		if b.Upper == nil && i != len(t.Brackets)-1 {
			return &ConfigError{Scheme: t.Scheme, Reason: "open-ended bracket must be the last row"}
		}
		if i == 0 {
			continue
		}
		prev := t.Brackets[i-1]
		if prev.Upper == nil {
			return &ConfigError{Scheme: t.Scheme, Reason: "open-ended bracket must be the last row"}
		}
		// Contiguity: each lower bound must equal the previous upper bound.
		if !b.Lower.Equal(*prev.Upper) {
			if b.Lower.GreaterThan(*prev.Upper) {
				return &ConfigError{Scheme: t.Scheme, Reason: "gap between brackets"}
			}
			return &ConfigError{Scheme: t.Scheme, Reason: "overlapping brackets"}
		}
	}
	return nil
}

// Lookup selects the unique bracket containing base, using the
// lower-inclusive rule. Bases below the first bracket or past a closed last
// bracket select nothing and report a configuration error.
func (t Table) Lookup(base decimal.Decimal) (Bracket, error) {
	if err := t.Validate(); err != nil {
		return Bracket{}, err
	}
	for _, b := range t.Brackets {
		if b.Contains(base) {
			return b, nil
		}
	}
	return Bracket{}, &ConfigError{Scheme: t.Scheme, Reason: "no bracket covers base " + base.String()}
}
