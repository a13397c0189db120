package ast

import "time"

// DurationUnit is the unit suffix on a Hurl duration literal
// (`<digits>[ms|s|m]`). Unitless literals take a default that the caller
// supplies per call site (entry retry-interval defaults to ms; see
// SPEC_FULL.md §3).
type DurationUnit int

const (
	UnitMillisecond DurationUnit = iota
	UnitSecond
	UnitMinute
)

// Duration is a parsed duration literal, resolved to a time.Duration by
// Resolve using the unit as written (or the caller's default when the
// literal omitted a suffix).
type Duration struct {
	Amount      int64
	Unit        DurationUnit
	UnitWritten bool // false when the source omitted a suffix
}

// Resolve converts to a time.Duration, applying defaultUnit when the
// literal had no explicit suffix.
func (d Duration) Resolve(defaultUnit DurationUnit) time.Duration {
	unit := d.Unit
	if !d.UnitWritten {
		unit = defaultUnit
	}
	switch unit {
	case UnitSecond:
		return time.Duration(d.Amount) * time.Second
	case UnitMinute:
		return time.Duration(d.Amount) * time.Minute
	default:
		return time.Duration(d.Amount) * time.Millisecond
	}
}
