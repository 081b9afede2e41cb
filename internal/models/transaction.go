// Package models provides the data structures used throughout the application.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CoercionStatus records whether a coerced value came from the input or was defaulted.
type CoercionStatus int

const (
	// StatusParsed means the raw value was parsed successfully.
	StatusParsed CoercionStatus = iota
	// StatusDefaulted means the raw value was missing or unparseable and a default was used.
	StatusDefaulted
)

// String returns the status name.
func (s CoercionStatus) String() string {
	if s == StatusDefaulted {
		return "defaulted"
	}
	return "parsed"
}

// AmountResult is the outcome of coercing a raw amount cell.
// A defaulted result always carries a zero value.
type AmountResult struct {
	Value  decimal.Decimal
	Status CoercionStatus
}

// Defaulted reports whether the amount fell back to zero.
func (r AmountResult) Defaulted() bool {
	return r.Status == StatusDefaulted
}

// DateResult is the outcome of coercing a raw date cell.
// A defaulted result carries the zero time, which stands for an absent date.
type DateResult struct {
	Value  time.Time
	Status CoercionStatus
}

// Defaulted reports whether the date is absent.
func (r DateResult) Defaulted() bool {
	return r.Status == StatusDefaulted
}

// RawTable holds one file's cells as read, before any column resolution.
type RawTable struct {
	Name   string
	Header []string
	Rows   [][]string
}

// CanonicalTransaction is one normalized statement row.
// Amount is signed: positive is income, negative is an expense.
type CanonicalTransaction struct {
	Date              time.Time
	Description       string
	Amount            decimal.Decimal
	Category          string
	ProcessedCategory string
	SourceFile        string
	Type              string
	Memo              string

	AmountStatus CoercionStatus
	DateStatus   CoercionStatus
}

// HasDate reports whether the row carries a usable date.
func (t CanonicalTransaction) HasDate() bool {
	return t.DateStatus == StatusParsed && !t.Date.IsZero()
}

// IsValid reports whether the row survives aggregation.
// Zero amounts are treated as unparseable, even when they were parsed.
func (t CanonicalTransaction) IsValid() bool {
	return t.HasDate() && !t.Amount.IsZero()
}

// Transaction is a validated row enriched with the fields derived during aggregation.
type Transaction struct {
	CanonicalTransaction

	Year      int
	Month     time.Month
	MonthName string
	IsIncome  bool
	AbsAmount decimal.Decimal
}

// NewTransaction derives the calendar and sign fields of a canonical row.
func NewTransaction(ct CanonicalTransaction) Transaction {
	return Transaction{
		CanonicalTransaction: ct,
		Year:                 ct.Date.Year(),
		Month:                ct.Date.Month(),
		MonthName:            ct.Date.Month().String(),
		IsIncome:             ct.Amount.IsPositive(),
		AbsAmount:            ct.Amount.Abs(),
	}
}
