package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income     TransactionType = "income"
	Expense    TransactionType = "expense"
	Investment TransactionType = "investment"
)

type (
	TransactionType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is a single recorded income, expense, or investment.
	// Amounts are always denominated in the user's primary currency;
	// conversion happens at ingest, never during aggregation.
	Transaction struct {
		ID          string
		Type        TransactionType
		Amount      Money
		Category    string
		Date        Date
		Description string

		// Asset and Quantity are set on investments bought as a position
		// (ticker or crypto symbol). Plain investments leave them zero.
		Asset    string
		Quantity float64
	}

	// RecurringRule is a standing order that materializes into transactions
	// on a fixed schedule.
	RecurringRule struct {
		ID          int64 // Database ID for operations
		Type        TransactionType
		Amount      Money
		Category    string
		Description string
		Frequency   Frequency
		StartDate   Date
		EndDate     Date
		Active      bool
	}

	Frequency string
)

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyCategory    = errors.New("empty category")
	ErrInvalidFrequency = errors.New("invalid frequency")
)

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense, Investment:
		return nil
	}
	return ErrInvalidType
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// NewDate creates a new Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an arbitrary timestamp to its calendar date.
// Aggregation always works on calendar dates, never on times of day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// IsEmpty returns true if the date is zero (optional dates use the zero value).
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// SameDay reports whether two dates fall on the same calendar day.
func (d Date) SameDay(other Date) bool {
	return d.Year() == other.Year() && d.YearDay() == other.YearDay()
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

func (t Transaction) Validate() error {
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if t.Asset != "" && t.Type != Investment {
		return errors.New("asset positions must be investments")
	}
	if t.Quantity < 0 {
		return ErrInvalidAmount
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

func (r RecurringRule) Validate() error {
	// Investments never recur; mirrors the recording form's restriction.
	if r.Type != Income && r.Type != Expense {
		return ErrInvalidType
	}
	if err := r.StartDate.Validate(); err != nil {
		return errors.New("invalid start date: " + err.Error())
	}
	if !r.EndDate.IsZero() && r.EndDate.Before(r.StartDate.Time) {
		return errors.New("end date must not precede start date")
	}
	switch r.Frequency {
	case Daily, Weekly, Monthly, Yearly:
	default:
		return ErrInvalidFrequency
	}
	if r.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyCategory
	}
	if len(r.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}
