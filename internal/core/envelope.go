package core

import (
	"errors"
	"fmt"
	"strings"
)

// EnvelopeTransferCategory marks main-budget transactions that mirror
// envelope movements. Money entering an envelope leaves the main budget,
// so every envelope deposit shows up under this category.
const EnvelopeTransferCategory = "Budget Allocation / Envelope Transfer"

var (
	ErrEmptyEnvelopeName = errors.New("empty envelope name")
	ErrInvalidTarget     = errors.New("invalid target amount")
)

// Envelope is a named savings goal holding money set aside from the main
// budget. Current tracks the balance; Target is the goal.
type Envelope struct {
	ID          string
	Name        string
	Target      Money
	Current     Money
	Currency    string
	Description string
}

func (e Envelope) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyEnvelopeName
	}
	if e.Target.Cents <= 0 {
		return ErrInvalidTarget
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

// Progress returns how far the envelope is toward its target, in percent.
// Overfunded envelopes report more than 100.
func (e Envelope) Progress() float64 {
	if e.Target.Cents <= 0 {
		return 0
	}
	return float64(e.Current.Cents) / float64(e.Target.Cents) * 100
}

// EnvelopeTransaction is a movement inside one envelope: income deposits
// into it, expense spends from it. Investments never touch envelopes.
type EnvelopeTransaction struct {
	ID          string
	EnvelopeID  string
	Type        TransactionType
	Amount      Money
	Category    string
	Date        Date
	Description string
}

func (t EnvelopeTransaction) Validate() error {
	if t.Type != Income && t.Type != Expense {
		return ErrInvalidType
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if t.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	// Spends land in the main budget under their own category, so they
	// must carry one. Deposits get the transfer category instead.
	if t.Type == Expense && strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

// BalanceDelta is the signed change this movement applies to the
// envelope's current amount: deposits add, spends subtract.
func (t EnvelopeTransaction) BalanceDelta() int64 {
	if t.Type == Income {
		return t.Amount.Cents
	}
	return -t.Amount.Cents
}

// MirrorTransaction builds the main-budget counterpart of an envelope
// movement. Both directions are expenses from the main budget's point of
// view: a deposit moves money out of the budget into the envelope, and a
// spend from the envelope is money spent like any other. Deposits carry
// the transfer category; spends keep their own.
func (e Envelope) MirrorTransaction(t EnvelopeTransaction) Transaction {
	category := t.Category
	label := t.Description
	if label == "" {
		label = t.Category
	}
	if t.Type == Income {
		category = EnvelopeTransferCategory
		if label == "" {
			label = "Allocation"
		}
	}
	return Transaction{
		Type:        Expense,
		Amount:      t.Amount,
		Category:    category,
		Date:        t.Date,
		Description: fmt.Sprintf("[%s] %s", e.Name, label),
	}
}
