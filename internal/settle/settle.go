// Package settle turns net balances into the smallest set of debtor to creditor
// payments that reproduces them.
package settle

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/vishakhaja/Transaction-Minimiser-proj/internal/ledger"
)

// Settlement is a single payment from a debtor to a creditor.
type Settlement struct {
	Payer  ledger.Participant `json:"payer"`
	Payee  ledger.Participant `json:"payee"`
	Amount int64              `json:"amount"`
}

// Transaction expresses the settlement as a ledger transaction so it can be
// replayed against fresh balances.
func (s Settlement) Transaction() ledger.Transaction {
	return ledger.Transaction{Giver: s.Payer, Taker: s.Payee, Amount: s.Amount}
}

func (s Settlement) String() string {
	return fmt.Sprintf("%s pays %d to %s", s.Payer, s.Amount, s.Payee)
}

// Order decides how creditors and debtors are queued before matching.
// Every order is deterministic for identical input.
type Order int

const (
	// OrderRegistration keeps participant registration order.
	OrderRegistration Order = iota
	// OrderLargestFirst queues the largest magnitudes first, ties in registration order.
	OrderLargestFirst
)

func (o Order) String() string {
	switch o {
	case OrderLargestFirst:
		return "largest"
	default:
		return "registration"
	}
}

// ParseOrder accepts "registration" or "largest". Empty means registration.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "registration":
		return OrderRegistration, nil
	case "largest":
		return OrderLargestFirst, nil
	}
	return OrderRegistration, fmt.Errorf("unknown settlement order %q", s)
}

type options struct {
	order Order
}

type Option func(*options)

func WithOrder(o Order) Option {
	return func(opts *options) { opts.order = o }
}

type entry struct {
	participant ledger.Participant
	amount      int64
}

// Minimize matches creditors against debtors with two cursors, emitting one
// settlement per step and retiring every party whose remainder reaches zero.
// The balances are only read.
func Minimize(b *ledger.Balances, opts ...Option) ([]Settlement, error) {
	o := options{order: OrderRegistration}
	for _, opt := range opts {
		opt(&o)
	}

	creditors, debtors, err := partition(b)
	if err != nil {
		return nil, err
	}
	if err := b.Check(); err != nil {
		return nil, err
	}
	if o.order == OrderLargestFirst {
		byMagnitude(creditors)
		byMagnitude(debtors)
	}

	settlements := make([]Settlement, 0, len(creditors)+len(debtors))
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		c := &creditors[i]
		d := &debtors[j]

		amt := min(c.amount, d.amount)
		settlements = append(settlements, Settlement{
			Payer:  d.participant,
			Payee:  c.participant,
			Amount: amt,
		})

		c.amount -= amt
		d.amount -= amt
		if c.amount == 0 {
			i++
		}
		if d.amount == 0 {
			j++
		}
	}

	if i < len(creditors) || j < len(debtors) {
		return nil, &ledger.UnbalancedLedgerError{
			Imbalance: remaining(creditors[i:]) - remaining(debtors[j:]),
		}
	}
	return settlements, nil
}

// partition splits balances into creditors (owed) and debtors (owing, as a
// positive magnitude). Zero balances are dropped. A MinInt64 balance has no
// positive magnitude and is rejected.
func partition(b *ledger.Balances) (creditors, debtors []entry, err error) {
	for _, e := range b.Entries() {
		switch {
		case e.Balance == math.MinInt64:
			return nil, nil, fmt.Errorf("%w: %q has balance %d", ledger.ErrAmountOverflow, e.Participant, e.Balance)
		case e.Balance > 0:
			creditors = append(creditors, entry{participant: e.Participant, amount: e.Balance})
		case e.Balance < 0:
			debtors = append(debtors, entry{participant: e.Participant, amount: -e.Balance})
		}
	}
	return creditors, debtors, nil
}

func byMagnitude(es []entry) {
	sort.SliceStable(es, func(i, j int) bool { return es[i].amount > es[j].amount })
}

func remaining(es []entry) int64 {
	var sum int64
	for _, e := range es {
		sum += e.amount
	}
	return sum
}

// Result bundles the aggregated balances with their settlements.
type Result struct {
	Balances    *ledger.Balances
	Settlements []Settlement
}

// Plan aggregates transactions over participants and minimises the outcome.
func Plan(participants []ledger.Participant, transactions []ledger.Transaction, opts ...Option) (*Result, error) {
	b, err := ledger.Aggregate(participants, transactions)
	if err != nil {
		return nil, err
	}
	settlements, err := Minimize(b, opts...)
	if err != nil {
		return nil, err
	}
	return &Result{Balances: b, Settlements: settlements}, nil
}
