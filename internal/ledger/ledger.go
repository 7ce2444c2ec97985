// Package ledger folds pairwise transfers into net balances per participant.
package ledger

import (
	"fmt"
	"math"
)

// Balances maps every participant to a signed net amount: positive when the
// participant is owed, negative when it owes. Iteration follows registration order.
type Balances struct {
	order   []Participant
	amounts map[Participant]int64
}

// Initialize creates a zero balance for each participant. Repeated names keep
// their first position.
func Initialize(participants []Participant) *Balances {
	b := &Balances{
		order:   make([]Participant, 0, len(participants)),
		amounts: make(map[Participant]int64, len(participants)),
	}
	for _, p := range participants {
		if _, exists := b.amounts[p]; exists {
			continue
		}
		b.amounts[p] = 0
		b.order = append(b.order, p)
	}
	return b
}

// FromEntries builds balances from precomputed net amounts. Nothing is checked;
// callers that need the conservation invariant should call Check.
func FromEntries(entries []Entry) *Balances {
	b := &Balances{
		order:   make([]Participant, 0, len(entries)),
		amounts: make(map[Participant]int64, len(entries)),
	}
	for _, e := range entries {
		if _, exists := b.amounts[e.Participant]; !exists {
			b.order = append(b.order, e.Participant)
		}
		b.amounts[e.Participant] += e.Balance
	}
	return b
}

// Apply debits the giver and credits the taker by tx.Amount.
// Both parties and both new balances are checked before anything changes.
func (b *Balances) Apply(tx Transaction) error {
	if _, ok := b.amounts[tx.Giver]; !ok {
		return &UnknownParticipantError{Participant: tx.Giver, Role: RoleGiver}
	}
	if _, ok := b.amounts[tx.Taker]; !ok {
		return &UnknownParticipantError{Participant: tx.Taker, Role: RoleTaker}
	}
	if tx.Giver == tx.Taker {
		return nil
	}

	giver, taker := b.amounts[tx.Giver], b.amounts[tx.Taker]
	newGiver, ok := sub(giver, tx.Amount)
	if !ok {
		return &OverflowError{Participant: tx.Giver, Role: RoleGiver, Balance: giver, Amount: tx.Amount}
	}
	newTaker, ok := add(taker, tx.Amount)
	if !ok {
		return &OverflowError{Participant: tx.Taker, Role: RoleTaker, Balance: taker, Amount: tx.Amount}
	}
	b.amounts[tx.Giver] = newGiver
	b.amounts[tx.Taker] = newTaker
	return nil
}

// add and sub report false when the result wraps or lands on MinInt64,
// whose magnitude has no int64 representation.
func add(a, d int64) (int64, bool) {
	r := a + d
	if (d > 0 && r < a) || (d < 0 && r > a) || r == math.MinInt64 {
		return 0, false
	}
	return r, true
}

func sub(a, d int64) (int64, bool) {
	r := a - d
	if (d > 0 && r > a) || (d < 0 && r < a) || r == math.MinInt64 {
		return 0, false
	}
	return r, true
}

// Aggregate builds the balances for participants and applies transactions in order.
func Aggregate(participants []Participant, transactions []Transaction) (*Balances, error) {
	b := Initialize(participants)
	for i, tx := range transactions {
		if err := b.Apply(tx); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
	}
	return b, nil
}

func (b *Balances) Has(p Participant) bool {
	_, ok := b.amounts[p]
	return ok
}

// Get returns the balance of p and whether p is a known participant.
func (b *Balances) Get(p Participant) (int64, bool) {
	v, ok := b.amounts[p]
	return v, ok
}

func (b *Balances) Len() int {
	return len(b.order)
}

// Participants returns a copy of the participant set in registration order.
func (b *Balances) Participants() []Participant {
	out := make([]Participant, len(b.order))
	copy(out, b.order)
	return out
}

// Entries returns every balance in registration order.
func (b *Balances) Entries() []Entry {
	out := make([]Entry, 0, len(b.order))
	for _, p := range b.order {
		out = append(out, Entry{Participant: p, Balance: b.amounts[p]})
	}
	return out
}

// Total is the sum of all balances. It is zero for any ledger built with Apply.
func (b *Balances) Total() int64 {
	var total int64
	for _, v := range b.amounts {
		total += v
	}
	return total
}

// Check verifies the conservation invariant.
func (b *Balances) Check() error {
	if total := b.Total(); total != 0 {
		return &UnbalancedLedgerError{Imbalance: total}
	}
	return nil
}

func (b *Balances) Clone() *Balances {
	c := &Balances{
		order:   b.Participants(),
		amounts: make(map[Participant]int64, len(b.amounts)),
	}
	for p, v := range b.amounts {
		c.amounts[p] = v
	}
	return c
}

// Equal reports whether both ledgers hold the same participants with the same
// balances. Registration order is ignored.
func (b *Balances) Equal(other *Balances) bool {
	if b == nil || other == nil {
		return b == other
	}
	if len(b.amounts) != len(other.amounts) {
		return false
	}
	for p, v := range b.amounts {
		ov, ok := other.amounts[p]
		if !ok || ov != v {
			return false
		}
	}
	return true
}
