package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownParticipant = errors.New("unknown participant")
	ErrUnbalancedLedger   = errors.New("unbalanced ledger")
	ErrAmountOverflow     = errors.New("amount overflows balance")
)

// Role names the side of a transaction an unknown participant appeared on.
type Role string

const (
	RoleGiver Role = "giver"
	RoleTaker Role = "taker"
)

// UnknownParticipantError reports a transaction that references a participant
// outside the initial set.
type UnknownParticipantError struct {
	Participant Participant
	Role        Role
}

func (e *UnknownParticipantError) Error() string {
	return fmt.Sprintf("%s %q is not part of the initial list of participants", e.Role, e.Participant)
}

func (e *UnknownParticipantError) Unwrap() error {
	return ErrUnknownParticipant
}

// UnbalancedLedgerError reports balances whose sum is not zero.
// It always indicates a bug upstream of the minimiser.
type UnbalancedLedgerError struct {
	Imbalance int64
}

func (e *UnbalancedLedgerError) Error() string {
	return fmt.Sprintf("balances sum to %d, expected 0", e.Imbalance)
}

func (e *UnbalancedLedgerError) Unwrap() error {
	return ErrUnbalancedLedger
}

// OverflowError reports a transaction that would push a balance outside the
// representable range. Balances stay within [-MaxInt64, MaxInt64].
type OverflowError struct {
	Participant Participant
	Role        Role
	Balance     int64
	Amount      int64
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("amount %d overflows the balance of %s %q (%d)", e.Amount, e.Role, e.Participant, e.Balance)
}

func (e *OverflowError) Unwrap() error {
	return ErrAmountOverflow
}
