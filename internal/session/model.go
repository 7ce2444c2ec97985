package session

import (
	"time"

	"github.com/vishakhaja/Transaction-Minimiser-proj/internal/ledger"
)

type Session struct {
	ChannelID string
	// GuildID is the Discord server the channel belongs to. The web API only
	// shows a session to members of that guild.
	GuildID      string
	Balances     *ledger.Balances
	Transactions []ledger.Transaction
	Tasks        []SettlementTask
	Reminder     Reminder
}

type SettlementTask struct {
	ID        string             `json:"id"`
	PayerID   ledger.Participant `json:"payer"`
	PayeeID   ledger.Participant `json:"payee"`
	Amount    int64              `json:"amount"`
	Completed bool               `json:"completed"`
}

type SettleResult struct {
	Tasks   []SettlementTask
	Summary string
}

// Reminder is disabled when Interval is zero.
type Reminder struct {
	Interval  time.Duration
	NextDueAt time.Time
}

type ReminderDue struct {
	ChannelID string
	Interval  time.Duration
}

// Snapshot is a read-only copy of a session.
type Snapshot struct {
	ChannelID    string               `json:"channel_id"`
	GuildID      string               `json:"guild_id"`
	Balances     []ledger.Entry       `json:"balances"`
	Transactions []ledger.Transaction `json:"transactions"`
	Tasks        []SettlementTask     `json:"tasks"`
}
