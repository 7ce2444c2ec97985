package session

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vishakhaja/Transaction-Minimiser-proj/internal/ledger"
	"github.com/vishakhaja/Transaction-Minimiser-proj/internal/render"
	"github.com/vishakhaja/Transaction-Minimiser-proj/internal/settle"
)

var (
	ErrNoSession             = errors.New("no session has been started in this channel")
	ErrSessionExists         = errors.New("a session is already running in this channel")
	ErrParticipantsLocked    = errors.New("participants cannot change once transactions have been recorded")
	ErrNotEnoughParticipants = errors.New("at least two participants are required")
	ErrTaskNotFound          = errors.New("no pending settlement between these participants")
)

// Service keeps one settlement session per channel in memory.
type Service struct {
	mu     sync.Mutex
	store  map[string]*Session
	order  settle.Order
	logger *zap.Logger
}

func NewService(logger *zap.Logger, order settle.Order) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  make(map[string]*Session),
		order:  order,
		logger: logger,
	}
}

func (s *Service) get(channelID string) (*Session, error) {
	sess, ok := s.store[channelID]
	if !ok {
		return nil, ErrNoSession
	}
	return sess, nil
}

// Start opens a session for channelID in guildID.
func (s *Service) Start(channelID, guildID string, participants []ledger.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.store[channelID]; ok {
		return ErrSessionExists
	}
	s.store[channelID] = &Session{
		ChannelID: channelID,
		GuildID:   guildID,
		Balances:  ledger.Initialize(participants),
	}
	s.logger.Info("session started",
		zap.String("channel_id", channelID),
		zap.String("guild_id", guildID),
		zap.Int("participants", len(participants)))
	return nil
}

func (s *Service) Stop(channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.store[channelID]; !ok {
		return ErrNoSession
	}
	delete(s.store, channelID)
	s.logger.Info("session stopped", zap.String("channel_id", channelID))
	return nil
}

// Join adds a participant. Returns false when p was already a member.
func (s *Service) Join(channelID string, p ledger.Participant) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.get(channelID)
	if err != nil {
		return false, err
	}
	if sess.Balances.Has(p) {
		return false, nil
	}
	if len(sess.Transactions) > 0 {
		return false, ErrParticipantsLocked
	}
	sess.Balances = ledger.Initialize(append(sess.Balances.Participants(), p))
	return true, nil
}

// AddTransaction records tx after the ledger accepts it. Any previous settlement
// plan is discarded because it no longer matches the balances.
func (s *Service) AddTransaction(channelID string, tx ledger.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.get(channelID)
	if err != nil {
		return err
	}
	if err := sess.Balances.Apply(tx); err != nil {
		return err
	}
	sess.Transactions = append(sess.Transactions, tx)
	sess.Tasks = nil
	return nil
}

// Guild returns the guild the channel's session was started in.
func (s *Service) Guild(channelID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.get(channelID)
	if err != nil {
		return "", err
	}
	return sess.GuildID, nil
}

func (s *Service) Members(channelID string) ([]ledger.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.get(channelID)
	if err != nil {
		return nil, err
	}
	return sess.Balances.Participants(), nil
}

func (s *Service) Balances(channelID string) (*ledger.Balances, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.get(channelID)
	if err != nil {
		return nil, err
	}
	return sess.Balances.Clone(), nil
}

func (s *Service) Transactions(channelID string) ([]ledger.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.get(channelID)
	if err != nil {
		return nil, err
	}
	out := make([]ledger.Transaction, len(sess.Transactions))
	copy(out, sess.Transactions)
	return out, nil
}

func (s *Service) Snapshot(channelID string) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.get(channelID)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{
		ChannelID:    sess.ChannelID,
		GuildID:      sess.GuildID,
		Balances:     sess.Balances.Entries(),
		Transactions: make([]ledger.Transaction, len(sess.Transactions)),
		Tasks:        make([]SettlementTask, len(sess.Tasks)),
	}
	copy(snap.Transactions, sess.Transactions)
	copy(snap.Tasks, sess.Tasks)
	return snap, nil
}

func (s *Service) Status(channelID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.get(channelID)
	if err != nil {
		return "", err
	}
	if sess.Balances.Len() == 0 {
		return "No participants yet", nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Transactions recorded: %d\n", len(sess.Transactions))
	b.WriteString(render.Table(sess.Balances))
	return b.String(), nil
}

// Settle computes the minimal settlement plan and stores it as pending tasks.
func (s *Service) Settle(channelID string) (*SettleResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.get(channelID)
	if err != nil {
		return nil, err
	}
	if sess.Balances.Len() < 2 {
		return nil, ErrNotEnoughParticipants
	}

	settlements, err := settle.Minimize(sess.Balances, settle.WithOrder(s.order))
	if err != nil {
		s.logger.Error("settlement failed",
			zap.String("channel_id", channelID),
			zap.Error(err))
		return nil, err
	}

	tasks := make([]SettlementTask, 0, len(settlements))
	for _, st := range settlements {
		tasks = append(tasks, SettlementTask{
			ID:      uuid.NewString(),
			PayerID: st.Payer,
			PayeeID: st.Payee,
			Amount:  st.Amount,
		})
	}
	sess.Tasks = tasks

	s.logger.Info("settlement computed",
		zap.String("channel_id", channelID),
		zap.Int("transactions", len(sess.Transactions)),
		zap.Int("settlements", len(tasks)))

	var b strings.Builder
	if len(tasks) == 0 {
		b.WriteString("No settlement needed")
	} else {
		fmt.Fprintf(&b, "Settlements (%d replacing %d transactions):\n", len(tasks), len(sess.Transactions))
		for _, t := range tasks {
			fmt.Fprintf(&b, "%s → %s: %d\n", t.PayerID, t.PayeeID, t.Amount)
		}
	}
	out := make([]SettlementTask, len(tasks))
	copy(out, tasks)
	return &SettleResult{Tasks: out, Summary: b.String()}, nil
}

// CompleteTask marks the first pending task between actor and other, in either
// direction, as done.
func (s *Service) CompleteTask(channelID string, actor, other ledger.Participant) (SettlementTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.get(channelID)
	if err != nil {
		return SettlementTask{}, err
	}
	for idx := range sess.Tasks {
		t := &sess.Tasks[idx]
		if t.Completed {
			continue
		}
		if (t.PayerID == actor && t.PayeeID == other) || (t.PayerID == other && t.PayeeID == actor) {
			t.Completed = true
			return *t, nil
		}
	}
	return SettlementTask{}, ErrTaskNotFound
}

func (s *Service) Pending(channelID string) ([]SettlementTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.get(channelID)
	if err != nil {
		return nil, err
	}
	return pending(sess), nil
}

func pending(sess *Session) []SettlementTask {
	var out []SettlementTask
	for _, t := range sess.Tasks {
		if !t.Completed {
			out = append(out, t)
		}
	}
	return out
}

// SetReminder schedules reminders every interval starting from now.
// A non-positive interval turns reminders off.
func (s *Service) SetReminder(channelID string, interval time.Duration, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.get(channelID)
	if err != nil {
		return err
	}
	if interval <= 0 {
		sess.Reminder = Reminder{}
		return nil
	}
	sess.Reminder = Reminder{Interval: interval, NextDueAt: now.Add(interval)}
	return nil
}

// DueReminders lists channels whose reminder is due and which still have
// pending settlements, ordered by channel ID.
func (s *Service) DueReminders(now time.Time) []ReminderDue {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []ReminderDue
	for id, sess := range s.store {
		if sess.Reminder.Interval <= 0 || sess.Reminder.NextDueAt.After(now) {
			continue
		}
		if len(pending(sess)) == 0 {
			continue
		}
		out = append(out, ReminderDue{ChannelID: id, Interval: sess.Reminder.Interval})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChannelID < out[j].ChannelID })
	return out
}

func (s *Service) MarkReminded(channelID string, next time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.get(channelID)
	if err != nil {
		return err
	}
	sess.Reminder.NextDueAt = next
	return nil
}

// ReminderMessage lists unpaid settlements, or returns "" when nothing is pending.
func (s *Service) ReminderMessage(channelID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.get(channelID)
	if err != nil {
		return "", err
	}
	tasks := pending(sess)
	if len(tasks) == 0 {
		return "", nil
	}
	var b strings.Builder
	b.WriteString("Unpaid settlements:\n")
	for _, t := range tasks {
		fmt.Fprintf(&b, "%s → %s: %d\n", t.PayerID, t.PayeeID, t.Amount)
	}
	return b.String(), nil
}
