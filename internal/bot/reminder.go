package bot

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/vishakhaja/Transaction-Minimiser-proj/internal/session"
)

// reminderWorker periodically posts unpaid settlement reminders to channels.
type reminderWorker struct {
	sessions *session.Service
	session  reminderSession
	logger   *zap.Logger
	stopChan chan struct{}
	ticker   *time.Ticker
	interval time.Duration
	now      func() time.Time
	pause    func(time.Duration)
}

// Minimal session interface for sending channel messages.
type reminderSession interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

func newReminderWorker(s reminderSession, sessions *session.Service, logger *zap.Logger, interval time.Duration) *reminderWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &reminderWorker{
		sessions: sessions,
		session:  s,
		logger:   logger,
		stopChan: make(chan struct{}),
		interval: interval,
		now:      time.Now,
		pause:    time.Sleep,
	}
}

func (w *reminderWorker) start() {
	if w == nil {
		return
	}
	w.ticker = time.NewTicker(w.interval)
	go w.loop()
}

func (w *reminderWorker) stop() {
	if w == nil {
		return
	}
	close(w.stopChan)
	if w.ticker != nil {
		w.ticker.Stop()
	}
}

func (w *reminderWorker) loop() {
	ctx := context.Background()
	for {
		select {
		case <-w.ticker.C:
			w.tick(ctx)
		case <-w.stopChan:
			return
		}
	}
}

func (w *reminderWorker) tick(ctx context.Context) {
	now := w.now()
	for _, t := range w.sessions.DueReminders(now) {
		msg, err := w.sessions.ReminderMessage(t.ChannelID)
		if err != nil {
			w.logger.Warn("reminder: failed to build message",
				zap.String("channel_id", t.ChannelID), zap.Error(err))
			continue
		}
		if msg == "" {
			continue
		}
		autoMsg := msg + "\n\n(automatic reminder)"
		next := now.Add(t.Interval)
		if err := w.sendWithRetry(ctx, t.ChannelID, autoMsg); err != nil {
			w.logger.Warn("reminder: failed to send message",
				zap.String("channel_id", t.ChannelID), zap.Error(err))
			// Back off so we don't hammer Discord every tick.
			backoff := 2 * time.Minute
			if backoff > t.Interval {
				backoff = t.Interval
			}
			next = now.Add(backoff)
		}
		if err := w.sessions.MarkReminded(t.ChannelID, next); err != nil {
			w.logger.Warn("reminder: failed to reschedule",
				zap.String("channel_id", t.ChannelID), zap.Error(err))
		}
	}
}

func (w *reminderWorker) sendWithRetry(ctx context.Context, channelID, content string) error {
	const attemptTimeout = 12 * time.Second
	const maxAttempts = 2

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		sendCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
		_, err := w.session.ChannelMessageSend(channelID, content, discordgo.WithContext(sendCtx))
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isTemporaryOrTimeout(err) {
			return err
		}
		w.pause(time.Duration(300+rand.Intn(500)) * time.Millisecond)
	}
	return lastErr
}

func isTemporaryOrTimeout(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return false
}
