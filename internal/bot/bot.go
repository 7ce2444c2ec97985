package bot

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/vishakhaja/Transaction-Minimiser-proj/internal/session"
)

type Bot struct {
	session  *discordgo.Session
	sessions *session.Service
	logger   *zap.Logger
	reminder *reminderWorker
	webURL   string
}

func New(token string, sessions *session.Service, logger *zap.Logger, reminderTick time.Duration, webURL string) (*Bot, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bot := &Bot{
		session:  s,
		sessions: sessions,
		logger:   logger,
		webURL:   webURL,
	}
	bot.reminder = newReminderWorker(s, sessions, logger, reminderTick)

	// Register event handlers
	s.AddHandler(bot.onReady)
	s.AddHandler(bot.onGuildCreate)
	s.AddHandler(bot.onInteractionCreate)

	s.Identify.Intents = discordgo.IntentsGuilds

	return bot, nil
}

func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	b.reminder.start()
	b.logger.Info("discord bot is running")
	return nil
}

func (b *Bot) Stop() error {
	b.reminder.stop()
	return b.session.Close()
}
