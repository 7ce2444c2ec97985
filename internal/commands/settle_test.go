package commands

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishakhaja/Transaction-Minimiser-proj/internal/ledger"
	"github.com/vishakhaja/Transaction-Minimiser-proj/internal/session"
	"github.com/vishakhaja/Transaction-Minimiser-proj/internal/settle"
)

var now = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

func run(svc *session.Service, sub string, strs map[string]string, ints map[string]int64) string {
	return Execute(svc, Request{ChannelID: "ch", Sub: sub, Strings: strs, Ints: ints}, now)
}

func TestExecuteFlow(t *testing.T) {
	svc := session.NewService(nil, settle.OrderRegistration)

	assert.Equal(t, "no session has been started in this channel", run(svc, "status", nil, nil))
	assert.Equal(t, "Session started with 2 participants",
		Execute(svc, Request{ChannelID: "ch", GuildID: "g1", Sub: "start", Strings: map[string]string{"names": "A, B A"}}, now))
	guild, err := svc.Guild("ch")
	require.NoError(t, err)
	assert.Equal(t, "g1", guild)
	assert.Equal(t, "a session is already running in this channel", run(svc, "start", nil, nil))
	assert.Equal(t, "Added C", run(svc, "join", map[string]string{"name": "C"}, nil))
	assert.Equal(t, "C is already a participant", run(svc, "join", map[string]string{"name": "C"}, nil))

	assert.Equal(t, "Recorded: A pays 50 to B",
		run(svc, "tx", map[string]string{"giver": "A", "taker": "B"}, map[string]int64{"amount": 50}))
	assert.Equal(t, "Recorded: B pays 30 to C",
		run(svc, "tx", map[string]string{"giver": "B", "taker": "C"}, map[string]int64{"amount": 30}))
	assert.Equal(t, "Z is not part of the initial list of participants",
		run(svc, "tx", map[string]string{"giver": "Z", "taker": "C"}, map[string]int64{"amount": 1}))
	assert.Equal(t, "giver, taker and amount are required",
		run(svc, "tx", map[string]string{"giver": "A", "taker": "C"}, nil))

	assert.Equal(t, "participants cannot change once transactions have been recorded",
		run(svc, "join", map[string]string{"name": "D"}, nil))

	members := run(svc, "members", nil, nil)
	assert.True(t, strings.HasPrefix(members, "Participants (3):"))

	summary := run(svc, "run", nil, nil)
	assert.Contains(t, summary, "A → B: 20")
	assert.Contains(t, summary, "A → C: 30")

	assert.Equal(t, "Completed: A → C 30", run(svc, "done", map[string]string{"payer": "A", "payee": "C"}, nil))
	assert.Equal(t, "no pending settlement between these participants",
		run(svc, "done", map[string]string{"payer": "A", "payee": "C"}, nil))

	assert.Equal(t, "Unpaid settlements will be posted every 15 minutes", run(svc, "remind", nil, map[string]int64{"minutes": 15}))
	require.Len(t, svc.DueReminders(now.Add(15*time.Minute)), 1)
	assert.Equal(t, "Reminders turned off", run(svc, "remind", nil, map[string]int64{"minutes": 0}))
	assert.Equal(t, "minutes must be zero or more", run(svc, "remind", nil, map[string]int64{"minutes": -1}))

	assert.Equal(t, "The web UI is not configured", run(svc, "web", nil, nil))
	assert.Equal(t, "Web UI: https://settle.example.com\nSession data: https://settle.example.com/api/sessions/ch",
		Execute(svc, Request{ChannelID: "ch", Sub: "web", WebURL: "https://settle.example.com"}, now))

	assert.Equal(t, "Unknown subcommand", run(svc, "dance", nil, nil))
	assert.Equal(t, "Session closed", run(svc, "stop", nil, nil))
}

func TestRequestFrom(t *testing.T) {
	sub := &discordgo.ApplicationCommandInteractionDataOption{
		Name: "tx",
		Type: discordgo.ApplicationCommandOptionSubCommand,
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "giver", Type: discordgo.ApplicationCommandOptionString, Value: " A "},
			{Name: "taker", Type: discordgo.ApplicationCommandOptionString, Value: "B"},
			{Name: "amount", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(42)},
		},
	}

	req := requestFrom("ch", sub)
	assert.Equal(t, "tx", req.Sub)
	assert.Equal(t, "A", req.Strings["giver"])
	assert.Equal(t, "B", req.Strings["taker"])
	assert.Equal(t, int64(42), req.Ints["amount"])
}

func TestParseNames(t *testing.T) {
	assert.Equal(t, []ledger.Participant{"ann", "bob", "cid"}, parseNames(" ann,bob  cid,ann "))
	assert.Empty(t, parseNames(""))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short"))

	long := strings.Repeat("→", 1000)
	got := truncate(long)
	assert.LessOrEqual(t, len(got), maxMessageLength)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "…"))
}

func TestGetCommands(t *testing.T) {
	cmds := GetCommands()
	require.Len(t, cmds, 1)
	assert.Equal(t, CommandName, cmds[0].Name)

	var subs []string
	for _, o := range cmds[0].Options {
		assert.Equal(t, discordgo.ApplicationCommandOptionSubCommand, o.Type)
		subs = append(subs, o.Name)
	}
	assert.Equal(t, []string{"start", "join", "tx", "status", "members", "run", "done", "remind", "web", "stop"}, subs)
}
