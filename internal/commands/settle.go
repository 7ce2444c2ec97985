package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/vishakhaja/Transaction-Minimiser-proj/internal/ledger"
	"github.com/vishakhaja/Transaction-Minimiser-proj/internal/session"
)

// Request is a parsed /settle subcommand.
type Request struct {
	ChannelID string
	GuildID   string
	Sub       string
	Strings   map[string]string
	Ints      map[string]int64
	// WebURL is the base URL of the web UI, empty when not served.
	WebURL string
}

func HandleSettle(s *discordgo.Session, i *discordgo.InteractionCreate, svc *session.Service, webURL string) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		respondText(s, i, "No subcommand given")
		return
	}
	req := requestFrom(i.ChannelID, data.Options[0])
	req.GuildID = i.GuildID
	req.WebURL = webURL
	respondText(s, i, Execute(svc, req, time.Now()))
}

func requestFrom(channelID string, sub *discordgo.ApplicationCommandInteractionDataOption) Request {
	req := Request{
		ChannelID: channelID,
		Sub:       sub.Name,
		Strings:   make(map[string]string),
		Ints:      make(map[string]int64),
	}
	for _, o := range sub.Options {
		switch o.Type {
		case discordgo.ApplicationCommandOptionString:
			req.Strings[o.Name] = strings.TrimSpace(o.StringValue())
		case discordgo.ApplicationCommandOptionInteger:
			req.Ints[o.Name] = o.IntValue()
		}
	}
	return req
}

// Execute runs one subcommand and returns the reply text.
func Execute(svc *session.Service, req Request, now time.Time) string {
	switch req.Sub {
	case "start":
		names := parseNames(req.Strings["names"])
		if err := svc.Start(req.ChannelID, req.GuildID, names); err != nil {
			return errorText(err)
		}
		if len(names) == 0 {
			return "Session started. Add participants with /settle join"
		}
		return fmt.Sprintf("Session started with %d participants", len(names))
	case "join":
		name := req.Strings["name"]
		if name == "" {
			return "A name is required"
		}
		joined, err := svc.Join(req.ChannelID, ledger.Participant(name))
		if err != nil {
			return errorText(err)
		}
		if !joined {
			return fmt.Sprintf("%s is already a participant", name)
		}
		return fmt.Sprintf("Added %s", name)
	case "tx":
		amount, ok := req.Ints["amount"]
		if !ok || req.Strings["giver"] == "" || req.Strings["taker"] == "" {
			return "giver, taker and amount are required"
		}
		tx := ledger.Transaction{
			Giver:  ledger.Participant(req.Strings["giver"]),
			Taker:  ledger.Participant(req.Strings["taker"]),
			Amount: amount,
		}
		if err := svc.AddTransaction(req.ChannelID, tx); err != nil {
			return errorText(err)
		}
		return fmt.Sprintf("Recorded: %s pays %d to %s", tx.Giver, tx.Amount, tx.Taker)
	case "status":
		txt, err := svc.Status(req.ChannelID)
		if err != nil {
			return errorText(err)
		}
		return txt
	case "members":
		ids, err := svc.Members(req.ChannelID)
		if err != nil {
			return errorText(err)
		}
		if len(ids) == 0 {
			return "No participants yet"
		}
		var b strings.Builder
		fmt.Fprintf(&b, "Participants (%d):\n", len(ids))
		for _, id := range ids {
			fmt.Fprintf(&b, "- %s\n", id)
		}
		return b.String()
	case "run":
		res, err := svc.Settle(req.ChannelID)
		if err != nil {
			return errorText(err)
		}
		return res.Summary
	case "done":
		payer, payee := req.Strings["payer"], req.Strings["payee"]
		if payer == "" || payee == "" {
			return "payer and payee are required"
		}
		t, err := svc.CompleteTask(req.ChannelID, ledger.Participant(payer), ledger.Participant(payee))
		if err != nil {
			return errorText(err)
		}
		return fmt.Sprintf("Completed: %s → %s %d", t.PayerID, t.PayeeID, t.Amount)
	case "remind":
		minutes, ok := req.Ints["minutes"]
		if !ok || minutes < 0 {
			return "minutes must be zero or more"
		}
		if err := svc.SetReminder(req.ChannelID, time.Duration(minutes)*time.Minute, now); err != nil {
			return errorText(err)
		}
		if minutes == 0 {
			return "Reminders turned off"
		}
		return fmt.Sprintf("Unpaid settlements will be posted every %d minutes", minutes)
	case "web":
		if req.WebURL == "" {
			return "The web UI is not configured"
		}
		return fmt.Sprintf("Web UI: %s\nSession data: %s/api/sessions/%s", req.WebURL, req.WebURL, req.ChannelID)
	case "stop":
		if err := svc.Stop(req.ChannelID); err != nil {
			return errorText(err)
		}
		return "Session closed"
	default:
		return "Unknown subcommand"
	}
}

func errorText(err error) string {
	var upe *ledger.UnknownParticipantError
	if errors.As(err, &upe) {
		return fmt.Sprintf("%s is not part of the initial list of participants", upe.Participant)
	}
	return err.Error()
}

// parseNames splits on whitespace and commas, dropping duplicates.
func parseNames(text string) []ledger.Participant {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	seen := make(map[string]struct{}, len(fields))
	out := make([]ledger.Participant, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, ledger.Participant(f))
	}
	return out
}
