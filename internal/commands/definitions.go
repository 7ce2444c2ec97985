package commands

import "github.com/bwmarrin/discordgo"

const CommandName = "settle"

func GetCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:         CommandName,
			Description:  "Record shared transfers and compute the fewest payments to settle them",
			DMPermission: boolPtr(false),
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "start",
					Description: "Start a session in this channel",
					Options: []*discordgo.ApplicationCommandOption{
						stringOption("names", "Participant names separated by spaces", false),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "join",
					Description: "Add a participant before any transaction is recorded",
					Options: []*discordgo.ApplicationCommandOption{
						stringOption("name", "Participant name", true),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "tx",
					Description: "Record that giver paid amount to taker",
					Options: []*discordgo.ApplicationCommandOption{
						stringOption("giver", "Who paid", true),
						stringOption("taker", "Who received", true),
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "amount",
							Description: "Amount in whole units",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "status",
					Description: "Show balances",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "members",
					Description: "List participants",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "run",
					Description: "Compute the minimal settlement",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "done",
					Description: "Mark a settlement between two participants as paid",
					Options: []*discordgo.ApplicationCommandOption{
						stringOption("payer", "Participant who paid", true),
						stringOption("payee", "Participant who was paid", true),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remind",
					Description: "Post unpaid settlements every N minutes (0 turns reminders off)",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "minutes",
							Description: "Interval in minutes",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "web",
					Description: "Link to the web UI for this channel",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "stop",
					Description: "Discard the session",
				},
			},
		},
	}
}

func stringOption(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        name,
		Description: description,
		Required:    required,
	}
}

func boolPtr(b bool) *bool {
	return &b
}
