package commands

import (
	"github.com/bwmarrin/discordgo"
)

// Discord rejects message content longer than this.
const maxMessageLength = 2000

func respondText(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: truncate(content)},
	})
}

func truncate(content string) string {
	if len(content) <= maxMessageLength {
		return content
	}
	const ellipsis = "\n…"
	cut := maxMessageLength - len(ellipsis)
	// back up to a rune boundary
	for cut > 0 && content[cut]&0xC0 == 0x80 {
		cut--
	}
	return content[:cut] + ellipsis
}
