package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

const discordAPIBase = "https://discord.com/api"

type DiscordUser struct {
	ID         string  `json:"id"`
	Username   string  `json:"username"`
	GlobalName *string `json:"global_name"`
}

type DiscordGuild struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (a *API) discordGet(ctx context.Context, accessToken, path string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.discordBase+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("User-Agent", "txminbot/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("discord API returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func (a *API) getDiscordUser(ctx context.Context, accessToken string) (*DiscordUser, error) {
	var user DiscordUser
	if err := a.discordGet(ctx, accessToken, "/users/@me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *API) getDiscordGuilds(ctx context.Context, accessToken string) ([]DiscordGuild, error) {
	var guilds []DiscordGuild
	if err := a.discordGet(ctx, accessToken, "/users/@me/guilds", &guilds); err != nil {
		return nil, err
	}
	return guilds, nil
}

// userHasGuildAccess reports whether the token's user is a member of guildID.
// Sessions without a guild are never exposed.
func (a *API) userHasGuildAccess(ctx context.Context, accessToken, guildID string) bool {
	if guildID == "" || accessToken == "" {
		return false
	}
	guilds, err := a.getDiscordGuilds(ctx, accessToken)
	if err != nil {
		a.logger.Warn("failed to list user guilds", zap.Error(err))
		return false
	}
	for _, g := range guilds {
		if g.ID == guildID {
			return true
		}
	}
	return false
}

func getUsername(user *DiscordUser) string {
	if user.GlobalName != nil && *user.GlobalName != "" {
		return *user.GlobalName
	}
	return user.Username
}
