// Package discord implements the chat boundary against a Discord-style REST
// API: guild members and roles form the roster, messages post to channels
// resolved by name.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"reminderd/pkg/chat"
	"reminderd/pkg/circuitbreaker"
)

const (
	defaultBaseURL  = "https://discord.com/api/v10"
	memberPageSize  = 1000
	channelTypeText = 0
	channelCacheKey = "channels"
)

type Config struct {
	BaseURL  string
	BotToken string
	GuildID  string
	Timeout  time.Duration
}

type Client struct {
	http     *http.Client
	cb       *circuitbreaker.CircuitBreaker
	channels *cache.Cache
	config   Config
}

func NewClient(config Config) (*Client, error) {
	if config.BotToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}
	if config.GuildID == "" {
		return nil, fmt.Errorf("guild id is required")
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}

	cb := circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
		Name:        "discord-chat",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
	})

	return &Client{
		http:     &http.Client{Timeout: config.Timeout},
		cb:       cb,
		channels: cache.New(time.Minute, 5*time.Minute),
		config:   config,
	}, nil
}

type guildMember struct {
	Nick string `json:"nick"`
	User struct {
		ID         string `json:"id"`
		Username   string `json:"username"`
		GlobalName string `json:"global_name"`
	} `json:"user"`
}

type guildRole struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type guildChannel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type int    `json:"type"`
}

func (c *Client) ResolveRoster(ctx context.Context) (chat.Roster, error) {
	users, err := c.fetchMembers(ctx)
	if err != nil {
		return chat.Roster{}, fmt.Errorf("failed to fetch members: %w", err)
	}

	roles, err := c.fetchRoles(ctx)
	if err != nil {
		return chat.Roster{}, fmt.Errorf("failed to fetch roles: %w", err)
	}

	return chat.Roster{Users: users, Roles: roles}, nil
}

func (c *Client) fetchMembers(ctx context.Context) ([]chat.Entity, error) {
	var users []chat.Entity
	after := ""
	for {
		path := fmt.Sprintf("/guilds/%s/members?limit=%d", c.config.GuildID, memberPageSize)
		if after != "" {
			path += "&after=" + after
		}

		var page []guildMember
		if err := c.getJSON(ctx, path, &page); err != nil {
			return nil, err
		}

		for _, m := range page {
			display := m.Nick
			if display == "" {
				display = m.User.GlobalName
			}
			users = append(users, chat.Entity{
				ID:          m.User.ID,
				Name:        m.User.Username,
				DisplayName: display,
			})
		}

		if len(page) < memberPageSize {
			return users, nil
		}
		after = page[len(page)-1].User.ID
	}
}

func (c *Client) fetchRoles(ctx context.Context) ([]chat.Entity, error) {
	var raw []guildRole
	if err := c.getJSON(ctx, fmt.Sprintf("/guilds/%s/roles", c.config.GuildID), &raw); err != nil {
		return nil, err
	}

	roles := make([]chat.Entity, 0, len(raw))
	for _, r := range raw {
		// The implicit everyone role is covered by the broadcast target.
		if r.Name == chat.MentionEveryone {
			continue
		}
		roles = append(roles, chat.Entity{ID: r.ID, Name: r.Name})
	}
	return roles, nil
}

func (c *Client) PostMessage(ctx context.Context, channel, text string) (chat.Outcome, error) {
	channelID, err := c.channelID(ctx, channel)
	if err != nil {
		return chat.OutcomeTransient, fmt.Errorf("failed to resolve channel: %w", err)
	}
	if channelID == "" {
		return chat.OutcomeFatal, fmt.Errorf("unknown channel %q", channel)
	}

	body, err := json.Marshal(map[string]string{"content": text})
	if err != nil {
		return chat.OutcomeFatal, err
	}

	var status int
	err = c.cb.Execute(func() error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost,
			fmt.Sprintf("%s/channels/%s/messages", c.config.BaseURL, channelID), bytes.NewReader(body))
		if reqErr != nil {
			return reqErr
		}
		c.setHeaders(req)
		req.Header.Set("Content-Type", "application/json")

		resp, doErr := c.http.Do(req)
		if doErr != nil {
			return doErr
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		status = resp.StatusCode
		if status >= http.StatusBadRequest {
			return fmt.Errorf("post to channel %s returned %d", channelID, status)
		}
		return nil
	})

	outcome := classify(status, err)
	if err != nil {
		return outcome, fmt.Errorf("failed to post message: %w", err)
	}
	return outcome, nil
}

// classify maps a post attempt onto the dispatcher's outcome model: rate
// limits and server errors are retryable from outside, auth and addressing
// problems are not.
func classify(status int, err error) chat.Outcome {
	switch {
	case err != nil && status == 0:
		return chat.OutcomeTransient
	case status >= 200 && status < 300:
		return chat.OutcomeSuccess
	case status == http.StatusTooManyRequests || status >= 500:
		return chat.OutcomeTransient
	default:
		return chat.OutcomeFatal
	}
}

// channelID resolves a channel name to its id, via a short-lived cache of the
// guild's text channels. Numeric input is assumed to already be an id.
func (c *Client) channelID(ctx context.Context, channel string) (string, error) {
	if isSnowflake(channel) {
		return channel, nil
	}

	name := strings.ToLower(channel)
	if cached, ok := c.channels.Get(channelCacheKey); ok {
		if id, ok := cached.(map[string]string)[name]; ok {
			return id, nil
		}
	}

	var chans []guildChannel
	if err := c.getJSON(ctx, fmt.Sprintf("/guilds/%s/channels", c.config.GuildID), &chans); err != nil {
		return "", err
	}

	ids := make(map[string]string, len(chans))
	for _, ch := range chans {
		if ch.Type != channelTypeText {
			continue
		}
		ids[strings.ToLower(ch.Name)] = ch.ID
	}
	c.channels.Set(channelCacheKey, ids, cache.DefaultExpiration)

	return ids[name], nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path, nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("chat request %s returned %d", path, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bot "+c.config.BotToken)
	req.Header.Set("User-Agent", "reminderd")
}

func isSnowflake(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
