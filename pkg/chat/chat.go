// Package chat defines the chat-platform boundary: the roster of addressable
// entities, the post-message operation and its outcome classification.
package chat

import (
	"context"
	"strings"
)

// Outcome classifies a post attempt. Transient failures are worth retrying
// from outside; fatal failures are not.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeTransient Outcome = "transient_failure"
	OutcomeFatal     Outcome = "fatal_failure"
)

// Entity is an addressable user or role on the platform.
type Entity struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
}

// Roster is the set of addressable entities at a point in time. It is always
// fetched live from the platform, never cached by callers.
type Roster struct {
	Users []Entity `json:"users"`
	Roles []Entity `json:"roles"`
}

// Client is implemented by platform adapters.
type Client interface {
	ResolveRoster(ctx context.Context) (Roster, error)
	PostMessage(ctx context.Context, channel, text string) (Outcome, error)
}

// FindUser matches a name fragment against users, exact (case-insensitive,
// name or display name) before substring containment.
func (r Roster) FindUser(fragment string) (Entity, bool) {
	fragment = strings.ToLower(strings.TrimSpace(fragment))
	if fragment == "" {
		return Entity{}, false
	}
	for _, u := range r.Users {
		if strings.ToLower(u.Name) == fragment || strings.ToLower(u.DisplayName) == fragment {
			return u, true
		}
	}
	for _, u := range r.Users {
		if strings.Contains(strings.ToLower(u.Name), fragment) ||
			strings.Contains(strings.ToLower(u.DisplayName), fragment) {
			return u, true
		}
	}
	return Entity{}, false
}

// FindRole matches a name fragment against roles, exact before substring.
func (r Roster) FindRole(fragment string) (Entity, bool) {
	fragment = strings.ToLower(strings.TrimSpace(fragment))
	if fragment == "" {
		return Entity{}, false
	}
	for _, role := range r.Roles {
		if strings.ToLower(role.Name) == fragment {
			return role, true
		}
	}
	for _, role := range r.Roles {
		if strings.Contains(strings.ToLower(role.Name), fragment) {
			return role, true
		}
	}
	return Entity{}, false
}

// Mention syntax understood by the platform.
const (
	MentionEveryone = "@everyone"
	MentionHere     = "@here"
)

func MentionUser(e Entity) string { return "<@" + e.ID + ">" }

func MentionRole(e Entity) string { return "<@&" + e.ID + ">" }
