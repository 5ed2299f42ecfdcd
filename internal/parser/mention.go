package parser

import (
	"regexp"
	"strings"

	"reminderd/internal/model"
	"reminderd/pkg/chat"
)

var (
	broadcastRe = regexp.MustCompile(`(?i)(?:@everyone\b|\beveryone\b|\ball\b)`)
	hereRe      = regexp.MustCompile(`(?i)(?:@here\b|\bhere\b|\bactive\s+members?\b)`)
	atTokenRe   = regexp.MustCompile(`@([\w-]+)`)
)

// ParseMention resolves target text against the live roster. Broadcast and
// here keywords win outright; otherwise @-tokens (or, failing that, the whole
// fragment) are matched exact-first then by substring. Anything unresolvable
// falls back to broadcast.
func ParseMention(text string, roster chat.Roster) model.MentionTarget {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return model.MentionTarget{Kind: model.TargetBroadcast}
	}

	if broadcastRe.MatchString(trimmed) {
		return model.MentionTarget{Kind: model.TargetBroadcast}
	}
	if hereRe.MatchString(trimmed) {
		return model.MentionTarget{Kind: model.TargetHere}
	}

	// "role:designers" forces a role lookup.
	if name, ok := strings.CutPrefix(strings.ToLower(trimmed), "role:"); ok {
		if role, found := roster.FindRole(name); found {
			return model.MentionTarget{Kind: model.TargetRole, RawName: role.Name}
		}
		return model.MentionTarget{Kind: model.TargetBroadcast}
	}

	for _, candidate := range extractCandidates(trimmed) {
		if target, ok := matchRoster(candidate, roster); ok {
			return target
		}
	}
	return model.MentionTarget{Kind: model.TargetBroadcast}
}

// matchRoster applies the two matching tiers: exact case-insensitive equality
// against every user and role name, then substring containment. Users are
// preferred over roles within a tier.
func matchRoster(candidate string, roster chat.Roster) (model.MentionTarget, bool) {
	frag := strings.ToLower(strings.TrimSpace(candidate))
	if frag == "" {
		return model.MentionTarget{}, false
	}

	for _, u := range roster.Users {
		if strings.ToLower(u.Name) == frag || strings.ToLower(u.DisplayName) == frag {
			return model.MentionTarget{Kind: model.TargetUser, RawName: u.Name}, true
		}
	}
	for _, role := range roster.Roles {
		if strings.ToLower(role.Name) == frag {
			return model.MentionTarget{Kind: model.TargetRole, RawName: role.Name}, true
		}
	}

	for _, u := range roster.Users {
		if strings.Contains(strings.ToLower(u.Name), frag) ||
			strings.Contains(strings.ToLower(u.DisplayName), frag) {
			return model.MentionTarget{Kind: model.TargetUser, RawName: u.Name}, true
		}
	}
	for _, role := range roster.Roles {
		if strings.Contains(strings.ToLower(role.Name), frag) {
			return model.MentionTarget{Kind: model.TargetRole, RawName: role.Name}, true
		}
	}
	return model.MentionTarget{}, false
}

// extractCandidates pulls @-mention tokens out of the text; when there are
// none the whole fragment is the candidate.
func extractCandidates(text string) []string {
	matches := atTokenRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return []string{text}
	}
	candidates := make([]string, 0, len(matches))
	for _, m := range matches {
		candidates = append(candidates, m[1])
	}
	return candidates
}
