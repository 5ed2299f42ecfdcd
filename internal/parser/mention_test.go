package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"reminderd/internal/model"
	"reminderd/internal/parser"
	"reminderd/pkg/chat"
)

func testRoster() chat.Roster {
	return chat.Roster{
		Users: []chat.Entity{
			{ID: "100", Name: "alice", DisplayName: "Alice W"},
			{ID: "101", Name: "bob", DisplayName: "Bobby"},
			{ID: "102", Name: "charlotte", DisplayName: "Charlie"},
		},
		Roles: []chat.Entity{
			{ID: "200", Name: "designers"},
			{ID: "201", Name: "oncall"},
			{ID: "202", Name: "bob squad"},
		},
	}
}

func TestParseMentionKeywords(t *testing.T) {
	roster := testRoster()

	tests := []struct {
		name string
		text string
		want model.MentionTarget
	}{
		{"everyone", "everyone", model.MentionTarget{Kind: model.TargetBroadcast}},
		{"at everyone", "@everyone", model.MentionTarget{Kind: model.TargetBroadcast}},
		{"all", "tell all about it", model.MentionTarget{Kind: model.TargetBroadcast}},
		{"here", "here", model.MentionTarget{Kind: model.TargetHere}},
		{"at here", "@here", model.MentionTarget{Kind: model.TargetHere}},
		{"active members", "active members", model.MentionTarget{Kind: model.TargetHere}},
		{"empty defaults to broadcast", "", model.MentionTarget{Kind: model.TargetBroadcast}},
		{"no target fragment defaults to broadcast", "remind me about X", model.MentionTarget{Kind: model.TargetBroadcast}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parser.ParseMention(tt.text, roster))
		})
	}
}

func TestParseMentionRosterMatching(t *testing.T) {
	roster := testRoster()

	tests := []struct {
		name string
		text string
		want model.MentionTarget
	}{
		{"at token exact user", "@alice", model.MentionTarget{Kind: model.TargetUser, RawName: "alice"}},
		{"bare exact user", "bob", model.MentionTarget{Kind: model.TargetUser, RawName: "bob"}},
		{"display name exact", "Bobby", model.MentionTarget{Kind: model.TargetUser, RawName: "bob"}},
		{"case insensitive", "ALICE", model.MentionTarget{Kind: model.TargetUser, RawName: "alice"}},
		{"exact role", "designers", model.MentionTarget{Kind: model.TargetRole, RawName: "designers"}},
		{"substring user", "charl", model.MentionTarget{Kind: model.TargetUser, RawName: "charlotte"}},
		{"substring role", "@design", model.MentionTarget{Kind: model.TargetRole, RawName: "designers"}},
		{"role prefix", "role:oncall", model.MentionTarget{Kind: model.TargetRole, RawName: "oncall"}},
		{"role prefix substring", "role:bob", model.MentionTarget{Kind: model.TargetRole, RawName: "bob squad"}},
		{"role prefix unknown falls back", "role:nobody", model.MentionTarget{Kind: model.TargetBroadcast}},
		{"unknown token falls back", "@stranger", model.MentionTarget{Kind: model.TargetBroadcast}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parser.ParseMention(tt.text, roster))
		})
	}
}

// An exact role name must beat a substring hit on a user, and users win
// within the same tier.
func TestParseMentionTierOrdering(t *testing.T) {
	roster := chat.Roster{
		Users: []chat.Entity{{ID: "1", Name: "oncaller"}},
		Roles: []chat.Entity{{ID: "2", Name: "oncall"}},
	}

	got := parser.ParseMention("oncall", roster)
	assert.Equal(t, model.MentionTarget{Kind: model.TargetRole, RawName: "oncall"}, got)

	sameTier := chat.Roster{
		Users: []chat.Entity{{ID: "1", Name: "crew"}},
		Roles: []chat.Entity{{ID: "2", Name: "crew"}},
	}
	got = parser.ParseMention("crew", sameTier)
	assert.Equal(t, model.MentionTarget{Kind: model.TargetUser, RawName: "crew"}, got)
}

func TestParseMentionEmptyRoster(t *testing.T) {
	got := parser.ParseMention("@alice", chat.Roster{})
	assert.Equal(t, model.MentionTarget{Kind: model.TargetBroadcast}, got)
}

func TestParseChannel(t *testing.T) {
	assert.Equal(t, "general", parser.ParseChannel("post it in #general", "default"))
	assert.Equal(t, "launch-room", parser.ParseChannel("#launch-room", "default"))
	assert.Equal(t, "default", parser.ParseChannel("no marker here", "default"))
	assert.Equal(t, "default", parser.ParseChannel("", "default"))
}
