package parser_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reminderd/internal/parser"
)

func TestParseTimeRelativeOffsets(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		text string
		want time.Time
	}{
		{"in one hour", "remind me in 1 hour", now.Add(time.Hour)},
		{"in minutes", "in 30 minutes check the oven", now.Add(30 * time.Minute)},
		{"hours later", "2 hours later", now.Add(2 * time.Hour)},
		{"minutes later", "45 minutes later", now.Add(45 * time.Minute)},
		{"combined offset", "1 hour 30 minutes later", now.Add(90 * time.Minute)},
		{"combined with in", "in 1 hour and 15 minutes", now.Add(75 * time.Minute)},
		{"compact units", "in 2h", now.Add(2 * time.Hour)},
		{"from now", "3 hours from now", now.Add(3 * time.Hour)},
		{"bare later defaults to an hour", "ping me later", now.Add(time.Hour)},
		{"bare after defaults to an hour", "after", now.Add(time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parser.ParseTime(tt.text, now)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTimeClock(t *testing.T) {
	now := time.Date(2024, 1, 1, 16, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		text string
		want time.Time
	}{
		{
			"passed slot rolls to tomorrow",
			"15:00",
			time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC),
		},
		{
			"future slot stays today",
			"17:30",
			time.Date(2024, 1, 1, 17, 30, 0, 0, time.UTC),
		},
		{
			"exact now rolls",
			"16:00",
			time.Date(2024, 1, 2, 16, 0, 0, 0, time.UTC),
		},
		{
			"at hour without minutes",
			"at 18",
			time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC),
		},
		{
			"tomorrow at hour",
			"tomorrow at 9",
			time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC),
		},
		{
			"tomorrow with clock",
			"tomorrow 9:30",
			time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC),
		},
		{
			"today at passed hour rolls",
			"today at 10",
			time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC),
		},
		{
			"today at future hour",
			"today at 20:15",
			time.Date(2024, 1, 1, 20, 15, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parser.ParseTime(tt.text, now)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTimeBareDays(t *testing.T) {
	now := time.Date(2024, 1, 1, 16, 0, 0, 0, time.UTC)

	got, ok := parser.ParseTime("tomorrow", now)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), got)

	// 18:00 is still ahead of 16:00, so "today" stays on the same day.
	got, ok = parser.ParseTime("today", now)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC), got)

	// After 18:00 the default evening slot has passed and rolls over.
	evening := time.Date(2024, 1, 1, 19, 0, 0, 0, time.UTC)
	got, ok = parser.ParseTime("today", evening)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC), got)
}

func TestParseTimeNoMatch(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	for _, text := range []string{
		"",
		"buy milk",
		"remind me about the meeting",
		"25:99",
	} {
		_, ok := parser.ParseTime(text, now)
		assert.False(t, ok, "expected no match for %q", text)
	}
}

func TestParseTimeIsDeterministic(t *testing.T) {
	now := time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC)

	first, ok1 := parser.ParseTime("tomorrow at 12:45", now)
	second, ok2 := parser.ParseTime("tomorrow at 12:45", now)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, first, second)
}

func TestParseTimeKeepsLocation(t *testing.T) {
	loc := time.FixedZone("JST", 9*3600)
	now := time.Date(2024, 1, 1, 16, 0, 0, 0, loc)

	got, ok := parser.ParseTime("15:00", now)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 2, 15, 0, 0, 0, loc), got)
	assert.Equal(t, loc, got.Location())
}
