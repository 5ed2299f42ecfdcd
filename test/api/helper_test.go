package api_test

import (
	"fmt"
	"testing"
	"time"
)

// uniqueOwner generates a fresh owner id so runs never collide.
func uniqueOwner(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

// createTestReminder creates a reminder for owner and returns its id.
func createTestReminder(t *testing.T, owner, message, timeText string) string {
	t.Helper()

	resp := makeRequest("POST", "/reminders", map[string]interface{}{
		"owner_id":  owner,
		"message":   message,
		"time_text": timeText,
	})

	if !resp.Success {
		t.Fatalf("failed to create test reminder: %+v", resp.Error)
	}

	id := resp.GetString("id")
	if id == "" {
		t.Fatalf("create response missing id: %s", resp.RawData)
	}

	t.Cleanup(func() {
		makeRequest("DELETE", "/reminders/"+id, nil)
	})

	return id
}
