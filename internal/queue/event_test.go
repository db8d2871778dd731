package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmailQueuedEvent(t *testing.T) {
	t.Parallel()

	ev := NewEmailQueuedEvent("noreply@x.com", "a@x.com", "Confirmation code", "code: abc")

	assert.Equal(t, "noreply@x.com", ev.From)
	assert.Equal(t, "a@x.com", ev.To)
	assert.Equal(t, "Confirmation code", ev.Subject)
	assert.Equal(t, "code: abc", ev.Body)
	require.NotEmpty(t, ev.MessageID)

	_, err := time.Parse(time.RFC3339, ev.QueuedAt)
	assert.NoError(t, err)

	// IDs are per-event; redelivery dedup depends on it.
	other := NewEmailQueuedEvent("noreply@x.com", "a@x.com", "Confirmation code", "code: abc")
	assert.NotEqual(t, ev.MessageID, other.MessageID)
}
