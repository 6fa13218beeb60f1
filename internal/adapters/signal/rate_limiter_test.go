package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRateLimiter(t *testing.T) {
	rl := NewEventRateLimiter(3, 50*time.Millisecond)
	require.NotNil(t, rl)

	for range 3 {
		assert.True(t, rl.Allow("c1"))
	}
	assert.False(t, rl.Allow("c1"))

	// Other connections have their own budget.
	assert.True(t, rl.Allow("c2"))

	time.Sleep(60 * time.Millisecond)
	assert.True(t, rl.Allow("c1"))

	rl.Forget("c1")
	rl.mu.Lock()
	_, kept := rl.history["c1"]
	rl.mu.Unlock()
	assert.False(t, kept)
}

func TestEventRateLimiterDisabled(t *testing.T) {
	assert.Nil(t, NewEventRateLimiter(0, time.Second))
}
