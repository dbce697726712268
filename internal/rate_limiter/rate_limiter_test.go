package rate_limiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsAllowed(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	assert.True(t, rl.IsAllowed("1.2.3.4"))
	assert.True(t, rl.IsAllowed("1.2.3.4"))
	assert.True(t, rl.IsAllowed("1.2.3.4"))
	assert.False(t, rl.IsAllowed("1.2.3.4"))

	// a different key has its own window
	assert.True(t, rl.IsAllowed("5.6.7.8"))
}

func TestWindowExpiry(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)

	assert.True(t, rl.IsAllowed("1.2.3.4"))
	assert.False(t, rl.IsAllowed("1.2.3.4"))

	time.Sleep(15 * time.Millisecond)
	assert.True(t, rl.IsAllowed("1.2.3.4"))
}

func TestGetRemainingRequests(t *testing.T) {
	rl := NewRateLimiter(5, time.Minute)

	assert.Equal(t, 5, rl.GetRemainingRequests("1.2.3.4"))
	rl.IsAllowed("1.2.3.4")
	rl.IsAllowed("1.2.3.4")
	assert.Equal(t, 3, rl.GetRemainingRequests("1.2.3.4"))
}
