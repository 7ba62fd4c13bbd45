package voice_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/misterclayt0n/repcoach/internal/testsupport"
	"github.com/misterclayt0n/repcoach/internal/voice"
)

func TestThrottleCooldown(t *testing.T) {
	th := voice.NewThrottle(5 * time.Second)

	assert.True(t, th.Allow(testsupport.At(0)))
	assert.False(t, th.Allow(testsupport.At(3)))
	assert.True(t, th.Allow(testsupport.At(6)))
	// A dropped request does not restart the window.
	assert.False(t, th.Allow(testsupport.At(10.9)))
	assert.True(t, th.Allow(testsupport.At(11)))
}

func TestThrottleZeroValueAllows(t *testing.T) {
	var th voice.Throttle
	assert.True(t, th.Allow(testsupport.At(0)))
	assert.True(t, th.Allow(testsupport.At(0)))
}

func TestThrottleMarkAndCooldownChange(t *testing.T) {
	th := voice.NewThrottle(5 * time.Second)
	th.Mark(testsupport.At(0))
	assert.False(t, th.Allow(testsupport.At(4)))

	th.SetCooldown(8 * time.Second)
	assert.Equal(t, 8*time.Second, th.Cooldown())
	assert.False(t, th.Allow(testsupport.At(7)))
	assert.True(t, th.Allow(testsupport.At(8)))
}
