package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllow_WithinBudget(t *testing.T) {
	krl := New(5, time.Minute)
	defer krl.Stop()

	for i := range 5 {
		assert.True(t, krl.Allow("10.0.0.1"), "request %d should be allowed", i)
	}
}

func TestAllow_ExhaustsBudget(t *testing.T) {
	krl := New(3, time.Hour)
	defer krl.Stop()

	for range 3 {
		assert.True(t, krl.Allow("10.0.0.1"))
	}
	assert.False(t, krl.Allow("10.0.0.1"), "budget exhausted, request should be denied")
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	krl := New(1, time.Hour)
	defer krl.Stop()

	assert.True(t, krl.Allow("10.0.0.1"))
	assert.False(t, krl.Allow("10.0.0.1"))
	assert.True(t, krl.Allow("10.0.0.2"), "a different key gets its own bucket")
}

func TestAllow_RefillsOverTime(t *testing.T) {
	// 100 per second refills a token every 10ms.
	krl := New(100, time.Second)
	defer krl.Stop()

	for range 100 {
		krl.Allow("10.0.0.1")
	}
	assert.False(t, krl.Allow("10.0.0.1"))

	time.Sleep(50 * time.Millisecond)
	assert.True(t, krl.Allow("10.0.0.1"), "tokens should refill over time")
}

func TestAllow_Concurrent(t *testing.T) {
	krl := New(1000, time.Hour)
	defer krl.Stop()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				krl.Allow("10.0.0.1")
				krl.Allow("10.0.0.2")
			}
		}()
	}
	wg.Wait()

	// Both keys still within budget after 500 requests each.
	assert.True(t, krl.Allow("10.0.0.1"))
	assert.True(t, krl.Allow("10.0.0.2"))
}

func TestStop_Idempotent(t *testing.T) {
	krl := New(1, time.Minute)
	krl.Stop()
	krl.Stop()
}
