package sequencer_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waygate/waygate/internal/sequencer"
)

func TestClockNext(t *testing.T) {
	c := sequencer.NewClock()
	assert.EqualValues(t, 0, c.Current())
	assert.EqualValues(t, 1, c.Next())
	assert.EqualValues(t, 2, c.Next())
	assert.EqualValues(t, 2, c.Current())
}

func TestClockResumesFromStart(t *testing.T) {
	// Continuing an existing journal's numbering: start at its max seq.
	c := sequencer.NewClockAt(41)
	assert.EqualValues(t, 41, c.Current())
	assert.EqualValues(t, 42, c.Next())
}

func TestClockConcurrentUniqueness(t *testing.T) {
	const goroutines = 8
	const perGoroutine = 200

	c := sequencer.NewClock()
	var mu sync.Mutex
	seen := make(map[int64]bool, goroutines*perGoroutine)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				seq := c.Next()
				mu.Lock()
				seen[seq] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, seen, goroutines*perGoroutine)
	assert.EqualValues(t, goroutines*perGoroutine, c.Current())
}
