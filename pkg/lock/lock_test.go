package lock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalancedUseLeavesEmptyMap(t *testing.T) {
	m := NewManager()
	m.Lock("k")
	m.Unlock("k")
	assert.Zero(t, m.Size())

	m.Lock("k")
	m.Lock("other")
	m.Unlock("other")
	assert.Equal(t, 1, m.Size())
	m.Unlock("k")
	assert.Zero(t, m.Size())
}

func TestLockMutualExclusion(t *testing.T) {
	m := NewManager()
	const workers = 8
	const iterations = 200

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				m.Lock("counter")
				counter++
				m.Unlock("counter")
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, workers*iterations, counter)
	assert.Zero(t, m.Size())
}

func TestTryLock(t *testing.T) {
	m := NewManager()
	require.True(t, m.TryLock("k"))
	assert.False(t, m.TryLock("k"))
	m.Unlock("k")
	assert.Zero(t, m.Size())

	// A failed TryLock on a held key must not leak an extra reference.
	m.Lock("k")
	assert.False(t, m.TryLock("k"))
	m.Unlock("k")
	assert.Zero(t, m.Size())
}

func TestTryLockTimeout(t *testing.T) {
	m := NewManager()
	m.Lock("k")

	start := time.Now()
	acquired := m.TryLockTimeout("k", 50*time.Millisecond)
	assert.False(t, acquired)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	// The timed-out waiter leaves no trace beyond the holder's entry.
	assert.Equal(t, 1, m.Size())

	m.Unlock("k")
	assert.Zero(t, m.Size())

	assert.True(t, m.TryLockTimeout("k", time.Millisecond))
	m.Unlock("k")
	assert.Zero(t, m.Size())
}

func TestTryLockTimeoutAcquiresWhenReleased(t *testing.T) {
	m := NewManager()
	m.Lock("k")

	done := make(chan bool, 1)
	go func() {
		done <- m.TryLockTimeout("k", 5*time.Second)
	}()

	time.Sleep(20 * time.Millisecond)
	m.Unlock("k")

	select {
	case acquired := <-done:
		require.True(t, acquired)
	case <-time.After(time.Second):
		t.Fatal("waiter did not acquire the lock")
	}
	m.Unlock("k")
	assert.Zero(t, m.Size())
}

func TestFIFOGrantOrder(t *testing.T) {
	m := NewManager()
	m.Lock("k")

	const waiters = 5
	var mu sync.Mutex
	var order []int
	ready := make(chan struct{}, waiters)
	var wg sync.WaitGroup

	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ready <- struct{}{}
			m.Lock("k")
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			m.Unlock("k")
		}(i)
		// Serialize waiter enqueue so arrival order is deterministic.
		<-ready
		time.Sleep(10 * time.Millisecond)
	}

	m.Unlock("k")
	wg.Wait()

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
	assert.Zero(t, m.Size())
}

func TestUnlockOfUnlockedKeyPanics(t *testing.T) {
	m := NewManager()
	assert.Panics(t, func() { m.Unlock("never-locked") })

	m.Lock("k")
	m.Unlock("k")
	assert.Panics(t, func() { m.Unlock("k") })
}

func TestPackageLevelManager(t *testing.T) {
	Lock("pkg-key")
	assert.False(t, TryLock("pkg-key"))
	Unlock("pkg-key")

	assert.True(t, TryLockTimeout("pkg-key", time.Millisecond))
	Unlock("pkg-key")
}
