package api

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingCloser appends its name to a shared log on close.
type recordingCloser struct {
	name string
	log  *[]string
	err  error
}

func (c *recordingCloser) Close() error {
	*c.log = append(*c.log, c.name)
	return c.err
}

func TestStoreInsertionOrder(t *testing.T) {
	store := NewStore()
	store.Put("a", 1)
	store.Put("b", 2)
	store.Put("c", 3)
	store.Put("a", 4) // re-put keeps position

	assert.Equal(t, []any{"a", "b", "c"}, store.Keys())
	assert.Equal(t, 4, store.Get("a"))
	assert.Equal(t, 3, store.Size())

	assert.Equal(t, 2, store.Remove("b"))
	assert.Equal(t, []any{"a", "c"}, store.Keys())
	assert.Nil(t, store.Remove("b"))
}

func TestStoreGetAs(t *testing.T) {
	store := NewStore()
	store.Put("n", 42)

	n, ok := GetAs[int](store, "n")
	require.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = GetAs[string](store, "n")
	assert.False(t, ok)

	removed, ok := RemoveAs[int](store, "n")
	require.True(t, ok)
	assert.Equal(t, 42, removed)
	assert.False(t, store.Has("n"))
}

func TestStoreComputeIfAbsentIsAtomic(t *testing.T) {
	store := NewStore()
	var calls int
	var wg sync.WaitGroup
	results := make([]any, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = store.ComputeIfAbsent("key", func(any) any {
				calls++
				return "value"
			})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, calls)
	for _, result := range results {
		assert.Equal(t, "value", result)
	}
}

func TestStoreCloseReverseInsertionOrder(t *testing.T) {
	var log []string
	store := NewStore()
	store.Put("a", &recordingCloser{name: "a", log: &log})
	store.Put("b", &recordingCloser{name: "b", log: &log})
	store.Put("c", &recordingCloser{name: "c", log: &log})
	store.Put("plain", "not closeable")

	require.NoError(t, store.Close())
	assert.Equal(t, []string{"c", "b", "a"}, log)
	assert.Zero(t, store.Size())
}

func TestStoreCloseContinuesPastFailures(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	store := NewStore()
	store.Put("a", &recordingCloser{name: "a", log: &log})
	store.Put("b", &recordingCloser{name: "b", log: &log, err: boom})
	store.Put("c", &recordingCloser{name: "c", log: &log})

	err := store.Close()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	// b failing must not prevent a from closing.
	assert.Equal(t, []string{"c", "b", "a"}, log)
}

func TestStoreClosePanicBecomesError(t *testing.T) {
	store := NewStore()
	store.Put("p", panicCloser{})

	err := store.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic during close")
}

type panicCloser struct{}

func (panicCloser) Close() error { panic("close panic") }

func TestStoreReadOnlyViewPanicsOnMutation(t *testing.T) {
	store := NewStore()
	store.Put("a", 1)
	view := store.ReadOnly()

	assert.Equal(t, 1, view.Get("a"))
	assert.True(t, view.Has("a"))
	assert.Equal(t, []any{"a"}, view.Keys())
	assert.Equal(t, 1, view.Size())
	assert.Same(t, view, view.ReadOnly())

	assert.Panics(t, func() { view.Put("b", 2) })
	assert.Panics(t, func() { view.Remove("a") })
	assert.Panics(t, func() { view.Clear() })
	assert.Panics(t, func() { view.ComputeIfAbsent("b", func(any) any { return 2 }) })

	// The backing store is untouched.
	assert.Equal(t, 1, store.Size())
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key-%d-%d", i, j)
				store.Put(key, j)
				_ = store.Get(key)
				_ = store.Keys()
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 800, store.Size())
}

func TestCloseValue(t *testing.T) {
	assert.NoError(t, CloseValue(nil))
	assert.NoError(t, CloseValue("plain"))

	var log []string
	require.NoError(t, CloseValue(&recordingCloser{name: "x", log: &log}))
	assert.Equal(t, []string{"x"}, log)

	boom := errors.New("boom")
	assert.ErrorIs(t, CloseValue(&recordingCloser{name: "y", log: &log, err: boom}), boom)
}
