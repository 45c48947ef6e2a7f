package syncutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedMutex_MutualExclusion(t *testing.T) {
	m := NewKeyedMutex()
	ctx := context.Background()

	counter := 0
	var wg sync.WaitGroup
	const n = 100

	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			unlock, err := m.Lock(ctx, "pre_1")
			if !assert.NoError(t, err) {
				return
			}
			counter++
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, n, counter)
}

func TestKeyedMutex_ContextCancelled(t *testing.T) {
	m := NewKeyedMutex()

	unlock, err := m.Lock(context.Background(), "pre_1")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = m.Lock(ctx, "pre_1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestKeyedMutex_ReleaseAllowsNext(t *testing.T) {
	m := NewKeyedMutex()
	ctx := context.Background()

	unlock, err := m.Lock(ctx, "a")
	require.NoError(t, err)
	unlock()

	unlock, err = m.Lock(ctx, "a")
	require.NoError(t, err)
	unlock()
}

func TestKeyedMutex_IndependentShards(t *testing.T) {
	m := NewKeyedMutex()
	ctx := context.Background()

	// Find two keys on different shards.
	a, b := "a", ""
	for i := 0; i < 1000; i++ {
		k := string(rune('b' + i))
		if shardOf(k) != shardOf(a) {
			b = k
			break
		}
	}
	require.NotEmpty(t, b)

	unlockA, err := m.Lock(ctx, a)
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	unlockB, err := m.Lock(ctx, b)
	require.NoError(t, err)
	unlockB()
}
