package health

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryEmpty(t *testing.T) {
	r := NewRegistry()
	healthy, statuses := r.CheckAll(context.Background())
	assert.True(t, healthy, "empty registry should be healthy")
	assert.Empty(t, statuses)
}

func TestRegistryOneUnhealthy(t *testing.T) {
	r := NewRegistry()
	r.Register("locale", LocaleCheck("en-US"))
	r.Register("database", func(_ context.Context) Status {
		return Status{Name: "database", Healthy: false, Detail: "connection refused"}
	})

	healthy, statuses := r.CheckAll(context.Background())
	assert.False(t, healthy)
	require.Len(t, statuses, 2)
	assert.True(t, statuses[0].Healthy)
	assert.Equal(t, "connection refused", statuses[1].Detail)
}

func TestLocaleCheck(t *testing.T) {
	st := LocaleCheck("de-DE")(context.Background())
	assert.True(t, st.Healthy)
	assert.Equal(t, "locale", st.Name)
	assert.Contains(t, st.Detail, "decimal=,")

	st = LocaleCheck("not a tag!!")(context.Background())
	assert.False(t, st.Healthy)
	assert.NotEmpty(t, st.Detail)
}

func TestRegistryConcurrentRegisterAndCheck(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Register("checker", func(_ context.Context) Status {
				return Status{Name: "checker", Healthy: true}
			})
		}()
		go func() {
			defer wg.Done()
			r.CheckAll(context.Background())
		}()
	}

	wg.Wait()
	healthy, statuses := r.CheckAll(context.Background())
	assert.True(t, healthy)
	assert.Len(t, statuses, 10)
}

func TestRegistryNameOverridesStatus(t *testing.T) {
	r := NewRegistry()
	r.Register("cache", func(_ context.Context) Status {
		return Status{Name: "something-else", Healthy: true}
	})

	_, statuses := r.CheckAll(context.Background())
	require.Len(t, statuses, 1)
	assert.Equal(t, "cache", statuses[0].Name)
}

func TestRegistrySlowCheckTimesOut(t *testing.T) {
	r := NewRegistry()
	r.SetTimeout(20 * time.Millisecond)
	r.Register("slow", func(ctx context.Context) Status {
		<-ctx.Done()
		time.Sleep(50 * time.Millisecond)
		return Status{Healthy: true}
	})
	r.Register("fast", func(_ context.Context) Status {
		return Status{Healthy: true}
	})

	healthy, statuses := r.CheckAll(context.Background())
	assert.False(t, healthy)
	require.Len(t, statuses, 2)
	assert.Equal(t, "slow", statuses[0].Name)
	assert.Equal(t, "check timed out", statuses[0].Detail)
	assert.True(t, statuses[1].Healthy)
}

func TestRegistryIgnoresNonPositiveTimeout(t *testing.T) {
	r := NewRegistry()
	r.SetTimeout(0)
	assert.Equal(t, DefaultCheckTimeout, r.timeout)
}
