package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"besttweets/internal/model"
)

func TestMemoryRoundTripAndExpiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory(time.Minute)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, "a", &model.PendingAuthorization{ReturnURL: "https://p/cb", RequestToken: "rt", RequestSecret: "rs"}))
	got, err := m.Load(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "rt", got.RequestToken)

	got.RequestToken = "mutated"
	again, _ := m.Load(ctx, "a")
	require.Equal(t, "rt", again.RequestToken)

	now = now.Add(2 * time.Minute)
	got, err = m.Load(ctx, "a")
	require.NoError(t, err)
	require.Nil(t, got)
	require.Equal(t, 0, m.Len())
}

func TestMemorySaveNilDeletes(t *testing.T) {
	m := NewMemory(time.Minute)
	ctx := context.Background()
	require.NoError(t, m.Save(ctx, "a", &model.PendingAuthorization{ReturnURL: "u"}))
	require.NoError(t, m.Save(ctx, "a", nil))
	got, err := m.Load(ctx, "a")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestMemorySessionsAreIsolated(t *testing.T) {
	m := NewMemory(time.Minute)
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i%26)) + time.Duration(i).String()
			p := &model.PendingAuthorization{ReturnURL: id}
			if err := m.Save(ctx, id, p); err != nil {
				t.Error(err)
				return
			}
			got, err := m.Load(ctx, id)
			if err != nil || got == nil || got.ReturnURL != id {
				t.Errorf("session %s saw %+v", id, got)
			}
		}(i)
	}
	wg.Wait()
	require.Equal(t, 50, m.Len())
}

func TestMemoryTakeIsSingleUse(t *testing.T) {
	m := NewMemory(time.Minute)
	ctx := context.Background()
	require.NoError(t, m.Save(ctx, "a", &model.PendingAuthorization{ReturnURL: "u", RequestToken: "rt"}))

	const n = 20
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		got int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := m.Take(ctx, "a")
			if err != nil {
				t.Error(err)
				return
			}
			if p != nil {
				mu.Lock()
				got++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, got)
	p, err := m.Load(ctx, "a")
	require.NoError(t, err)
	require.Nil(t, p)
}

func TestMemoryTakeExpired(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory(time.Minute)
	m.now = func() time.Time { return now }
	ctx := context.Background()
	require.NoError(t, m.Save(ctx, "a", &model.PendingAuthorization{ReturnURL: "u"}))
	now = now.Add(2 * time.Minute)
	p, err := m.Take(ctx, "a")
	require.NoError(t, err)
	require.Nil(t, p)
	require.Equal(t, 0, m.Len())
}
