package usecase

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitech808/phone-price-bot/internal/domain/constants"
	"github.com/mitech808/phone-price-bot/internal/domain/entity"
)

func newTestComparison(maxSessions int, ttl time.Duration) *ComparisonUseCase {
	return NewComparisonUseCase(staticSnapshot{catalog: testCatalog()}, NewLinkResolver("https://t.me/fallback"), maxSessions, ttl, nil)
}

func TestComparison_CompleteFlow(t *testing.T) {
	u := newTestComparison(0, 0)
	const user = int64(42)

	_, handled := u.Submit(user, "Galaxy S23 Ultra")
	assert.False(t, handled, "no session yet")

	u.Start(user)
	assert.Equal(t, ComparisonAwaitingFirst, u.State(user))

	out, handled := u.Submit(user, "  Galaxy S23 Ultra ")
	require.True(t, handled)
	assert.Equal(t, OutcomeAwaitingSecond, out.Kind)
	assert.Equal(t, "Galaxy S23 Ultra", out.FirstName)
	assert.Equal(t, ComparisonAwaitingSecond, u.State(user))

	out, handled = u.Submit(user, "iphone 15 pro mx")
	require.True(t, handled)
	require.Equal(t, OutcomeComplete, out.Kind)
	require.NoError(t, out.Err())
	require.NotNil(t, out.Payload)

	assert.Equal(t, "Galaxy S23 Ultra", out.Payload.First.Entry.Name)
	assert.Equal(t, 100, out.Payload.First.Score)
	assert.Equal(t, "https://example.com/s23-ultra", out.Payload.First.Link)
	assert.Equal(t, "iPhone 15 Pro Max", out.Payload.Second.Entry.Name)
	assert.GreaterOrEqual(t, out.Payload.Second.Score, constants.ComparisonThreshold)
	assert.Equal(t, "iphone 15 pro mx", out.Payload.Second.Input)
	assert.Equal(t, "https://example.com/iphone-15-pro-max", out.Payload.Second.Link)

	assert.Equal(t, ComparisonIdle, u.State(user))
	_, handled = u.Submit(user, "Galaxy A54")
	assert.False(t, handled, "third text is a regular query")
}

func TestComparison_Ambiguous(t *testing.T) {
	u := newTestComparison(0, 0)
	u.Start(1)
	_, _ = u.Submit(1, "S23")
	out, handled := u.Submit(1, "Galaxy A54")
	require.True(t, handled)

	assert.Equal(t, OutcomeAmbiguous, out.Kind)
	assert.ErrorIs(t, out.Err(), entity.ErrAmbiguousComparison)
	assert.Nil(t, out.Payload)
	assert.Equal(t, []string{"S23"}, out.Unresolved)
	assert.False(t, u.Active(1))
}

func TestComparison_BothUnresolved(t *testing.T) {
	u := newTestComparison(0, 0)
	u.Start(1)
	_, _ = u.Submit(1, "pixel")
	out, _ := u.Submit(1, "")
	assert.Equal(t, OutcomeAmbiguous, out.Kind)
	assert.Equal(t, []string{"pixel", ""}, out.Unresolved)
}

func TestComparison_NoCatalog(t *testing.T) {
	u := NewComparisonUseCase(staticSnapshot{}, nil, 0, 0, nil)
	u.Start(1)
	_, _ = u.Submit(1, "Galaxy S23")
	out, _ := u.Submit(1, "Galaxy A54")
	assert.Equal(t, OutcomeAmbiguous, out.Kind)
	assert.Len(t, out.Unresolved, 2)
}

func TestComparison_Cancel(t *testing.T) {
	u := newTestComparison(0, 0)
	assert.False(t, u.Cancel(7))

	u.Start(7)
	assert.True(t, u.Cancel(7))
	assert.Equal(t, ComparisonIdle, u.State(7))

	u.Start(7)
	_, _ = u.Submit(7, "Galaxy S23")
	assert.True(t, u.Cancel(7))
	_, handled := u.Submit(7, "Galaxy A54")
	assert.False(t, handled)
}

func TestComparison_RestartOverwrites(t *testing.T) {
	u := newTestComparison(0, 0)
	u.Start(3)
	_, _ = u.Submit(3, "Galaxy S23")
	u.Start(3)
	assert.Equal(t, ComparisonAwaitingFirst, u.State(3))

	out, _ := u.Submit(3, "Redmi Note 13 Pro")
	assert.Equal(t, "Redmi Note 13 Pro", out.FirstName)
}

func TestComparison_SessionsAreIndependent(t *testing.T) {
	u := newTestComparison(0, 0)
	u.Start(1)
	u.Start(2)
	_, _ = u.Submit(1, "Galaxy S23")
	assert.Equal(t, ComparisonAwaitingSecond, u.State(1))
	assert.Equal(t, ComparisonAwaitingFirst, u.State(2))
	assert.Equal(t, 2, u.ActiveSessions())
}

func TestComparison_SessionExpires(t *testing.T) {
	u := newTestComparison(0, 50*time.Millisecond)
	u.Start(9)
	assert.Eventually(t, func() bool { return !u.Active(9) }, 2*time.Second, 10*time.Millisecond)
	_, handled := u.Submit(9, "Galaxy S23")
	assert.False(t, handled)
}

func TestComparison_MaxSessionsEvictsOldest(t *testing.T) {
	u := newTestComparison(2, 0)
	u.Start(1)
	u.Start(2)
	u.Start(3)
	assert.Equal(t, 2, u.ActiveSessions())
	assert.False(t, u.Active(1))
	assert.True(t, u.Active(3))
}

func TestComparison_ConcurrentSessions(t *testing.T) {
	u := newTestComparison(0, 0)
	var wg sync.WaitGroup
	errs := make(chan error, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			u.Start(id)
			if _, ok := u.Submit(id, "Galaxy A54"); !ok {
				errs <- fmt.Errorf("session %d: first text not handled", id)
				return
			}
			out, ok := u.Submit(id, "Redmi Note 13 Pro")
			if !ok || out.Kind != OutcomeComplete {
				errs <- fmt.Errorf("session %d: kind=%v handled=%v", id, out.Kind, ok)
			}
		}(int64(i))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
	assert.Zero(t, u.ActiveSessions())
}
