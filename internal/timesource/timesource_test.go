package timesource

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rook-computer/circleface/internal/state"
)

func TestSystemSourceSync(t *testing.T) {
	fake := clockwork.NewFakeClockAt(time.Date(2026, 10, 18, 16, 45, 12, 0, time.UTC))
	store := state.NewStore(state.TimeValue{})
	src := NewSystemSource(fake, time.UTC, store)

	require.NoError(t, src.Sync(context.Background()))
	assert.Equal(t, state.TimeValue{Hour: 16, Minute: 45}, store.Time())

	fake.Advance(20 * time.Minute)
	require.NoError(t, src.Sync(context.Background()))
	assert.Equal(t, state.TimeValue{Hour: 17, Minute: 5}, store.Time())
}

func TestSystemSourceLocation(t *testing.T) {
	fake := clockwork.NewFakeClockAt(time.Date(2026, 10, 18, 23, 30, 0, 0, time.UTC))
	plusTwo := time.FixedZone("UTC+2", 2*60*60)
	src := NewSystemSource(fake, plusTwo, state.NewStore(state.TimeValue{}))
	assert.Equal(t, state.TimeValue{Hour: 1, Minute: 30}, src.Read())
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(Manual))
	assert.True(t, Valid(System))
	assert.False(t, Valid("ntp"))
}
