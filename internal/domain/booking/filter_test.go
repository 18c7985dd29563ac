package booking

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shareloop/service-sharing/internal/domain/sharederr"
)

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, f, "empty token defaults to ALL")

	for _, raw := range []string{"ALL", "PAST", "CURRENT", "FUTURE", "WAITING", "REJECTED", "APPROVED"} {
		f, err := ParseFilter(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, Filter(raw), f)
	}

	_, err = ParseFilter("UNSUPPORTED")
	require.Error(t, err)
	assert.True(t, sharederr.IsInvalidParameters(err))

	_, err = ParseFilter("current")
	require.Error(t, err, "filter tokens are case-sensitive")
}

func TestFilterStatus(t *testing.T) {
	st, ok := FilterWaiting.Status()
	require.True(t, ok)
	assert.Equal(t, StatusWaiting, st)

	st, ok = FilterApproved.Status()
	require.True(t, ok)
	assert.Equal(t, StatusApproved, st)

	st, ok = FilterRejected.Status()
	require.True(t, ok)
	assert.Equal(t, StatusRejected, st)

	for _, f := range []Filter{FilterAll, FilterPast, FilterCurrent, FilterFuture} {
		_, ok := f.Status()
		assert.False(t, ok, string(f))
	}
}

func TestFilterMatches_TemporalPartition(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	at := func(startOffset, endOffset time.Duration) *Booking {
		return Reconstruct(1, now.Add(startOffset), now.Add(endOffset), 1, 1, StatusApproved)
	}

	cases := []struct {
		name    string
		booking *Booking
		want    Filter
	}{
		{"ended before now", at(-3*time.Hour, -time.Hour), FilterPast},
		{"spanning now", at(-time.Hour, time.Hour), FilterCurrent},
		{"starting after now", at(time.Hour, 3*time.Hour), FilterFuture},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, FilterAll.Matches(tc.booking, now))
			for _, f := range []Filter{FilterPast, FilterCurrent, FilterFuture} {
				assert.Equal(t, f == tc.want, f.Matches(tc.booking, now), string(f))
			}
		})
	}
}

func TestFilterMatches_RandomizedPartition(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 1000; i++ {
		start := now.Add(time.Duration(rng.Intn(201)-100) * time.Hour)
		end := start.Add(time.Duration(rng.Intn(100)+1) * time.Hour)
		b := Reconstruct(int64(i), start, end, 1, 1, StatusApproved)

		matched := 0
		for _, f := range []Filter{FilterPast, FilterCurrent, FilterFuture} {
			if f.Matches(b, now) {
				matched++
			}
		}
		onBoundary := start.Equal(now) || end.Equal(now)
		if onBoundary {
			assert.Zero(t, matched, "boundary booking %v-%v matched a temporal bucket", start, end)
		} else {
			assert.Equal(t, 1, matched, "booking %v-%v must fall into exactly one bucket", start, end)
		}
	}
}

func TestFilterMatches_BoundaryInstants(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	// Comparisons are strict: a booking ending exactly now is neither past
	// nor current, one starting exactly now is neither current nor future.
	endsNow := Reconstruct(1, now.Add(-time.Hour), now, 1, 1, StatusApproved)
	startsNow := Reconstruct(2, now, now.Add(time.Hour), 1, 1, StatusApproved)

	for _, f := range []Filter{FilterPast, FilterCurrent, FilterFuture} {
		assert.False(t, f.Matches(endsNow, now), "ends-now booking under %s", f)
	}
	for _, f := range []Filter{FilterCurrent, FilterFuture} {
		assert.False(t, f.Matches(startsNow, now), "starts-now booking under %s", f)
	}
	assert.True(t, FilterAll.Matches(endsNow, now))
	assert.True(t, FilterAll.Matches(startsNow, now))
}

func TestFilterMatches_StatusFilters(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	withStatus := func(st Status) *Booking {
		return Reconstruct(1, now.Add(-time.Hour), now.Add(time.Hour), 1, 1, st)
	}

	assert.True(t, FilterWaiting.Matches(withStatus(StatusWaiting), now))
	assert.False(t, FilterWaiting.Matches(withStatus(StatusApproved), now))
	assert.True(t, FilterApproved.Matches(withStatus(StatusApproved), now))
	assert.False(t, FilterApproved.Matches(withStatus(StatusRejected), now))
	assert.True(t, FilterRejected.Matches(withStatus(StatusRejected), now))
	assert.False(t, FilterRejected.Matches(withStatus(StatusWaiting), now))
}
