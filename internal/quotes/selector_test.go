package quotes

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelector_EmptyQuery(t *testing.T) {
	// nil store: a blank query must fail before the store is accessed
	selector := NewSelector(nil)

	for _, query := range []string{"", " ", "  ", "\t\n ", " "} {
		got, err := selector.Select(context.Background(), query)
		assert.ErrorIs(t, err, ErrEmptyQuery, "query %q", query)
		assert.Nil(t, got)
	}
}

func TestSelector_NoMatch(t *testing.T) {
	store := newTestStore(t,
		NewQuote(1, "a", "x", "success"),
		NewQuote(2, "b", "x", "life"),
	)
	selector := NewSelector(store)

	for _, query := range []string{"zzzzz", "  zzzzz ", "successful"} {
		got, err := selector.Select(context.Background(), query)
		require.Error(t, err)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, ErrNoMatch)

		var noMatchErr *NoMatchError
		require.ErrorAs(t, err, &noMatchErr)
		// carries the query as typed, not trimmed
		assert.Equal(t, query, noMatchErr.Query)
		assert.Contains(t, err.Error(), query)
	}
}

func TestSelector_ThreeDistinctFromManyMatches(t *testing.T) {
	store := newTestStore(t,
		NewQuote(1, "s1", "x", "success"),
		NewQuote(2, "s2", "x", "success"),
		NewQuote(3, "l1", "x", "life"),
		NewQuote(4, "s3", "x", "success"),
		NewQuote(5, "s4", "x", "success"),
		NewQuote(6, "s5", "x", "success"),
	)
	selector := NewSelector(store)

	for i := 0; i < 50; i++ {
		got, err := selector.Select(context.Background(), "success")
		require.NoError(t, err)
		require.Len(t, got, 3)

		ids := make(map[int]bool)
		for _, q := range got {
			assert.Equal(t, "success", q.Topic)
			assert.False(t, ids[q.ID])
			ids[q.ID] = true
		}
	}
}

func TestSelector_SingleMatch(t *testing.T) {
	friendship := NewQuote(3, "A friend ...", "Elbert Hubbard", "friendship")
	store := newTestStore(t,
		NewQuote(1, "a", "x", "success"),
		NewQuote(2, "b", "x", "life"),
		friendship,
	)

	got, err := NewSelector(store).Select(context.Background(), "friendship")
	require.NoError(t, err)
	assert.Equal(t, []Quote{friendship}, got)
}

func TestSelector_CaseInsensitiveSubstring(t *testing.T) {
	store := newTestStore(t,
		NewQuote(1, "a", "x", "Friendship"),
		NewQuote(2, "b", "x", "love"),
		NewQuote(3, "c", "x", "HEALTH"),
	)
	selector := NewSelector(store)

	for query, expectedID := range map[string]int{
		"FRIEND":     1,
		"  ship  ":   1,
		"iendsh":     1,
		"Love":       2,
		"lO":         2,
		"health":     3,
		"\tHeAlTh\n": 3,
	} {
		got, err := selector.Select(context.Background(), query)
		require.NoError(t, err, "query %q", query)
		require.Len(t, got, 1, "query %q", query)
		assert.Equal(t, expectedID, got[0].ID, "query %q", query)
	}
}

func TestSelector_UsesRandomSource(t *testing.T) {
	store := newTestStore(t,
		NewQuote(10, "a", "x", "life"),
		NewQuote(11, "b", "x", "life"),
		NewQuote(12, "c", "x", "life"),
		NewQuote(13, "d", "x", "life"),
		NewQuote(14, "e", "x", "life"),
	)

	var asked []int
	alwaysLast := func(n int) int {
		asked = append(asked, n)
		return n - 1
	}
	selector := NewSelector(store, WithRandom(alwaysLast))

	got, err := selector.Select(context.Background(), "life")
	require.NoError(t, err)

	// partial Fisher-Yates over [0..4] always swapping with the last slot:
	// [4 1 2 3 0] -> [4 0 2 3 1] -> [4 0 1 3 2]
	require.Len(t, got, 3)
	assert.Equal(t, 14, got[0].ID)
	assert.Equal(t, 10, got[1].ID)
	assert.Equal(t, 11, got[2].ID)
	assert.Equal(t, []int{5, 4, 3}, asked)
}

func TestSelector_WithLimit(t *testing.T) {
	store := newTestStore(t,
		NewQuote(1, "a", "x", "life"),
		NewQuote(2, "b", "x", "life"),
		NewQuote(3, "c", "x", "life"),
		NewQuote(4, "d", "x", "life"),
	)

	got, err := NewSelector(store, WithLimit(1)).Select(context.Background(), "life")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = NewSelector(store, WithLimit(10)).Select(context.Background(), "life")
	require.NoError(t, err)
	assert.Len(t, got, 4)

	// non-positive limit keeps the default
	got, err = NewSelector(store, WithLimit(0)).Select(context.Background(), "life")
	require.NoError(t, err)
	assert.Len(t, got, DefaultLimit)
}

func TestSelector_FairOverManyDraws(t *testing.T) {
	store := newTestStore(t,
		NewQuote(1, "a", "x", "love"),
		NewQuote(2, "b", "x", "love"),
		NewQuote(3, "c", "x", "love"),
		NewQuote(4, "d", "x", "love"),
	)
	rnd := rand.New(rand.NewSource(7))
	selector := NewSelector(store, WithLimit(1), WithRandom(rnd.Intn))

	const draws = 4000
	counts := make(map[int]int)
	for i := 0; i < draws; i++ {
		got, err := selector.Select(context.Background(), "love")
		require.NoError(t, err)
		require.Len(t, got, 1)
		counts[got[0].ID]++
	}

	require.Len(t, counts, 4)
	for id, count := range counts {
		// expected 1000 each, sd ~27
		assert.InDelta(t, draws/4, count, 150, "id %d", id)
	}
}

func TestSelector_RandomStoresProperties(t *testing.T) {
	faker := gofakeit.New(42)
	topics := []string{"success", "life", "happiness", "motivation", "education", "love", "friendship", "health"}

	records := make([]Quote, 0, 120)
	for i := 1; i <= 120; i++ {
		records = append(records, NewQuote(
			i,
			faker.Sentence(8),
			faker.Name(),
			faker.RandomString(topics),
		))
	}
	store := newTestStore(t, records...)
	selector := NewSelector(store, WithRandom(rand.New(rand.NewSource(1)).Intn))

	queries := append([]string{"e", "ss", "LI", " ove", "hip"}, topics...)
	for _, query := range queries {
		needle := strings.ToLower(strings.TrimSpace(query))

		matchingIDs := make(map[int]bool)
		for _, q := range store.All() {
			if strings.Contains(strings.ToLower(q.Topic), needle) {
				matchingIDs[q.ID] = true
			}
		}

		for run := 0; run < 20; run++ {
			got, err := selector.Select(context.Background(), query)
			if len(matchingIDs) == 0 {
				assert.ErrorIs(t, err, ErrNoMatch)
				continue
			}
			require.NoError(t, err, "query %q", query)
			require.Len(t, got, min(DefaultLimit, len(matchingIDs)), "query %q", query)

			seen := make(map[int]bool)
			for _, q := range got {
				assert.True(t, matchingIDs[q.ID], "query %q returned non-matching id %d", query, q.ID)
				assert.Contains(t, strings.ToLower(q.Topic), needle)
				assert.False(t, seen[q.ID], "query %q returned id %d twice", query, q.ID)
				seen[q.ID] = true
			}
		}
	}
}

func TestSelector_WithMatchCache(t *testing.T) {
	store := newTestStore(t,
		NewQuote(1, "a", "x", "health"),
		NewQuote(2, "b", "x", "health"),
		NewQuote(3, "c", "x", "wealth"),
	)
	matchCache := NewMatchCache(0, time.Minute)
	selector := NewSelector(store, WithMatchCache(matchCache))

	got, err := selector.Select(context.Background(), "Health")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, int64(1), matchCache.EntryCount())

	cached, ok := matchCache.Get("health")
	require.True(t, ok)
	assert.Equal(t, []int{0, 1}, cached)

	// served from the memo, sampled again
	got, err = selector.Select(context.Background(), " HEALTH ")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, int64(1), matchCache.EntryCount())

	// misses are memoized too and still fail with no match
	_, err = selector.Select(context.Background(), "zzz")
	assert.ErrorIs(t, err, ErrNoMatch)
	_, err = selector.Select(context.Background(), "zzz")
	assert.ErrorIs(t, err, ErrNoMatch)
	assert.Equal(t, int64(2), matchCache.EntryCount())
}

func TestSelector_ConcurrentUse(t *testing.T) {
	store, err := LoadEmbedded()
	require.NoError(t, err)
	selector := NewSelector(store, WithMatchCache(NewMatchCache(0, time.Minute)))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				got, err := selector.Select(context.Background(), "success")
				assert.NoError(t, err)
				assert.Len(t, got, 3)
			}
		}()
	}
	wg.Wait()
}

func TestSelector_SampleKeepsInput(t *testing.T) {
	selector := NewSelector(nil, WithRandom(func(n int) int { return n - 1 }))
	positions := []int{3, 5, 8, 13}

	picked := selector.sample(positions)
	assert.Len(t, picked, 3)
	assert.Equal(t, []int{3, 5, 8, 13}, positions)
}
