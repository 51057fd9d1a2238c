package quotes

import (
	"context"
	"math/rand"
	"strings"

	"github.com/2beens/quotegen/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const DefaultLimit = 3

// IntnFunc returns a uniform random int in [0, n). It must be safe for
// concurrent use when the Selector is shared.
type IntnFunc func(n int) int

type Selector struct {
	store      *Store
	limit      int
	intn       IntnFunc
	matchCache *MatchCache
}

type SelectorOption func(*Selector)

func WithLimit(limit int) SelectorOption {
	return func(s *Selector) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

func WithRandom(intn IntnFunc) SelectorOption {
	return func(s *Selector) {
		if intn != nil {
			s.intn = intn
		}
	}
}

func WithMatchCache(cache *MatchCache) SelectorOption {
	return func(s *Selector) {
		s.matchCache = cache
	}
}

func NewSelector(store *Store, opts ...SelectorOption) *Selector {
	s := &Selector{
		store: store,
		limit: DefaultLimit,
		intn:  rand.Intn,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select returns up to limit distinct quotes whose topic contains the trimmed,
// lowercased query. A blank query fails with ErrEmptyQuery before the store is
// touched; no matches fail with *NoMatchError carrying the query as given.
func (s *Selector) Select(ctx context.Context, query string) ([]Quote, error) {
	_, span := tracing.GlobalTracer.Start(ctx, "quotes.select", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		span.SetStatus(codes.Error, "empty-query")
		return nil, ErrEmptyQuery
	}

	needle := normalize(trimmed)
	span.SetAttributes(attribute.String("quotes.needle", needle))

	positions := s.matching(needle)
	span.SetAttributes(attribute.Int("quotes.matches", len(positions)))
	if len(positions) == 0 {
		span.SetStatus(codes.Error, "no-match")
		return nil, &NoMatchError{Query: query}
	}

	picked := s.sample(positions)
	result := make([]Quote, 0, len(picked))
	for _, pos := range picked {
		result = append(result, s.store.quotes[pos])
	}

	span.SetStatus(codes.Ok, "ok")
	return result, nil
}

func (s *Selector) matching(needle string) []int {
	if s.matchCache != nil {
		if positions, ok := s.matchCache.Get(needle); ok {
			return positions
		}
	}

	positions := s.store.match(needle)
	if s.matchCache != nil {
		s.matchCache.Set(needle, positions)
	}
	return positions
}

// sample draws min(limit, len(positions)) positions uniformly without
// replacement (partial Fisher-Yates). positions is left untouched.
func (s *Selector) sample(positions []int) []int {
	n := min(s.limit, len(positions))
	pool := make([]int, len(positions))
	copy(pool, positions)
	for i := 0; i < n; i++ {
		j := i + s.intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}
