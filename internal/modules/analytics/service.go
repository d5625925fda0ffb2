// README: Query service binds the engine to the loaded table and the report cache.
package analytics

import (
	"context"

	"rideinsight/internal/modules/trips"
)

type Service struct {
	engine *Engine
	table  *trips.Table
	cache  *Cache
}

// NewService serves queries over tbl, which must not change afterwards. cache may be nil.
func NewService(engine *Engine, tbl *trips.Table, cache *Cache) *Service {
	return &Service{engine: engine, table: tbl, cache: cache}
}

// Submit answers a raw menu choice. Unknown choices yield the invalid-choice
// report rather than an error.
func (s *Service) Submit(ctx context.Context, choice string) (Report, error) {
	id, err := ParseQueryID(choice)
	if err != nil {
		return InvalidChoice(), nil
	}
	return s.Run(ctx, id)
}

func (s *Service) Run(ctx context.Context, id QueryID) (Report, error) {
	cacheable := s.cache != nil && id != QueryDropoffHeatmap
	key := cacheKey(s.table.Fingerprint(), id)
	if cacheable {
		if r, ok := s.cache.Get(ctx, key); ok {
			return r, nil
		}
	}

	r, err := s.engine.Run(ctx, id, s.table)
	if err != nil {
		return Report{}, err
	}
	if cacheable && r.Kind != KindInvalid {
		s.cache.Set(ctx, key, r)
	}
	return r, nil
}

func (s *Service) Queries() []Query {
	return Queries()
}

func (s *Service) Stats() trips.LoadStats {
	return s.table.Stats()
}
