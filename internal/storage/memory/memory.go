// Package memory is an in-process cost store for development and tests.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"costs/internal/core"
	"costs/internal/storage"
)

type Store struct {
	mu     sync.Mutex
	lastID int64
	items  []core.Cost
	now    func() time.Time
}

var _ storage.Store = (*Store)(nil)

func New() *Store {
	return &Store{now: time.Now}
}

// InsertCost stores the cost under the next id.
func (s *Store) InsertCost(_ context.Context, item core.CostItem) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID++
	s.items = append(s.items, core.Cost{
		ID:        s.lastID,
		CostItem:  item,
		CreatedAt: s.now().UTC(),
	})
	return s.lastID, nil
}

func (s *Store) CostsByYearMonth(_ context.Context, year, month int) ([]core.Cost, error) {
	return s.filter(func(c core.Cost) bool { return c.Year == year && c.Month == month }), nil
}

func (s *Store) CostsByYear(_ context.Context, year int) ([]core.Cost, error) {
	return s.filter(func(c core.Cost) bool { return c.Year == year }), nil
}

func (s *Store) AllCosts(_ context.Context) ([]core.Cost, error) {
	return s.filter(func(core.Cost) bool { return true }), nil
}

func (s *Store) CostByID(_ context.Context, id int64) (core.Cost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// ids are assigned in order with no gaps.
	if id < 1 || id > int64(len(s.items)) {
		return core.Cost{}, fmt.Errorf("cost %d: %w", id, storage.ErrNotFound)
	}
	return s.items[id-1], nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func (s *Store) filter(keep func(core.Cost) bool) []core.Cost {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Cost, 0)
	for _, c := range s.items {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}
