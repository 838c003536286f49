package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cardroom/scorepad/internal/domain/bridge"
)

// RubberRepository keeps rubbers in process memory. Rubbers are cloned
// on the way in and out so callers can never mutate stored state except
// through Save.
type RubberRepository struct {
	mu    sync.RWMutex
	items map[string]*bridge.Rubber
}

func NewRubberRepository() *RubberRepository {
	return &RubberRepository{
		items: make(map[string]*bridge.Rubber),
	}
}

func (r *RubberRepository) List(_ context.Context) ([]*bridge.Rubber, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*bridge.Rubber, 0, len(r.items))
	for _, rubber := range r.items {
		out = append(out, rubber.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DateCreated.Equal(out[j].DateCreated) {
			return out[i].ID < out[j].ID
		}
		return out[i].DateCreated.Before(out[j].DateCreated)
	})

	return out, nil
}

func (r *RubberRepository) GetByID(_ context.Context, rubberID string) (*bridge.Rubber, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rubber, ok := r.items[rubberID]
	if !ok {
		return nil, false, nil
	}

	return rubber.Clone(), true, nil
}

func (r *RubberRepository) Save(_ context.Context, rubber *bridge.Rubber) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[rubber.ID] = rubber.Clone()
	return nil
}

func (r *RubberRepository) Delete(_ context.Context, rubberID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, rubberID)
	return nil
}
