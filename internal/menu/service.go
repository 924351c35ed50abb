package menu

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/singleflight"
)

type Store interface {
	List(ctx context.Context) ([]Item, error)
	Get(ctx context.Context, id string) (Item, error)
	Create(ctx context.Context, it Item) (Item, error)
	Update(ctx context.Context, id string, it Item) (Item, error)
	Delete(ctx context.Context, id string) error
}

type Service struct {
	store Store
	cache Cache
	sfg   singleflight.Group
}

func NewService(store Store, cache Cache) *Service {
	return &Service{store: store, cache: cache}
}

const loadTimeout = 5 * time.Second

// List serves from cache; concurrent misses share one store query. The
// shared query does not inherit the first caller's cancellation, and each
// caller stops waiting when its own ctx ends.
func (s *Service) List(ctx context.Context) ([]Item, error) {
	ch := s.sfg.DoChan("menu", func() (interface{}, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		return s.load(lctx)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]Item), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Service) load(ctx context.Context) ([]Item, error) {
	items, err := s.cache.Get(ctx)
	if err == nil {
		return items, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		log.Printf("menu cache get error: %v", err)
	}

	items, err = s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, items); err != nil {
		log.Printf("menu cache set error: %v", err)
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id string) (Item, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, it Item) (Item, error) {
	if err := it.Validate(); err != nil {
		return Item{}, err
	}
	created, err := s.store.Create(ctx, it)
	if err != nil {
		return Item{}, err
	}
	s.invalidate()
	return created, nil
}

func (s *Service) Update(ctx context.Context, id string, it Item) (Item, error) {
	if err := it.Validate(); err != nil {
		return Item{}, err
	}
	updated, err := s.store.Update(ctx, id, it)
	if err != nil {
		return Item{}, err
	}
	s.invalidate()
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *Service) invalidate() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx); err != nil {
		log.Printf("menu cache invalidate error: %v", err)
	}
}
