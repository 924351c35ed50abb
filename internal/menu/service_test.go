package menu

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ariefcatur/go-kiosk-orders/internal/redisx"
	"github.com/ariefcatur/go-kiosk-orders/internal/validation"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	m     sync.Mutex
	items []Item
	lists atomic.Int32
	err   error
	// when set, List reports on entered and waits for gate
	gate    chan struct{}
	entered chan struct{}
}

func (s *mockStore) List(ctx context.Context) ([]Item, error) {
	s.lists.Add(1)
	if s.gate != nil {
		s.entered <- struct{}{}
		select {
		case <-s.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	s.m.Lock()
	defer s.m.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return append([]Item(nil), s.items...), nil
}

func (s *mockStore) Get(_ context.Context, id string) (Item, error) {
	s.m.Lock()
	defer s.m.Unlock()
	for _, it := range s.items {
		if it.ID == id {
			return it, nil
		}
	}
	return Item{}, ErrNotFound
}

func (s *mockStore) Create(_ context.Context, it Item) (Item, error) {
	s.m.Lock()
	defer s.m.Unlock()
	it.ID = "new"
	s.items = append(s.items, it)
	return it, nil
}

func (s *mockStore) Update(_ context.Context, id string, it Item) (Item, error) {
	s.m.Lock()
	defer s.m.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			it.ID = id
			s.items[i] = it
			return it, nil
		}
	}
	return Item{}, ErrNotFound
}

func (s *mockStore) Delete(_ context.Context, id string) error {
	s.m.Lock()
	defer s.m.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func setupService(t *testing.T, items ...Item) (*Service, *mockStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := &mockStore{items: items}
	return NewService(store, NewRedisCache(client)), store, mr
}

func TestList_CachesStoreResult(t *testing.T) {
	svc, store, mr := setupService(t, Item{ID: "1", Name: "Pizza", Price: 1000})
	ctx := context.Background()

	first, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.True(t, mr.Exists(redisx.KeyMenu))

	second, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), store.lists.Load())
}

func TestList_FirstCallerCancelDoesNotAbortSharedLoad(t *testing.T) {
	svc, store, mr := setupService(t, Item{ID: "1", Name: "Pizza", Price: 1000})
	store.gate = make(chan struct{})
	store.entered = make(chan struct{}, 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := svc.List(ctx)
		done <- err
	}()
	<-store.entered

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	close(store.gate)
	require.Eventually(t, func() bool { return mr.Exists(redisx.KeyMenu) }, time.Second, 5*time.Millisecond)

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int32(1), store.lists.Load())
}

func TestList_StoreError(t *testing.T) {
	svc, store, _ := setupService(t)
	store.err = errors.New("db down")

	_, err := svc.List(context.Background())
	assert.EqualError(t, err, "db down")
}

func TestList_BrokenCacheFallsBackToStore(t *testing.T) {
	svc, store, mr := setupService(t, Item{ID: "1", Name: "Pizza", Price: 1000})
	mr.Set(redisx.KeyMenu, "{not json")

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int32(1), store.lists.Load())
}

func TestCreate_InvalidatesCache(t *testing.T) {
	svc, _, mr := setupService(t, Item{ID: "1", Name: "Pizza", Price: 1000})
	ctx := context.Background()

	_, err := svc.List(ctx)
	require.NoError(t, err)
	require.True(t, mr.Exists(redisx.KeyMenu))

	created, err := svc.Create(ctx, Item{Name: "Soda", Price: 500})
	require.NoError(t, err)
	assert.Equal(t, "new", created.ID)
	assert.False(t, mr.Exists(redisx.KeyMenu))

	items, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestCreate_ValidationError(t *testing.T) {
	svc, store, _ := setupService(t)

	_, err := svc.Create(context.Background(), Item{Name: "", Price: 500})
	var ve *validation.Error
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)
	assert.Empty(t, store.items)
}

func TestUpdateAndDelete(t *testing.T) {
	svc, _, _ := setupService(t, Item{ID: "1", Name: "Pizza", Price: 1000})
	ctx := context.Background()

	updated, err := svc.Update(ctx, "1", Item{Name: "Pizza XL", Price: 1500})
	require.NoError(t, err)
	assert.Equal(t, int64(1500), updated.Price)

	_, err = svc.Update(ctx, "missing", Item{Name: "X", Price: 1})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(ctx, "1"))
	assert.ErrorIs(t, svc.Delete(ctx, "1"), ErrNotFound)
}
