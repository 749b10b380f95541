/*
Package store keeps trained models so they can be used to predict after
the process that trained them is gone.
*/
package store

import (
	"context"
	"fmt"
	"sync"
)

/*
Store is an interface to manage a store
where models can be created, retrieved, updated
and deleted.

All it methods take a context that may allow
cancelling the operation (thus forcing the return
of an error) if the implementation allows it.
*/
type Store interface {
	// Create takes a model and stores it for the
	// first time in the store, creating an ID for
	// it and setting it for the model unless it
	// already has one. It returns an error if the
	// model cannot be stored or its ID is taken.
	Create(ctx context.Context, m *Model) error
	// Get takes an id and returns the model in the
	// store with that id (or nil if it cannot be
	// found) or an error if the store cannot be
	// queried
	Get(ctx context.Context, id string) (*Model, error)
	// Store takes a model already existing in the store
	// and updates it on the store. It expect the model
	// to have an ID which it will not alter. It returns
	// an error if the update cannot be performed.
	Store(ctx context.Context, m *Model) error
	// Delete takes the id of a model and deletes it
	// from the store. It returns an error if the model
	// exists but the deletion cannot be performed.
	Delete(ctx context.Context, id string) error
	// Close closes the store, implementations should
	// free any resources in use as well as ensure
	// any pending changes are applied before returning
	// (unless the context expires). It returns an error
	// if the Close cannot be completed (because of the
	// context or another error)
	Close(ctx context.Context) error
}

type memoryStore struct {
	models map[string]*Model
	lock   *sync.RWMutex
	nextID uint64
}

// NewMemoryStore returns an implementation
// of Store with the process memory space
// as underlying backend
func NewMemoryStore() Store {
	return &memoryStore{
		models: make(map[string]*Model),
		lock:   &sync.RWMutex{},
	}
}

func (ms *memoryStore) Create(ctx context.Context, m *Model) error {
	return ms.withLock(ctx, func(ctx context.Context) error {
		if m.ID != "" {
			if _, taken := ms.models[m.ID]; taken {
				return fmt.Errorf("creating model: id %q already taken", m.ID)
			}
			ms.models[m.ID] = copyModel(m)
			return nil
		}
		taken := true
		for taken {
			if err := ctx.Err(); err != nil {
				return err
			}
			ms.nextID++
			m.ID = fmt.Sprintf("%d", ms.nextID)
			_, taken = ms.models[m.ID]
		}
		ms.models[m.ID] = copyModel(m)
		return nil
	})
}

func (ms *memoryStore) Store(ctx context.Context, m *Model) error {
	return ms.withLock(ctx, func(ctx context.Context) error {
		if m.ID == "" {
			return fmt.Errorf("storing model without id")
		}
		ms.models[m.ID] = copyModel(m)
		return nil
	})
}

func (ms *memoryStore) Get(ctx context.Context, id string) (*Model, error) {
	var m *Model
	err := ms.withRLock(ctx, func(ctx context.Context) error {
		if sm, ok := ms.models[id]; ok {
			m = copyModel(sm)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (ms *memoryStore) Delete(ctx context.Context, id string) error {
	return ms.withLock(ctx, func(ctx context.Context) error {
		delete(ms.models, id)
		return nil
	})
}

func (ms *memoryStore) Close(ctx context.Context) error {
	return nil
}

func copyModel(m *Model) *Model {
	return &Model{ID: m.ID, Kind: m.Kind, Checkpoint: append([]byte(nil), m.Checkpoint...)}
}

func (ms *memoryStore) withLock(ctx context.Context, f func(ctx context.Context) error) error {
	gotLock := make(chan struct{})
	go func() {
		ms.lock.Lock()
		select {
		case <-ctx.Done():
			ms.lock.Unlock()
		case gotLock <- struct{}{}:
		}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-gotLock:
		defer ms.lock.Unlock()
	}
	return f(ctx)
}

func (ms *memoryStore) withRLock(ctx context.Context, f func(ctx context.Context) error) error {
	gotLock := make(chan struct{})
	go func() {
		ms.lock.RLock()
		select {
		case <-ctx.Done():
			ms.lock.RUnlock()
		case gotLock <- struct{}{}:
		}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-gotLock:
		defer ms.lock.RUnlock()
	}
	return f(ctx)
}
