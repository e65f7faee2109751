package packages

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gobindacb/navigatebd/internal/database"
)

type memoryRepository struct {
	mu   sync.RWMutex
	docs map[string]Package
}

// NewMemoryRepository builds an in-memory package store for testing.
func NewMemoryRepository() Repository {
	return &memoryRepository{docs: make(map[string]Package)}
}

func (r *memoryRepository) Create(_ context.Context, p Package) (database.InsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	r.docs[p.ID.Hex()] = p
	return database.InsertResult{Acknowledged: true, InsertedID: p.ID.Hex()}, nil
}

func (r *memoryRepository) FindAll(_ context.Context) ([]Package, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Package, 0, len(r.docs))
	for _, p := range r.docs {
		out = append(out, p)
	}
	return out, nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (*Package, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, ErrInvalidID
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	found := p
	return &found, nil
}

func (r *memoryRepository) Update(_ context.Context, id string, upd Update) (database.UpdateResult, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return database.UpdateResult{}, ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.docs[id]
	if !ok {
		return database.UpdateResult{Acknowledged: true}, nil
	}
	p.Title = upd.Title
	p.Type = upd.Type
	p.Duration = upd.Duration
	p.Description = upd.Description
	p.Image = upd.Image
	p.Cost = upd.Cost
	p.Day = upd.Day
	p.PostedBy = upd.PostedBy
	edited := upd.EditedBy
	p.EditedBy = &edited
	r.docs[id] = p
	return database.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) (database.DeleteResult, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return database.DeleteResult{}, ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return database.DeleteResult{Acknowledged: true, DeletedCount: 0}, nil
	}
	delete(r.docs, id)
	return database.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}
