package user

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gobindacb/navigatebd/internal/database"
)

type memoryRepository struct {
	mu    sync.RWMutex
	users map[string]User
}

// NewMemoryRepository builds an in-memory user store for testing.
func NewMemoryRepository() Repository {
	return &memoryRepository{users: make(map[string]User)}
}

func (r *memoryRepository) Create(_ context.Context, u User) (database.InsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	r.users[u.ID.Hex()] = u
	return database.InsertResult{Acknowledged: true, InsertedID: u.ID.Hex()}, nil
}

func (r *memoryRepository) FindAll(_ context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	return users, nil
}

func (r *memoryRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (*User, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, ErrInvalidID
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	found := u
	return &found, nil
}

func (r *memoryRepository) FindByRole(_ context.Context, role Role) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]User, 0)
	for _, u := range r.users {
		if u.Role == role {
			users = append(users, u)
		}
	}
	return users, nil
}

func (r *memoryRepository) SetRole(_ context.Context, id string, role Role) (database.UpdateResult, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return database.UpdateResult{}, ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return database.UpdateResult{Acknowledged: true}, nil
	}
	modified := int64(0)
	if u.Role != role {
		u.Role = role
		r.users[id] = u
		modified = 1
	}
	return database.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: modified}, nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) (database.DeleteResult, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return database.DeleteResult{}, ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return database.DeleteResult{Acknowledged: true, DeletedCount: 0}, nil
	}
	delete(r.users, id)
	return database.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

func (r *memoryRepository) RoleByEmail(ctx context.Context, email string) (string, error) {
	u, err := r.FindByEmail(ctx, email)
	if err != nil || u == nil {
		return "", err
	}
	return string(u.Role), nil
}
