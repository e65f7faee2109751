package story

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	ErrNotFound  = errors.New("story not found")
	ErrInvalidID = errors.New("invalid story id")
)

// Story is a traveller narrative shown on the marketplace. Stories are
// read-only through this API; they enter the collection out of band.
type Story struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Title   string             `bson:"title" json:"title"`
	Excerpt string             `bson:"excerpt,omitempty" json:"excerpt,omitempty"`
	Content string             `bson:"content" json:"content"`
	Image   string             `bson:"image,omitempty" json:"image,omitempty"`
	Author  Author             `bson:"author" json:"author"`
}

type Author struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Photo string `bson:"photo,omitempty" json:"photo,omitempty"`
}

type Repository interface {
	FindAll(ctx context.Context) ([]Story, error)
	FindByID(ctx context.Context, id string) (*Story, error)
}

const collectionName = "story"

type mongoRepository struct {
	col    *mongo.Collection
	logger *zap.Logger
}

func NewMongoRepository(db *mongo.Database, logger *zap.Logger) Repository {
	return &mongoRepository{
		col:    db.Collection(collectionName),
		logger: logger,
	}
}

func (r *mongoRepository) FindAll(ctx context.Context) ([]Story, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		r.logger.Error("failed to list stories", zap.Error(err))
		return nil, err
	}
	out := make([]Story, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mongoRepository) FindByID(ctx context.Context, id string) (*Story, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}
	var s Story
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to find story", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return &s, nil
}

// NewMemoryRepository builds an in-memory story store for testing.
// Seed stories through Put; the HTTP surface is read-only.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{docs: make(map[string]Story)}
}

// MemoryRepository is the in-memory Repository used in tests.
type MemoryRepository struct {
	mu   sync.RWMutex
	docs map[string]Story
}

// Put seeds a story, assigning an id when absent.
func (r *MemoryRepository) Put(s Story) Story {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	r.docs[s.ID.Hex()] = s
	return s
}

func (r *MemoryRepository) FindAll(_ context.Context) ([]Story, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Story, 0, len(r.docs))
	for _, s := range r.docs {
		out = append(out, s)
	}
	return out, nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (*Story, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, ErrInvalidID
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	found := s
	return &found, nil
}
