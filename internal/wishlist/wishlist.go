package wishlist

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/gobindacb/navigatebd/internal/database"
)

var ErrInvalidID = errors.New("invalid wishlist id")

// Item is a saved package reference owned by an email.
type Item struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email     string             `bson:"email" json:"email"`
	PackageID string             `bson:"package_id" json:"package_id"`
	Title     string             `bson:"title,omitempty" json:"title,omitempty"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	Cost      float64            `bson:"cost,omitempty" json:"cost,omitempty"`
}

type Repository interface {
	Create(ctx context.Context, item Item) (database.InsertResult, error)
	FindByEmail(ctx context.Context, email string) ([]Item, error)
	Delete(ctx context.Context, id string) (database.DeleteResult, error)
}

const collectionName = "wishlist"

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

func (r *mongoRepository) Create(ctx context.Context, item Item) (database.InsertResult, error) {
	res, err := r.col.InsertOne(ctx, item)
	if err != nil {
		r.logger.Error("failed to insert wishlist item", zap.Error(err))
		return database.InsertResult{}, err
	}
	oid, _ := res.InsertedID.(primitive.ObjectID)
	return database.InsertResult{Acknowledged: true, InsertedID: oid.Hex()}, nil
}

func (r *mongoRepository) FindByEmail(ctx context.Context, email string) ([]Item, error) {
	cursor, err := r.col.Find(ctx, bson.M{"email": email})
	if err != nil {
		r.logger.Error("failed to list wishlist", zap.Error(err))
		return nil, err
	}
	items := make([]Item, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *mongoRepository) Delete(ctx context.Context, id string) (database.DeleteResult, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return database.DeleteResult{}, ErrInvalidID
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		r.logger.Error("failed to delete wishlist item", zap.String("id", id), zap.Error(err))
		return database.DeleteResult{}, err
	}
	return database.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

type memoryRepository struct {
	mu    sync.RWMutex
	items map[string]Item
}

// NewMemoryRepository builds an in-memory wishlist store for testing.
func NewMemoryRepository() Repository {
	return &memoryRepository{items: make(map[string]Item)}
}

func (r *memoryRepository) Create(_ context.Context, item Item) (database.InsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	r.items[item.ID.Hex()] = item
	return database.InsertResult{Acknowledged: true, InsertedID: item.ID.Hex()}, nil
}

func (r *memoryRepository) FindByEmail(_ context.Context, email string) ([]Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]Item, 0)
	for _, item := range r.items {
		if item.Email == email {
			items = append(items, item)
		}
	}
	return items, nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) (database.DeleteResult, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return database.DeleteResult{}, ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return database.DeleteResult{Acknowledged: true, DeletedCount: 0}, nil
	}
	delete(r.items, id)
	return database.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}
