package booking

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

var ErrInvalidID = errors.New("invalid booking id")

// Booking is a tourist's reservation of a package.
type Booking struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email     string             `bson:"email" json:"email"`
	PackageID string             `bson:"package_id" json:"package_id"`
	Date      string             `bson:"date" json:"date"`
	GuideName string             `bson:"guide_name,omitempty" json:"guide_name,omitempty"`
	Status    string             `bson:"status,omitempty" json:"status,omitempty"`
}

type Repository interface {
	Create(ctx context.Context, b Booking) (database.InsertResult, error)
	FindByEmail(ctx context.Context, email string) ([]Booking, error)
	Delete(ctx context.Context, id string) (database.DeleteResult, error)
}

const collectionName = "bookings"

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

func (r *mongoRepository) Create(ctx context.Context, b Booking) (database.InsertResult, error) {
	res, err := r.col.InsertOne(ctx, b)
	if err != nil {
		r.logger.Error("failed to insert booking", zap.Error(err))
		return database.InsertResult{}, err
	}
	oid, _ := res.InsertedID.(primitive.ObjectID)
	return database.InsertResult{Acknowledged: true, InsertedID: oid.Hex()}, nil
}

func (r *mongoRepository) FindByEmail(ctx context.Context, email string) ([]Booking, error) {
	cursor, err := r.col.Find(ctx, bson.M{"email": email})
	if err != nil {
		r.logger.Error("failed to list bookings", zap.Error(err))
		return nil, err
	}
	out := make([]Booking, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mongoRepository) Delete(ctx context.Context, id string) (database.DeleteResult, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return database.DeleteResult{}, ErrInvalidID
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		r.logger.Error("failed to delete booking", zap.String("id", id), zap.Error(err))
		return database.DeleteResult{}, err
	}
	return database.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

type memoryRepository struct {
	mu   sync.RWMutex
	docs map[string]Booking
}

// NewMemoryRepository builds an in-memory booking store for testing.
func NewMemoryRepository() Repository {
	return &memoryRepository{docs: make(map[string]Booking)}
}

func (r *memoryRepository) Create(_ context.Context, b Booking) (database.InsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	r.docs[b.ID.Hex()] = b
	return database.InsertResult{Acknowledged: true, InsertedID: b.ID.Hex()}, nil
}

func (r *memoryRepository) FindByEmail(_ context.Context, email string) ([]Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Booking, 0)
	for _, b := range r.docs {
		if b.Email == email {
			out = append(out, b)
		}
	}
	return out, nil
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
