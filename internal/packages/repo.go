package packages

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/gobindacb/navigatebd/internal/database"
)

type Repository interface {
	Create(ctx context.Context, p Package) (database.InsertResult, error)
	FindAll(ctx context.Context) ([]Package, error)
	FindByID(ctx context.Context, id string) (*Package, error)
	Update(ctx context.Context, id string, upd Update) (database.UpdateResult, error)
	Delete(ctx context.Context, id string) (database.DeleteResult, error)
}

const collectionName = "packages"

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

func (r *mongoRepository) Create(ctx context.Context, p Package) (database.InsertResult, error) {
	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		r.logger.Error("failed to insert package", zap.Error(err))
		return database.InsertResult{}, err
	}
	oid, _ := res.InsertedID.(primitive.ObjectID)
	return database.InsertResult{Acknowledged: true, InsertedID: oid.Hex()}, nil
}

func (r *mongoRepository) FindAll(ctx context.Context) ([]Package, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		r.logger.Error("failed to list packages", zap.Error(err))
		return nil, err
	}
	out := make([]Package, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mongoRepository) FindByID(ctx context.Context, id string) (*Package, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}
	var p Package
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to find package", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return &p, nil
}

// Update replaces exactly the fixed field subset; anything else on the
// document survives untouched.
func (r *mongoRepository) Update(ctx context.Context, id string, upd Update) (database.UpdateResult, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return database.UpdateResult{}, ErrInvalidID
	}
	set := bson.M{
		"title":       upd.Title,
		"type":        upd.Type,
		"duration":    upd.Duration,
		"description": upd.Description,
		"image":       upd.Image,
		"cost":        upd.Cost,
		"day":         upd.Day,
		"posted_by":   upd.PostedBy,
		"edited_by":   upd.EditedBy,
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		r.logger.Error("failed to update package", zap.String("id", id), zap.Error(err))
		return database.UpdateResult{}, err
	}
	return database.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}, nil
}

func (r *mongoRepository) Delete(ctx context.Context, id string) (database.DeleteResult, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return database.DeleteResult{}, ErrInvalidID
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		r.logger.Error("failed to delete package", zap.String("id", id), zap.Error(err))
		return database.DeleteResult{}, err
	}
	return database.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}
