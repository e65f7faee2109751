package user

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
	Create(ctx context.Context, u User) (database.InsertResult, error)
	FindAll(ctx context.Context) ([]User, error)
	// FindByEmail returns (nil, nil) when no record exists.
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindByRole(ctx context.Context, role Role) ([]User, error)
	SetRole(ctx context.Context, id string, role Role) (database.UpdateResult, error)
	Delete(ctx context.Context, id string) (database.DeleteResult, error)
	// RoleByEmail returns "" when no record exists or no role is set.
	RoleByEmail(ctx context.Context, email string) (string, error)
}

const collectionName = "users"

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

func (r *mongoRepository) Create(ctx context.Context, u User) (database.InsertResult, error) {
	res, err := r.col.InsertOne(ctx, u)
	if err != nil {
		r.logger.Error("failed to insert user", zap.Error(err))
		return database.InsertResult{}, err
	}
	oid, _ := res.InsertedID.(primitive.ObjectID)
	return database.InsertResult{Acknowledged: true, InsertedID: oid.Hex()}, nil
}

func (r *mongoRepository) FindAll(ctx context.Context) ([]User, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		r.logger.Error("failed to list users", zap.Error(err))
		return nil, err
	}
	users := make([]User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *mongoRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("failed to find user by email", zap.Error(err))
		return nil, err
	}
	return &u, nil
}

func (r *mongoRepository) FindByID(ctx context.Context, id string) (*User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}
	var u User
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to find user by id", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return &u, nil
}

func (r *mongoRepository) FindByRole(ctx context.Context, role Role) ([]User, error) {
	cursor, err := r.col.Find(ctx, bson.M{"role": role})
	if err != nil {
		r.logger.Error("failed to list users by role", zap.String("role", string(role)), zap.Error(err))
		return nil, err
	}
	users := make([]User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *mongoRepository) SetRole(ctx context.Context, id string, role Role) (database.UpdateResult, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return database.UpdateResult{}, ErrInvalidID
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		r.logger.Error("failed to set user role", zap.String("id", id), zap.Error(err))
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
		r.logger.Error("failed to delete user", zap.String("id", id), zap.Error(err))
		return database.DeleteResult{}, err
	}
	return database.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

func (r *mongoRepository) RoleByEmail(ctx context.Context, email string) (string, error) {
	u, err := r.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", nil
	}
	return string(u.Role), nil
}
