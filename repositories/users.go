package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"post-board/models"
)

const UsersCollection = "users"

type UserRepository struct {
	db Database
}

func NewUserRepository(db Database) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	d, err := r.db.Database(ctx)
	if err != nil {
		return nil, err
	}
	return d.Collection(UsersCollection), nil
}

// Insert validates and inserts a user. A username collision returns ErrDuplicateKey
// (the unique index on username is created by db.ensureIndexes).
func (r *UserRepository) Insert(ctx context.Context, u *models.User) error {
	const op = "repositories.users.Insert"

	if err := u.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	u.CreatedAt = now
	u.UpdatedAt = now
	u.Version = 0

	col, err := r.collection(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	res, err := col.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w", op, ErrDuplicateKey)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return nil
}

// FindByUsername returns a user by exact username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "repositories.users.FindByUsername"

	var u models.User
	col, err := r.collection(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := col.FindOne(ctx, bson.M{"username": username}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}
