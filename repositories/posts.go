package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"post-board/models"
)

const PostsCollection = "posts"

type PostRepository struct {
	db Database
}

func NewPostRepository(db Database) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	d, err := r.db.Database(ctx)
	if err != nil {
		return nil, err
	}
	return d.Collection(PostsCollection), nil
}

// List returns a page of posts sorted by created_at desc.
func (r *PostRepository) List(ctx context.Context, opt ListPostsOptions) ([]models.Post, error) {
	const op = "repositories.posts.List"

	findOpts := options.Find().SetSkip(opt.Skip).SetLimit(opt.Limit).SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	})
	col, err := r.collection(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	cur, err := col.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cur.Close(ctx)

	results := make([]models.Post, 0, opt.Limit)
	for cur.Next(ctx) {
		var p models.Post
		if err := cur.Decode(&p); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}
		results = append(results, p)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return results, nil
}

// FindByID returns a post by its ObjectID
func (r *PostRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	const op = "repositories.posts.FindByID"

	var p models.Post
	col, err := r.collection(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// Insert validates and inserts a new post, filling ID and timestamps.
func (r *PostRepository) Insert(ctx context.Context, p *models.Post) error {
	const op = "repositories.posts.Insert"

	if err := p.Validate(); err != nil {
		return err
	}
	stampNewPost(p, time.Now())

	col, err := r.collection(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	res, err := col.InsertOne(ctx, p)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

// InsertMany inserts a batch of posts (used by the seeder).
func (r *PostRepository) InsertMany(ctx context.Context, posts []models.Post) (int, error) {
	const op = "repositories.posts.InsertMany"

	if len(posts) == 0 {
		return 0, nil
	}
	now := time.Now()
	docs := make([]interface{}, 0, len(posts))
	for i := range posts {
		if err := posts[i].Validate(); err != nil {
			return 0, err
		}
		stampNewPost(&posts[i], now)
		docs = append(docs, posts[i])
	}

	col, err := r.collection(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	res, err := col.InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return len(res.InsertedIDs), nil
}

// Update applies a partial update and returns the updated document.
// version is incremented on every successful update.
func (r *PostRepository) Update(ctx context.Context, id primitive.ObjectID, patch models.PostPatch) (*models.Post, error) {
	const op = "repositories.posts.Update"

	if err := patch.Validate(); err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC().Truncate(time.Millisecond)}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	update := bson.M{
		"$set": set,
		"$inc": bson.M{"version": 1},
	}

	var p models.Post
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	col, err := r.collection(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// Delete removes a post and returns the deleted document.
func (r *PostRepository) Delete(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	const op = "repositories.posts.Delete"

	var p models.Post
	col, err := r.collection(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// stampNewPost sets created/updated timestamps and the initial version.
// MongoDB DateTime 은 밀리초 단위로 저장된다.
func stampNewPost(p *models.Post, now time.Time) {
	now = now.UTC().Truncate(time.Millisecond)
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	p.Version = 0
}
