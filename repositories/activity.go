package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"post-board/models"
)

const ActivityCollection = "activity"

type ActivityRepository struct {
	db Database
}

func NewActivityRepository(db Database) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	d, err := r.db.Database(ctx)
	if err != nil {
		return nil, err
	}
	return d.Collection(ActivityCollection), nil
}

// Insert 는 활동 기록을 저장한다. 이미 기록된 event_id 면 ErrDuplicateKey.
func (r *ActivityRepository) Insert(ctx context.Context, a *models.Activity) error {
	const op = "repositories.activity.Insert"

	if err := a.Validate(); err != nil {
		return err
	}
	a.RecordedAt = time.Now().UTC().Truncate(time.Millisecond)
	if a.OccurredAt.IsZero() {
		a.OccurredAt = a.RecordedAt
	}

	col, err := r.collection(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	res, err := col.InsertOne(ctx, a)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w", op, ErrDuplicateKey)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.ID = oid
	}
	return nil
}

// ListBySubject 는 특정 게시글/사용자에 대한 기록을 발생 시각 역순으로 반환한다.
func (r *ActivityRepository) ListBySubject(ctx context.Context, subjectID string, limit int64) ([]models.Activity, error) {
	const op = "repositories.activity.ListBySubject"

	col, err := r.collection(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	findOpts := options.Find().
		SetSort(bson.D{{Key: "occurred_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)
	cur, err := col.Find(ctx, bson.M{"subject_id": subjectID}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cur.Close(ctx)

	out := []models.Activity{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}
