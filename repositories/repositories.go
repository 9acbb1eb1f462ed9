package repositories

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"post-board/models"
)

var (
	// ErrNotFound - 문서가 존재하지 않는다.
	ErrNotFound = errors.New("not found")
	// ErrInvalidID - ObjectID 형식이 아니다.
	ErrInvalidID = errors.New("invalid id")
	// ErrDuplicateKey - 유니크 인덱스 충돌.
	ErrDuplicateKey = errors.New("duplicate key")
)

// Database 는 연결 핸들이다. *db.Mongo 가 구현하며, 실제 연결은 첫 호출 시점에 맺어진다.
type Database interface {
	Database(ctx context.Context) (*mongo.Database, error)
}

// ListPostsOptions 는 skip/limit 기반 페이지 조회 옵션이다.
type ListPostsOptions struct {
	Skip  int64
	Limit int64
}

// PostStore 는 posts 컬렉션에 대한 데이터 접근 계약이다.
// Mongo 구현과 인메모리 구현이 모두 이 계약을 따른다.
type PostStore interface {
	List(ctx context.Context, opt ListPostsOptions) ([]models.Post, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	Insert(ctx context.Context, p *models.Post) error
	InsertMany(ctx context.Context, posts []models.Post) (int, error)
	Update(ctx context.Context, id primitive.ObjectID, patch models.PostPatch) (*models.Post, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
}

// UserStore 는 users 컬렉션에 대한 데이터 접근 계약이다.
type UserStore interface {
	Insert(ctx context.Context, u *models.User) error
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// ActivityStore 는 activity 컬렉션에 대한 데이터 접근 계약이다.
type ActivityStore interface {
	Insert(ctx context.Context, a *models.Activity) error
	ListBySubject(ctx context.Context, subjectID string, limit int64) ([]models.Activity, error)
}

// ParseObjectID 는 hex 문자열을 ObjectID 로 변환한다. 형식 오류는 ErrInvalidID.
func ParseObjectID(hexID string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}

var (
	_ PostStore     = (*PostRepository)(nil)
	_ UserStore     = (*UserRepository)(nil)
	_ ActivityStore = (*ActivityRepository)(nil)
)
