package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"post-board/cmd/api/dto"
	"post-board/events"
	"post-board/models"
	"post-board/repositories"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

type PostService struct {
	store  repositories.PostStore
	events *EventEmitter
}

func NewPostService(store repositories.PostStore, emitter *EventEmitter) *PostService {
	return &PostService{store: store, events: emitter}
}

// ListPostsInput 은 0부터 시작하는 page 와 limit 이다.
type ListPostsInput struct {
	Limit int
	Page  int
}

// ParseListPostsInput 은 쿼리 문자열을 해석한다. 잘못된 값은 기본값으로 대체한다.
// limit: 기본 10, 1 미만이면 기본값, 최대 100 / page: 기본 0, 음수면 0
func ParseListPostsInput(limitStr, pageStr string) ListPostsInput {
	in := ListPostsInput{Limit: DefaultPageLimit, Page: 0}
	if v, err := strconv.Atoi(limitStr); err == nil && v >= 1 {
		in.Limit = v
	}
	if in.Limit > MaxPageLimit {
		in.Limit = MaxPageLimit
	}
	if v, err := strconv.Atoi(pageStr); err == nil && v > 0 {
		in.Page = v
	}
	return in
}

func (in ListPostsInput) normalize() ListPostsInput {
	if in.Limit < 1 {
		in.Limit = DefaultPageLimit
	}
	if in.Limit > MaxPageLimit {
		in.Limit = MaxPageLimit
	}
	if in.Page < 0 {
		in.Page = 0
	}
	return in
}

// skip 은 page*limit 이다. int64 범위를 넘으면 ok=false (항상 마지막 페이지 이후).
func (in ListPostsInput) skip() (int64, bool) {
	if int64(in.Page) > math.MaxInt64/int64(in.Limit) {
		return 0, false
	}
	return int64(in.Page) * int64(in.Limit), true
}

// List 는 최신순으로 limit 개를 page*limit 만큼 건너뛰고 조회한다.
func (s *PostService) List(ctx context.Context, in ListPostsInput) (dto.PaginatedPostsDTO, error) {
	in = in.normalize()

	var posts []models.Post
	if skip, ok := in.skip(); ok {
		var err error
		posts, err = s.store.List(ctx, repositories.ListPostsOptions{
			Skip:  skip,
			Limit: int64(in.Limit),
		})
		if err != nil {
			return dto.PaginatedPostsDTO{}, fmt.Errorf("list posts: %w", err)
		}
	}

	items := make([]dto.PostDTO, 0, len(posts))
	for i := range posts {
		items = append(items, dto.NewPostDTO(&posts[i]))
	}

	out := dto.PaginatedPostsDTO{
		Items:    items,
		CurrPage: in.Page,
		Count:    len(items),
	}
	if in.Page > 0 {
		prev := in.Page - 1
		out.PrevPage = &prev
	}
	if len(items) >= in.Limit {
		next := in.Page + 1
		out.NextPage = &next
	}
	return out, nil
}

func (s *PostService) Create(ctx context.Context, in dto.PostPayload) (dto.PostDTO, error) {
	if in.IsEmpty() {
		return dto.PostDTO{}, ErrEmptyPostPayload
	}

	p := &models.Post{}
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Content != nil {
		p.Content = *in.Content
	}
	if err := s.store.Insert(ctx, p); err != nil {
		if models.IsValidationError(err) {
			return dto.PostDTO{}, err
		}
		return dto.PostDTO{}, fmt.Errorf("create post: %w", err)
	}

	s.events.postEvent(ctx, events.PostCreated, p.ID.Hex(), p.Title, p.Version)
	return dto.NewPostDTO(p), nil
}

func (s *PostService) Get(ctx context.Context, idHex string) (dto.PostDTO, error) {
	id, err := repositories.ParseObjectID(idHex)
	if err != nil {
		return dto.PostDTO{}, ErrInvalidPostID
	}

	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return dto.PostDTO{}, mapPostStoreError("get post", err)
	}
	return dto.NewPostDTO(p), nil
}

func (s *PostService) Update(ctx context.Context, idHex string, in dto.PostPayload) (dto.PostDTO, error) {
	id, err := repositories.ParseObjectID(idHex)
	if err != nil {
		return dto.PostDTO{}, ErrInvalidPostID
	}
	if in.IsEmpty() {
		return dto.PostDTO{}, ErrEmptyPostPayload
	}

	p, err := s.store.Update(ctx, id, models.PostPatch{Title: in.Title, Content: in.Content})
	if err != nil {
		return dto.PostDTO{}, mapPostStoreError("update post", err)
	}

	s.events.postEvent(ctx, events.PostUpdated, p.ID.Hex(), p.Title, p.Version)
	return dto.NewPostDTO(p), nil
}

func (s *PostService) Delete(ctx context.Context, idHex string) (dto.PostDTO, error) {
	id, err := repositories.ParseObjectID(idHex)
	if err != nil {
		return dto.PostDTO{}, ErrInvalidPostID
	}

	p, err := s.store.Delete(ctx, id)
	if err != nil {
		return dto.PostDTO{}, mapPostStoreError("delete post", err)
	}

	s.events.postEvent(ctx, events.PostDeleted, p.ID.Hex(), p.Title, p.Version)
	return dto.NewPostDTO(p), nil
}

// ValidatePostID 는 id 가 ObjectID 형식인지 확인한다.
func ValidatePostID(idHex string) error {
	if _, err := repositories.ParseObjectID(idHex); err != nil {
		return ErrInvalidPostID
	}
	return nil
}

func mapPostStoreError(op string, err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return ErrPostNotFound
	case models.IsValidationError(err):
		return err
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
