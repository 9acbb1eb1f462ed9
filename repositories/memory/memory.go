// Package memory 는 repositories.PostStore / UserStore 의 인메모리 구현이다.
// storage.driver=memory 로 로컬 실행하거나 서비스/핸들러 테스트에서 사용한다.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"post-board/models"
	"post-board/repositories"
)

type PostStore struct {
	mu    sync.RWMutex
	posts map[primitive.ObjectID]models.Post
	now   func() time.Time
}

func NewPostStore() *PostStore {
	return &PostStore{
		posts: make(map[primitive.ObjectID]models.Post),
		now:   time.Now,
	}
}

func (s *PostStore) List(_ context.Context, opt repositories.ListPostsOptions) ([]models.Post, error) {
	s.mu.RLock()
	all := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		all = append(all, p)
	}
	s.mu.RUnlock()

	// created_at desc, _id desc (mongo 구현과 동일한 순서)
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID.Hex() > all[j].ID.Hex()
	})

	if opt.Skip < 0 || opt.Skip >= int64(len(all)) {
		return []models.Post{}, nil
	}
	end := int64(len(all))
	if opt.Limit > 0 && opt.Limit < end-opt.Skip {
		end = opt.Skip + opt.Limit
	}
	return all[opt.Skip:end], nil
}

func (s *PostStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, fmt.Errorf("memory.posts.FindByID: %w", repositories.ErrNotFound)
	}
	return &p, nil
}

func (s *PostStore) Insert(_ context.Context, p *models.Post) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertLocked(p, s.stamp())
	return nil
}

func (s *PostStore) InsertMany(_ context.Context, posts []models.Post) (int, error) {
	for i := range posts {
		if err := posts[i].Validate(); err != nil {
			return 0, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.stamp()
	for i := range posts {
		s.insertLocked(&posts[i], now)
	}
	return len(posts), nil
}

func (s *PostStore) insertLocked(p *models.Post, now time.Time) {
	p.ID = primitive.NewObjectID()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	p.Version = 0
	s.posts[p.ID] = *p
}

func (s *PostStore) Update(_ context.Context, id primitive.ObjectID, patch models.PostPatch) (*models.Post, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, fmt.Errorf("memory.posts.Update: %w", repositories.ErrNotFound)
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	p.UpdatedAt = s.stamp()
	p.Version++
	s.posts[id] = p
	return &p, nil
}

func (s *PostStore) Delete(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, fmt.Errorf("memory.posts.Delete: %w", repositories.ErrNotFound)
	}
	delete(s.posts, id)
	return &p, nil
}

func (s *PostStore) stamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

type UserStore struct {
	mu         sync.RWMutex
	byUsername map[string]models.User
	now        func() time.Time
}

func NewUserStore() *UserStore {
	return &UserStore{
		byUsername: make(map[string]models.User),
		now:        time.Now,
	}
}

func (s *UserStore) Insert(_ context.Context, u *models.User) error {
	if err := u.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byUsername[u.Username]; exists {
		return fmt.Errorf("memory.users.Insert: %w", repositories.ErrDuplicateKey)
	}
	now := s.now().UTC().Truncate(time.Millisecond)
	u.ID = primitive.NewObjectID()
	u.CreatedAt = now
	u.UpdatedAt = now
	u.Version = 0
	s.byUsername[u.Username] = *u
	return nil
}

func (s *UserStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byUsername[username]
	if !ok {
		return nil, fmt.Errorf("memory.users.FindByUsername: %w", repositories.ErrNotFound)
	}
	return &u, nil
}

var (
	_ repositories.PostStore = (*PostStore)(nil)
	_ repositories.UserStore = (*UserStore)(nil)
)
