package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"

	"post-board/models"
	"post-board/repositories"
)

// SeedService 는 개발용 가짜 게시글을 생성한다.
type SeedService struct {
	store    repositories.PostStore
	maxCount int
}

func NewSeedService(store repositories.PostStore, maxCount int) *SeedService {
	return &SeedService{store: store, maxCount: maxCount}
}

// SeedPosts 는 count 개(최대 maxCount)의 게시글을 만들고 실제 저장된 개수를 반환한다.
func (s *SeedService) SeedPosts(ctx context.Context, count int) (int, error) {
	if count <= 0 {
		return 0, ErrInvalidSeedCount
	}
	if s.maxCount > 0 && count > s.maxCount {
		count = s.maxCount
	}

	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		posts = append(posts, models.Post{
			Title:   fakeWords(2),
			Content: fakeWords(10),
		})
	}

	n, err := s.store.InsertMany(ctx, posts)
	if err != nil {
		return 0, fmt.Errorf("seed posts: %w", err)
	}
	return n, nil
}

func fakeWords(n int) string {
	words := make([]string, 0, n)
	for i := 0; i < n; i++ {
		words = append(words, gofakeit.Word())
	}
	return strings.Join(words, " ")
}
