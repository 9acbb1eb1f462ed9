package dto

import (
	"time"

	"post-board/models"
)

// PostDTO 는 클라이언트에 노출되는 게시글 형식이다. ID 는 hex 문자열.
type PostDTO struct {
	ID        string    `json:"id" example:"64b7f0c2a1b2c3d4e5f60718"`
	Title     string    `json:"title" example:"Hello"`
	Content   string    `json:"content" example:"First post"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Version   int       `json:"version" example:"0"`
}

func NewPostDTO(p *models.Post) PostDTO {
	return PostDTO{
		ID:        p.ID.Hex(),
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Version:   p.Version,
	}
}

// PostPayload 는 POST /posts, PUT /posts/{id} 요청 바디다.
// 수정 시에는 전달된 필드만 바뀐다. 두 필드가 모두 없으면 빈 요청으로 본다.
type PostPayload struct {
	Title   *string `json:"title,omitempty" example:"Hello"`
	Content *string `json:"content,omitempty" example:"First post"`
}

func (p PostPayload) IsEmpty() bool {
	return p.Title == nil && p.Content == nil
}

// PaginatedPostsDTO 는 목록 응답이다. page 는 0부터 시작한다.
type PaginatedPostsDTO struct {
	Items    []PostDTO `json:"items"`
	PrevPage *int      `json:"prevPage"`
	NextPage *int      `json:"nextPage"`
	CurrPage int       `json:"currPage"`
	Count    int       `json:"count"`
}

// SeedResultDTO 는 시더 실행 결과다.
type SeedResultDTO struct {
	Count int `json:"count" example:"10"`
}
