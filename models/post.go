package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PostModelName = "Post"

	postTitleRules   = "required,max=60"
	postContentRules = "required"
)

var postMessages = messageTable{
	"title": {
		"required": "Please provide a title for this post.",
		"max":      "Title cannot be more than 60 characters",
	},
	"content": {
		"required": "Please provide the content for this post.",
	},
}

// Post represents a post document
// Collection: posts
type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title" validate:"required,max=60"`
	Content   string             `bson:"content" json:"content" validate:"required"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
	Version   int                `bson:"version" json:"version"`
}

// Normalize trims surrounding whitespace so that blank values fail "required".
func (p *Post) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.Content = strings.TrimSpace(p.Content)
}

// Validate normalizes and checks the post, returning a *ValidationError on failure.
func (p *Post) Validate() error {
	p.Normalize()
	if err := validate.Struct(p); err != nil {
		return toValidationError(PostModelName, "", postMessages, err)
	}
	return nil
}

// PostPatch 는 부분 수정 요청이다. nil 필드는 변경하지 않는다.
type PostPatch struct {
	Title   *string
	Content *string
}

// IsEmpty reports whether the patch changes nothing.
func (p PostPatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil
}

// Validate 는 제공된 필드만 Post 와 같은 규칙으로 검사한다.
func (p *PostPatch) Validate() error {
	var out *ValidationError
	check := func(field string, value *string, rules string) {
		if value == nil {
			return
		}
		trimmed := strings.TrimSpace(*value)
		*value = trimmed
		if err := validate.Var(trimmed, rules); err != nil {
			ve, ok := toValidationError(PostModelName, field, postMessages, err).(*ValidationError)
			if !ok {
				return
			}
			if out == nil {
				out = &ValidationError{Model: PostModelName}
			}
			out.Issues = append(out.Issues, ve.Issues...)
		}
	}
	check("title", p.Title, postTitleRules)
	check("content", p.Content, postContentRules)
	if out != nil {
		return out
	}
	return nil
}
