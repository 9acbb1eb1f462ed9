package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestPostValidate(t *testing.T) {
	testCases := []struct {
		name    string
		post    Post
		wantErr string
	}{
		{
			name: "valid post",
			post: Post{Title: "hello", Content: "world"},
		},
		{
			name:    "missing title",
			post:    Post{Content: "world"},
			wantErr: "Post validation failed: title: Please provide a title for this post.",
		},
		{
			name:    "whitespace only content",
			post:    Post{Title: "hello", Content: "   \n\t"},
			wantErr: "Post validation failed: content: Please provide the content for this post.",
		},
		{
			name:    "title too long",
			post:    Post{Title: strings.Repeat("a", 61), Content: "world"},
			wantErr: "Post validation failed: title: Title cannot be more than 60 characters",
		},
		{
			name:    "both missing",
			post:    Post{},
			wantErr: "Post validation failed: title: Please provide a title for this post., content: Please provide the content for this post.",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			err := testCase.post.Validate()
			if testCase.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsValidationError(err))
			assert.Equal(t, testCase.wantErr, err.Error())
		})
	}
}

func TestPostValidateTrimsAndCountsRunes(t *testing.T) {
	p := Post{Title: "  " + strings.Repeat("가", 60) + "  ", Content: " body "}
	require.NoError(t, p.Validate())
	assert.Equal(t, strings.Repeat("가", 60), p.Title)
	assert.Equal(t, "body", p.Content)
}

func TestPostPatchValidate(t *testing.T) {
	assert.True(t, PostPatch{}.IsEmpty())

	patch := PostPatch{Title: strPtr("  new title ")}
	require.NoError(t, patch.Validate())
	assert.Equal(t, "new title", *patch.Title)
	assert.Nil(t, patch.Content)

	bad := PostPatch{Title: strPtr(" "), Content: strPtr("")}
	err := bad.Validate()
	require.Error(t, err)
	assert.Equal(t,
		"Post validation failed: title: Please provide a title for this post., content: Please provide the content for this post.",
		err.Error())
}

func TestUserValidate(t *testing.T) {
	u := User{Username: "  admin "}
	require.NoError(t, u.Validate())
	assert.Equal(t, "admin", u.Username)

	empty := User{Username: " "}
	err := empty.Validate()
	require.Error(t, err)
	assert.Equal(t, "User validation failed: username: Please provide a username.", err.Error())

	err = ValidatePassword("")
	require.Error(t, err)
	assert.Equal(t, "User validation failed: password: Please provide a password.", err.Error())
	assert.NoError(t, ValidatePassword("admin"))
	assert.NoError(t, ValidatePassword(strings.Repeat("a", MaxPasswordBytes)))

	// 24 runes, 72 bytes: 허용
	assert.NoError(t, ValidatePassword(strings.Repeat("가", 24)))
	// 25 runes, 75 bytes: 거부
	err = ValidatePassword(strings.Repeat("가", 25))
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, "User validation failed: password: Password cannot be more than 72 bytes", err.Error())
}

func TestActivityValidate(t *testing.T) {
	a := Activity{EventID: " evt-1 ", Type: "post.created"}
	require.NoError(t, a.Validate())
	assert.Equal(t, "evt-1", a.EventID)

	err := (&Activity{}).Validate()
	require.Error(t, err)
	assert.Equal(t,
		"Activity validation failed: eventId: Please provide the source event id., type: Please provide the event type.",
		err.Error())
}
