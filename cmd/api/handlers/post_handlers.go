package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"post-board/cmd/api/dto"
	"post-board/cmd/api/services"
	"post-board/models"
)

const (
	MsgPostDataRequired = "Post json data is required"
	MsgInvalidPostID    = "Invalid post id format"
	MsgPostNotFound     = "Post does not exists"
	MsgFailedFetchPosts = "Failed to fetch posts"
	MsgFailedCreatePost = "Failed to create post"
	MsgFailedFetchPost  = "Failed to fetch post"
	MsgFailedUpdatePost = "Failed to update post"
	MsgFailedDeletePost = "Failed to delete post"
)

// PostsHandler 는 /posts 와 /posts/:id 를 (id 유무, method) 조합으로 분기한다.
func PostsHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		hasID := c.Param("id") != ""
		switch {
		case !hasID && c.Request.Method == http.MethodGet:
			listPosts(c, svc)
		case !hasID && c.Request.Method == http.MethodPost:
			createPost(c, svc)
		case hasID && c.Request.Method == http.MethodGet:
			getPost(c, svc)
		case hasID && c.Request.Method == http.MethodPut:
			updatePost(c, svc)
		case hasID && c.Request.Method == http.MethodDelete:
			deletePost(c, svc)
		default:
			respondMethodNotAllowed(c)
		}
	}
}

// listPosts godoc
// @Summary      List posts
// @Description  Newest first, offset pagination (page is 0-based)
// @Tags         posts
// @Security     BearerAuth
// @Param        limit  query  int  false  "Page size (default 10, max 100)"
// @Param        page   query  int  false  "Page number (0-based)"
// @Produce      json
// @Success      200  {object}  dto.Envelope{data=dto.PaginatedPostsDTO}
// @Failure      401  {object}  dto.ErrorResponseDTO
// @Failure      429  {object}  dto.ErrorResponseDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /posts [get]
func listPosts(c *gin.Context, svc *services.PostService) {
	in := services.ParseListPostsInput(c.Query("limit"), c.Query("page"))
	page, err := svc.List(c.Request.Context(), in)
	if err != nil {
		respondInternal(c, MsgFailedFetchPosts, err)
		return
	}
	respondOK(c, http.StatusOK, page)
}

// createPost godoc
// @Summary      Create post
// @Tags         posts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PostPayload  true  "title, content"
// @Success      201  {object}  dto.Envelope{data=dto.PostDTO}
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      401  {object}  dto.ErrorResponseDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /posts [post]
func createPost(c *gin.Context, svc *services.PostService) {
	payload, ok := bindPostPayload(c)
	if !ok {
		return
	}

	post, err := svc.Create(c.Request.Context(), payload)
	if err != nil {
		handlePostError(c, err, MsgFailedCreatePost)
		return
	}
	respondOK(c, http.StatusCreated, post)
}

// getPost godoc
// @Summary      Get post by id
// @Tags         posts
// @Security     BearerAuth
// @Param        id   path   string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  dto.Envelope{data=dto.PostDTO}
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /posts/{id} [get]
func getPost(c *gin.Context, svc *services.PostService) {
	post, err := svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handlePostError(c, err, MsgFailedFetchPost)
		return
	}
	respondOK(c, http.StatusOK, post)
}

// updatePost godoc
// @Summary      Update post
// @Description  Partial update. Only supplied fields change; version is incremented.
// @Tags         posts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string           true  "ObjectID"
// @Param        body  body  dto.PostPayload  true  "fields to change"
// @Success      200  {object}  dto.Envelope{data=dto.PostDTO}
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /posts/{id} [put]
func updatePost(c *gin.Context, svc *services.PostService) {
	// id 형식 오류는 바디 검사보다 먼저 보고한다.
	if err := services.ValidatePostID(c.Param("id")); err != nil {
		respondError(c, http.StatusBadRequest, MsgInvalidPostID)
		return
	}

	payload, ok := bindPostPayload(c)
	if !ok {
		return
	}

	post, err := svc.Update(c.Request.Context(), c.Param("id"), payload)
	if err != nil {
		handlePostError(c, err, MsgFailedUpdatePost)
		return
	}
	respondOK(c, http.StatusOK, post)
}

// deletePost godoc
// @Summary      Delete post
// @Tags         posts
// @Security     BearerAuth
// @Param        id   path   string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  dto.Envelope{data=dto.PostDTO}
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /posts/{id} [delete]
func deletePost(c *gin.Context, svc *services.PostService) {
	post, err := svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		handlePostError(c, err, MsgFailedDeletePost)
		return
	}
	respondOK(c, http.StatusOK, post)
}

// bindPostPayload 는 바디가 없거나 JSON 이 아니거나 필드가 하나도 없으면 400 으로 응답한다.
func bindPostPayload(c *gin.Context) (dto.PostPayload, bool) {
	var payload dto.PostPayload
	if err := c.ShouldBindJSON(&payload); err != nil || payload.IsEmpty() {
		respondError(c, http.StatusBadRequest, MsgPostDataRequired)
		return dto.PostPayload{}, false
	}
	return payload, true
}

func handlePostError(c *gin.Context, err error, internalMsg string) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		respondError(c, http.StatusBadRequest, ve.Error())
	case errors.Is(err, services.ErrEmptyPostPayload):
		respondError(c, http.StatusBadRequest, MsgPostDataRequired)
	case errors.Is(err, services.ErrInvalidPostID):
		respondError(c, http.StatusBadRequest, MsgInvalidPostID)
	case errors.Is(err, services.ErrPostNotFound):
		respondError(c, http.StatusNotFound, MsgPostNotFound)
	default:
		respondInternal(c, internalMsg, err)
	}
}
