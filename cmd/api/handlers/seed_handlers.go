package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"post-board/cmd/api/dto"
	"post-board/cmd/api/services"
)

const (
	MsgCountRequired   = "Count is required"
	MsgFailedSeedPosts = "Failed to seed posts"
)

// SeedPostsHandler godoc
// @Summary      Seed fake posts
// @Description  Development only. Inserts count fake posts (capped by seeder.max_count).
// @Tags         seeders
// @Param        count  query  int  true  "Number of posts"
// @Produce      json
// @Success      200  {object}  dto.Envelope{data=dto.SeedResultDTO}
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /seeders/posts [get]
func SeedPostsHandler(svc *services.SeedService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			respondMethodNotAllowed(c)
			return
		}

		count, err := strconv.Atoi(c.Query("count"))
		if err != nil || count <= 0 {
			respondError(c, http.StatusBadRequest, MsgCountRequired)
			return
		}

		n, err := svc.SeedPosts(c.Request.Context(), count)
		if err != nil {
			respondInternal(c, MsgFailedSeedPosts, err)
			return
		}
		respondOK(c, http.StatusOK, dto.SeedResultDTO{Count: n})
	}
}
