package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"post-board/cmd/api/dto"
	"post-board/cmd/api/middleware"
	"post-board/cmd/api/trace"
	"post-board/internal/logger"
)

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, dto.OK(data))
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, dto.Fail(message))
}

func respondMethodNotAllowed(c *gin.Context) {
	respondError(c, http.StatusMethodNotAllowed, middleware.MsgMethodNotAllowed)
}

// respondInternal 은 내부 오류 상세는 로그에만 남기고 클라이언트에는 일반 메시지만 보낸다.
func respondInternal(c *gin.Context, message string, err error) {
	logger.ErrorWithFields(message, logger.Fields{
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"request_id": trace.RequestIDFromContext(c.Request.Context()),
		"error":      err.Error(),
	})
	respondError(c, http.StatusInternalServerError, message)
}
