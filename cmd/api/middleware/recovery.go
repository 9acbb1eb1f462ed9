package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"post-board/cmd/api/dto"
	"post-board/cmd/api/trace"
	"post-board/internal/logger"
)

const MsgInternalError = "Internal server error"

// Recovery 는 핸들러 panic 을 잡아 스택과 함께 로깅하고 500 envelope 으로 응답한다.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if p := recover(); p != nil {
				logger.ErrorWithFields("request panic", logger.Fields{
					"method":     c.Request.Method,
					"uri":        c.Request.RequestURI,
					"request_id": trace.RequestIDFromContext(c.Request.Context()),
					"panic":      p,
					"stack":      string(debug.Stack()),
				})
				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.Fail(MsgInternalError))
			}
		}()
		c.Next()
	}
}

// MethodNotAllowed 는 gin NoMethod 핸들러다.
func MethodNotAllowed() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusMethodNotAllowed, dto.Fail(MsgMethodNotAllowed))
	}
}

// NotFound 는 gin NoRoute 핸들러다.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusNotFound, dto.Fail("Not found"))
	}
}
