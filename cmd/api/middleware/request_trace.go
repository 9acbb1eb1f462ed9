package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"post-board/cmd/api/metrics"
	"post-board/cmd/api/ratelimit"
	"post-board/cmd/api/trace"
	"post-board/internal/logger"
)

const headerRequestID = "X-Request-Id"

// RequestTrace 는 모든 inbound 요청에 Request ID 를 보장하고,
// 클라이언트 키와 함께 컨텍스트/헤더에 저장한 뒤 완료 로그와 지표를 남긴다.
// 요청 바디는 비밀번호가 포함될 수 있어 로깅하지 않는다.
func RequestTrace(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		req := c.Request

		requestID := trace.InboundID(req.Header.Get(headerRequestID))
		clientKey := ratelimit.ClientKey(req)

		c.Request = req.WithContext(trace.WithInfo(req.Context(), requestID, clientKey))
		c.Writer.Header().Set(headerRequestID, requestID)

		// query_params 는 멀티 값 쿼리도 모두 보존하기 위해 map[string][]string 으로 기록한다.
		queryParams := map[string][]string{}
		for key, values := range req.URL.Query() {
			if len(values) > 0 {
				queryParams[key] = values
			}
		}

		c.Next()

		status := c.Writer.Status()
		duration := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		if m != nil {
			m.RequestsTotal.WithLabelValues(req.Method, route, strconv.Itoa(status)).Inc()
			m.RequestDuration.WithLabelValues(req.Method, route).Observe(duration.Seconds())
		}

		logger.InfoWithFields("completed request", logger.Fields{
			"method":       req.Method,
			"path":         req.URL.Path,
			"route":        route,
			"query_params": queryParams,
			"status":       status,
			"duration":     duration.String(),
			"request_id":   requestID,
			"client":       clientKey,
		})
	}
}
