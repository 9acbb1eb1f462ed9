package middleware

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"post-board/cmd/api/auth"
	"post-board/cmd/api/metrics"
	"post-board/cmd/api/pipeline"
	"post-board/cmd/api/ratelimit"
	"post-board/cmd/api/trace"
	"post-board/internal/logger"
)

const (
	MsgTooManyRequests  = "Too many requests"
	MsgBearerRequired   = "Bearer token is required"
	MsgInvalidBearer    = "Invalid bearer token"
	MsgTokenInvalid     = "Token is invalid"
	MsgMethodNotAllowed = "Method not allowed"
)

// TokenVerifier 는 AuthGuard 가 사용하는 토큰 검증기다. *auth.TokenService 가 구현한다.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// RateLimit 는 클라이언트 키 기준으로 limiter 를 적용한다.
// 저장소 오류 시에는 요청을 막지 않고 경고 로그만 남긴다.
func RateLimit(l *ratelimit.Limiter, m *metrics.Metrics) pipeline.Interceptor {
	return pipeline.InterceptorFunc(func(c *gin.Context) *pipeline.Outcome {
		key := trace.ClientKeyFromContext(c.Request.Context())
		if key == "" {
			key = ratelimit.ClientKey(c.Request)
		}

		d, err := l.Admit(c.Request.Context(), key)
		if err != nil {
			logger.WarnWithFields("rate limit store unavailable", logger.Fields{
				"scope":      l.Scope(),
				"request_id": trace.RequestIDFromContext(c.Request.Context()),
				"error":      err.Error(),
			})
			return nil
		}
		if d.Allowed {
			return nil
		}

		if m != nil {
			m.RateLimited.WithLabelValues(l.Scope()).Inc()
		}
		out := pipeline.Reject(http.StatusTooManyRequests, MsgTooManyRequests)
		out.Headers = map[string]string{
			"Retry-After": strconv.Itoa(int(math.Ceil(d.RetryAfter.Seconds()))),
		}
		return out
	})
}

// AuthGuard 는 Authorization: Bearer <token> 을 검증하고 성공 시 identity 를 컨텍스트에 저장한다.
func AuthGuard(tokens TokenVerifier) pipeline.Interceptor {
	return pipeline.InterceptorFunc(func(c *gin.Context) *pipeline.Outcome {
		token, err := auth.ExtractBearerToken(c)
		if err != nil {
			if errors.Is(err, auth.ErrMissingHeader) {
				return pipeline.Reject(http.StatusUnauthorized, MsgBearerRequired)
			}
			return pipeline.Reject(http.StatusUnauthorized, MsgInvalidBearer)
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			logger.DebugWithFields("token verification failed", logger.Fields{
				"request_id": trace.RequestIDFromContext(c.Request.Context()),
				"error":      err.Error(),
			})
			return pipeline.Reject(http.StatusUnauthorized, MsgTokenInvalid)
		}

		auth.SetIdentity(c, claims)
		c.Request = c.Request.WithContext(trace.WithActor(c.Request.Context(), claims.ID))
		return nil
	})
}

// MethodGate 는 allowed 에 정확히(대소문자 구분) 포함된 메서드만 통과시킨다.
func MethodGate(allowed ...string) pipeline.Interceptor {
	return pipeline.InterceptorFunc(func(c *gin.Context) *pipeline.Outcome {
		if !MethodAllowed(c.Request.Method, allowed) {
			return pipeline.Reject(http.StatusMethodNotAllowed, MsgMethodNotAllowed)
		}
		return nil
	})
}

func MethodAllowed(method string, allowed []string) bool {
	if method == "" {
		return false
	}
	for _, m := range allowed {
		if m == method {
			return true
		}
	}
	return false
}
