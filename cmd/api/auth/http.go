package auth

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
)

var (
	ErrMissingHeader = errors.New("missing_authorization_header")
	ErrInvalidFormat = errors.New("invalid_authorization_header")
)

const identityKey = "auth.identity"

// ExtractBearerToken extracts the Bearer token from the Authorization header.
// 스킴은 대소문자를 구분하며("Bearer"), 공백 뒤 첫 세그먼트를 토큰으로 사용한다.
func ExtractBearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", ErrMissingHeader
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) < 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", ErrInvalidFormat
	}

	return parts[1], nil
}

// SetIdentity attaches verified claims to the request context.
func SetIdentity(c *gin.Context, claims *Claims) {
	c.Set(identityKey, claims)
}

// IdentityFrom returns the claims set by the auth guard, if any.
func IdentityFrom(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}
