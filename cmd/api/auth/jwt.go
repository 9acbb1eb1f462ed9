package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"post-board/config"
)

var (
	ErrMissingSecret = errors.New("SECRET_KEY is required")
	ErrInvalidToken  = errors.New("invalid_token")
)

// Claims 는 토큰에 담기는 사용자 식별 정보다. iat/exp 는 RegisteredClaims 로 관리한다.
type Claims struct {
	Username string `json:"username"`
	ID       string `json:"id"`
	Version  int    `json:"version"`
	jwt.RegisteredClaims
}

// TokenService 는 HS256 단일 시크릿으로 토큰을 발급/검증한다.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService 는 config 의 auth 섹션으로 TokenService 를 만든다.
// 시크릿이 비어 있으면 ErrMissingSecret 을 반환하며, cmd/api 는 이를 치명적 오류로 취급한다.
func NewTokenService(cfg config.AuthConfig) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSecret
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &TokenService{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue signs {username, id, version} with iat=now and exp=now+ttl.
func (s *TokenService) Issue(username, id string, version int) (string, error) {
	now := s.now()
	claims := Claims{
		Username: username,
		ID:       id,
		Version:  version,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token. Every failure (bad signature, malformed,
// expired, unexpected algorithm) is reported as ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Username == "" || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
