package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"post-board/cmd/api/dto"
	"post-board/models"
	"post-board/repositories"
)

// TokenIssuer 는 로그인/가입 성공 시 토큰을 발급한다. *auth.TokenService 가 구현한다.
type TokenIssuer interface {
	Issue(username, id string, version int) (string, error)
}

// PasswordHasher 는 *auth.PasswordHasher 가 구현한다.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}

type UserService struct {
	store     repositories.UserStore
	passwords PasswordHasher
	tokens    TokenIssuer
	events    *EventEmitter
}

func NewUserService(store repositories.UserStore, passwords PasswordHasher, tokens TokenIssuer, emitter *EventEmitter) *UserService {
	return &UserService{
		store:     store,
		passwords: passwords,
		tokens:    tokens,
		events:    emitter,
	}
}

// Register 는 비밀번호 확인 → 입력 검증 → 해시 → 저장 → 토큰 발급 순으로 처리한다.
func (s *UserService) Register(ctx context.Context, in dto.RegisterRequest) (dto.UserWithTokenDTO, error) {
	if in.Password != in.ReEnterPassword {
		return dto.UserWithTokenDTO{}, ErrPasswordMismatch
	}

	u := &models.User{Username: in.Username}
	if err := u.Validate(); err != nil {
		return dto.UserWithTokenDTO{}, err
	}
	if err := models.ValidatePassword(in.Password); err != nil {
		return dto.UserWithTokenDTO{}, err
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return dto.UserWithTokenDTO{}, fmt.Errorf("register: %w", err)
	}
	u.PasswordHash = hash

	if err := s.store.Insert(ctx, u); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicateKey):
			return dto.UserWithTokenDTO{}, ErrUsernameTaken
		case models.IsValidationError(err):
			return dto.UserWithTokenDTO{}, err
		default:
			return dto.UserWithTokenDTO{}, fmt.Errorf("register: %w", err)
		}
	}

	token, err := s.tokens.Issue(u.Username, u.ID.Hex(), u.Version)
	if err != nil {
		return dto.UserWithTokenDTO{}, fmt.Errorf("register: %w", err)
	}

	s.events.userRegistered(ctx, u.ID.Hex(), u.Username)
	return dto.NewUserWithTokenDTO(u, token), nil
}

func (s *UserService) Login(ctx context.Context, in dto.LoginRequest) (dto.UserWithTokenDTO, error) {
	u, err := s.store.FindByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return dto.UserWithTokenDTO{}, ErrUserNotFound
		}
		return dto.UserWithTokenDTO{}, fmt.Errorf("login: %w", err)
	}

	if !s.passwords.Verify(u.PasswordHash, in.Password) {
		return dto.UserWithTokenDTO{}, ErrIncorrectPassword
	}

	token, err := s.tokens.Issue(u.Username, u.ID.Hex(), u.Version)
	if err != nil {
		return dto.UserWithTokenDTO{}, fmt.Errorf("login: %w", err)
	}
	return dto.NewUserWithTokenDTO(u, token), nil
}
