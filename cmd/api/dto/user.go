package dto

import "post-board/models"

// RegisterRequest 는 POST /users 요청 바디다.
type RegisterRequest struct {
	Username        string `json:"username" example:"admin"`
	Password        string `json:"password" example:"admin"`
	ReEnterPassword string `json:"reEnterPassword" example:"admin"`
}

// LoginRequest 는 POST /users/login 요청 바디다.
type LoginRequest struct {
	Username string `json:"username" example:"admin"`
	Password string `json:"password" example:"admin"`
}

// UserWithTokenDTO 는 가입/로그인 성공 응답이다. 비밀번호 해시는 포함하지 않는다.
type UserWithTokenDTO struct {
	Username string `json:"username" example:"admin"`
	ID       string `json:"id" example:"64b7f0c2a1b2c3d4e5f60718"`
	Version  int    `json:"version" example:"0"`
	Token    string `json:"token"`
}

func NewUserWithTokenDTO(u *models.User, token string) UserWithTokenDTO {
	return UserWithTokenDTO{
		Username: u.Username,
		ID:       u.ID.Hex(),
		Version:  u.Version,
		Token:    token,
	}
}
