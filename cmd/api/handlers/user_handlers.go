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
	MsgUserDataRequired   = "User json data is required"
	MsgPasswordsMismatch  = "Passwords do not match"
	MsgUsernameTaken      = "Username already exists"
	MsgUserNotFound       = "User does not exists"
	MsgIncorrectPassword  = "Incorrect password"
	MsgFailedRegisterUser = "Failed to register user"
	MsgFailedLogin        = "Failed to login"
)

// RegisterHandler godoc
// @Summary      Register user
// @Description  Creates an account and returns it with a bearer token
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "username, password, reEnterPassword"
// @Success      201  {object}  dto.Envelope{data=dto.UserWithTokenDTO}
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      429  {object}  dto.ErrorResponseDTO
// @Router       /users [post]
func RegisterHandler(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			respondMethodNotAllowed(c)
			return
		}

		var req dto.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, MsgUserDataRequired)
			return
		}

		user, err := svc.Register(c.Request.Context(), req)
		if err != nil {
			var ve *models.ValidationError
			switch {
			case errors.Is(err, services.ErrPasswordMismatch):
				respondError(c, http.StatusBadRequest, MsgPasswordsMismatch)
			case errors.As(err, &ve):
				respondError(c, http.StatusBadRequest, ve.Error())
			case errors.Is(err, services.ErrUsernameTaken):
				respondError(c, http.StatusBadRequest, MsgUsernameTaken)
			default:
				respondInternal(c, MsgFailedRegisterUser, err)
			}
			return
		}
		respondOK(c, http.StatusCreated, user)
	}
}

// LoginHandler godoc
// @Summary      Login
// @Description  Verifies credentials and returns the user with a bearer token
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password"
// @Success      200  {object}  dto.Envelope{data=dto.UserWithTokenDTO}
// @Failure      401  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Failure      429  {object}  dto.ErrorResponseDTO
// @Router       /users/login [post]
func LoginHandler(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			respondMethodNotAllowed(c)
			return
		}

		var req dto.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, MsgUserDataRequired)
			return
		}

		user, err := svc.Login(c.Request.Context(), req)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				respondError(c, http.StatusNotFound, MsgUserNotFound)
			case errors.Is(err, services.ErrIncorrectPassword):
				respondError(c, http.StatusUnauthorized, MsgIncorrectPassword)
			default:
				respondInternal(c, MsgFailedLogin, err)
			}
			return
		}
		respondOK(c, http.StatusOK, user)
	}
}
