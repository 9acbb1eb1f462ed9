package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const UserModelName = "User"

// MaxPasswordBytes 는 bcrypt 가 해시할 수 있는 최대 입력 길이다.
const MaxPasswordBytes = 72

var userMessages = messageTable{
	"username": {
		"required": "Please provide a username.",
		"max":      "Username cannot be more than 60 characters",
	},
	"password": {
		"required": "Please provide a password.",
		"max":      "Password cannot be more than 72 bytes",
	},
}

// User represents an account document
// Collection: users
//
// PasswordHash is never exposed through json.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username" validate:"required,max=60"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
	Version      int                `bson:"version" json:"version"`
}

func (u *User) Validate() error {
	u.Username = strings.TrimSpace(u.Username)
	if err := validate.Struct(u); err != nil {
		return toValidationError(UserModelName, "", userMessages, err)
	}
	return nil
}

// ValidatePassword 는 평문 비밀번호가 비어 있지 않고 bcrypt 입력 한도(바이트 기준) 안인지 확인한다.
func ValidatePassword(password string) error {
	if err := validate.Var(password, "required"); err != nil {
		return toValidationError(UserModelName, "password", userMessages, err)
	}
	// validator 의 max 는 rune 수를 세므로 바이트 길이는 직접 확인한다.
	if len(password) > MaxPasswordBytes {
		return NewValidationError(UserModelName, "password", userMessages.lookup("password", "max", ""))
	}
	return nil
}
