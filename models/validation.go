package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 에러 메시지에는 Go 필드명 대신 json 이름(title, content, username)을 쓴다.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldIssue 는 단일 필드의 검증 실패다.
type FieldIssue struct {
	Field   string
	Message string
}

// ValidationError 는 클라이언트에 그대로 노출되는 검증 실패 메시지를 담는다.
type ValidationError struct {
	Model  string
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.Field+": "+issue.Message)
	}
	return e.Model + " validation failed: " + strings.Join(parts, ", ")
}

// NewValidationError 는 단일 필드 검증 실패를 만든다.
func NewValidationError(model, field, message string) *ValidationError {
	return &ValidationError{Model: model, Issues: []FieldIssue{{Field: field, Message: message}}}
}

// IsValidationError reports whether err carries a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

type messageTable map[string]map[string]string

func (t messageTable) lookup(field, tag, param string) string {
	if byTag, ok := t[field]; ok {
		if msg, ok := byTag[tag]; ok {
			return msg
		}
	}
	if param != "" {
		return fmt.Sprintf("Path `%s` failed on %s=%s.", field, tag, param)
	}
	return fmt.Sprintf("Path `%s` failed on %s.", field, tag)
}

// toValidationError 는 validator 에러를 모델 단위 ValidationError 로 변환한다.
// field 가 비어 있지 않으면 validate.Var 결과로 보고 해당 이름을 사용한다.
func toValidationError(model, field string, table messageTable, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Model: model}
	for _, fe := range verrs {
		name := fe.Field()
		if field != "" {
			name = field
		}
		out.Issues = append(out.Issues, FieldIssue{
			Field:   name,
			Message: table.lookup(name, fe.Tag(), fe.Param()),
		})
	}
	return out
}
