package dto

// Envelope 는 모든 API 응답의 공통 형식이다.
// 성공 시 data, 실패 시 error 만 채운다.
type Envelope struct {
	Success bool   `json:"success" example:"true"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty" example:""`
}

// ErrorResponseDTO 는 swagger 문서용 실패 응답 형식이다.
type ErrorResponseDTO struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"Post does not exists"`
}

func OK(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

func Fail(message string) Envelope {
	return Envelope{Success: false, Error: message}
}
