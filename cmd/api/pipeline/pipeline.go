// Package pipeline 은 요청 전처리(rate limit, 인증, 메서드 검사)를
// 순서가 명시된 interceptor 목록으로 실행한다.
package pipeline

import (
	"github.com/gin-gonic/gin"

	"post-board/cmd/api/dto"
)

// Outcome 은 interceptor 가 요청을 끝낼 때 돌려주는 최종 응답이다.
type Outcome struct {
	Status  int
	Message string
	Headers map[string]string
}

// Reject 는 envelope 에러 응답을 만드는 Outcome 을 반환한다.
func Reject(status int, message string) *Outcome {
	return &Outcome{Status: status, Message: message}
}

// Interceptor 는 nil 을 반환하면 다음 단계로 진행하고,
// Outcome 을 반환하면 그 응답으로 요청을 종료한다.
type Interceptor interface {
	Intercept(c *gin.Context) *Outcome
}

// InterceptorFunc adapts a plain function to Interceptor.
type InterceptorFunc func(c *gin.Context) *Outcome

func (f InterceptorFunc) Intercept(c *gin.Context) *Outcome { return f(c) }

// Pipeline 은 interceptor 를 선언 순서대로 실행한 뒤 handler 를 호출한다.
type Pipeline struct {
	interceptors []Interceptor
}

func New(interceptors ...Interceptor) Pipeline {
	return Pipeline{interceptors: interceptors}
}

// With returns a new pipeline with extra interceptors appended.
func (p Pipeline) With(interceptors ...Interceptor) Pipeline {
	out := make([]Interceptor, 0, len(p.interceptors)+len(interceptors))
	out = append(out, p.interceptors...)
	out = append(out, interceptors...)
	return Pipeline{interceptors: out}
}

// Then 은 pipeline 을 통과한 요청만 handler 로 전달하는 gin.HandlerFunc 를 반환한다.
func (p Pipeline) Then(handler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, ic := range p.interceptors {
			if out := ic.Intercept(c); out != nil {
				for k, v := range out.Headers {
					c.Header(k, v)
				}
				c.AbortWithStatusJSON(out.Status, dto.Fail(out.Message))
				return
			}
		}
		handler(c)
	}
}
