package trace

import (
	"context"

	"github.com/google/uuid"
)

// 컨텍스트에 저장되는 키 타입은 외부에서 직접 사용하지 못하게 unexported로 둔다.
type ctxKey string

const (
	ctxKeyTrace ctxKey = "trace_info"
	ctxKeyActor ctxKey = "actor_id"
)

// Info 는 하나의 HTTP 요청에 대한 트레이싱 정보를 담는다.
type Info struct {
	RequestID string
	ClientKey string
}

// GenerateID 는 요청/이벤트 ID 로 사용할 UUID 문자열을 생성한다.
func GenerateID() string {
	return uuid.NewString()
}

// InboundID 는 클라이언트가 보낸 Request ID 가 UUID 이면 정규화한 값을, 아니면 새 ID 를 반환한다.
// 임의 길이/문자의 헤더 값이 로그와 응답 헤더에 그대로 실리지 않게 한다.
func InboundID(raw string) string {
	if raw == "" || len(raw) > 64 {
		return GenerateID()
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return GenerateID()
	}
	return id.String()
}

// WithInfo 는 Request ID 와 클라이언트 키를 컨텍스트에 저장한 새 컨텍스트를 반환한다.
func WithInfo(ctx context.Context, requestID, clientKey string) context.Context {
	return context.WithValue(ctx, ctxKeyTrace, &Info{RequestID: requestID, ClientKey: clientKey})
}

func infoFromContext(ctx context.Context) *Info {
	if ctx == nil {
		return nil
	}
	v, _ := ctx.Value(ctxKeyTrace).(*Info)
	return v
}

// RequestIDFromContext 는 컨텍스트에서 Request ID 를 조회한다.
func RequestIDFromContext(ctx context.Context) string {
	info := infoFromContext(ctx)
	if info == nil {
		return ""
	}
	return info.RequestID
}

func ClientKeyFromContext(ctx context.Context) string {
	info := infoFromContext(ctx)
	if info == nil {
		return ""
	}
	return info.ClientKey
}

// WithActor 는 인증된 사용자 ID 를 컨텍스트에 저장한다. 이벤트의 actor_id 로 쓰인다.
func WithActor(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKeyActor, userID)
}

func ActorFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(ctxKeyActor).(string)
	return v
}
