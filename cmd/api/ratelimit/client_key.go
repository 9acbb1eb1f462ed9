package ratelimit

import (
	"net"
	"net/http"
	"strings"
)

// ClientKey 는 X-Forwarded-For 의 첫 번째 값을, 없으면 연결 주소의 host 를 사용한다.
func ClientKey(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
