// Package logger 는 post-board 바이너리(api, activity)가 공유하는 gookit/slog JSON 로거다.
package logger

import (
	"os"
	"strings"

	"github.com/gookit/slog"
	"github.com/gookit/slog/handler"
)

// Logger 는 애플리케이션 전역에서 사용하는 최소 로거 인터페이스다.
type Logger interface {
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Fields 는 구조화 로그를 위한 공통 필드 타입이다.
type Fields map[string]any

// Log 는 전역 로거 인스턴스다. Init 전에는 info 레벨로 동작한다.
var Log Logger = NewLogger("info")

// service 는 모든 *WithFields 로그에 붙는 service_name 이다.
var service = "post-board"

// Init 은 바이너리 이름과 설정의 로그 레벨로 전역 로거를 초기화한다.
// SERVICE_NAME 환경변수가 있으면 name 보다 우선한다.
func Init(name, level string) {
	service = resolveService(os.Getenv("SERVICE_NAME"), name)
	Log = NewLogger(resolveLevel(level))
}

// Service returns the service_name attached to structured logs.
func Service() string { return service }

func resolveService(env, name string) string {
	if env = strings.TrimSpace(env); env != "" {
		return env
	}
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return "post-board"
}

// resolveLevel 은 알 수 없는 레벨 이름을 info 로 취급한다.
func resolveLevel(level string) string {
	level = strings.ToLower(strings.TrimSpace(level))
	switch level {
	case "trace", "debug", "info", "notice", "warn", "warning", "error", "fatal", "panic":
		if level == "warning" {
			return "warn"
		}
		return level
	default:
		return "info"
	}
}

// NewLogger 는 주어진 레벨 이상만 출력하는 JSON 콘솔 로거를 생성한다.
func NewLogger(level string) Logger {
	logLevel := slog.LevelByName(resolveLevel(level))

	var levels slog.Levels
	for _, lv := range slog.AllLevels {
		if lv <= logLevel {
			levels = append(levels, lv)
		}
	}

	h := handler.NewConsoleHandler(levels)
	// datetime/level/message 외의 정보는 Fields 로만 출력한다.
	formatter := slog.NewJSONFormatter(func(f *slog.JSONFormatter) {
		f.Fields = []string{
			slog.FieldKeyDatetime,
			slog.FieldKeyLevel,
			slog.FieldKeyMessage,
		}
		f.Aliases = slog.StringMap{
			slog.FieldKeyDatetime: "ts",
			slog.FieldKeyLevel:    "level",
			slog.FieldKeyMessage:  "msg",
		}
		f.TimeFormat = "2006-01-02T15:04:05.000Z07:00"
	})
	h.SetFormatter(formatter)

	return slog.NewWithHandlers(h)
}

// enrich 는 service_name 을 채운 복사본을 반환한다. 호출자의 map 은 건드리지 않는다.
func enrich(fields Fields) Fields {
	out := make(Fields, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	if _, ok := out["service_name"]; !ok {
		out["service_name"] = service
	}
	return out
}

func logWithFields(level slog.Level, msg string, fields Fields) {
	lg, ok := Log.(*slog.Logger)
	if !ok {
		switch level {
		case slog.DebugLevel:
			Log.Debug(msg)
		case slog.WarnLevel:
			Log.Warn(msg)
		case slog.ErrorLevel:
			Log.Error(msg)
		default:
			Log.Info(msg)
		}
		return
	}
	lg.WithFields(slog.M(enrich(fields))).Log(level, msg)
}

// InfoWithFields 는 request_id 등 구조화 필드를 포함한 JSON 로그를 출력한다.
func InfoWithFields(msg string, fields Fields) { logWithFields(slog.InfoLevel, msg, fields) }

func DebugWithFields(msg string, fields Fields) { logWithFields(slog.DebugLevel, msg, fields) }

func WarnWithFields(msg string, fields Fields) { logWithFields(slog.WarnLevel, msg, fields) }

func ErrorWithFields(msg string, fields Fields) { logWithFields(slog.ErrorLevel, msg, fields) }
