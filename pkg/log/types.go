// Package log logrus 기반의 전역 로깅 시스템을 제공합니다.
//
// 로그 레벨에 따라 메인/중요(Critical)/상세(Verbose) 파일로 분리 기록하며,
// lumberjack을 통해 파일 크기 기반 로테이션을 수행합니다.
// 애플리케이션 시작 시 Setup()을 호출하고, 반환된 Closer를 종료 시점에 닫아야 합니다.
package log

import (
	"github.com/sirupsen/logrus"
)

// Level logrus.Level의 별칭입니다.
type Level = logrus.Level

const (
	// PanicLevel 로그 기록 후 panic()을 호출합니다. 복구 불가능한 내부 오류에 사용합니다.
	PanicLevel Level = logrus.PanicLevel

	// FatalLevel 로그 기록 후 os.Exit(1)로 프로세스를 종료합니다.
	FatalLevel Level = logrus.FatalLevel

	// ErrorLevel 관리자의 개입이나 버그 수정이 필요한 에러 상황입니다.
	ErrorLevel Level = logrus.ErrorLevel

	// WarnLevel 당장 에러는 아니지만 주의가 필요한 상황입니다.
	WarnLevel Level = logrus.WarnLevel

	// InfoLevel 시스템의 정상적인 작동 흐름이나 상태 변화를 기록합니다.
	InfoLevel Level = logrus.InfoLevel

	// DebugLevel 개발 및 문제 해결을 위한 상세 정보를 기록합니다.
	DebugLevel Level = logrus.DebugLevel

	// TraceLevel Debug보다 더 세밀한 데이터 흐름을 추적합니다.
	TraceLevel Level = logrus.TraceLevel
)

// AllLevels logrus.AllLevels의 별칭입니다.
var AllLevels = logrus.AllLevels

// Fields logrus.Fields의 별칭입니다.
type Fields = logrus.Fields

// Entry logrus.Entry의 별칭입니다.
type Entry = logrus.Entry

// Logger logrus.Logger의 별칭입니다.
type Logger = logrus.Logger

// StandardLogger 전역 표준 로거를 반환합니다.
func StandardLogger() *Logger {
	return logrus.StandardLogger()
}

// Formatter logrus.Formatter의 별칭입니다.
type Formatter = logrus.Formatter
