package validation

import (
	"fmt"
	"time"
)

// ValidatePort TCP/UDP 네트워크 포트 번호의 유효성을 검사합니다.
// 유효 범위는 1-65535이며, 범위를 벗어나면 에러를 반환합니다.
func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("포트 번호는 1-65535 범위여야 합니다 (입력값: %d)", port)
	}
	return nil
}

// ValidateDuration duration 문자열의 유효성을 검사합니다.
// Go 표준 time.ParseDuration이 허용하는 형식(예: "2s", "500ms", "1m30s")만 유효합니다.
func ValidateDuration(d string) error {
	if _, err := time.ParseDuration(d); err != nil {
		return fmt.Errorf("잘못된 duration 형식입니다: %q (예: 2s, 500ms, 1m)", d)
	}
	return nil
}
