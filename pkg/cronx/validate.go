package cronx

import (
	"fmt"
	"strings"
)

// Validate 주어진 Cron 표현식이 애플리케이션 표준 형식(6필드, 초 단위 포함)에
// 부합하는지 검증합니다. 유효하지 않은 경우 원인을 포함한 에러를 반환합니다.
func Validate(spec string) error {
	trimmed := strings.TrimSpace(spec)
	if trimmed == "" {
		return fmt.Errorf("Cron 표현식이 비어 있습니다")
	}

	if _, err := StandardParser().Parse(trimmed); err != nil {
		return fmt.Errorf("Cron 표현식 파싱 실패(spec=%q): %w", trimmed, err)
	}

	return nil
}
