// Package strutil 문자열 처리를 위한 유틸리티 함수들을 제공합니다.
package strutil

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
)

var (
	// HTML 태그 제거에 사용하는 정규식
	// < 다음에 영문자가 오는 경우만 태그로 인식하여 수학 기호(<) 오탐지를 방지합니다.
	// 예: "3 < 5"는 유지되고, "<br>"이나 "<b>"는 제거됩니다.
	htmlTagRegexp = regexp.MustCompile(`</?([a-zA-Z]+)[^>]*>`)

	// 가격 문자열에서 제거할 문자(쉼표, 공백, 통화 표기)를 매칭하는 정규식
	priceNoiseRegexp = regexp.MustCompile(`[,\s원₩]`)
)

// StripHTMLTags 문자열에서 HTML 태그를 제거하고, HTML 엔티티를 디코딩하여 순수한 텍스트를 반환합니다.
// 예: "<b>Hello</b> &amp; World" -> "Hello & World"
func StripHTMLTags(s string) string {
	stripped := htmlTagRegexp.ReplaceAllString(s, "")
	return html.UnescapeString(stripped)
}

// ParsePrice 쇼핑몰에서 수집한 가격 문자열을 정수(원 단위)로 변환합니다.
//
// 천 단위 구분 쉼표, 공백, "원"/"₩" 통화 표기를 제거한 후 파싱합니다.
// 예: "19,900원" -> 19900, "0원" -> 0
//
// 제거 후에도 숫자가 아닌 문자가 남아있거나 빈 문자열이면 에러를 반환합니다.
// 음수 가격은 유효하지 않은 데이터로 간주하여 에러를 반환합니다.
func ParsePrice(s string) (int, error) {
	cleaned := priceNoiseRegexp.ReplaceAllString(s, "")
	if cleaned == "" {
		return 0, fmt.Errorf("가격 문자열이 비어있습니다 (원본: %q)", s)
	}

	price, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, fmt.Errorf("가격 문자열을 숫자로 변환할 수 없습니다 (원본: %q): %w", s, err)
	}
	if price < 0 {
		return 0, fmt.Errorf("가격은 음수일 수 없습니다 (원본: %q)", s)
	}

	return price, nil
}

// NormalizeSpaces 문자열의 앞뒤 공백을 제거하고 연속된 공백을 하나로 축약합니다.
// 예: "  hello   world  " -> "hello world"
func NormalizeSpaces(s string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(s)), " ")
}

// SplitAndTrim 주어진 구분자로 문자열을 분리한 후, 각 항목의 앞뒤 공백을 제거하고
// 빈 문자열을 제외한 슬라이스를 반환합니다. 결과가 없으면 nil을 반환합니다.
// 예: "a, , b,c" (구분자 ",") -> ["a", "b", "c"]
func SplitAndTrim(s, sep string) []string {
	tokens := strings.Split(s, sep)

	result := make([]string, 0, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token != "" {
			result = append(result, token)
		}
	}

	if len(result) == 0 {
		return nil
	}

	return result
}

// Integer 모든 정수 타입을 포괄하는 제네릭 인터페이스
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// FormatCommas 숫자를 천 단위 구분 기호(,)가 포함된 문자열로 변환합니다.
// 알림 메시지에서 가격을 표시할 때 사용합니다.
// 예: 1234567 -> "1,234,567"
func FormatCommas[T Integer](num T) string {
	str := fmt.Sprintf("%d", num)

	startOffset := 0
	if strings.HasPrefix(str, "-") {
		startOffset = 1
	}

	// 콤마가 필요 없는 경우 (3자리 이하)
	if len(str)-startOffset <= 3 {
		return str
	}

	var builder strings.Builder

	commaCount := (len(str) - startOffset - 1) / 3
	builder.Grow(len(str) + commaCount)

	if startOffset == 1 {
		builder.WriteByte('-')
		str = str[1:]
	}

	firstGroupLen := len(str) % 3
	if firstGroupLen == 0 {
		firstGroupLen = 3
	}

	builder.WriteString(str[:firstGroupLen])

	for i := firstGroupLen; i < len(str); i += 3 {
		builder.WriteByte(',')
		builder.WriteString(str[i : i+3])
	}

	return builder.String()
}

// MaskSensitiveData 민감한 정보를 마스킹합니다.
// API 클라이언트 시크릿 등의 민감 정보를 안전하게 로깅하기 위해 사용합니다.
func MaskSensitiveData(data string) string {
	if data == "" {
		return ""
	}

	// 3자 이하는 전체 마스킹
	if len(data) <= 3 {
		return "***"
	}

	// 앞 4자만 표시하고 나머지는 마스킹
	if len(data) <= 12 {
		return data[:4] + "***"
	}

	// 긴 토큰은 앞 4자 + 마스킹 + 뒤 4자
	return data[:4] + "***" + data[len(data)-4:]
}
