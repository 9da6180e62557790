package strutil

import "strings"

// KeywordMatcher 포함/제외 키워드 조건으로 문자열을 검사하는 매처입니다.
//
// 생성 시점에 키워드를 소문자로 전처리해 두므로, 동일한 키워드 셋으로
// 다수의 상품명을 검사하는 감시 작업에서 반복 비용이 발생하지 않습니다.
// 매칭은 대소문자를 구분하지 않습니다.
type KeywordMatcher struct {
	included []string
	excluded []string
}

// NewKeywordMatcher 주어진 포함/제외 키워드로 새로운 KeywordMatcher를 생성합니다.
// 빈 키워드는 무시됩니다.
func NewKeywordMatcher(included, excluded []string) *KeywordMatcher {
	m := &KeywordMatcher{}

	for _, keyword := range included {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword != "" {
			m.included = append(m.included, keyword)
		}
	}
	for _, keyword := range excluded {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword != "" {
			m.excluded = append(m.excluded, keyword)
		}
	}

	return m
}

// Match 대상 문자열이 키워드 조건을 만족하는지 검사합니다.
//
// 제외 키워드를 하나라도 포함하면 false, 포함 키워드가 지정된 경우
// 모든 포함 키워드가 존재해야 true를 반환합니다.
func (m *KeywordMatcher) Match(s string) bool {
	lowered := strings.ToLower(s)

	for _, keyword := range m.excluded {
		if strings.Contains(lowered, keyword) {
			return false
		}
	}
	for _, keyword := range m.included {
		if !strings.Contains(lowered, keyword) {
			return false
		}
	}

	return true
}
