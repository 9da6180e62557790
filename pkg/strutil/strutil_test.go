package strutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStripHTMLTags HTML 태그 제거와 엔티티 디코딩을 검증합니다.
func TestStripHTMLTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"빈 문자열", "", ""},
		{"태그 없음", "사과 선물세트", "사과 선물세트"},
		{"검색어 강조 태그", "<b>apple</b>", "apple"},
		{"중첩 태그", "<b>사과</b> <i>선물</i>세트", "사과 선물세트"},
		{"속성이 있는 태그", `<a href="http://example.com">링크</a>`, "링크"},
		{"HTML 엔티티", "A &amp; B", "A & B"},
		{"수학 기호는 유지", "3 < 5", "3 < 5"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, StripHTMLTags(tt.input))
		})
	}
}

// TestParsePrice 쇼핑몰 가격 문자열의 정수 변환을 검증합니다.
func TestParsePrice(t *testing.T) {
	t.Parallel()

	t.Run("성공 케이스", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			input    string
			expected int
		}{
			{"19,900원", 19900},
			{"0원", 0},
			{"1,234,000", 1234000},
			{"5000", 5000},
			{"₩12,000", 12000},
			{" 9,900 원 ", 9900},
		}

		for _, tt := range tests {
			got, err := ParsePrice(tt.input)
			require.NoError(t, err, "입력값: %q", tt.input)
			assert.Equal(t, tt.expected, got, "입력값: %q", tt.input)
		}
	})

	t.Run("실패 케이스", func(t *testing.T) {
		t.Parallel()

		for _, input := range []string{"", "가격문의", "12.900원", "1,2a00", "-1000원"} {
			_, err := ParsePrice(input)
			assert.Error(t, err, "입력값: %q", input)
		}
	})
}

// TestNormalizeSpaces 공백 정규화를 검증합니다.
func TestNormalizeSpaces(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "hello world", NormalizeSpaces("  hello   world  "))
	assert.Equal(t, "", NormalizeSpaces("   "))
}

// TestSplitAndTrim 구분자 분리와 공백/빈 항목 제거를 검증합니다.
func TestSplitAndTrim(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b", "c"}, SplitAndTrim("a, , b,c", ","))
	assert.Nil(t, SplitAndTrim("", ","))
	assert.Nil(t, SplitAndTrim(" , , ", ","))
}

// TestFormatCommas 천 단위 구분 기호 삽입을 검증합니다.
func TestFormatCommas(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0", FormatCommas(0))
	assert.Equal(t, "999", FormatCommas(999))
	assert.Equal(t, "1,000", FormatCommas(1000))
	assert.Equal(t, "1,234,567", FormatCommas(1234567))
	assert.Equal(t, "-19,900", FormatCommas(-19900))
}

// TestMaskSensitiveData 민감 정보 마스킹 규칙을 검증합니다.
func TestMaskSensitiveData(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", MaskSensitiveData(""))
	assert.Equal(t, "***", MaskSensitiveData("abc"))
	assert.Equal(t, "abcd***", MaskSensitiveData("abcdefgh"))
	assert.Equal(t, "abcd***wxyz", MaskSensitiveData("abcdefghijklmnopqrstuvwxyz"))
}

// TestKeywordMatcher_Match 포함/제외 키워드 매칭 규칙을 검증합니다.
func TestKeywordMatcher_Match(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		included []string
		excluded []string
		target   string
		expected bool
	}{
		{"조건 없음", nil, nil, "아이폰 케이스", true},
		{"포함 키워드 일치", []string{"케이스"}, nil, "아이폰 케이스", true},
		{"포함 키워드 불일치", []string{"충전기"}, nil, "아이폰 케이스", false},
		{"제외 키워드 일치", nil, []string{"중고"}, "중고 아이폰", false},
		{"대소문자 무시", []string{"APPLE"}, nil, "apple watch", true},
		{"포함+제외 복합", []string{"선물"}, []string{"리퍼"}, "선물용 리퍼 상품", false},
		{"빈 키워드 무시", []string{" ", ""}, nil, "아무거나", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := NewKeywordMatcher(tt.included, tt.excluded)
			assert.Equal(t, tt.expected, m.Match(tt.target))
		})
	}
}
