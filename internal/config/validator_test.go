package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTelegramBotToken(t *testing.T) {
	t.Parallel()

	type tokenHolder struct {
		Token string `validate:"telegram_bot_token"`
	}

	tests := []struct {
		name    string
		token   string
		isValid bool
	}{
		{name: "표준 형식", token: "123456789:ABC-DEF1234ghIkl-zyx57W2v1u123ew11", isValid: true},
		{name: "콜론 누락", token: "123456789ABCDEF1234ghIklzyx57W2v1u123ew11", isValid: false},
		{name: "식별자가 숫자가 아님", token: "abcdef:ABC-DEF1234ghIkl-zyx57W2v1u123ew11", isValid: false},
		{name: "비밀키가 너무 짧음", token: "123456789:short", isValid: false},
		{name: "빈 문자열", token: "", isValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validate.Struct(tokenHolder{Token: tt.token})
			if tt.isValid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateCORSOriginTag(t *testing.T) {
	t.Parallel()

	type originHolder struct {
		Origin string `validate:"cors_origin"`
	}

	assert.NoError(t, validate.Struct(originHolder{Origin: "https://giftdeum.kr"}))
	assert.Error(t, validate.Struct(originHolder{Origin: "https://giftdeum.kr/path"}))
}

func TestCheckUniqueField(t *testing.T) {
	t.Parallel()

	type item struct {
		ID string
	}

	t.Run("유일한 ID 목록은 통과한다", func(t *testing.T) {
		t.Parallel()

		err := checkUniqueField([]item{{ID: "a"}, {ID: "b"}}, "ID", "Watch")
		assert.NoError(t, err)
	})

	t.Run("중복된 ID가 있으면 에러를 반환한다", func(t *testing.T) {
		t.Parallel()

		err := checkUniqueField([]item{{ID: "a"}, {ID: "a"}}, "ID", "Watch")
		assert.ErrorContains(t, err, "중복된 Watch ID")
	})
}
