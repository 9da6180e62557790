// Package handler 요청 검증 등 핸들러 공통 기능을 제공합니다.
package handler

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator 초기화된 validator 인스턴스를 반환합니다.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()

		// 에러 메시지의 필드명으로 korean 태그 값을 사용한다.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			if koreanName := fld.Tag.Get("korean"); koreanName != "" {
				return koreanName
			}
			return fld.Name
		})
	})

	return validate
}

// ValidateRequest 구조체의 validation 태그를 기반으로 요청을 검증합니다.
func ValidateRequest(req any) error {
	return getValidator().Struct(req)
}

// FormatValidationError 검증 에러를 사용자 친화적인 한글 메시지로 변환합니다.
// 여러 에러가 있는 경우 첫 번째 에러만 반환합니다.
func FormatValidationError(err error) string {
	if err == nil {
		return ""
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return err.Error()
	}

	fieldErr := validationErrors[0]
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s는 필수입니다", fieldErr.Field())
	case "min":
		return fmt.Sprintf("%s는 최소 %s 이상이어야 합니다", fieldErr.Field(), fieldErr.Param())
	case "max":
		return fmt.Sprintf("%s는 최대 %s까지 입력 가능합니다", fieldErr.Field(), fieldErr.Param())
	case "oneof":
		return fmt.Sprintf("%s는 다음 값 중 하나이어야 합니다: %s", fieldErr.Field(), fieldErr.Param())
	default:
		return fmt.Sprintf("%s 검증 실패: %s", fieldErr.Field(), fieldErr.Tag())
	}
}
