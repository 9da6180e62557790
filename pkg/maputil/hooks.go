package maputil

import (
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// durationType 훅의 대상 타입 판별에 사용합니다.
var durationType = reflect.TypeOf(time.Duration(0))

// stringToDurationHookFunc "10s", "500ms" 형식의 문자열을 time.Duration으로 변환합니다.
//
// 대상 타입이 정확히 time.Duration인 경우에만 동작합니다. time.Duration의 별칭을
// 포함한 다른 int64 타입은 숫자로 해석되어야 하므로 변환하지 않습니다.
func stringToDurationHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t != durationType {
			return data, nil
		}

		d, err := time.ParseDuration(strings.TrimSpace(reflect.ValueOf(data).String()))
		if err != nil {
			// 파싱에 실패하면 기본 변환 로직에 맡긴다.
			return data, nil
		}

		return d, nil
	}
}

// stringToSliceHookFunc 쉼표(,)로 구분된 문자열을 슬라이스로 변환합니다.
// 각 요소의 앞뒤 공백은 제거됩니다.
//
// []byte는 바이너리 데이터이므로 쪼개지 않고 기본 변환 로직에 맡깁니다.
func stringToSliceHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		if t.Kind() != reflect.Slice && t.Kind() != reflect.Array {
			return data, nil
		}
		if t.Elem().Kind() == reflect.Uint8 {
			return data, nil
		}

		s := reflect.ValueOf(data).String()
		if s == "" {
			return []string{}, nil
		}

		parts := strings.Split(s, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		return parts, nil
	}
}
