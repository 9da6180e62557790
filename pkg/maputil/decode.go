// Package maputil 맵 데이터를 구조체로 변환하는 유틸리티를 제공합니다.
package maputil

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Option Decode의 동작을 제어하는 함수형 옵션입니다.
type Option func(*mapstructure.DecoderConfig)

// WithErrorUnused 대상 구조체에 없는 필드가 입력에 존재하면 에러를 반환하도록 설정합니다.
// 감시 작업 설정처럼 키의 오타가 조용히 무시되면 안 되는 입력에 사용합니다.
func WithErrorUnused() Option {
	return func(c *mapstructure.DecoderConfig) {
		c.ErrorUnused = true
	}
}

// Decode 맵이나 인터페이스 데이터를 타입 T의 구조체로 변환하여 반환합니다.
//
// 필드 매핑은 구조체의 json 태그를 기준으로 하며, 다음 변환을 지원합니다.
//   - 약한 타입 변환: "3" -> 3 (int), 1 -> true (bool)
//   - 기간 문자열: "10s" -> time.Duration
//   - 쉼표 구분 문자열: "a, b" -> []string{"a", "b"}
//   - 임베디드 구조체 평탄화
//
// 구조체에 정의되지 않은 필드는 기본적으로 무시됩니다. WithErrorUnused 옵션으로
// 이를 에러로 바꿀 수 있습니다.
func Decode[T any](input any, opts ...Option) (*T, error) {
	output := new(T)

	cfg := &mapstructure.DecoderConfig{
		Result:           output,
		TagName:          "json",
		WeaklyTypedInput: true,
		Squash:           true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			stringToDurationHookFunc(),
			stringToSliceHookFunc(),
		),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(input); err != nil {
		return nil, fmt.Errorf("입력 데이터를 %T(으)로 디코딩하는 데 실패하였습니다: %w", output, err)
	}

	return output, nil
}
