package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSort_Valid(t *testing.T) {
	tests := []struct {
		name string
		sort Sort
		want bool
	}{
		{"정확도순", SortRelevance, true},
		{"날짜순", SortNewest, true},
		{"가격 오름차순", SortPriceAsc, true},
		{"가격 내림차순", SortPriceDesc, true},
		{"지원되지 않는 값", Sort("price"), false},
		{"빈 값", Sort(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sort.Valid())
		})
	}
}

func TestExternalProductRecord_HasExternalID(t *testing.T) {
	t.Run("파트너 API 출처의 레코드는 외부 식별자를 가진다", func(t *testing.T) {
		record := &ExternalProductRecord{Title: "머그컵", NaverProductID: "8712345"}
		assert.True(t, record.HasExternalID())
	})

	t.Run("스크래핑 출처의 레코드는 외부 식별자가 없다", func(t *testing.T) {
		record := &ExternalProductRecord{Title: "머그컵"}
		assert.False(t, record.HasExternalID())
	})
}
