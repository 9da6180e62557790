package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	t.Parallel()

	info := Get()

	// ldflags 주입 여부와 무관하게 실행 환경 정보는 항상 채워져야 한다.
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS, info.OS)
	assert.Equal(t, runtime.GOARCH, info.Arch)

	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.Commit)
}

func TestInfo_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		info Info
		want string
	}{
		{
			name: "모든_정보가_있으면_요약_문자열을_반환한다",
			info: Info{
				Version:     "v1.2.3",
				Commit:      "0123456789abcdef",
				BuildDate:   "2026-08-31",
				BuildNumber: "42",
				GoVersion:   "go1.24.0",
			},
			want: "v1.2.3 (commit: 0123456, build: 42, date: 2026-08-31, go_version: go1.24.0)",
		},
		{
			name: "부가_정보가_없으면_버전만_반환한다",
			info: Info{Version: "v1.2.3", Commit: unknown},
			want: "v1.2.3",
		},
		{
			name: "짧은_커밋_해시는_그대로_사용한다",
			info: Info{Version: "dev", Commit: "abc1234"},
			want: "dev (commit: abc1234)",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.info.String())
		})
	}
}

func TestInfo_ToMap(t *testing.T) {
	t.Parallel()

	info := Info{
		Version:     "v1.0.0",
		Commit:      "abc1234",
		BuildDate:   "2026-08-31",
		BuildNumber: "7",
		GoVersion:   "go1.24.0",
		OS:          "linux",
		Arch:        "amd64",
	}

	m := info.ToMap()

	assert.Equal(t, "v1.0.0", m["version"])
	assert.Equal(t, "abc1234", m["commit"])
	assert.Equal(t, "7", m["build_number"])
	assert.Len(t, m, 7)
}
