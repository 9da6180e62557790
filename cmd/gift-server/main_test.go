package main

import (
	"strings"
	"testing"

	"github.com/giftdeum/gift-server/internal/config"
	"github.com/giftdeum/gift-server/internal/pkg/version"
	"github.com/stretchr/testify/assert"
)

func TestAppMetadata(t *testing.T) {
	t.Parallel()

	t.Run("AppName_검증", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "gift-server", config.AppName)
		assert.NotContains(t, config.AppName, " ", "애플리케이션 이름에는 공백이 포함될 수 없습니다")
	})

	t.Run("ConfigFileName_검증", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "gift-server.json", config.DefaultFilename)
	})

	t.Run("BuildInfo_검증", func(t *testing.T) {
		t.Parallel()

		info := version.Get()
		assert.NotEmpty(t, info.GoVersion)
		assert.NotEmpty(t, info.OS)
		assert.NotEmpty(t, info.Arch)
	})
}

func TestBanner(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, strings.Count(banner, "%s"), "배너에는 버전 치환자가 하나만 있어야 합니다")
}
