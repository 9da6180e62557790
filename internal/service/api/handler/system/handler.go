// Package system 헬스 체크와 버전 정보 엔드포인트의 핸들러를 제공합니다.
package system

import (
	"context"
	"net/http"
	"time"

	"github.com/giftdeum/gift-server/internal/pkg/version"
	"github.com/labstack/echo/v4"
)

// healthCheckTimeout 의존성 상태 확인의 최대 대기 시간입니다.
const healthCheckTimeout = 3 * time.Second

// Pinger 의존성의 연결 상태 확인 기능을 제공합니다. *sql.DB가 이를 만족합니다.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthResponse 헬스 체크 응답입니다.
type HealthResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// Handler 시스템 엔드포인트 핸들러입니다.
type Handler struct {
	buildInfo version.Info
	db        Pinger
}

// NewHandler 새로운 시스템 핸들러를 생성합니다. db는 nil일 수 있습니다.
func NewHandler(buildInfo version.Info, db Pinger) *Handler {
	return &Handler{
		buildInfo: buildInfo,
		db:        db,
	}
}

// Health 서버와 의존성의 상태를 반환합니다.
// 데이터베이스 연결에 실패한 경우 503 응답을 반환합니다.
func (h *Handler) Health(c echo.Context) error {
	resp := HealthResponse{
		Status:       "ok",
		Dependencies: map[string]string{},
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
		defer cancel()

		if err := h.db.PingContext(ctx); err != nil {
			resp.Status = "degraded"
			resp.Dependencies["database"] = "down"

			return c.JSON(http.StatusServiceUnavailable, resp)
		}
		resp.Dependencies["database"] = "ok"
	}

	return c.JSON(http.StatusOK, resp)
}

// Version 애플리케이션의 빌드 정보를 반환합니다.
func (h *Handler) Version(c echo.Context) error {
	return c.JSON(http.StatusOK, h.buildInfo)
}
