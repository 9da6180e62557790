package api

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/giftdeum/gift-server/internal/config"
	"github.com/giftdeum/gift-server/internal/model"
	"github.com/giftdeum/gift-server/internal/pkg/version"
	"github.com/giftdeum/gift-server/internal/service/product"
	"github.com/giftdeum/gift-server/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const serverStartTimeout = 3 * time.Second

type stubProductProvider struct{}

func (p *stubProductProvider) FindMany(_ context.Context, query string, _ int, _ model.Sort) (*product.ProductPage, error) {
	return &product.ProductPage{
		Products: []*model.Product{
			{ID: 1, Title: query + " 상품", Price: 10000},
		},
		PageSize:   20,
		Total:      1,
		TotalPages: 1,
	}, nil
}

func (p *stubProductProvider) GetProducts(_ context.Context, query string, _, _ int64, _ []int64) (*product.Recommendation, error) {
	return &product.Recommendation{Keyword: query}, nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) NotifyDefaultWithError(message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

func newTestAppConfig(t *testing.T) *config.AppConfig {
	t.Helper()

	port := testutil.FreePort(t)

	return &config.AppConfig{
		API: config.APIConfig{
			WS:   config.WSConfig{ListenPort: port},
			CORS: config.CORSConfig{AllowOrigins: []string{"*"}},
		},
	}
}

func startService(t *testing.T, s *Service) (stop func()) {
	t.Helper()

	serviceStopCtx, cancel := context.WithCancel(context.Background())
	serviceStopWG := &sync.WaitGroup{}

	serviceStopWG.Add(1)
	require.NoError(t, s.Start(serviceStopCtx, serviceStopWG))

	return func() {
		cancel()
		serviceStopWG.Wait()
	}
}

func TestService_Lifecycle(t *testing.T) {
	appConfig := newTestAppConfig(t)
	port := appConfig.API.WS.ListenPort

	s := NewService(appConfig, &stubProductProvider{}, nil, nil, version.Info{Version: "test"})

	stop := startService(t, s)
	defer stop()

	testutil.WaitListening(t, port, serverStartTimeout)

	t.Run("헬스_체크_엔드포인트가_응답한다", func(t *testing.T) {
		resp, err := http.Get(fmt.Sprintf("http://localhost:%d/health", port))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("버전_엔드포인트가_빌드_정보를_반환한다", func(t *testing.T) {
		resp, err := http.Get(fmt.Sprintf("http://localhost:%d/version", port))
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var info version.Info
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
		assert.Equal(t, "test", info.Version)
	})

	t.Run("상품_검색_엔드포인트가_응답한다", func(t *testing.T) {
		resp, err := http.Get(fmt.Sprintf("http://localhost:%d/api/v1/products?query=%s", port, "lego"))
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var page product.ProductPage
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
		require.Len(t, page.Products, 1)
		assert.Equal(t, "lego 상품", page.Products[0].Title)
	})
}

func TestService_Lifecycle_TLS(t *testing.T) {
	certFile, keyFile := testutil.SelfSignedCert(t)

	appConfig := newTestAppConfig(t)
	appConfig.API.WS.TLSServer = true
	appConfig.API.WS.TLSCertFile = certFile
	appConfig.API.WS.TLSKeyFile = keyFile
	port := appConfig.API.WS.ListenPort

	s := NewService(appConfig, &stubProductProvider{}, nil, nil, version.Info{})

	stop := startService(t, s)
	defer stop()

	testutil.WaitListening(t, port, serverStartTimeout)

	client := &http.Client{
		Transport: &http.Transport{
			// 자체 서명 인증서를 사용하므로 검증을 생략한다.
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}

	resp, err := client.Get(fmt.Sprintf("https://localhost:%d/health", port))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestService_StartupFailureNotifiesError(t *testing.T) {
	appConfig := newTestAppConfig(t)
	port := appConfig.API.WS.ListenPort

	// 포트를 선점하여 서버 시작이 실패하도록 만든다.
	occupied := NewService(appConfig, &stubProductProvider{}, nil, nil, version.Info{})
	stopOccupied := startService(t, occupied)
	defer stopOccupied()
	testutil.WaitListening(t, port, serverStartTimeout)

	notifier := &recordingNotifier{}
	conflicting := NewService(appConfig, &stubProductProvider{}, nil, notifier, version.Info{})

	serviceStopCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	serviceStopWG := &sync.WaitGroup{}

	serviceStopWG.Add(1)
	require.NoError(t, conflicting.Start(serviceStopCtx, serviceStopWG))

	// 포트 바인딩 실패 시 종료 신호 없이도 서비스 고루틴이 스스로 정리되어야 한다.
	serviceStopWG.Wait()

	assert.Equal(t, 1, notifier.count())
}

func TestNewService_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		NewService(nil, &stubProductProvider{}, nil, nil, version.Info{})
	})
	assert.Panics(t, func() {
		NewService(&config.AppConfig{}, nil, nil, nil, version.Info{})
	})
}
