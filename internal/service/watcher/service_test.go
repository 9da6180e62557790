package watcher

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/giftdeum/gift-server/internal/config"
	"github.com/giftdeum/gift-server/internal/model"
	apperrors "github.com/giftdeum/gift-server/internal/pkg/errors"
	"github.com/giftdeum/gift-server/internal/service/product"
	"github.com/giftdeum/gift-server/internal/service/watcher/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProductFinder struct {
	pages map[int]*product.ProductPage
	err   error

	gotQuery string
	gotSorts []model.Sort
	calls    int
}

func (f *fakeProductFinder) FindMany(_ context.Context, query string, page int, sort model.Sort) (*product.ProductPage, error) {
	f.calls++
	f.gotQuery = query
	f.gotSorts = append(f.gotSorts, sort)

	if f.err != nil {
		return nil, f.err
	}

	result, ok := f.pages[page]
	if !ok {
		return &product.ProductPage{}, nil
	}
	return result, nil
}

type fakeSnapshotStore struct {
	saved map[string][]byte
}

func newFakeSnapshotStore() *fakeSnapshotStore {
	return &fakeSnapshotStore{saved: make(map[string][]byte)}
}

func (f *fakeSnapshotStore) Load(watchID string, v any) error {
	data, ok := f.saved[watchID]
	if !ok {
		return storage.ErrSnapshotNotFound
	}
	return json.Unmarshal(data, v)
}

func (f *fakeSnapshotStore) Save(watchID string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	f.saved[watchID] = data
	return nil
}

type sentNotification struct {
	notifierID    string
	title         string
	message       string
	errorOccurred bool
}

type fakeSender struct {
	sent []sentNotification
}

func (f *fakeSender) NotifyWithTitle(notifierID, title, message string, errorOccurred bool) error {
	f.sent = append(f.sent, sentNotification{
		notifierID:    notifierID,
		title:         title,
		message:       message,
		errorOccurred: errorOccurred,
	})
	return nil
}

func (f *fakeSender) NotifyDefault(message string) error {
	return f.NotifyWithTitle("", "", message, false)
}

func (f *fakeSender) NotifyDefaultWithError(message string) error {
	return f.NotifyWithTitle("", "", message, true)
}

func pageOf(products ...*model.Product) *product.ProductPage {
	return &product.ProductPage{
		Products:   products,
		PageSize:   len(products),
		Total:      len(products),
		TotalPages: 1,
	}
}

func productWithID(naverProductID, title string, price int64) *model.Product {
	return &model.Product{
		Title:          title,
		Price:          price,
		Link:           "https://example.com/" + naverProductID,
		NaverProductID: &naverProductID,
	}
}

func newTestService(finder ProductFinder, snapshots storage.SnapshotStore, sender *fakeSender) *Service {
	return NewService(&config.WatcherConfig{}, finder, snapshots, sender)
}

func TestService_RunWatch(t *testing.T) {
	t.Parallel()

	watch := &config.WatchConfig{
		ID:         "lego-watch",
		Title:      "레고 감시",
		Query:      "레고",
		NotifierID: "admin",
	}
	settings := &watchSettings{Sort: "sim", PageLimit: 1}

	t.Run("첫_실행은_스냅샷만_저장하고_알림을_보내지_않는다", func(t *testing.T) {
		t.Parallel()

		finder := &fakeProductFinder{pages: map[int]*product.ProductPage{
			1: pageOf(productWithID("1", "레고 클래식", 30000)),
		}}
		snapshots := newFakeSnapshotStore()
		sender := &fakeSender{}

		s := newTestService(finder, snapshots, sender)

		err := s.runWatch(context.Background(), watch, settings)
		require.NoError(t, err)

		assert.Empty(t, sender.sent)
		assert.Contains(t, snapshots.saved, "lego-watch")
		assert.Equal(t, "레고", finder.gotQuery)
		assert.Equal(t, []model.Sort{model.SortRelevance}, finder.gotSorts)
	})

	t.Run("신규_상품이_감지되면_알림을_발송한다", func(t *testing.T) {
		t.Parallel()

		finder := &fakeProductFinder{pages: map[int]*product.ProductPage{
			1: pageOf(
				productWithID("1", "레고 클래식", 30000),
				productWithID("2", "레고 시티", 50000),
			),
		}}
		snapshots := newFakeSnapshotStore()
		require.NoError(t, snapshots.Save("lego-watch", Snapshot{
			Query: "레고",
			Items: []SnapshotItem{
				{Key: "naver:1", Title: "레고 클래식", Price: 30000},
			},
		}))
		sender := &fakeSender{}

		s := newTestService(finder, snapshots, sender)

		err := s.runWatch(context.Background(), watch, settings)
		require.NoError(t, err)

		require.Len(t, sender.sent, 1)
		assert.Equal(t, "admin", sender.sent[0].notifierID)
		assert.Equal(t, "레고 감시", sender.sent[0].title)
		assert.Contains(t, sender.sent[0].message, "신규 상품 1건")
		assert.Contains(t, sender.sent[0].message, "레고 시티")
		assert.Contains(t, sender.sent[0].message, "50,000원")
		assert.False(t, sender.sent[0].errorOccurred)
	})

	t.Run("가격_인하가_감지되면_알림을_발송한다", func(t *testing.T) {
		t.Parallel()

		finder := &fakeProductFinder{pages: map[int]*product.ProductPage{
			1: pageOf(productWithID("1", "레고 클래식", 25000)),
		}}
		snapshots := newFakeSnapshotStore()
		require.NoError(t, snapshots.Save("lego-watch", Snapshot{
			Query: "레고",
			Items: []SnapshotItem{
				{Key: "naver:1", Title: "레고 클래식", Price: 30000},
			},
		}))
		sender := &fakeSender{}

		s := newTestService(finder, snapshots, sender)

		err := s.runWatch(context.Background(), watch, settings)
		require.NoError(t, err)

		require.Len(t, sender.sent, 1)
		assert.Contains(t, sender.sent[0].message, "가격 인하 1건")
		assert.Contains(t, sender.sent[0].message, "30,000원 → 25,000원")
	})

	t.Run("변동이_없으면_알림을_보내지_않는다", func(t *testing.T) {
		t.Parallel()

		finder := &fakeProductFinder{pages: map[int]*product.ProductPage{
			1: pageOf(productWithID("1", "레고 클래식", 30000)),
		}}
		snapshots := newFakeSnapshotStore()
		require.NoError(t, snapshots.Save("lego-watch", Snapshot{
			Query: "레고",
			Items: []SnapshotItem{
				{Key: "naver:1", Title: "레고 클래식", Price: 30000},
			},
		}))
		sender := &fakeSender{}

		s := newTestService(finder, snapshots, sender)

		err := s.runWatch(context.Background(), watch, settings)
		require.NoError(t, err)

		assert.Empty(t, sender.sent)
	})

	t.Run("가격_범위를_벗어난_상품은_제외된다", func(t *testing.T) {
		t.Parallel()

		finder := &fakeProductFinder{pages: map[int]*product.ProductPage{
			1: pageOf(
				productWithID("1", "레고 클래식", 5000),
				productWithID("2", "레고 시티", 50000),
				productWithID("3", "레고 테크닉", 500000),
			),
		}}
		snapshots := newFakeSnapshotStore()
		sender := &fakeSender{}

		rangedWatch := &config.WatchConfig{
			ID:       "ranged-watch",
			Query:    "레고",
			MinPrice: 10000,
			MaxPrice: 100000,
		}

		s := newTestService(finder, snapshots, sender)

		err := s.runWatch(context.Background(), rangedWatch, settings)
		require.NoError(t, err)

		var snapshot Snapshot
		require.NoError(t, snapshots.Load("ranged-watch", &snapshot))
		require.Len(t, snapshot.Items, 1)
		assert.Equal(t, "레고 시티", snapshot.Items[0].Title)
	})

	t.Run("키워드_조건에_맞지_않는_상품은_제외된다", func(t *testing.T) {
		t.Parallel()

		finder := &fakeProductFinder{pages: map[int]*product.ProductPage{
			1: pageOf(
				productWithID("1", "레고 클래식 정품", 30000),
				productWithID("2", "레고 호환 블록", 20000),
			),
		}}
		snapshots := newFakeSnapshotStore()
		sender := &fakeSender{}

		keywordWatch := &config.WatchConfig{
			ID:              "keyword-watch",
			Query:           "레고",
			ExcludeKeywords: []string{"호환"},
		}

		s := newTestService(finder, snapshots, sender)

		err := s.runWatch(context.Background(), keywordWatch, settings)
		require.NoError(t, err)

		var snapshot Snapshot
		require.NoError(t, snapshots.Load("keyword-watch", &snapshot))
		require.Len(t, snapshot.Items, 1)
		assert.Equal(t, "레고 클래식 정품", snapshot.Items[0].Title)
	})

	t.Run("검색_실패_시_오류를_반환하고_스냅샷을_보존한다", func(t *testing.T) {
		t.Parallel()

		finder := &fakeProductFinder{err: apperrors.New(apperrors.Unavailable, "검색 API가 응답하지 않습니다")}
		snapshots := newFakeSnapshotStore()
		require.NoError(t, snapshots.Save("lego-watch", Snapshot{Query: "레고"}))
		sender := &fakeSender{}

		s := newTestService(finder, snapshots, sender)

		err := s.runWatch(context.Background(), watch, settings)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.Unavailable))
		assert.Empty(t, sender.sent)
	})

	t.Run("설정된_페이지_수만큼_검색한다", func(t *testing.T) {
		t.Parallel()

		finder := &fakeProductFinder{pages: map[int]*product.ProductPage{
			1: {
				Products:   []*model.Product{productWithID("1", "레고 클래식", 30000)},
				TotalPages: 3,
			},
			2: {
				Products:   []*model.Product{productWithID("2", "레고 시티", 50000)},
				TotalPages: 3,
			},
		}}
		snapshots := newFakeSnapshotStore()
		sender := &fakeSender{}

		s := newTestService(finder, snapshots, sender)

		err := s.runWatch(context.Background(), watch, &watchSettings{Sort: "date", PageLimit: 2})
		require.NoError(t, err)

		assert.Equal(t, 2, finder.calls)
		assert.Equal(t, []model.Sort{model.SortNewest, model.SortNewest}, finder.gotSorts)

		var snapshot Snapshot
		require.NoError(t, snapshots.Load("lego-watch", &snapshot))
		assert.Len(t, snapshot.Items, 2)
	})

	t.Run("마지막_페이지에_도달하면_검색을_중단한다", func(t *testing.T) {
		t.Parallel()

		finder := &fakeProductFinder{pages: map[int]*product.ProductPage{
			1: pageOf(productWithID("1", "레고 클래식", 30000)),
		}}
		snapshots := newFakeSnapshotStore()
		sender := &fakeSender{}

		s := newTestService(finder, snapshots, sender)

		err := s.runWatch(context.Background(), watch, &watchSettings{Sort: "sim", PageLimit: 5})
		require.NoError(t, err)

		assert.Equal(t, 1, finder.calls)
	})
}

func TestWatchTitle(t *testing.T) {
	t.Parallel()

	t.Run("제목이_있으면_제목을_사용한다", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "레고 감시", watchTitle(&config.WatchConfig{Title: "레고 감시", Query: "레고"}))
	})

	t.Run("제목이_없으면_검색어로_제목을_만든다", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "상품 감시: 레고", watchTitle(&config.WatchConfig{Query: "레고"}))
	})
}

func TestNewService(t *testing.T) {
	t.Parallel()

	t.Run("필수_의존성이_없으면_패닉이_발생한다", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			NewService(nil, &fakeProductFinder{}, newFakeSnapshotStore(), &fakeSender{})
		})
		assert.Panics(t, func() {
			NewService(&config.WatcherConfig{}, nil, newFakeSnapshotStore(), &fakeSender{})
		})
		assert.Panics(t, func() {
			NewService(&config.WatcherConfig{}, &fakeProductFinder{}, nil, &fakeSender{})
		})
		assert.Panics(t, func() {
			NewService(&config.WatcherConfig{}, &fakeProductFinder{}, newFakeSnapshotStore(), nil)
		})
	})
}
