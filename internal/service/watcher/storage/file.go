// Package storage 감시 작업의 직전 검색 결과 스냅샷을 파일로 저장하고 읽어옵니다.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	applog "github.com/giftdeum/gift-server/pkg/log"

	"github.com/giftdeum/gift-server/pkg/concurrency"
)

// component 스냅샷 저장소 로깅용 컴포넌트 이름
const component = "watcher.storage"

// tempFilePattern 원자적 쓰기 과정에서 생성되는 임시 파일의 이름 패턴입니다.
const tempFilePattern = "watch-snapshot-*.tmp"

// SnapshotStore 감시 작업별 스냅샷의 저장과 조회 기능을 제공합니다.
type SnapshotStore interface {
	// Load 저장된 스냅샷을 v로 역직렬화합니다.
	// 스냅샷이 존재하지 않으면 ErrSnapshotNotFound를 반환합니다.
	Load(watchID string, v any) error

	// Save 스냅샷을 JSON 파일로 저장합니다.
	Save(watchID string, v any) error
}

// fileSnapshotStore 파일 시스템 기반의 스냅샷 저장소 구현체입니다.
//
// 저장 중 장애가 발생해도 기존 스냅샷이 손상되지 않도록
// "임시 파일 쓰기 → fsync → 원자적 rename" 방식으로 저장합니다.
type fileSnapshotStore struct {
	baseDir string

	// locks 동일한 파일에 대한 동시 읽기/쓰기 경합을 방지하는 파일별 뮤텍스입니다.
	locks *concurrency.KeyedMutex
}

var _ SnapshotStore = (*fileSnapshotStore)(nil)

// NewFileSnapshotStore 파일 시스템 기반의 스냅샷 저장소를 생성합니다.
// 초기화 과정에서 저장 디렉터리를 생성하여 접근 권한을 미리 확인합니다.
func NewFileSnapshotStore(dir string) (SnapshotStore, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, newErrDirectoryAccessFailed(err, dir)
	}

	if err := os.MkdirAll(absDir, 0755); err != nil {
		return nil, newErrDirectoryAccessFailed(err, absDir)
	}

	return &fileSnapshotStore{
		baseDir: absDir,

		locks: concurrency.NewKeyedMutex(),
	}, nil
}

// Load 저장된 스냅샷을 파일에서 읽어옵니다.
// 쓰기 중인 파일을 읽지 않도록 읽기에도 파일별 Lock을 적용합니다.
func (s *fileSnapshotStore) Load(watchID string, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return ErrLoadRequiresPointer
	}

	filename, err := s.resolveSafePath(watchID)
	if err != nil {
		return err
	}

	lockKey := strings.ToLower(filename)
	s.locks.Lock(lockKey)
	data, readErr := os.ReadFile(filename)
	s.locks.Unlock(lockKey)

	if readErr != nil {
		if os.IsNotExist(readErr) {
			return ErrSnapshotNotFound
		}
		return newErrSnapshotReadFailed(readErr)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return newErrSnapshotReadFailed(err)
	}

	return nil
}

// Save 스냅샷을 파일에 원자적으로 저장합니다.
func (s *fileSnapshotStore) Save(watchID string, v any) error {
	filename, err := s.resolveSafePath(watchID)
	if err != nil {
		return err
	}

	// 직렬화는 Lock 획득 전에 수행하여 Lock 보유 시간을 최소화한다.
	data, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return newErrSnapshotWriteFailed(err)
	}

	lockKey := strings.ToLower(filename)
	s.locks.Lock(lockKey)
	defer s.locks.Unlock(lockKey)

	return s.writeAtomic(filename, data)
}

// resolveSafePath 감시 작업 ID로부터 검증된 스냅샷 파일 경로를 생성합니다.
// 생성된 경로가 기본 디렉터리를 벗어나는 경우 에러를 반환합니다.
func (s *fileSnapshotStore) resolveSafePath(watchID string) (string, error) {
	filename := generateFilename(watchID)

	cleanPath := filepath.Clean(filepath.Join(s.baseDir, filename))

	rel, err := filepath.Rel(s.baseDir, cleanPath)
	if err != nil {
		return "", ErrPathTraversalDetected
	}

	if strings.HasPrefix(rel, "..") {
		applog.WithComponentAndFields(component, applog.Fields{
			"watch_id": watchID,
			"filename": filename,
			"base_dir": s.baseDir,
			"path":     cleanPath,
		}).Error("스냅샷 파일 경로가 저장 디렉터리를 벗어나 차단되었습니다.")

		return "", ErrPathTraversalDetected
	}

	return cleanPath, nil
}

// writeAtomic 데이터를 "임시 파일 쓰기 → fsync → rename" 순서로 원자적으로 저장합니다.
func (s *fileSnapshotStore) writeAtomic(filename string, data []byte) error {
	dir := filepath.Dir(filename)

	tmpFile, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return newErrSnapshotWriteFailed(err)
	}
	tmpPath := tmpFile.Name()

	// 파일 삭제는 닫기 이후에 수행되어야 한다.
	defer os.Remove(tmpPath)
	defer tmpFile.Close()

	if _, err := tmpFile.Write(data); err != nil {
		return newErrSnapshotWriteFailed(err)
	}

	// 운영체제 버퍼에만 기록된 상태에서의 데이터 유실을 방지한다.
	if err := tmpFile.Sync(); err != nil {
		return newErrSnapshotWriteFailed(err)
	}

	if err := tmpFile.Close(); err != nil {
		return newErrSnapshotWriteFailed(err)
	}

	if err := os.Rename(tmpPath, filename); err != nil {
		return newErrSnapshotWriteFailed(err)
	}

	return nil
}
