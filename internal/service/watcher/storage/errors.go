package storage

import (
	apperrors "github.com/giftdeum/gift-server/internal/pkg/errors"
)

var (
	// ErrSnapshotNotFound 저장된 스냅샷이 존재하지 않을 때 반환되는 에러입니다.
	// 감시 작업의 첫 실행 시 정상적으로 발생합니다.
	ErrSnapshotNotFound = apperrors.New(apperrors.NotFound, "저장된 스냅샷을 찾을 수 없습니다")

	// ErrLoadRequiresPointer Load의 대상이 nil이 아닌 포인터가 아닐 때 반환되는 에러입니다.
	ErrLoadRequiresPointer = apperrors.New(apperrors.Internal, "스냅샷을 읽어올 대상은 nil이 아닌 포인터이어야 합니다")

	// ErrPathTraversalDetected 생성된 파일 경로가 기본 디렉터리를 벗어날 때 반환되는 에러입니다.
	ErrPathTraversalDetected = apperrors.New(apperrors.InvalidInput, "스냅샷 파일 경로가 저장 디렉터리를 벗어납니다")
)

func newErrSnapshotReadFailed(err error) error {
	return apperrors.Wrap(err, apperrors.System, "스냅샷 파일을 읽을 수 없습니다")
}

func newErrSnapshotWriteFailed(err error) error {
	return apperrors.Wrap(err, apperrors.System, "스냅샷 파일을 저장할 수 없습니다")
}

func newErrDirectoryAccessFailed(err error, dir string) error {
	return apperrors.Wrapf(err, apperrors.System, "스냅샷 저장 디렉터리에 접근할 수 없습니다(dir: %s)", dir)
}
