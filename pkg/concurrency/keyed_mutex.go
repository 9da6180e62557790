// Package concurrency 동시성 제어를 위한 보조 도구를 제공합니다.
package concurrency

import (
	"sync"
)

// KeyedMutex 키 단위로 독립적인 잠금을 제공하는 구조체입니다.
// 서로 다른 키에 대한 임계 구역은 병렬로 실행될 수 있습니다.
// 키별 잠금은 참조 카운트로 관리되어, 대기자가 없어지면 맵에서 제거됩니다.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu       sync.Mutex
	refCount int
}

// NewKeyedMutex 새로운 KeyedMutex를 생성합니다.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		locks: make(map[string]*keyLock),
	}
}

// Lock 지정된 키에 대한 잠금을 획득합니다.
// 다른 고루틴이 같은 키를 잠그고 있으면 해제될 때까지 대기합니다.
func (km *KeyedMutex) Lock(key string) {
	km.mu.Lock()
	l, ok := km.locks[key]
	if !ok {
		l = &keyLock{}
		km.locks[key] = l
	}
	l.refCount++
	km.mu.Unlock()

	l.mu.Lock()
}

// Unlock 지정된 키에 대한 잠금을 해제합니다.
// 잠기지 않은 키에 대해 호출하면 패닉이 발생합니다.
func (km *KeyedMutex) Unlock(key string) {
	km.mu.Lock()
	defer km.mu.Unlock()

	l, ok := km.locks[key]
	if !ok {
		panic("잠기지 않은 키에 대한 잠금 해제 시도")
	}

	l.mu.Unlock()

	l.refCount--
	if l.refCount <= 0 {
		delete(km.locks, key)
	}
}
