// Package service 애플리케이션을 구성하는 장기 실행 서비스의 공통 생명주기를 정의합니다.
package service

import (
	"context"
	"sync"
)

// Service 시작과 종료의 생명주기를 가지는 장기 실행 서비스입니다.
//
// 모든 서비스는 serviceStopCtx가 취소되면 진행 중인 작업을 정리한 후
// serviceStopWG의 카운트를 감소시켜 종료를 알려야 합니다.
type Service interface {
	Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error
}
