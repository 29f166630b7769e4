package scan

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrCameraUnavailable 無法取得攝影機（已被占用或串流無法開啟）
//
// 只停用該次攝影機模式，檔案模式仍可使用
var ErrCameraUnavailable = errors.New("camera unavailable")

// DeviceLease 攝影機的獨占使用權
//
// 同一裝置同時只能有一個掃描器持有；release 可重複呼叫
type DeviceLease interface {
	Acquire(ctx context.Context, device string) (release func(), err error)
}

// LocalLease 單一行程內的租約
type LocalLease struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewLocalLease 建立行程內租約
func NewLocalLease() *LocalLease {
	return &LocalLease{held: make(map[string]struct{})}
}

// Acquire 裝置已被占用時返回 ErrCameraUnavailable
func (l *LocalLease) Acquire(ctx context.Context, device string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, busy := l.held[device]; busy {
		return nil, fmt.Errorf("%w: device %q is in use", ErrCameraUnavailable, device)
	}
	l.held[device] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, device)
			l.mu.Unlock()
		})
	}, nil
}

// Held 裝置目前是否被占用
func (l *LocalLease) Held(device string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.held[device]
	return ok
}
