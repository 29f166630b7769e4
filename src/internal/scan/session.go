package scan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	appcheckin "github.com/jackyeh168/green_events/src/internal/application/checkin"
)

// ErrSessionBusy 攝影機掃描已在進行中
var ErrSessionBusy = errors.New("scan session already running")

// ===========================
// Session State（tagged variant）
// ===========================

// State 掃描器狀態：Idle | Scanning | Resolved | Failed
type State interface {
	Name() string
	isState()
}

// Idle 尚未開始或已停止
type Idle struct{}

// Scanning 攝影機輪詢中
type Scanning struct {
	StartedAt time.Time
}

// Resolved 最近一次掃描成功
type Resolved struct {
	Result *appcheckin.ScanResult
}

// Failed 最近一次掃描失敗
type Failed struct {
	Err error
}

func (Idle) Name() string     { return "idle" }
func (Scanning) Name() string { return "scanning" }
func (Resolved) Name() string { return "resolved" }
func (Failed) Name() string   { return "failed" }

func (Idle) isState()     {}
func (Scanning) isState() {}
func (Resolved) isState() {}
func (Failed) isState()   {}

// Session 單一掃描器的狀態與取消控制
type Session struct {
	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}
	exited chan struct{} // Launch 的背景 goroutine 結束時關閉
	gen    uint64        // 每次 Start 遞增，避免舊的背景掃描覆寫新狀態
	clock  func() time.Time
}

// NewSession 建立 Idle 狀態的 Session
func NewSession() *Session {
	return &Session{state: Idle{}, done: closedChan(), exited: closedChan(), clock: time.Now}
}

// State 目前狀態
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start Idle / Resolved / Failed → Scanning
//
// 返回的 ctx 在 Stop 時取消。錯誤：
// - ErrSessionBusy：已在 Scanning
// - 包裝 ErrCameraUnavailable：上一次因攝影機無法使用而失敗，需先 Stop 才能重新啟用
func (s *Session) Start(parent context.Context) (context.Context, error) {
	ctx, _, _, err := s.start(parent, false)
	return ctx, err
}

func (s *Session) start(parent context.Context, background bool) (context.Context, uint64, chan struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch st := s.state.(type) {
	case Scanning:
		return nil, 0, nil, ErrSessionBusy
	case Failed:
		if errors.Is(st.Err, ErrCameraUnavailable) {
			return nil, 0, nil, fmt.Errorf("%w: camera mode disabled until stopped (last error: %v)", ErrCameraUnavailable, st.Err)
		}
	}

	ctx, cancel := context.WithCancel(parent)
	s.gen++
	s.cancel = cancel
	s.done = make(chan struct{})
	if background {
		s.exited = make(chan struct{})
	} else {
		s.exited = closedChan()
	}
	s.state = Scanning{StartedAt: s.clock()}
	return ctx, s.gen, s.exited, nil
}

func closedChan() chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}

// Resolve Scanning → Resolved；Stop 之後到達的結果會被忽略
func (s *Session) Resolve(result *appcheckin.ScanResult) {
	s.finish(s.generation(), Resolved{Result: result})
}

// Fail Scanning → Failed；Stop 之後到達的錯誤會被忽略
func (s *Session) Fail(err error) {
	s.finish(s.generation(), Failed{Err: err})
}

func (s *Session) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

func (s *Session) finish(gen uint64, next State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, scanning := s.state.(Scanning); !scanning || gen != s.gen {
		return
	}
	s.state = next
	s.release()
}

// Stop 取消輪詢並回到 Idle，也會重新啟用因攝影機失敗而停用的 Session
//
// 會等待 Launch 的背景 goroutine 結束，返回時攝影機與租約都已釋放
func (s *Session) Stop() {
	s.mu.Lock()
	if _, scanning := s.state.(Scanning); scanning {
		s.release()
	}
	s.state = Idle{}
	exited := s.exited
	s.mu.Unlock()

	<-exited
}

// release 呼叫者需持有 mu
func (s *Session) release() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}

// Done 本次掃描結束時關閉
func (s *Session) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Launch 在背景執行 run，並依結果轉換狀態
//
// run 的 ctx 在 Stop 時取消；被取消的 run 不會覆寫 Idle。
// run 不可呼叫同一 Session 的 Stop。
func (s *Session) Launch(parent context.Context, run func(ctx context.Context) (*appcheckin.ScanResult, error)) error {
	ctx, gen, exited, err := s.start(parent, true)
	if err != nil {
		return err
	}

	go func() {
		defer close(exited)
		defer func() {
			if r := recover(); r != nil {
				s.finish(gen, Failed{Err: fmt.Errorf("scan aborted: %v", r)})
			}
		}()

		result, err := run(ctx)
		if err != nil {
			s.finish(gen, Failed{Err: err})
			return
		}
		s.finish(gen, Resolved{Result: result})
	}()
	return nil
}
