package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackyeh168/green_events/src/internal/domain/checkin"
)

// DefaultInterval 攝影機輪詢間隔（約 10 fps）
const DefaultInterval = 100 * time.Millisecond

// PayloadHandler 辨識到合法 payload 後執行的狀態轉換
type PayloadHandler func(ctx context.Context, payload checkin.Payload) error

// Camera 攝影機模式的輪詢器
//
// 每個 tick 最多解碼一張影格，不會同時進行兩次解碼；
// 第一個合法 payload 出現後停止輪詢，執行 handler 並返回
type Camera struct {
	Decoder  *Decoder
	Interval time.Duration // 0 → DefaultInterval
	Lease    DeviceLease   // nil → 不檢查獨占
	Device   string        // 租約使用的裝置識別
	Logger   *slog.Logger
}

// Run 持有攝影機直到一次掃描完成、ctx 取消或來源失敗
//
// 無論以何種方式結束（包含 panic），source 與租約都會被釋放。
// 返回值：
// - handler 的結果
// - ctx.Err()（使用者停止）
// - 包裝 ErrCameraUnavailable 的錯誤（取得租約或讀取影格失敗）
func (c *Camera) Run(ctx context.Context, source FrameSource, handle PayloadHandler) error {
	defer source.Close()

	if c.Lease != nil {
		release, err := c.Lease.Acquire(ctx, c.Device)
		if err != nil {
			if errors.Is(err, ErrCameraUnavailable) {
				return err
			}
			return fmt.Errorf("%w: %v", ErrCameraUnavailable, err)
		}
		defer release()
	}

	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	decoder := c.Decoder
	if decoder == nil {
		decoder = NewDecoder()
	}
	interval := c.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		frame, err := source.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: %v", ErrCameraUnavailable, err)
		}

		text, err := decoder.Decode(frame)
		if err != nil {
			continue
		}

		payload, err := checkin.DecodePayload(text)
		if err != nil {
			logger.Debug("skipping frame with invalid payload", "device", c.Device, "error", err)
			continue
		}

		logger.Info("qr payload detected",
			"device", c.Device,
			"attendee_id", payload.AttendeeID.String(),
			"event_id", payload.EventID.String(),
		)
		return handle(ctx, payload)
	}
}
