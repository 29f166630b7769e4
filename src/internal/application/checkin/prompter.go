package checkin

import (
	"context"

	"github.com/jackyeh168/green_events/src/internal/domain/points"
)

// PromptRequest 簽退時詢問操作員的資訊
type PromptRequest struct {
	AttendeeID string
	EventID    string
	EventTitle string
	Ceiling    points.RewardCeiling
}

// PointsPrompter 向操作員取得本次發放的積分（原始文字，由 Use Case 驗證）
//
// 實作可能阻塞（等待終端機輸入），必須遵守 ctx 取消
type PointsPrompter interface {
	PromptPoints(ctx context.Context, req PromptRequest) (string, error)
}

// StaticPrompter 事先提供的輸入（HTTP 請求欄位、攝影機工作階段預設值）
type StaticPrompter string

// PromptPoints 返回固定文字
func (s StaticPrompter) PromptPoints(ctx context.Context, _ PromptRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return string(s), nil
}

// PromptFunc 函數形式的 PointsPrompter
type PromptFunc func(ctx context.Context, req PromptRequest) (string, error)

// PromptPoints 呼叫 f
func (f PromptFunc) PromptPoints(ctx context.Context, req PromptRequest) (string, error) {
	return f(ctx, req)
}
