package checkin

import (
	"log/slog"

	"github.com/jackyeh168/green_events/src/internal/domain/shared"
)

// publishEvents 發布已提交的領域事件
//
// 狀態已寫入資料庫，發布失敗只記錄日誌，不影響掃描結果
func publishEvents(publisher shared.EventPublisher, logger *slog.Logger, events []shared.DomainEvent) {
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.PublishBatch(events); err != nil {
		logger.Warn("failed to publish domain events",
			"count", len(events),
			"error", err,
		)
	}
}
