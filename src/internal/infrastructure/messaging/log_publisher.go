package messaging

import (
	"errors"
	"log/slog"

	"github.com/jackyeh168/green_events/src/internal/domain/shared"
)

// LogPublisher 以結構化日誌輸出領域事件（永遠可用的預設 sink）
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher logger 為 nil 時使用 slog.Default()
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(event shared.DomainEvent) error {
	env := NewEnvelope(event)
	p.logger.Info("domain event",
		"event_type", env.EventType,
		"event_id", env.EventID,
		"aggregate_id", env.AggregateID,
		"data", env.Data,
	)
	return nil
}

func (p *LogPublisher) PublishBatch(events []shared.DomainEvent) error {
	return publishEach(p, events)
}

// publishEach 逐一發布，失敗不中斷，最後合併錯誤
func publishEach(p shared.EventPublisher, events []shared.DomainEvent) error {
	var errs []error
	for _, e := range events {
		if err := p.Publish(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
