package messaging

import (
	"encoding/json"
	"time"

	"github.com/jackyeh168/green_events/src/internal/domain/shared"
)

// Envelope 領域事件在訊息佇列上的 JSON 格式
type Envelope struct {
	EventID     string                 `json:"event_id"`
	EventType   string                 `json:"event_type"`
	AggregateID string                 `json:"aggregate_id"`
	OccurredAt  time.Time              `json:"occurred_at"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// NewEnvelope 包裝領域事件；實作 shared.PayloadCarrier 的事件附帶 data
func NewEnvelope(event shared.DomainEvent) Envelope {
	env := Envelope{
		EventID:     event.EventID(),
		EventType:   event.EventType(),
		AggregateID: event.AggregateID(),
		OccurredAt:  event.OccurredAt().UTC(),
	}
	if carrier, ok := event.(shared.PayloadCarrier); ok {
		env.Data = carrier.Payload()
	}
	return env
}

// Marshal 序列化為 JSON
func (e Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// eventIDOf 從 data 取出活動 ID（MQTT topic 使用）
func (e Envelope) eventIDOf() string {
	if v, ok := e.Data["event_id"].(string); ok && v != "" {
		return v
	}
	return "_"
}
