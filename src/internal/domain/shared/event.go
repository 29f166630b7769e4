package shared

import "time"

// DomainEvent 領域事件基礎介面
type DomainEvent interface {
	EventID() string       // 事件唯一標識
	EventType() string     // 事件類型，例如 "checkin.checked_in"
	OccurredAt() time.Time // 發生時間
	AggregateID() string   // 聚合根 ID
}

// PayloadCarrier 可序列化事件內容的領域事件
//
// 發布器（AMQP / MQTT）以 Payload() 組成訊息 body 的 data 欄位。
type PayloadCarrier interface {
	Payload() map[string]interface{}
}

// EventPublisher 事件發布器介面
// 介面定義在 Domain Layer，由 Infrastructure 實作
type EventPublisher interface {
	Publish(event DomainEvent) error
	PublishBatch(events []DomainEvent) error
}
