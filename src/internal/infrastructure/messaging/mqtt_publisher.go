package messaging

import (
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/jackyeh168/green_events/src/internal/domain/shared"
)

// DefaultMQTTTopicPrefix 預設 topic 前綴
const DefaultMQTTTopicPrefix = "greenevents"

// mqttClient mqtt.Client 中用到的方法
type mqttClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// MQTTPublisher 發布到 MQTT（QoS 1）
//
// topic：<prefix>/events/<event_id>/<event_type>，
// 讓場地看板可以只訂閱單一活動
type MQTTPublisher struct {
	client  mqttClient
	prefix  string
	timeout time.Duration
}

// NewMQTTPublisher 連線到 broker
func NewMQTTPublisher(broker, prefix string) (*MQTTPublisher, error) {
	clientID := fmt.Sprintf("greenevents-%d", time.Now().UnixNano())
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetOrderMatters(false)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.WaitTimeout(10*time.Second) && token.Error() != nil {
		return nil, fmt.Errorf("mqtt: connect to %s failed: %w", broker, token.Error())
	} else if !client.IsConnected() {
		return nil, fmt.Errorf("mqtt: connect to %s timed out", broker)
	}

	return newMQTTPublisher(client, prefix), nil
}

func newMQTTPublisher(client mqttClient, prefix string) *MQTTPublisher {
	if prefix == "" {
		prefix = DefaultMQTTTopicPrefix
	}
	return &MQTTPublisher{
		client:  client,
		prefix:  strings.TrimSuffix(prefix, "/"),
		timeout: 5 * time.Second,
	}
}

// Topic 事件對應的 topic
func (p *MQTTPublisher) Topic(env Envelope) string {
	return fmt.Sprintf("%s/events/%s/%s", p.prefix, topicSegment(env.eventIDOf()), env.EventType)
}

// topicSegment MQTT 的萬用字元與分隔符不能出現在 topic level
func topicSegment(s string) string {
	return strings.NewReplacer("/", "_", "+", "_", "#", "_").Replace(s)
}

func (p *MQTTPublisher) Publish(event shared.DomainEvent) error {
	env := NewEnvelope(event)
	body, err := env.Marshal()
	if err != nil {
		return fmt.Errorf("mqtt: marshal event failed: %w", err)
	}

	token := p.client.Publish(p.Topic(env), 1, false, body)
	if !token.WaitTimeout(p.timeout) {
		return fmt.Errorf("mqtt: publish %s timed out", env.EventType)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt: publish %s failed: %w", env.EventType, err)
	}
	return nil
}

func (p *MQTTPublisher) PublishBatch(events []shared.DomainEvent) error {
	return publishEach(p, events)
}

// Close 斷線（等待最多 250ms 讓佇列中的訊息送出）
func (p *MQTTPublisher) Close() error {
	p.client.Disconnect(250)
	return nil
}
