// Package config 讀取執行期設定
//
// 先載入 .env（不存在時略過），再由環境變數覆蓋預設值。
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 執行期設定
type Config struct {
	HTTPPort int

	DatabaseDriver string
	DatabaseDSN    string
	DatabaseDebug  bool

	JWTSecret   string
	JWTTokenTTL time.Duration

	LogLevel    string
	LogFormat   string
	CORSOrigins []string

	SettlementAtomic bool
	ScanInterval     time.Duration

	EventSinks      []string
	AMQPURL         string
	AMQPQueue       string
	MQTTBroker      string
	MQTTTopicPrefix string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	LeaseTTL      time.Duration
}

// 事件輸出端
const (
	SinkLog  = "log"
	SinkAMQP = "amqp"
	SinkMQTT = "mqtt"
)

var defaults = map[string]any{
	"HTTP_PORT":         8080,
	"DATABASE_DRIVER":   "sqlite",
	"DATABASE_DSN":      "data/greenevents.db",
	"DATABASE_DEBUG":    false,
	"JWT_SECRET":        "",
	"JWT_TOKEN_TTL":     "12h",
	"LOG_LEVEL":         "info",
	"LOG_FORMAT":        "text",
	"CORS_ORIGINS":      "*",
	"SETTLEMENT_ATOMIC": false,
	"SCAN_INTERVAL":     "100ms",
	"EVENT_SINKS":       SinkLog,
	"AMQP_URL":          "",
	"AMQP_QUEUE":        "checkin.events",
	"MQTT_BROKER":       "",
	"MQTT_TOPIC_PREFIX": "greenevents",
	"REDIS_ADDR":        "",
	"REDIS_PASSWORD":    "",
	"REDIS_DB":          0,
	"LEASE_TTL":         "30s",
}

// Load 讀取 .env 與環境變數
func Load() (Config, error) {
	// .env 為選用
	_ = godotenv.Load()
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()
	return v
}

// FromViper 由已設定的 viper 實例建立 Config 並驗證
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		HTTPPort:         v.GetInt("HTTP_PORT"),
		DatabaseDriver:   strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseDSN:      v.GetString("DATABASE_DSN"),
		DatabaseDebug:    v.GetBool("DATABASE_DEBUG"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		JWTTokenTTL:      v.GetDuration("JWT_TOKEN_TTL"),
		LogLevel:         strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:        strings.ToLower(v.GetString("LOG_FORMAT")),
		CORSOrigins:      splitList(v.GetString("CORS_ORIGINS")),
		SettlementAtomic: v.GetBool("SETTLEMENT_ATOMIC"),
		ScanInterval:     v.GetDuration("SCAN_INTERVAL"),
		EventSinks:       splitList(strings.ToLower(v.GetString("EVENT_SINKS"))),
		AMQPURL:          v.GetString("AMQP_URL"),
		AMQPQueue:        v.GetString("AMQP_QUEUE"),
		MQTTBroker:       v.GetString("MQTT_BROKER"),
		MQTTTopicPrefix:  v.GetString("MQTT_TOPIC_PREFIX"),
		RedisAddr:        v.GetString("REDIS_ADDR"),
		RedisPassword:    v.GetString("REDIS_PASSWORD"),
		RedisDB:          v.GetInt("REDIS_DB"),
		LeaseTTL:         v.GetDuration("LEASE_TTL"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate 檢查設定組合
func (c Config) Validate() error {
	var errs []error

	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("HTTP_PORT out of range: %d", c.HTTPPort))
	}
	switch c.DatabaseDriver {
	case "sqlite", "postgres", "mysql":
	default:
		errs = append(errs, fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver))
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("DATABASE_DSN must not be empty"))
	}
	if c.ScanInterval <= 0 {
		errs = append(errs, fmt.Errorf("SCAN_INTERVAL must be positive, got %s", c.ScanInterval))
	}
	for _, sink := range c.EventSinks {
		switch sink {
		case SinkLog:
		case SinkAMQP:
			if c.AMQPURL == "" {
				errs = append(errs, errors.New("EVENT_SINKS includes amqp but AMQP_URL is empty"))
			}
		case SinkMQTT:
			if c.MQTTBroker == "" {
				errs = append(errs, errors.New("EVENT_SINKS includes mqtt but MQTT_BROKER is empty"))
			}
		default:
			errs = append(errs, fmt.Errorf("unknown event sink %q", sink))
		}
	}
	return errors.Join(errs...)
}

// RequireJWTSecret serve 指令需要簽章金鑰
func (c Config) RequireJWTSecret() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	return nil
}

// HasSink 是否啟用指定輸出端
func (c Config) HasSink(name string) bool {
	for _, s := range c.EventSinks {
		if s == name {
			return true
		}
	}
	return false
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
