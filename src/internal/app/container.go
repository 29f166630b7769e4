// Package app 組裝資料庫、Repository、Use Case 與外部輸出端
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"gorm.io/gorm"

	appcheckin "github.com/jackyeh168/green_events/src/internal/application/checkin"
	appevent "github.com/jackyeh168/green_events/src/internal/application/event"
	appparticipant "github.com/jackyeh168/green_events/src/internal/application/participant"
	"github.com/jackyeh168/green_events/src/internal/auth"
	"github.com/jackyeh168/green_events/src/internal/config"
	"github.com/jackyeh168/green_events/src/internal/domain/checkin"
	"github.com/jackyeh168/green_events/src/internal/domain/event"
	"github.com/jackyeh168/green_events/src/internal/domain/participant"
	"github.com/jackyeh168/green_events/src/internal/domain/shared"
	"github.com/jackyeh168/green_events/src/internal/infrastructure/lease"
	"github.com/jackyeh168/green_events/src/internal/infrastructure/messaging"
	"github.com/jackyeh168/green_events/src/internal/infrastructure/persistence"
	checkinrepo "github.com/jackyeh168/green_events/src/internal/infrastructure/persistence/checkin"
	eventrepo "github.com/jackyeh168/green_events/src/internal/infrastructure/persistence/event"
	participantrepo "github.com/jackyeh168/green_events/src/internal/infrastructure/persistence/participant"
	"github.com/jackyeh168/green_events/src/internal/interfaces/httpapi"
	"github.com/jackyeh168/green_events/src/internal/scan"
)

// Container 執行期依賴
type Container struct {
	Config config.Config
	Logger *slog.Logger
	DB     *gorm.DB

	Participants  participant.ParticipantRepository
	Events        event.EventRepository
	Registrations checkin.RegistrationRepository
	TxManager     shared.TransactionManager
	Publisher     shared.EventPublisher
	Lease         scan.DeviceLease

	closers []func() error
}

// Build 開啟資料庫並依設定建立事件輸出端與攝影機租約
func Build(cfg config.Config, logger *slog.Logger) (*Container, error) {
	db, err := persistence.Open(persistence.Options{
		Driver: cfg.DatabaseDriver,
		DSN:    cfg.DatabaseDSN,
		Debug:  cfg.DatabaseDebug,
	})
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config:        cfg,
		Logger:        logger,
		DB:            db,
		Participants:  participantrepo.NewParticipantRepository(db),
		Events:        eventrepo.NewEventRepository(db),
		Registrations: checkinrepo.NewRegistrationRepository(db),
		TxManager:     persistence.NewGORMTransactionManager(db),
	}
	c.closers = append(c.closers, func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})

	if err := c.buildPublisher(); err != nil {
		_ = c.Close()
		return nil, err
	}
	if err := c.buildLease(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) buildPublisher() error {
	var sinks []shared.EventPublisher

	if c.Config.HasSink(config.SinkLog) {
		sinks = append(sinks, messaging.NewLogPublisher(c.Logger))
	}
	if c.Config.HasSink(config.SinkAMQP) {
		p, err := messaging.NewAMQPPublisher(c.Config.AMQPURL, c.Config.AMQPQueue)
		if err != nil {
			return fmt.Errorf("failed to connect event sink amqp: %w", err)
		}
		c.closers = append(c.closers, p.Close)
		sinks = append(sinks, p)
	}
	if c.Config.HasSink(config.SinkMQTT) {
		p, err := messaging.NewMQTTPublisher(c.Config.MQTTBroker, c.Config.MQTTTopicPrefix)
		if err != nil {
			return fmt.Errorf("failed to connect event sink mqtt: %w", err)
		}
		c.closers = append(c.closers, p.Close)
		sinks = append(sinks, p)
	}

	c.Publisher = messaging.NewFanoutPublisher(sinks...)
	c.Logger.Info("event sinks configured", "sinks", c.Config.EventSinks)
	return nil
}

func (c *Container) buildLease() error {
	if c.Config.RedisAddr == "" {
		c.Lease = scan.NewLocalLease()
		return nil
	}
	client, err := lease.NewRedisClient(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
	if err != nil {
		return err
	}
	c.closers = append(c.closers, client.Close)
	c.Lease = lease.NewRedisLease(client, c.Config.LeaseTTL)
	c.Logger.Info("camera lease backed by redis", "addr", c.Config.RedisAddr)
	return nil
}

// Migrate 建立或更新資料表
func (c *Container) Migrate() error {
	return persistence.AutoMigrate(c.DB)
}

// SettlementMode 由 SETTLEMENT_ATOMIC 決定
func (c *Container) SettlementMode() appcheckin.SettlementMode {
	if c.Config.SettlementAtomic {
		return appcheckin.SettlementAtomic
	}
	return appcheckin.SettlementSeparateWrites
}

// NewScanner 建立綁定 eventID 的掃描 Use Case
func (c *Container) NewScanner(eventID string) (*appcheckin.ProcessScanUseCase, error) {
	return appcheckin.NewProcessScanUseCase(eventID, appcheckin.ProcessScanDeps{
		Registrations: c.Registrations,
		Events:        c.Events,
		Participants:  c.Participants,
		TxManager:     c.TxManager,
		Publisher:     c.Publisher,
		Logger:        c.Logger,
		Mode:          c.SettlementMode(),
	})
}

// HTTPDeps HTTP 層所需的 Use Case
func (c *Container) HTTPDeps(issuer *auth.Issuer) httpapi.Deps {
	return httpapi.Deps{
		RegisterParticipant: appparticipant.NewRegisterParticipantUseCase(c.Participants, c.TxManager, c.Publisher),
		GetParticipant:      appparticipant.NewGetParticipantUseCase(c.Participants),
		RewardHistory:       appcheckin.NewGetRewardHistoryUseCase(c.Registrations, c.Events, c.Participants),
		RegisterForEvent:    appcheckin.NewRegisterForEventUseCase(c.Registrations, c.Events, c.Participants, c.TxManager, c.Publisher).WithLogger(c.Logger),
		CreateEvent:         appevent.NewCreateEventUseCase(c.Events, c.TxManager, c.Publisher),
		GetEvent:            appevent.NewGetEventUseCase(c.Events),
		NearbyEvents:        appevent.NewFindNearbyEventsUseCase(c.Events),
		BrowseEvents:        appevent.NewBrowseEventsUseCase(c.Events),
		NewScanner:          c.NewScanner,
		Lease:               c.Lease,
		ScanInterval:        c.Config.ScanInterval,
		Issuer:              issuer,
		CORSOrigins:         c.Config.CORSOrigins,
		Logger:              c.Logger,
	}
}

// Serve 啟動 HTTP 伺服器直到 ctx 取消
func (c *Container) Serve(ctx context.Context, issuer *auth.Issuer) error {
	api := httpapi.NewServer(c.HTTPDeps(issuer))
	defer api.Close()

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", c.Config.HTTPPort),
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("http server started", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		c.Logger.Info("http server stopped")
		return nil
	case err := <-errCh:
		return err
	}
}

// Close 依建立的相反順序釋放資源
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
