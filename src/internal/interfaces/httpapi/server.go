// Package httpapi 提供 gin HTTP 介面
//
// 路由：
//
//	GET    /health
//	POST   /api/v1/participants
//	GET    /api/v1/participants/:id
//	GET    /api/v1/participants/:id/rewards
//	GET    /api/v1/events
//	POST   /api/v1/events
//	GET    /api/v1/events/nearby
//	GET    /api/v1/events/:id
//	POST   /api/v1/events/:id/registrations
//	GET    /api/v1/events/:id/attendees/:attendeeId/qr
//	POST   /api/v1/events/:id/scan
//	POST   /api/v1/events/:id/scan/image
//	POST   /api/v1/events/:id/camera
//	GET    /api/v1/events/:id/camera
//	DELETE /api/v1/events/:id/camera
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	appcheckin "github.com/jackyeh168/green_events/src/internal/application/checkin"
	appevent "github.com/jackyeh168/green_events/src/internal/application/event"
	appparticipant "github.com/jackyeh168/green_events/src/internal/application/participant"
	"github.com/jackyeh168/green_events/src/internal/auth"
	"github.com/jackyeh168/green_events/src/internal/scan"
)

// ScannerFactory 建立綁定指定活動的掃描 Use Case
type ScannerFactory func(eventID string) (*appcheckin.ProcessScanUseCase, error)

// Deps HTTP 層依賴
type Deps struct {
	RegisterParticipant appparticipant.RegisterParticipantUseCase
	GetParticipant      *appparticipant.GetParticipantUseCase
	RewardHistory       *appcheckin.GetRewardHistoryUseCase
	RegisterForEvent    *appcheckin.RegisterForEventUseCase

	CreateEvent  *appevent.CreateEventUseCase
	GetEvent     *appevent.GetEventUseCase
	NearbyEvents *appevent.FindNearbyEventsUseCase
	BrowseEvents *appevent.BrowseEventsUseCase

	NewScanner ScannerFactory
	Decoder    *scan.Decoder // nil → scan.NewDecoder()

	// 攝影機模式
	Lease        scan.DeviceLease // nil → scan.NewLocalLease()
	ScanInterval time.Duration
	StreamClient *http.Client

	Issuer      *auth.Issuer
	CORSOrigins []string
	Logger      *slog.Logger
}

// Server HTTP handlers 與攝影機工作階段
type Server struct {
	deps     Deps
	logger   *slog.Logger
	decoder  *scan.Decoder
	stations *stations
}

// NewServer 建立 Server
func NewServer(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	decoder := deps.Decoder
	if decoder == nil {
		decoder = scan.NewDecoder()
	}
	lease := deps.Lease
	if lease == nil {
		lease = scan.NewLocalLease()
	}
	return &Server{
		deps:    deps,
		logger:  logger,
		decoder: decoder,
		stations: newStations(scan.Camera{
			Decoder:  decoder,
			Interval: deps.ScanInterval,
			Lease:    lease,
			Logger:   logger,
		}, deps.StreamClient),
	}
}

// Router 建立 gin engine
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))

	corsConfig := cors.DefaultConfig()
	if len(s.deps.CORSOrigins) == 0 || (len(s.deps.CORSOrigins) == 1 && s.deps.CORSOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = s.deps.CORSOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now().Unix()})
	})

	api := r.Group("/api/v1")
	authed := authenticate(s.deps.Issuer)
	organizer := requireRole(auth.RoleOrganizer)
	attendee := requireRole(auth.RoleAttendee)

	api.POST("/participants", s.registerParticipant)
	api.GET("/participants/:id", authed, s.getParticipant)
	api.GET("/participants/:id/rewards", authed, s.getRewards)

	api.GET("/events", s.browseEvents)
	api.POST("/events", authed, organizer, s.createEvent)
	api.GET("/events/nearby", s.nearbyEvents)
	api.GET("/events/:id", s.getEvent)
	api.POST("/events/:id/registrations", authed, attendee, s.registerForEvent)
	api.GET("/events/:id/attendees/:attendeeId/qr", authed, s.attendeeQR)

	api.POST("/events/:id/scan", authed, organizer, s.scanPayload)
	api.POST("/events/:id/scan/image", authed, organizer, s.scanImage)
	api.POST("/events/:id/camera", authed, organizer, s.startCamera)
	api.GET("/events/:id/camera", authed, organizer, s.cameraStatus)
	api.DELETE("/events/:id/camera", authed, organizer, s.stopCamera)

	return r
}

// Close 停止所有攝影機工作階段
func (s *Server) Close() {
	s.stations.stopAll()
}
