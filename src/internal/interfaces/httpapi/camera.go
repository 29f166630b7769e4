package httpapi

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	appcheckin "github.com/jackyeh168/green_events/src/internal/application/checkin"
	"github.com/jackyeh168/green_events/src/internal/domain/checkin"
	"github.com/jackyeh168/green_events/src/internal/scan"
)

// stations 每個活動一個攝影機掃描工作階段
type stations struct {
	mu       sync.Mutex
	sessions map[string]*scan.Session
	camera   scan.Camera
	client   *http.Client
}

func newStations(camera scan.Camera, client *http.Client) *stations {
	return &stations{
		sessions: make(map[string]*scan.Session),
		camera:   camera,
		client:   client,
	}
}

func (st *stations) session(eventID string) *scan.Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[eventID]
	if !ok {
		s = scan.NewSession()
		st.sessions[eventID] = s
	}
	return s
}

// start 在背景開啟串流並輪詢，直到一次掃描完成
func (st *stations) start(eventID, sourceURL string, uc *appcheckin.ProcessScanUseCase, points string) error {
	cam := st.camera
	cam.Device = sourceURL

	return st.session(eventID).Launch(context.Background(), func(ctx context.Context) (*appcheckin.ScanResult, error) {
		source, err := scan.OpenMJPEG(ctx, st.client, sourceURL)
		if err != nil {
			return nil, err
		}

		var result *appcheckin.ScanResult
		err = cam.Run(ctx, source, func(ctx context.Context, payload checkin.Payload) error {
			r, err := uc.ExecutePayload(ctx, payload, appcheckin.StaticPrompter(points))
			result = r
			return err
		})
		return result, err
	})
}

func (st *stations) stopAll() {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, s := range st.sessions {
		s.Stop()
	}
}

type cameraStatusView struct {
	State     string          `json:"state"`
	StartedAt *time.Time      `json:"started_at,omitempty"`
	Result    *scanResultView `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	Code      string          `json:"code,omitempty"`
}

func toCameraStatus(state scan.State) cameraStatusView {
	view := cameraStatusView{State: state.Name()}
	switch st := state.(type) {
	case scan.Scanning:
		t := st.StartedAt
		view.StartedAt = &t
	case scan.Resolved:
		view.Result = toScanResultView(st.Result)
	case scan.Failed:
		_, code := statusFor(st.Err)
		view.Error = st.Err.Error()
		view.Code = code
	}
	return view
}

type startCameraRequest struct {
	SourceURL string `json:"source_url" binding:"required,url"`
	Points    string `json:"points"`
}

func (s *Server) startCamera(c *gin.Context) {
	var req startCameraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	dto, ok := s.ownedEvent(c)
	if !ok {
		return
	}
	uc, ok := s.scannerFor(c, dto.EventID)
	if !ok {
		return
	}

	if err := s.stations.start(dto.EventID, req.SourceURL, uc, req.Points); err != nil {
		s.respondError(c, err)
		return
	}
	s.logger.Info("camera scan started", "event_id", dto.EventID, "source", req.SourceURL)
	c.JSON(http.StatusAccepted, toCameraStatus(s.stations.session(dto.EventID).State()))
}

func (s *Server) cameraStatus(c *gin.Context) {
	dto, ok := s.ownedEvent(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toCameraStatus(s.stations.session(dto.EventID).State()))
}

func (s *Server) stopCamera(c *gin.Context) {
	dto, ok := s.ownedEvent(c)
	if !ok {
		return
	}
	session := s.stations.session(dto.EventID)
	session.Stop()
	s.logger.Info("camera scan stopped", "event_id", dto.EventID)
	c.JSON(http.StatusOK, toCameraStatus(session.State()))
}
