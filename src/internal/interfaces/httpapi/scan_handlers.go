package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	appcheckin "github.com/jackyeh168/green_events/src/internal/application/checkin"
	appevent "github.com/jackyeh168/green_events/src/internal/application/event"
	"github.com/jackyeh168/green_events/src/internal/domain/checkin"
)

type scanResultView struct {
	Outcome          string     `json:"outcome"`
	AttendeeID       string     `json:"attendee_id"`
	EventID          string     `json:"event_id"`
	CheckInTime      time.Time  `json:"check_in_time"`
	CheckOutTime     *time.Time `json:"check_out_time,omitempty"`
	PointsAwarded    *int       `json:"points_awarded,omitempty"`
	ParticipantTotal *int       `json:"participant_total,omitempty"`
}

func toScanResultView(r *appcheckin.ScanResult) *scanResultView {
	if r == nil {
		return nil
	}
	return &scanResultView{
		Outcome:          string(r.Outcome),
		AttendeeID:       r.AttendeeID,
		EventID:          r.EventID,
		CheckInTime:      r.CheckInTime,
		CheckOutTime:     r.CheckOutTime,
		PointsAwarded:    r.PointsAwarded,
		ParticipantTotal: r.ParticipantTotal,
	}
}

// ownedEvent 讀取路徑中的活動，並確認屬於目前的主辦方
func (s *Server) ownedEvent(c *gin.Context) (*appevent.EventDTO, bool) {
	dto, err := s.deps.GetEvent.Execute(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return nil, false
	}
	if dto.OrganizerID != claimsFrom(c).Subject() {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "event belongs to another organizer", "code": "FORBIDDEN"})
		return nil, false
	}
	return dto, true
}

func (s *Server) scannerFor(c *gin.Context, eventID string) (*appcheckin.ProcessScanUseCase, bool) {
	uc, err := s.deps.NewScanner(eventID)
	if err != nil {
		s.respondError(c, err)
		return nil, false
	}
	return uc, true
}

type scanPayloadRequest struct {
	Payload string `json:"payload" binding:"required"`
	Points  string `json:"points"`
}

// scanPayload 已由前端解碼的 QR 文字
//
// points 只在簽退時使用；簽到時忽略
func (s *Server) scanPayload(c *gin.Context) {
	var req scanPayloadRequest
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

	result, err := uc.Execute(c.Request.Context(), appcheckin.ScanCommand{
		Text:     req.Payload,
		Prompter: appcheckin.StaticPrompter(req.Points),
	})
	s.respondScan(c, result, err)
}

// scanImage 檔案模式：multipart 欄位 image，表單欄位 points
func (s *Server) scanImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		badRequest(c, "multipart field image is required")
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

	f, err := file.Open()
	if err != nil {
		badRequest(c, "failed to read uploaded image")
		return
	}
	defer f.Close()

	text, err := s.decoder.ScanFile(f)
	if err != nil {
		if !errors.Is(err, checkin.ErrQRCodeNotFound) {
			badRequest(c, err.Error())
			return
		}
		s.respondError(c, err)
		return
	}

	result, err := uc.Execute(c.Request.Context(), appcheckin.ScanCommand{
		Text:     text,
		Prompter: appcheckin.StaticPrompter(c.PostForm("points")),
	})
	s.respondScan(c, result, err)
}

func (s *Server) respondScan(c *gin.Context, result *appcheckin.ScanResult, err error) {
	if err != nil {
		s.respondError(c, err)
		return
	}
	status := http.StatusOK
	if result.Outcome == appcheckin.OutcomeCheckedIn {
		status = http.StatusCreated
	}
	c.JSON(status, toScanResultView(result))
}
