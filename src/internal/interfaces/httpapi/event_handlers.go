package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	appevent "github.com/jackyeh168/green_events/src/internal/application/event"
	"github.com/jackyeh168/green_events/src/internal/domain/checkin"
	"github.com/jackyeh168/green_events/src/internal/infrastructure/qrimage"
)

type eventView struct {
	EventID         string    `json:"event_id"`
	OrganizerID     string    `json:"organizer_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	Date            time.Time `json:"date"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	Address         string    `json:"address,omitempty"`
	MaxParticipants int       `json:"max_participants"`
	RewardPoints    int       `json:"reward_points"`
	ImageURL        string    `json:"image_url,omitempty"`
	DistanceKm      *float64  `json:"distance_km,omitempty"`
}

func toEventView(d appevent.EventDTO) eventView {
	return eventView(d)
}

func toEventViews(ds []appevent.EventDTO) []eventView {
	out := make([]eventView, 0, len(ds))
	for _, d := range ds {
		out = append(out, toEventView(d))
	}
	return out
}

type createEventRequest struct {
	Title           string    `json:"title" binding:"required"`
	Description     string    `json:"description"`
	StartsAt        time.Time `json:"starts_at" binding:"required"`
	EndsAt          time.Time `json:"ends_at" binding:"required"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	Address         string    `json:"address"`
	MaxParticipants int       `json:"max_participants"`
	RewardPoints    int       `json:"reward_points"`
	ImageURL        string    `json:"image_url"`
}

func (s *Server) createEvent(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	dto, err := s.deps.CreateEvent.Execute(appevent.CreateEventCommand{
		OrganizerID:     claimsFrom(c).Subject(),
		Title:           req.Title,
		Description:     req.Description,
		StartsAt:        req.StartsAt,
		EndsAt:          req.EndsAt,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		Address:         req.Address,
		MaxParticipants: req.MaxParticipants,
		RewardPoints:    req.RewardPoints,
		ImageURL:        req.ImageURL,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toEventView(*dto))
}

func (s *Server) getEvent(c *gin.Context) {
	dto, err := s.deps.GetEvent.Execute(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEventView(*dto))
}

func (s *Server) browseEvents(c *gin.Context) {
	dtos, err := s.deps.BrowseEvents.Execute(appevent.BrowseEventsQuery{
		Search:      c.Query("search"),
		Sort:        c.Query("sort"),
		OrganizerID: c.Query("organizer_id"),
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": toEventViews(dtos)})
}

func (s *Server) nearbyEvents(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		badRequest(c, "lat and lng query parameters are required")
		return
	}
	var radius float64
	if raw := c.Query("radius_km"); raw != "" {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			badRequest(c, "radius_km must be a number")
			return
		}
		radius = r
	}

	dtos, err := s.deps.NearbyEvents.Execute(appevent.FindNearbyEventsQuery{
		Latitude:  lat,
		Longitude: lng,
		RadiusKm:  radius,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": toEventViews(dtos)})
}

// attendeeQR 參加者出示的 QR（PNG）
func (s *Server) attendeeQR(c *gin.Context) {
	attendeeID := c.Param("attendeeId")
	if !allowSelfOrOrganizer(c, attendeeID) {
		return
	}

	if _, err := s.deps.GetEvent.Execute(c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}

	payload, err := checkin.NewPayload(attendeeID, c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	size := qrimage.DefaultSize
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 64 || n > 2048 {
			badRequest(c, "size must be between 64 and 2048")
			return
		}
		size = n
	}

	png, err := qrimage.Render(payload.Encode(), size)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
