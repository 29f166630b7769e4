package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	appcheckin "github.com/jackyeh168/green_events/src/internal/application/checkin"
	appparticipant "github.com/jackyeh168/green_events/src/internal/application/participant"
)

type registerParticipantRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

func (s *Server) registerParticipant(c *gin.Context) {
	var req registerParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := s.deps.RegisterParticipant.Execute(appparticipant.RegisterParticipantCommand{
		DisplayName: req.DisplayName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"participant_id": result.ParticipantID,
		"display_name":   result.DisplayName,
	})
}

func (s *Server) getParticipant(c *gin.Context) {
	id := c.Param("id")
	if !allowSelfOrOrganizer(c, id) {
		return
	}

	result, err := s.deps.GetParticipant.Execute(appparticipant.GetParticipantQuery{ParticipantID: id})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"participant_id": result.ParticipantID,
		"display_name":   result.DisplayName,
		"email":          result.Email,
		"phone_number":   result.PhoneNumber,
		"reward_points":  result.RewardPoints,
	})
}

type rewardEntryView struct {
	EventID       string     `json:"event_id"`
	EventTitle    string     `json:"event_title"`
	EventDate     time.Time  `json:"event_date"`
	State         string     `json:"state"`
	CheckInTime   *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime  *time.Time `json:"check_out_time,omitempty"`
	PointsAwarded *int       `json:"points_awarded,omitempty"`
}

func (s *Server) getRewards(c *gin.Context) {
	id := c.Param("id")
	if !allowSelfOrOrganizer(c, id) {
		return
	}

	result, err := s.deps.RewardHistory.Execute(appcheckin.GetRewardHistoryQuery{AttendeeID: id})
	if err != nil {
		s.respondError(c, err)
		return
	}

	entries := make([]rewardEntryView, 0, len(result.Entries))
	for _, e := range result.Entries {
		entries = append(entries, rewardEntryView(e))
	}
	c.JSON(http.StatusOK, gin.H{
		"attendee_id":  result.AttendeeID,
		"total_points": result.TotalPoints,
		"entries":      entries,
	})
}

func (s *Server) registerForEvent(c *gin.Context) {
	claims := claimsFrom(c)

	result, err := s.deps.RegisterForEvent.Execute(appcheckin.RegisterForEventCommand{
		AttendeeID: claims.Subject(),
		EventID:    c.Param("id"),
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"attendee_id":   result.AttendeeID,
		"event_id":      result.EventID,
		"registered_at": result.RegisteredAt,
	})
}
