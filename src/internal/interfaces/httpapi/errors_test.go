package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jackyeh168/green_events/src/internal/domain/checkin"
	"github.com/jackyeh168/green_events/src/internal/domain/event"
	"github.com/jackyeh168/green_events/src/internal/domain/points"
	"github.com/jackyeh168/green_events/src/internal/scan"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err      error
		status   int
		wantCode string
	}{
		{fmt.Errorf("wrapped: %w", checkin.ErrPartialUpdate), http.StatusMultiStatus, "SETTLEMENT_PARTIAL_UPDATE"},
		{checkin.ErrEventMismatch, http.StatusConflict, "STATE_EVENT_MISMATCH"},
		{checkin.ErrAlreadyCheckedOut, http.StatusConflict, "STATE_ALREADY_CHECKED_OUT"},
		{fmt.Errorf("save: %w", checkin.ErrRepositoryError), http.StatusInternalServerError, "REPOSITORY_ERROR"},
		{event.ErrEventNotFound, http.StatusNotFound, "EVENT_NOT_FOUND"},
		{event.ErrInvalidTitle, http.StatusBadRequest, "INVALID_EVENT_TITLE"},
		{points.ErrInvalidPoints, http.StatusBadRequest, "SETTLEMENT_INVALID_POINTS"},
		{checkin.ErrQRCodeNotFound, http.StatusUnprocessableEntity, "SCAN_QR_NOT_FOUND"},
		{fmt.Errorf("%w: busy", scan.ErrCameraUnavailable), http.StatusServiceUnavailable, "CAMERA_UNAVAILABLE"},
		{scan.ErrSessionBusy, http.StatusConflict, "SCAN_SESSION_BUSY"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			status, code := statusFor(tt.err)

			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}
