package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jackyeh168/green_events/src/internal/scan"
)

// codedError 各 domain 的 DomainError 都實作此介面
type codedError interface {
	error
	ErrorCode() string
}

var statusByCode = map[string]int{
	"PAYLOAD_MALFORMED":                http.StatusBadRequest,
	"PAYLOAD_MISSING_FIELD":            http.StatusBadRequest,
	"SCAN_QR_NOT_FOUND":                http.StatusUnprocessableEntity,
	"STATE_EVENT_MISMATCH":             http.StatusConflict,
	"STATE_ALREADY_CHECKED_OUT":        http.StatusConflict,
	"STATE_NOT_CHECKED_IN":             http.StatusConflict,
	"SETTLEMENT_PARTIAL_UPDATE":        http.StatusMultiStatus,
	"SETTLEMENT_INVALID_POINTS":        http.StatusBadRequest,
	"REGISTRATION_ALREADY_EXISTS":      http.StatusConflict,
	"EVENT_FULL":                       http.StatusConflict,
	"EVENT_ALREADY_EXISTS":             http.StatusConflict,
	"PARTICIPANT_ALREADY_EXISTS":       http.StatusConflict,
	"EMAIL_ALREADY_REGISTERED":         http.StatusConflict,
	"REPOSITORY_ERROR":                 http.StatusInternalServerError,
	"REGISTRATION_INVARIANT_VIOLATION": http.StatusInternalServerError,
	"PARTICIPANT_INVARIANT_VIOLATION":  http.StatusInternalServerError,
}

// statusFor 將錯誤映射為 HTTP 狀態碼與錯誤代碼
//
// 未列出的代碼：*_NOT_FOUND → 404，INVALID_* 與其他驗證錯誤 → 400
func statusFor(err error) (int, string) {
	var coded codedError
	if errors.As(err, &coded) {
		code := coded.ErrorCode()
		if status, ok := statusByCode[code]; ok {
			return status, code
		}
		if strings.HasSuffix(code, "_NOT_FOUND") {
			return http.StatusNotFound, code
		}
		return http.StatusBadRequest, code
	}
	switch {
	case errors.Is(err, scan.ErrCameraUnavailable):
		return http.StatusServiceUnavailable, "CAMERA_UNAVAILABLE"
	case errors.Is(err, scan.ErrSessionBusy):
		return http.StatusConflict, "SCAN_SESSION_BUSY"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout, "CANCELLED"
	}
	return http.StatusInternalServerError, "INTERNAL"
}

// respondError 寫出錯誤並記錄伺服器端錯誤
func (s *Server) respondError(c *gin.Context, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError || status == http.StatusMultiStatus {
		s.logger.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"code", code,
			"error", err,
		)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error(), "code": code})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg, "code": "BAD_REQUEST"})
}
