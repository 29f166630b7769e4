package httpapi

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackyeh168/green_events/src/internal/auth"
	"github.com/jackyeh168/green_events/src/internal/infrastructure/qrimage"
)

// qrStream 持續推送同一張 QR 影格的 MJPEG 串流
func qrStream(t *testing.T, text string) *httptest.Server {
	t.Helper()
	png, err := qrimage.Render(text, 256)
	require.NoError(t, err)
	img, _, err := image.Decode(bytes.NewReader(png))
	require.NoError(t, err)
	var frame bytes.Buffer
	require.NoError(t, jpeg.Encode(&frame, img, &jpeg.Options{Quality: 95}))

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mw := multipart.NewWriter(w)
		w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+mw.Boundary())
		w.WriteHeader(http.StatusOK)

		ticker := time.NewTicker(5 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-r.Context().Done():
				return
			case <-ticker.C:
			}
			part, err := mw.CreatePart(map[string][]string{"Content-Type": {"image/jpeg"}})
			if err != nil {
				return
			}
			if _, err := part.Write(frame.Bytes()); err != nil {
				return
			}
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
	}))
}

func TestCamera_ResolvesCheckIn(t *testing.T) {
	// Arrange
	api := newTestAPI(t)
	eventID := api.createEvent("org-1", 50)
	attendee := api.registerParticipant("Heidi")
	stream := qrStream(t, qrText(t, attendee, eventID))
	defer stream.Close()
	orgToken := api.token("org-1", auth.RoleOrganizer)
	path := "/api/v1/events/" + eventID + "/camera"

	// Act
	w := api.do(http.MethodPost, path, orgToken, map[string]any{"source_url": stream.URL})

	// Assert
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	require.Eventually(t, func() bool {
		w := api.do(http.MethodGet, path, orgToken, nil)
		return decode(t, w)["state"] == "resolved"
	}, 5*time.Second, 20*time.Millisecond)

	w = api.do(http.MethodGet, path, orgToken, nil)
	result := decode(t, w)["result"].(map[string]any)
	assert.Equal(t, "checked_in", result["outcome"])
	assert.Equal(t, attendee, result["attendee_id"])
}

func TestCamera_StopReturnsIdle(t *testing.T) {
	api := newTestAPI(t)
	eventID := api.createEvent("org-1", 50)
	// 只有空白影格的串流永遠不會解析出 payload
	stream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mw := multipart.NewWriter(w)
		w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+mw.Boundary())
		w.WriteHeader(http.StatusOK)
		<-r.Context().Done()
	}))
	defer stream.Close()
	orgToken := api.token("org-1", auth.RoleOrganizer)
	path := "/api/v1/events/" + eventID + "/camera"

	w := api.do(http.MethodPost, path, orgToken, map[string]any{"source_url": stream.URL})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	assert.Equal(t, "scanning", decode(t, w)["state"])

	w = api.do(http.MethodPost, path, orgToken, map[string]any{"source_url": stream.URL})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(http.MethodDelete, path, orgToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "idle", decode(t, w)["state"])

	// Stop 返回時租約已釋放，立即重新啟動不會因裝置占用而失敗
	w = api.do(http.MethodPost, path, orgToken, map[string]any{"source_url": stream.URL})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	assert.Never(t, func() bool {
		w := api.do(http.MethodGet, path, orgToken, nil)
		return decode(t, w)["state"] == "failed"
	}, 100*time.Millisecond, 10*time.Millisecond)

	w = api.do(http.MethodDelete, path, orgToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCamera_UnreachableSourceFails(t *testing.T) {
	api := newTestAPI(t)
	eventID := api.createEvent("org-1", 50)
	orgToken := api.token("org-1", auth.RoleOrganizer)
	path := "/api/v1/events/" + eventID + "/camera"

	w := api.do(http.MethodPost, path, orgToken, map[string]any{"source_url": "http://127.0.0.1:1/stream"})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	require.Eventually(t, func() bool {
		w := api.do(http.MethodGet, path, orgToken, nil)
		body := decode(t, w)
		return body["state"] == "failed" && body["code"] == "CAMERA_UNAVAILABLE"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestCamera_UnavailableDisablesCameraUntilStopped(t *testing.T) {
	// Arrange
	api := newTestAPI(t)
	eventID := api.createEvent("org-1", 50)
	orgToken := api.token("org-1", auth.RoleOrganizer)
	path := "/api/v1/events/" + eventID + "/camera"
	unreachable := map[string]any{"source_url": "http://127.0.0.1:1/stream"}

	w := api.do(http.MethodPost, path, orgToken, unreachable)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	require.Eventually(t, func() bool {
		w := api.do(http.MethodGet, path, orgToken, nil)
		return decode(t, w)["state"] == "failed"
	}, 5*time.Second, 20*time.Millisecond)

	// Act
	w = api.do(http.MethodPost, path, orgToken, unreachable)

	// Assert
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "CAMERA_UNAVAILABLE", decode(t, w)["code"])

	w = api.do(http.MethodDelete, path, orgToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "idle", decode(t, w)["state"])

	w = api.do(http.MethodPost, path, orgToken, unreachable)
	assert.Equal(t, http.StatusAccepted, w.Code, "stop re-enables camera mode")
}
