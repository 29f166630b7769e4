package scan

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
)

// FrameSource 連續影格來源
//
// Next 阻塞直到有新影格、來源失敗或 ctx 結束；Close 釋放底層串流
type FrameSource interface {
	Next(ctx context.Context) (image.Image, error)
	Close() error
}

// ===========================
// MJPEG over HTTP
// ===========================

// MJPEGSource 讀取 IP camera 的 multipart/x-mixed-replace JPEG 串流
//
// 背景 goroutine 持續讀取，只保留最新一張影格；
// 輪詢較慢時舊影格直接丟棄，不會累積延遲
type MJPEGSource struct {
	body   io.ReadCloser
	latest chan image.Image
	errc   chan error
	done   chan struct{}

	closeOnce sync.Once
	cancel    context.CancelFunc
}

// OpenMJPEG 連線並開始讀取；client 為 nil 時使用 http.DefaultClient
func OpenMJPEG(ctx context.Context, client *http.Client, url string) (*MJPEGSource, error) {
	if client == nil {
		client = http.DefaultClient
	}

	streamCtx, cancel := context.WithCancel(ctx)
	req, err := http.NewRequestWithContext(streamCtx, http.MethodGet, url, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %v", ErrCameraUnavailable, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %v", ErrCameraUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("%w: stream returned %s", ErrCameraUnavailable, resp.Status)
	}

	mediaType, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") || params["boundary"] == "" {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("%w: unsupported stream content type %q", ErrCameraUnavailable, resp.Header.Get("Content-Type"))
	}

	s := &MJPEGSource{
		body:   resp.Body,
		latest: make(chan image.Image, 1),
		errc:   make(chan error, 1),
		done:   make(chan struct{}),
		cancel: cancel,
	}
	go s.readLoop(multipart.NewReader(resp.Body, params["boundary"]))
	return s, nil
}

func (s *MJPEGSource) readLoop(mr *multipart.Reader) {
	defer close(s.done)

	for {
		part, err := mr.NextPart()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			s.errc <- fmt.Errorf("camera stream ended: %w", err)
			return
		}

		img, err := jpeg.Decode(part)
		part.Close()
		if err != nil {
			// 損壞的影格略過
			continue
		}

		// 只保留最新影格
		select {
		case <-s.latest:
		default:
		}
		s.latest <- img
	}
}

// Next 取得最新影格
func (s *MJPEGSource) Next(ctx context.Context) (image.Image, error) {
	select {
	case img := <-s.latest:
		return img, nil
	case err := <-s.errc:
		s.errc <- err
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close 中止串流並等待背景 goroutine 結束；可重複呼叫
func (s *MJPEGSource) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.cancel()
		err = s.body.Close()
		<-s.done
	})
	return err
}
