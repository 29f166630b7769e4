package qrimage

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// DefaultSize PNG 邊長（像素）
const DefaultSize = 512

// Render 將 payload 文字轉成 PNG QR code
//
// 使用 Medium 容錯等級（約 15%），在手機螢幕反光時仍可辨識
func Render(text string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qrcode.Encode(text, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}
	return png, nil
}
