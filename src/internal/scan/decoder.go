package scan

import (
	"fmt"
	"image"
	_ "image/gif" // 註冊 GIF 解碼器
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/jackyeh168/green_events/src/internal/domain/checkin"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// ===========================
// QR Decoder
// ===========================

// Decoder 以 gozxing 辨識影像中的 QR code
//
// 每次 Decode 建立新的 reader，可被多個 goroutine 共用
type Decoder struct {
	hints map[gozxing.DecodeHintType]interface{}
}

// NewDecoder 建立 Decoder
//
// TRY_HARDER 較慢但能辨識傾斜或模糊的畫面；payload 一律是 UTF-8 JSON，
// 固定字元集避免 byte mode 被猜成 Shift_JIS
func NewDecoder() *Decoder {
	return &Decoder{
		hints: map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER:    true,
			gozxing.DecodeHintType_CHARACTER_SET: "UTF-8",
		},
	}
}

// Decode 返回 QR 內的原始文字
//
// 影像中找不到可讀的 QR code → checkin.ErrQRCodeNotFound
func (d *Decoder) Decode(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", checkin.ErrQRCodeNotFound.WithContext("reason", err.Error())
	}

	result, err := qrcode.NewQRCodeReader().Decode(bmp, d.hints)
	if err != nil {
		return "", checkin.ErrQRCodeNotFound.WithContext("reason", err.Error())
	}
	return result.GetText(), nil
}

// ScanFile 檔案模式：解碼 PNG / JPEG / GIF 影像一次
func (d *Decoder) ScanFile(r io.Reader) (string, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	return d.Decode(img)
}

// ScanFile 使用預設 Decoder 的檔案模式
func ScanFile(r io.Reader) (string, error) {
	return NewDecoder().ScanFile(r)
}
