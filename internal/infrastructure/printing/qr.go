package printing

import (
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// QRSize is the edge length in pixels of verification QR codes
const QRSize = 256

// QRCodePNG encodes content as a PNG QR code of size pixels
func QRCodePNG(content string, size int) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, NewRenderError(ErrCodeQRFailed, "QR content is empty", nil)
	}
	if size <= 0 {
		size = QRSize
	}
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, NewRenderError(ErrCodeQRFailed, "failed to encode QR code", err)
	}
	return png, nil
}
