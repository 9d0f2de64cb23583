package media

import (
	"fmt"

	"photoshare/internal/models"

	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 256

// EncodeQR renders url as a PNG QR code. The caller uploads the bytes to
// the CDN; nothing is written to local disk.
func EncodeQR(url string) ([]byte, error) {
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("failed to encode QR code: %w", err))
	}
	return png, nil
}
