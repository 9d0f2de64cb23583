package validation

import (
	"bytes"
	"fmt"
	"image"

	// Register decoders for the accepted upload formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// MaxImageBytes caps uploaded image size at 10 MiB.
const MaxImageBytes = 10 << 20

// ValidateImage checks that data is a decodable image in an accepted format
// and within the size limit. Returns the detected format name.
func ValidateImage(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("image file is empty")
	}
	if len(data) > MaxImageBytes {
		return "", fmt.Errorf("image exceeds the %d MB size limit", MaxImageBytes>>20)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("unsupported or corrupt image file")
	}

	switch format {
	case "jpeg", "png", "gif", "webp":
		return format, nil
	default:
		return "", fmt.Errorf("unsupported image format %q", format)
	}
}
