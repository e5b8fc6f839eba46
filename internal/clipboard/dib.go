package clipboard

import (
	"bytes"
	"fmt"
	"image"

	"golang.org/x/image/bmp"
)

const fileHeaderSize = 14

// EncodeDIB returns img as a packed device-independent bitmap, the layout
// CF_DIB expects: a BITMAPINFOHEADER followed by bottom-up pixel rows.
func EncodeDIB(img image.Image) ([]byte, error) {
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("cannot encode empty image")
	}

	var buf bytes.Buffer
	if err := bmp.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode bitmap: %w", err)
	}
	if buf.Len() <= fileHeaderSize {
		return nil, fmt.Errorf("bitmap encoder produced %d bytes", buf.Len())
	}
	return buf.Bytes()[fileHeaderSize:], nil
}
