package utils

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// MaxAvatarPixels bounds the decoded size of an uploaded avatar. The decoder
// allocates width*height up front, so the header is checked first.
const MaxAvatarPixels = 40_000_000

var ErrImageTooLarge = errors.New("image exceeds pixel limit")

// ResizeAvatar crops the image to a size x size square and re-encodes it as JPEG.
func ResizeAvatar(data []byte, size, quality int) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode avatar header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxAvatarPixels {
		return nil, fmt.Errorf("avatar %dx%d: %w", cfg.Width, cfg.Height, ErrImageTooLarge)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode avatar: %w", err)
	}

	resized := imaging.Fill(img, size, size, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encode avatar: %w", err)
	}

	return buf.Bytes(), nil
}
