package feedback

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/draw"
)

const (
	thumbnailPrefix = "trayshot-thumb-"
	ThumbnailSize   = 256
)

// Thumbnail scales img so its longer side is at most max pixels, keeping
// the aspect ratio. Smaller images are copied unscaled.
func Thumbnail(img image.Image, max int) *image.RGBA {
	src := img.Bounds()
	w, h := src.Dx(), src.Dy()
	if w > max || h > max {
		if w >= h {
			h = h * max / w
			w = max
		} else {
			w = w * max / h
			h = max
		}
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Over, nil)
	return dst
}

// WriteThumbnail stores a thumbnail of img in dir and returns its path.
func WriteThumbnail(dir string, img image.Image) (string, error) {
	f, err := os.CreateTemp(dir, thumbnailPrefix+"*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create thumbnail file: %w", err)
	}

	if err := png.Encode(f, Thumbnail(img, ThumbnailSize)); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// CleanupThumbnails removes thumbnails in dir older than maxAge.
func CleanupThumbnails(dir string, maxAge time.Duration) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), thumbnailPrefix) {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			log.Printf("Failed to remove old thumbnail %s: %v", e.Name(), err)
			continue
		}
		removed++
	}
	return removed
}
