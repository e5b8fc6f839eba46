// Package capture grabs the pixels of one monitor, puts them on the
// clipboard and optionally saves them as a PNG file.
package capture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

var ErrEmptyBounds = errors.New("capture bounds are empty")

// Source copies a screen rectangle, in physical pixels, into an image.
type Source interface {
	Capture(r image.Rectangle) (*image.RGBA, error)
}

type Clipboard interface {
	SetImage(img image.Image) error
}

type Result struct {
	Image       *image.RGBA
	Bounds      image.Rectangle
	SavedToDisk bool
	Path        string
}

// Pipeline runs one capture: screen to bitmap, bitmap to clipboard and,
// when asked, bitmap to a PNG file in Dir.
type Pipeline struct {
	Source    Source
	Clipboard Clipboard
	Dir       string
	Now       func() time.Time
	Tag       func() string
}

func (p *Pipeline) Run(r image.Rectangle, saveToFile bool) (*Result, error) {
	if r.Empty() {
		return nil, ErrEmptyBounds
	}

	img, err := p.Source.Capture(r)
	if err != nil {
		return nil, fmt.Errorf("screen capture failed: %w", err)
	}

	if err := p.Clipboard.SetImage(img); err != nil {
		return nil, fmt.Errorf("failed to copy screenshot to clipboard: %w", err)
	}

	res := &Result{Image: img, Bounds: r}
	if !saveToFile {
		return res, nil
	}

	now, tag := time.Now, NewTag
	if p.Now != nil {
		now = p.Now
	}
	if p.Tag != nil {
		tag = p.Tag
	}

	path := filepath.Join(p.Dir, FileName(now(), tag()))
	if err := writePNG(path, img); err != nil {
		return nil, err
	}
	res.SavedToDisk = true
	res.Path = path
	return res, nil
}

// FileName names a saved screenshot, e.g.
// Screenshot_2024-03-01_14-05-09_1a2b3c4d.png.
func FileName(t time.Time, tag string) string {
	return fmt.Sprintf("Screenshot_%s_%s.png", t.Format("2006-01-02_15-04-05"), tag)
}

// NewTag returns 8 random hex characters.
func NewTag() string {
	return uuid.New().String()[:8]
}

// writePNG encodes img fully before touching the disk and publishes the
// file with a rename, so a failure never leaves a partial PNG behind.
func writePNG(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create screenshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".screenshot-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write image file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to save image file: %w", err)
	}
	return nil
}
