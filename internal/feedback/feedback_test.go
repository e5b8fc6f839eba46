package feedback

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureNotification(t *testing.T) {
	n := CaptureNotification("", nil)
	assert.Equal(t, TitleCapture, n.Title)
	assert.Equal(t, "Screenshot was copied to clipboard", n.Message)

	n = CaptureNotification(filepath.Join("C:", "Pictures", "Screenshots", "shot.png"), nil)
	assert.Equal(t, "Screenshot was copied and saved\nshot.png", n.Message)
}

func TestErrorNotification(t *testing.T) {
	n := ErrorNotification(errors.New("capture failed"))
	assert.Equal(t, TitleError, n.Title)
	assert.Equal(t, "capture failed", n.Message)
	assert.Nil(t, n.Preview)
}

func TestThumbnail(t *testing.T) {
	tests := []struct {
		name         string
		w, h, max    int
		wantW, wantH int
	}{
		{"landscape", 1920, 1080, 256, 256, 144},
		{"portrait", 1080, 1920, 256, 144, 256},
		{"square", 512, 512, 256, 256, 256},
		{"small", 100, 50, 256, 100, 50},
		{"thin", 4000, 2, 256, 256, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, tt.w, tt.h))
			got := Thumbnail(img, tt.max)
			assert.Equal(t, tt.wantW, got.Bounds().Dx())
			assert.Equal(t, tt.wantH, got.Bounds().Dy())
		})
	}
}

func TestThumbnail_KeepsColour(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 600, 300))
	red := color.RGBA{R: 255, A: 255}
	for y := 0; y < 300; y++ {
		for x := 0; x < 600; x++ {
			img.SetRGBA(x, y, red)
		}
	}

	got := Thumbnail(img, 256)
	assert.Equal(t, red, got.RGBAAt(128, 64))
}

func TestWriteThumbnail(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 800, 400))

	path, err := WriteThumbnail(dir, img)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 256, 128), decoded.Bounds())
}

func TestCleanupThumbnails(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))

	old, err := WriteThumbnail(dir, img)
	require.NoError(t, err)
	fresh, err := WriteThumbnail(dir, img)
	require.NoError(t, err)
	other := filepath.Join(dir, "keep.png")
	require.NoError(t, os.WriteFile(other, []byte("x"), 0644))

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))
	require.NoError(t, os.Chtimes(other, past, past))

	assert.Equal(t, 1, CleanupThumbnails(dir, 10*time.Minute))
	assert.NoFileExists(t, old)
	assert.FileExists(t, fresh)
	assert.FileExists(t, other)
}

func TestCleanupThumbnails_MissingDir(t *testing.T) {
	assert.Equal(t, 0, CleanupThumbnails(filepath.Join(t.TempDir(), "nope"), time.Minute))
}

func TestResolveAppID(t *testing.T) {
	var registered []string
	ok := func(id string) error {
		registered = append(registered, id)
		return nil
	}
	denied := func(string) error { return errors.New("access denied") }

	assert.Equal(t, "trayshot", ResolveAppID("trayshot", ok))
	assert.Equal(t, []string{"trayshot"}, registered)

	// An unregistered id would make toasts vanish silently.
	assert.Equal(t, PowerShellAppID, ResolveAppID("trayshot", denied))
	assert.Equal(t, PowerShellAppID, ResolveAppID("", ok))
	assert.Len(t, registered, 1)
}
