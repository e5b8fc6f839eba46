package capture

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trayshot/internal/display"
	"trayshot/internal/feedback"
)

type fakeSource struct {
	err   error
	panic bool
	got   []image.Rectangle
}

func (f *fakeSource) Capture(r image.Rectangle) (*image.RGBA, error) {
	if f.panic {
		panic("device lost")
	}
	f.got = append(f.got, r)
	if f.err != nil {
		return nil, f.err
	}
	return image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy())), nil
}

type fakeClipboard struct {
	err    error
	images []image.Image
}

func (f *fakeClipboard) SetImage(img image.Image) error {
	if f.err != nil {
		return f.err
	}
	f.images = append(f.images, img)
	return nil
}

type fakeLocator struct {
	d   display.Display
	err error
}

func (f fakeLocator) Locate() (display.Display, error) { return f.d, f.err }

type fakeNotifier struct{ sent []feedback.Notification }

func (f *fakeNotifier) Notify(n feedback.Notification) error {
	f.sent = append(f.sent, n)
	return nil
}

type fakeFlasher struct{ flashed []image.Rectangle }

func (f *fakeFlasher) Flash(r image.Rectangle) { f.flashed = append(f.flashed, r) }

var fixedTime = time.Date(2024, 3, 1, 14, 5, 9, 0, time.Local)

func newPipeline(t *testing.T) (*Pipeline, *fakeSource, *fakeClipboard) {
	src := &fakeSource{}
	clip := &fakeClipboard{}
	return &Pipeline{
		Source:    src,
		Clipboard: clip,
		Dir:       filepath.Join(t.TempDir(), "Screenshots"),
		Now:       func() time.Time { return fixedTime },
		Tag:       func() string { return "1a2b3c4d" },
	}, src, clip
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Screenshot_2024-03-01_14-05-09_1a2b3c4d.png", FileName(fixedTime, "1a2b3c4d"))
}

func TestNewTag(t *testing.T) {
	tag := NewTag()
	assert.Regexp(t, `^[0-9a-f]{8}$`, tag)
	assert.NotEqual(t, tag, NewTag())
}

func TestRun_ClipboardOnly(t *testing.T) {
	p, src, clip := newPipeline(t)
	r := image.Rect(1920, 0, 3840, 1080)

	res, err := p.Run(r, false)
	require.NoError(t, err)

	assert.False(t, res.SavedToDisk)
	assert.Empty(t, res.Path)
	assert.Equal(t, r, res.Bounds)
	assert.Equal(t, []image.Rectangle{r}, src.got)
	require.Len(t, clip.images, 1)
	assert.Equal(t, image.Rect(0, 0, 1920, 1080), clip.images[0].Bounds())
	assert.NoDirExists(t, p.Dir)
}

func TestRun_SaveToFile(t *testing.T) {
	p, _, clip := newPipeline(t)
	r := image.Rect(0, 0, 640, 480)

	res, err := p.Run(r, true)
	require.NoError(t, err)

	assert.True(t, res.SavedToDisk)
	assert.Equal(t, filepath.Join(p.Dir, "Screenshot_2024-03-01_14-05-09_1a2b3c4d.png"), res.Path)
	assert.Len(t, clip.images, 1)

	f, err := os.Open(res.Path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 480, cfg.Height)

	entries, err := os.ReadDir(p.Dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestRun_DefaultNameMatchesPattern(t *testing.T) {
	p, _, _ := newPipeline(t)
	p.Now, p.Tag = nil, nil

	res, err := p.Run(image.Rect(0, 0, 4, 4), true)
	require.NoError(t, err)
	pattern := regexp.MustCompile(`^Screenshot_\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2}_[0-9a-f]{8}\.png$`)
	assert.Regexp(t, pattern, filepath.Base(res.Path))
}

func TestRun_Failures(t *testing.T) {
	t.Run("empty bounds", func(t *testing.T) {
		p, src, _ := newPipeline(t)
		_, err := p.Run(image.Rect(10, 10, 10, 20), true)
		assert.ErrorIs(t, err, ErrEmptyBounds)
		assert.Empty(t, src.got)
	})

	t.Run("source", func(t *testing.T) {
		p, src, clip := newPipeline(t)
		src.err = errors.New("BitBlt failed")
		_, err := p.Run(image.Rect(0, 0, 10, 10), true)
		assert.ErrorIs(t, err, src.err)
		assert.Empty(t, clip.images)
		assert.NoDirExists(t, p.Dir)
	})

	t.Run("clipboard", func(t *testing.T) {
		p, _, clip := newPipeline(t)
		clip.err = errors.New("clipboard busy")
		_, err := p.Run(image.Rect(0, 0, 10, 10), true)
		assert.ErrorIs(t, err, clip.err)
		assert.NoDirExists(t, p.Dir)
	})

	t.Run("unwritable directory", func(t *testing.T) {
		p, _, _ := newPipeline(t)
		// A regular file where the directory should be.
		p.Dir = filepath.Join(t.TempDir(), "blocked")
		require.NoError(t, os.WriteFile(p.Dir, nil, 0644))

		_, err := p.Run(image.Rect(0, 0, 10, 10), true)
		assert.Error(t, err)
	})
}

func newService(t *testing.T, notify bool) (*Service, *fakeSource, *fakeNotifier, *fakeFlasher, *[]time.Duration) {
	p, src, _ := newPipeline(t)
	n := &fakeNotifier{}
	fl := &fakeFlasher{}
	var delays []time.Duration
	s := &Service{
		Locator: fakeLocator{d: display.Display{
			Bounds: image.Rect(1280, 0, 2560, 720),
			DPIX:   144,
			DPIY:   144,
		}},
		Pipeline:      p,
		Notifier:      n,
		Flasher:       fl,
		NotifyEnabled: func() bool { return notify },
		NotifyDelay:   DefaultNotifyDelay,
		After: func(d time.Duration, f func()) {
			delays = append(delays, d)
			f()
		},
	}
	return s, src, n, fl, &delays
}

func TestShoot_CapturesAtPhysicalOrigin(t *testing.T) {
	s, src, n, fl, delays := newService(t, true)

	res, err := s.Shoot(false)
	require.NoError(t, err)

	// Only the origin moves; the image keeps the monitor's size.
	assert.Equal(t, []image.Rectangle{image.Rect(1920, 0, 3200, 720)}, src.got)
	assert.Equal(t, 1280, res.Image.Bounds().Dx())
	assert.Equal(t, 720, res.Image.Bounds().Dy())
	assert.Empty(t, fl.flashed, "clipboard-only captures do not flash")

	require.Len(t, n.sent, 1)
	assert.Equal(t, feedback.TitleCapture, n.sent[0].Title)
	assert.Equal(t, "Screenshot was copied to clipboard", n.sent[0].Message)
	assert.Equal(t, []time.Duration{DefaultNotifyDelay}, *delays)
}

func TestShoot_SaveFlashesLogicalBounds(t *testing.T) {
	s, _, n, fl, _ := newService(t, true)

	res, err := s.Shoot(true)
	require.NoError(t, err)

	assert.FileExists(t, res.Path)
	assert.Equal(t, []image.Rectangle{image.Rect(1280, 0, 2560, 720)}, fl.flashed)
	require.Len(t, n.sent, 1)
	assert.Contains(t, n.sent[0].Message, filepath.Base(res.Path))
}

func TestShoot_NotifyDisabled(t *testing.T) {
	s, _, n, _, _ := newService(t, false)

	_, err := s.Shoot(true)
	require.NoError(t, err)
	assert.Empty(t, n.sent)
}

func TestShoot_ErrorsNotifyOnce(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *Service, src *fakeSource)
	}{
		{"locate", func(s *Service, _ *fakeSource) {
			s.Locator = fakeLocator{err: display.ErrNoDisplay}
		}},
		{"source", func(_ *Service, src *fakeSource) {
			src.err = errors.New("BitBlt failed")
		}},
		{"panic", func(_ *Service, src *fakeSource) {
			src.panic = true
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Error notifications ignore the notify setting.
			s, src, n, fl, _ := newService(t, false)
			tt.setup(s, src)

			res, err := s.Shoot(true)
			assert.Error(t, err)
			assert.Nil(t, res)
			assert.Empty(t, fl.flashed)

			require.Len(t, n.sent, 1)
			assert.Equal(t, feedback.TitleError, n.sent[0].Title)
			assert.Equal(t, err.Error(), n.sent[0].Message)
			assert.NoDirExists(t, s.Pipeline.Dir)
		})
	}
}
