package capture

import (
	"fmt"
	"log"
	"time"

	"trayshot/internal/display"
	"trayshot/internal/feedback"
)

const DefaultNotifyDelay = 200 * time.Millisecond

type Locator interface {
	Locate() (display.Display, error)
}

// Service is what the PrintScreen handler calls. It owns everything the
// user sees around a capture.
type Service struct {
	Locator       Locator
	Pipeline      *Pipeline
	Notifier      feedback.Notifier
	Flasher       feedback.Flasher
	NotifyEnabled func() bool
	NotifyDelay   time.Duration
	// After schedules f on another goroutine. Defaults to time.AfterFunc.
	After func(d time.Duration, f func())
}

// Shoot captures the monitor under the cursor. Failures, panics included,
// are reported once through the notifier and returned.
func (s *Service) Shoot(saveToFile bool) (res *Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			res = nil
			err = fmt.Errorf("capture panicked: %v", p)
		}
		if err != nil {
			log.Printf("Screenshot failed: %v", err)
			s.deliver(0, feedback.ErrorNotification(err))
		}
	}()

	d, err := s.Locator.Locate()
	if err != nil {
		return nil, fmt.Errorf("failed to find monitor under cursor: %w", err)
	}

	res, err = s.Pipeline.Run(d.Physical(), saveToFile)
	if err != nil {
		return nil, err
	}

	if res.SavedToDisk {
		log.Printf("Screenshot saved to %s", res.Path)
		if s.Flasher != nil {
			s.Flasher.Flash(d.Bounds)
		}
	} else {
		log.Printf("Screenshot copied to clipboard (%dx%d)", res.Bounds.Dx(), res.Bounds.Dy())
	}

	if s.NotifyEnabled == nil || s.NotifyEnabled() {
		s.deliver(s.NotifyDelay, feedback.CaptureNotification(res.Path, res.Image))
	}
	return res, nil
}

func (s *Service) deliver(delay time.Duration, n feedback.Notification) {
	if s.Notifier == nil {
		return
	}
	after := s.After
	if after == nil {
		after = func(d time.Duration, f func()) { time.AfterFunc(d, f) }
	}
	after(delay, func() {
		if err := s.Notifier.Notify(n); err != nil {
			log.Printf("Notification failed: %v", err)
		}
	})
}
