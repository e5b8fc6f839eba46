// Package feedback tells the user a capture happened: a short flash over
// the captured area and a desktop notification.
package feedback

import (
	"image"
	"log"
	"path/filepath"
)

const (
	TitleCapture = "Screenshot"
	TitleError   = "Error"
)

type Notification struct {
	Title   string
	Message string
	// Preview, when set, is shown as a thumbnail next to the message.
	Preview image.Image
}

type Notifier interface {
	Notify(n Notification) error
}

type Flasher interface {
	Flash(r image.Rectangle)
}

// CaptureNotification describes a finished capture. savedPath is empty for
// clipboard-only captures.
func CaptureNotification(savedPath string, preview image.Image) Notification {
	n := Notification{Title: TitleCapture, Preview: preview}
	if savedPath == "" {
		n.Message = "Screenshot was copied to clipboard"
		return n
	}
	n.Message = "Screenshot was copied and saved\n" + filepath.Base(savedPath)
	return n
}

func ErrorNotification(err error) Notification {
	return Notification{Title: TitleError, Message: err.Error()}
}

// PowerShellAppID is the AUMID of Windows PowerShell, which every desktop
// has registered. Toasts from an unknown AUMID are dropped without error.
const PowerShellAppID = `{1AC14E77-02E7-4E5D-B744-2EB1AE5198B7}\WindowsPowerShell\v1.0\powershell.exe`

// ResolveAppID returns appID when register succeeds in making it known to
// the notification system, and PowerShellAppID otherwise.
func ResolveAppID(appID string, register func(appID string) error) string {
	if appID == "" {
		return PowerShellAppID
	}
	if err := register(appID); err != nil {
		log.Printf("Failed to register notification app id %q, using PowerShell's: %v", appID, err)
		return PowerShellAppID
	}
	return appID
}
