//go:build windows

package feedback

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/go-toast/toast"
	"golang.org/x/sys/windows/registry"
)

const (
	thumbnailMaxAge = 10 * time.Minute
	aumidKey        = `Software\Classes\AppUserModelId\`
)

// Toast shows notifications through the Windows toast service.
type Toast struct {
	AppID string
	dir   string
}

// NewToast prepares a notifier whose preview thumbnails live in a private
// temp directory. Thumbnails left over from earlier runs are removed. The
// app id is registered for the current user so its toasts are displayed.
func NewToast(appID string) *Toast {
	id := ResolveAppID(appID, registerAppID)

	dir := filepath.Join(os.TempDir(), appID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("Failed to create thumbnail directory: %v", err)
	}
	if n := CleanupThumbnails(dir, thumbnailMaxAge); n > 0 {
		log.Printf("Removed %d old thumbnails", n)
	}
	return &Toast{AppID: id, dir: dir}
}

// registerAppID adds the per-user AUMID entry that lets an unpackaged
// program raise toasts.
func registerAppID(appID string) error {
	key, _, err := registry.CreateKey(registry.CURRENT_USER, aumidKey+appID, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("failed to create app id key: %w", err)
	}
	defer key.Close()

	if err := key.SetStringValue("DisplayName", appID); err != nil {
		return fmt.Errorf("failed to set app id display name: %w", err)
	}
	return nil
}

func (t *Toast) Notify(n Notification) error {
	note := toast.Notification{
		AppID:    t.AppID,
		Title:    n.Title,
		Message:  n.Message,
		Audio:    toast.Silent,
		Duration: toast.Short,
	}

	if n.Preview != nil {
		path, err := WriteThumbnail(t.dir, n.Preview)
		if err != nil {
			log.Printf("Notification preview unavailable: %v", err)
		} else {
			note.Icon = path
		}
	}

	if err := note.Push(); err != nil {
		return fmt.Errorf("failed to show notification: %w", err)
	}
	CleanupThumbnails(t.dir, thumbnailMaxAge)
	return nil
}
