//go:build windows

package main

import (
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/getlantern/systray"
	"github.com/lxn/win"
	"golang.org/x/sys/windows"

	"trayshot/internal/assets"
	"trayshot/internal/capture"
	"trayshot/internal/clipboard"
	"trayshot/internal/config"
	"trayshot/internal/display"
	"trayshot/internal/feedback"
	"trayshot/internal/hotkey"
	"trayshot/internal/instance"
	"trayshot/internal/startup"
)

const (
	appName        = "trayshot"
	appDescription = "Press PrintScreen to copy the monitor under the mouse to the clipboard.\nPress Ctrl+PrintScreen to also save it to Pictures\\Screenshots."

	monitorSlots    = 8
	monitorInterval = 5 * time.Second
)

var version = "dev"

var (
	settings     config.Settings
	settingsPath string
	configMutex  sync.RWMutex

	hook     *hotkey.Hook
	quitOnce sync.Once
	quit     = make(chan struct{})
)

func main() {
	running, err := instance.AlreadyRunning()
	if err != nil {
		log.Printf("Instance check failed: %v", err)
	}
	if running {
		return
	}

	if f := openLog(); f != nil {
		defer f.Close()
	}

	systray.Run(onReady, onExit)
}

func openLog() *os.File {
	path, err := config.LogPath()
	if err != nil {
		log.Printf("Failed to resolve log path: %v", err)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.Printf("Failed to create log directory: %v", err)
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Printf("Failed to open log file: %v", err)
		return nil
	}
	log.SetOutput(f)
	return f
}

func onReady() {
	var err error
	settingsPath, err = config.Path()
	if err != nil {
		log.Printf("Failed to resolve settings path: %v, using defaults", err)
		settings = config.Default()
	} else {
		settings = config.Load(settingsPath)
	}

	autostart, err := startup.NewRunKey()
	if err != nil {
		log.Printf("Autostart unavailable: %v", err)
	}

	configMutex.RLock()
	notify := settings.Notify
	wantAutoStart := settings.AutoStart
	configMutex.RUnlock()

	if autostart != nil {
		if err := autostart.Sync(wantAutoStart); err != nil {
			log.Printf("Failed to update autostart entry: %v", err)
		}
	}

	systray.SetIcon(assets.Icon())
	systray.SetTitle(appName)
	systray.SetTooltip(appName + " - PrintScreen to capture, Ctrl+PrintScreen to save")

	mMonitors := systray.AddMenuItem("Monitors", "Active monitors")
	slots := make([]*systray.MenuItem, monitorSlots)
	for i := range slots {
		slots[i] = mMonitors.AddSubMenuItem("", "")
		slots[i].Disable()
		slots[i].Hide()
	}
	refreshMonitors(slots)

	mAutoStart := systray.AddMenuItemCheckbox("Autostart", "Start when Windows starts", autostart != nil && autostart.IsEnabled())
	if autostart == nil {
		mAutoStart.Disable()
	}
	mNotify := systray.AddMenuItemCheckbox("Notify", "Show a notification after each screenshot", notify)
	systray.AddSeparator()
	mAbout := systray.AddMenuItem("About", "About "+appName)
	systray.AddSeparator()
	mExit := systray.AddMenuItem("Exit", "Exit "+appName)

	svc := &capture.Service{
		Locator: display.Cursor{},
		Pipeline: &capture.Pipeline{
			Source:    capture.NewGDISource(),
			Clipboard: clipboard.New(),
			Dir:       config.ScreenshotDir(),
		},
		Notifier:      feedback.NewToast(appName),
		Flasher:       feedback.NewOverlay(),
		NotifyEnabled: notifyEnabled,
		NotifyDelay:   capture.DefaultNotifyDelay,
	}

	hook = hotkey.NewHook()
	if err := hook.Install(func(saveToFile bool) {
		svc.Shoot(saveToFile)
	}); err != nil {
		log.Printf("Warning: %v", err)
		log.Println("The application will still run, but PrintScreen will not be captured.")
	}

	go func() {
		ticker := time.NewTicker(monitorInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				refreshMonitors(slots)
			case <-quit:
				return
			}
		}
	}()

	go func() {
		for {
			select {
			case <-mAutoStart.ClickedCh:
				if autostart == nil {
					continue
				}
				enabled, err := autostart.Apply(!mAutoStart.Checked())
				if err != nil {
					log.Printf("Failed to change autostart: %v", err)
					continue
				}
				if enabled {
					mAutoStart.Check()
				} else {
					mAutoStart.Uncheck()
				}
				configMutex.Lock()
				settings.AutoStart = enabled
				saveSettings()
				configMutex.Unlock()
			case <-mNotify.ClickedCh:
				configMutex.Lock()
				settings.Notify = !settings.Notify
				if settings.Notify {
					mNotify.Check()
				} else {
					mNotify.Uncheck()
				}
				saveSettings()
				configMutex.Unlock()
			case <-mAbout.ClickedCh:
				go showAbout()
			case <-mExit.ClickedCh:
				systray.Quit()
				return
			}
		}
	}()
}

func onExit() {
	quitOnce.Do(func() {
		close(quit)
		if hook != nil {
			hook.Close()
		}
		log.Println("Exiting")
	})
}

func notifyEnabled() bool {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return settings.Notify
}

// saveSettings must be called with configMutex held.
func saveSettings() {
	if settingsPath == "" {
		return
	}
	if err := config.Save(settingsPath, settings); err != nil {
		log.Printf("Failed to save config: %v", err)
	}
}

func refreshMonitors(slots []*systray.MenuItem) {
	labels := display.Labels(display.List())
	for i, item := range slots {
		if i < len(labels) {
			item.SetTitle(labels[i])
			item.Show()
		} else {
			item.Hide()
		}
	}
}

func showAbout() {
	text := appName + " " + version + "\n\n" + appDescription
	win.MessageBox(0,
		windows.StringToUTF16Ptr(text),
		windows.StringToUTF16Ptr("About "+appName),
		win.MB_OK|win.MB_ICONINFORMATION|win.MB_TOPMOST)
}
