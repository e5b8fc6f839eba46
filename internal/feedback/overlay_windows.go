//go:build windows

package feedback

import (
	"fmt"
	"image"
	"log"
	"runtime"
	"sync"
	"time"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

var (
	user32                         = windows.NewLazySystemDLL("user32.dll")
	procSetLayeredWindowAttributes = user32.NewProc("SetLayeredWindowAttributes")
)

const (
	lwaAlpha     = 0x2
	flashTimerID = 1
)

var (
	overlayClass     = windows.StringToUTF16Ptr("TrayshotFlashOverlay")
	overlayClassOnce sync.Once
	overlayClassErr  error
)

// Overlay flashes a translucent black rectangle over part of the screen.
type Overlay struct {
	Duration time.Duration
	Alpha    byte
}

func NewOverlay() *Overlay {
	return &Overlay{Duration: 120 * time.Millisecond, Alpha: 128}
}

// Flash returns immediately. The overlay window lives on its own thread and
// destroys itself when its timer fires.
func (o *Overlay) Flash(r image.Rectangle) {
	if r.Empty() {
		return
	}
	go func() {
		runtime.LockOSThread()
		if err := o.show(r); err != nil {
			log.Printf("Flash overlay failed: %v", err)
		}
	}()
}

func (o *Overlay) show(r image.Rectangle) error {
	overlayClassOnce.Do(func() { overlayClassErr = registerOverlayClass() })
	if overlayClassErr != nil {
		return overlayClassErr
	}

	hwnd := win.CreateWindowEx(
		win.WS_EX_LAYERED|win.WS_EX_TOPMOST|win.WS_EX_TOOLWINDOW|win.WS_EX_NOACTIVATE,
		overlayClass,
		nil,
		win.WS_POPUP,
		int32(r.Min.X), int32(r.Min.Y), int32(r.Dx()), int32(r.Dy()),
		0, 0, win.GetModuleHandle(nil), nil,
	)
	if hwnd == 0 {
		return fmt.Errorf("failed to create overlay window: %d", win.GetLastError())
	}

	procSetLayeredWindowAttributes.Call(uintptr(hwnd), 0, uintptr(o.Alpha), lwaAlpha)
	win.ShowWindow(hwnd, win.SW_SHOWNOACTIVATE)
	win.UpdateWindow(hwnd)

	if win.SetTimer(hwnd, flashTimerID, uint32(o.Duration.Milliseconds()), 0) == 0 {
		win.DestroyWindow(hwnd)
		return fmt.Errorf("failed to start overlay timer: %d", win.GetLastError())
	}

	var msg win.MSG
	for win.GetMessage(&msg, 0, 0, 0) > 0 {
		win.TranslateMessage(&msg)
		win.DispatchMessage(&msg)
	}
	return nil
}

func registerOverlayClass() error {
	wc := win.WNDCLASSEX{
		LpfnWndProc:   windows.NewCallback(overlayProc),
		HInstance:     win.GetModuleHandle(nil),
		HCursor:       win.LoadCursor(0, win.MAKEINTRESOURCE(win.IDC_ARROW)),
		HbrBackground: win.HBRUSH(win.GetStockObject(win.BLACK_BRUSH)),
		LpszClassName: overlayClass,
	}
	wc.CbSize = uint32(unsafe.Sizeof(wc))

	if win.RegisterClassEx(&wc) == 0 {
		return fmt.Errorf("failed to register overlay class: %d", win.GetLastError())
	}
	return nil
}

func overlayProc(hwnd win.HWND, msg uint32, wParam, lParam uintptr) uintptr {
	switch msg {
	case win.WM_TIMER:
		win.KillTimer(hwnd, flashTimerID)
		win.DestroyWindow(hwnd)
		return 0
	case win.WM_DESTROY:
		win.PostQuitMessage(0)
		return 0
	}
	return win.DefWindowProc(hwnd, msg, wParam, lParam)
}
