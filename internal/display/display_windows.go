//go:build windows

package display

import (
	"fmt"
	"image"
	"log"
	"unsafe"

	"github.com/kbinani/screenshot"
	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

const mdtEffectiveDPI = 0

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	shcore               = windows.NewLazySystemDLL("shcore.dll")
	procMonitorFromRect  = user32.NewProc("MonitorFromRect")
	procGetDpiForMonitor = shcore.NewProc("GetDpiForMonitor")
)

// List enumerates the active displays.
func List() []Display {
	n := screenshot.NumActiveDisplays()
	displays := make([]Display, 0, n)
	for i := 0; i < n; i++ {
		bounds := screenshot.GetDisplayBounds(i)
		displays = append(displays, Display{
			Index:   i,
			Bounds:  bounds,
			Primary: bounds.Min == image.Point{},
			DPIX:    BaseDPI,
			DPIY:    BaseDPI,
		})
	}
	return displays
}

func cursorPosition() (image.Point, error) {
	var pt win.POINT
	if !win.GetCursorPos(&pt) {
		return image.Point{}, fmt.Errorf("GetCursorPos failed: %d", win.GetLastError())
	}
	return image.Pt(int(pt.X), int(pt.Y)), nil
}

// Locate returns the display under the mouse pointer.
func Locate() (Display, error) {
	pt, err := cursorPosition()
	if err != nil {
		return Display{}, err
	}

	d, err := monitorAt(pt)
	if err == nil {
		return d, nil
	}
	log.Printf("Monitor lookup failed: %v, falling back to display list", err)

	d, err = Resolve(pt, List())
	if err != nil {
		return Display{}, err
	}
	return d, nil
}

// Cursor locates displays by pointer position.
type Cursor struct{}

func (Cursor) Locate() (Display, error) {
	return Locate()
}

func monitorAt(pt image.Point) (Display, error) {
	rc := win.RECT{Left: int32(pt.X), Top: int32(pt.Y), Right: int32(pt.X) + 1, Bottom: int32(pt.Y) + 1}
	ret, _, _ := procMonitorFromRect.Call(uintptr(unsafe.Pointer(&rc)), win.MONITOR_DEFAULTTONEAREST)
	if ret == 0 {
		return Display{}, fmt.Errorf("MonitorFromRect returned no monitor")
	}
	hmon := win.HMONITOR(ret)

	var mi win.MONITORINFO
	mi.CbSize = uint32(unsafe.Sizeof(mi))
	if !win.GetMonitorInfo(hmon, &mi) {
		return Display{}, fmt.Errorf("GetMonitorInfo failed")
	}

	r := mi.RcMonitor
	dpiX, dpiY := monitorDPI(hmon)
	return Display{
		Index:   -1,
		Bounds:  image.Rect(int(r.Left), int(r.Top), int(r.Right), int(r.Bottom)),
		Primary: mi.DwFlags&win.MONITORINFOF_PRIMARY != 0,
		DPIX:    dpiX,
		DPIY:    dpiY,
	}, nil
}

// monitorDPI returns the effective DPI of the monitor per axis, or BaseDPI
// when the system cannot tell (pre-8.1 Windows, API failure).
func monitorDPI(hmon win.HMONITOR) (int, int) {
	if err := procGetDpiForMonitor.Find(); err != nil {
		return BaseDPI, BaseDPI
	}
	var dpiX, dpiY uint32
	hr, _, _ := procGetDpiForMonitor.Call(
		uintptr(hmon),
		mdtEffectiveDPI,
		uintptr(unsafe.Pointer(&dpiX)),
		uintptr(unsafe.Pointer(&dpiY)),
	)
	if int32(hr) < 0 || dpiX == 0 || dpiY == 0 {
		return BaseDPI, BaseDPI
	}
	return int(dpiX), int(dpiY)
}
