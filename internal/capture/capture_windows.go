//go:build windows

package capture

import (
	"fmt"
	"image"
	"runtime"
	"unsafe"

	"github.com/lxn/win"
)

// GDISource reads the screen with BitBlt from the desktop DC.
type GDISource struct{}

func NewGDISource() *GDISource {
	return &GDISource{}
}

// Capture runs on its own locked OS thread. GDI handles belong to the
// thread that created them and are all released before it returns.
func (s *GDISource) Capture(r image.Rectangle) (*image.RGBA, error) {
	if r.Empty() {
		return nil, ErrEmptyBounds
	}

	type result struct {
		img *image.RGBA
		err error
	}
	ch := make(chan result, 1)
	go func() {
		runtime.LockOSThread()
		img, err := blit(r)
		ch <- result{img, err}
	}()
	res := <-ch
	return res.img, res.err
}

func blit(r image.Rectangle) (*image.RGBA, error) {
	w, h := int32(r.Dx()), int32(r.Dy())

	hdcScreen := win.GetDC(0)
	if hdcScreen == 0 {
		return nil, fmt.Errorf("GetDC failed")
	}
	defer win.ReleaseDC(0, hdcScreen)

	hdcMem := win.CreateCompatibleDC(hdcScreen)
	if hdcMem == 0 {
		return nil, fmt.Errorf("CreateCompatibleDC failed")
	}
	defer win.DeleteDC(hdcMem)

	hbmp := win.CreateCompatibleBitmap(hdcScreen, w, h)
	if hbmp == 0 {
		return nil, fmt.Errorf("CreateCompatibleBitmap failed for %dx%d", w, h)
	}
	defer win.DeleteObject(win.HGDIOBJ(hbmp))

	old := win.SelectObject(hdcMem, win.HGDIOBJ(hbmp))
	if old == 0 {
		return nil, fmt.Errorf("SelectObject failed")
	}
	ok := win.BitBlt(hdcMem, 0, 0, w, h, hdcScreen, int32(r.Min.X), int32(r.Min.Y), win.SRCCOPY|win.CAPTUREBLT)
	// The bitmap must not be selected into a DC for GetDIBits.
	win.SelectObject(hdcMem, old)
	if !ok {
		return nil, fmt.Errorf("BitBlt failed: %d", win.GetLastError())
	}

	var bi win.BITMAPINFO
	bi.BmiHeader.BiSize = uint32(unsafe.Sizeof(bi.BmiHeader))
	bi.BmiHeader.BiWidth = w
	// Negative height asks for top-down rows.
	bi.BmiHeader.BiHeight = -h
	bi.BmiHeader.BiPlanes = 1
	bi.BmiHeader.BiBitCount = 32
	bi.BmiHeader.BiCompression = win.BI_RGB

	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	lines := win.GetDIBits(hdcMem, hbmp, 0, uint32(h), &img.Pix[0], &bi, win.DIB_RGB_COLORS)
	if lines != h {
		return nil, fmt.Errorf("GetDIBits copied %d of %d lines", lines, h)
	}

	// BGRA to RGBA. The desktop has no meaningful alpha.
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+2] = img.Pix[i+2], img.Pix[i]
		img.Pix[i+3] = 0xff
	}
	return img, nil
}
