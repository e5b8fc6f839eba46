//go:build windows

package clipboard

import (
	"fmt"
	"image"
	"runtime"
	"unsafe"

	"github.com/lxn/win"
)

// Clipboard places images on the Windows clipboard.
type Clipboard struct{}

func New() *Clipboard {
	return &Clipboard{}
}

// SetImage replaces the clipboard contents with img. The clipboard is owned
// by the thread that opened it, so the work runs on its own locked thread.
func (c *Clipboard) SetImage(img image.Image) error {
	dib, err := EncodeDIB(img)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		// The thread exits with the goroutine.
		runtime.LockOSThread()
		errCh <- setDIB(dib)
	}()
	return <-errCh
}

func setDIB(dib []byte) error {
	if !win.OpenClipboard(0) {
		return fmt.Errorf("failed to open clipboard: %d", win.GetLastError())
	}
	defer win.CloseClipboard()

	if !win.EmptyClipboard() {
		return fmt.Errorf("failed to empty clipboard: %d", win.GetLastError())
	}

	hMem := win.GlobalAlloc(win.GMEM_MOVEABLE, uintptr(len(dib)))
	if hMem == 0 {
		return fmt.Errorf("failed to allocate memory")
	}

	pMem := win.GlobalLock(hMem)
	if pMem == nil {
		win.GlobalFree(hMem)
		return fmt.Errorf("failed to lock memory")
	}
	copy(unsafe.Slice((*byte)(pMem), len(dib)), dib)
	win.GlobalUnlock(hMem)

	// On success the system owns hMem.
	if win.SetClipboardData(win.CF_DIB, win.HANDLE(hMem)) == 0 {
		win.GlobalFree(hMem)
		return fmt.Errorf("failed to set clipboard data: %d", win.GetLastError())
	}
	return nil
}
