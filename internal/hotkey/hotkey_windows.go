//go:build windows

package hotkey

import (
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

const (
	whKeyboardLL = 13
	llkhfAltDown = 0x20

	// Posted to the hook thread when a press should be captured.
	wmTrigger = win.WM_APP + 1
	// Posted to the hook thread when a capture has finished.
	wmComplete = win.WM_APP + 2
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procSetWindowsHookEx    = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procPostThreadMessage   = user32.NewProc("PostThreadMessageW")
)

type kbdllHookStruct struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

// Hook is a process-wide low-level keyboard hook. The hook and its message
// loop own one locked OS thread; captures run on a worker goroutine, one at
// a time, so the loop never stops answering key events.
type Hook struct {
	trigger  *Trigger
	dispatch *dispatcher

	proc     uintptr
	threadID uint32
	done     chan struct{}

	mu        sync.Mutex
	installed bool
	closeOnce sync.Once
}

func NewHook() *Hook {
	h := &Hook{trigger: NewTrigger()}
	h.dispatch = &dispatcher{trigger: h.trigger, notify: h.postComplete}
	h.proc = windows.NewCallback(h.callback)
	return h
}

// Install hooks the keyboard and calls handler on a worker goroutine for
// every PrintScreen press that is not dropped as a duplicate.
func (h *Hook) Install(handler func(saveToFile bool)) error {
	h.mu.Lock()
	if h.installed {
		h.mu.Unlock()
		return ErrInstalled
	}
	h.installed = true
	h.dispatch.handler = handler
	h.done = make(chan struct{})
	h.mu.Unlock()

	ready := make(chan error, 1)
	go h.run(ready)
	return <-ready
}

func (h *Hook) run(ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(h.done)
	defer h.dispatch.wait()

	h.threadID = windows.GetCurrentThreadId()

	hhook, _, err := procSetWindowsHookEx.Call(
		whKeyboardLL,
		h.proc,
		uintptr(win.GetModuleHandle(nil)),
		0,
	)
	if hhook == 0 {
		ready <- fmt.Errorf("failed to install keyboard hook: %v", err)
		return
	}
	defer procUnhookWindowsHookEx.Call(hhook)

	log.Printf("Keyboard hook installed (threadID: %d)", h.threadID)
	ready <- nil

	var msg win.MSG
	for {
		ret := win.GetMessage(&msg, 0, 0, 0)
		if ret == 0 || ret == -1 {
			log.Printf("Hook message loop exiting: ret=%d", ret)
			return
		}

		switch msg.Message {
		case wmTrigger:
			if !h.dispatch.start(msg.WParam != 0) {
				log.Println("Screenshot already in progress, skipping")
			}
		case wmComplete:
			h.dispatch.finish()
		default:
			win.TranslateMessage(&msg)
			win.DispatchMessage(&msg)
		}
	}
}

func (h *Hook) postComplete() {
	procPostThreadMessage.Call(uintptr(h.threadID), wmComplete, 0, 0)
}

// callback runs on the hook thread. It must return quickly, so the capture
// is handed to the message loop, which starts it on a worker.
func (h *Hook) callback(nCode int, wParam, lParam uintptr) uintptr {
	if nCode >= 0 {
		kb := (*kbdllHookStruct)(unsafe.Pointer(lParam))

		var ev Event
		switch wParam {
		case win.WM_KEYDOWN, win.WM_SYSKEYDOWN:
			ev.Down = true
		case win.WM_KEYUP, win.WM_SYSKEYUP:
		default:
			return callNext(nCode, wParam, lParam)
		}
		ev.Key = Key(kb.VkCode)
		ev.Time = kb.Time
		ev.AltDown = kb.Flags&llkhfAltDown != 0

		action := h.trigger.Handle(ev)
		if action.Fire {
			var save uintptr
			if action.SaveToFile {
				save = 1
			}
			procPostThreadMessage.Call(uintptr(h.threadID), wmTrigger, save, 0)
		}
		if action.Swallow {
			return 1
		}
	}
	return callNext(nCode, wParam, lParam)
}

func callNext(nCode int, wParam, lParam uintptr) uintptr {
	ret, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return ret
}

// Close removes the hook. It is safe to call more than once.
func (h *Hook) Close() {
	h.closeOnce.Do(func() {
		h.mu.Lock()
		installed := h.installed
		done := h.done
		h.mu.Unlock()
		if !installed {
			return
		}

		if h.threadID != 0 {
			procPostThreadMessage.Call(uintptr(h.threadID), win.WM_QUIT, 0, 0)
		}

		select {
		case <-done:
			log.Println("Keyboard hook removed")
		case <-time.After(3 * time.Second):
			log.Println("Warning: hook message loop did not exit within timeout")
		}
	})
}
