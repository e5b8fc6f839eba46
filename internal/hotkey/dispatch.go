package hotkey

import "sync"

// dispatcher runs the capture handler on a worker goroutine so the hook
// thread keeps answering key events while a capture is in flight. start and
// finish are only called on the hook thread.
type dispatcher struct {
	trigger *Trigger
	handler func(saveToFile bool)
	// notify tells the hook thread that the handler returned.
	notify func()

	busy bool
	wg   sync.WaitGroup
}

// start runs the handler unless a capture is still in flight, in which case
// the press is dropped and false is returned.
func (d *dispatcher) start(saveToFile bool) bool {
	if d.busy {
		d.trigger.Complete()
		return false
	}
	d.busy = true
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer d.notify()
		if d.handler != nil {
			d.handler(saveToFile)
		}
	}()
	return true
}

func (d *dispatcher) finish() {
	d.busy = false
	d.trigger.Complete()
}

func (d *dispatcher) wait() {
	d.wg.Wait()
}
