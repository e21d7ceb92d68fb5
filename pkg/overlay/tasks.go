package overlay

import "sync"

// Tasks is an unbounded FIFO of functions. Enqueue may be called from any
// goroutine, Drain only from the UI loop.
type Tasks struct {
	mutex   sync.Mutex
	pending []func()
}

func (this *Tasks) Enqueue(task func()) {
	if task == nil {
		return
	}
	this.mutex.Lock()
	defer this.mutex.Unlock()
	this.pending = append(this.pending, task)
}

// Drain runs every task enqueued before the call and returns how many ran.
// Tasks enqueued while draining are left for the next call.
func (this *Tasks) Drain() int {
	this.mutex.Lock()
	pending := this.pending
	this.pending = nil
	this.mutex.Unlock()

	for _, task := range pending {
		task()
	}
	return len(pending)
}

func (this *Tasks) Len() int {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	return len(this.pending)
}
