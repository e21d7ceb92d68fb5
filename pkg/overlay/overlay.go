package overlay

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"

	log "github.com/echocat/slf4g"

	"github.com/blaubaer/mic-overlay/pkg/mute"
)

// ErrTerminated is returned by Overlay.Tick once the UI loop has to stop.
var ErrTerminated = errors.New("overlay terminated")

// Surface is the window the overlay is displayed in. All methods are only
// called from the UI loop.
type Surface interface {
	Position() Point
	SetPosition(Point)
	SetIcon(image.Image)
}

type StateReader interface {
	Read(context.Context) mute.State
}

type IconLoader interface {
	Load(mute.State) image.Image
}

// Input is the pointer input collected by the UI loop during one tick.
type Input struct {
	// Cursor is relative to the window's current top-left corner.
	Cursor   Point
	Pressed  []Button
	Released []Button
}

// Overlay holds the state of the displayed window and handles its events.
// Apart from Enqueue and RequestRefresh every method must be called from the
// UI loop.
type Overlay struct {
	Reader  StateReader
	Icons   IconLoader
	Surface Surface

	// OnShown is executed once after the first frame was presented.
	OnShown func()
	// OnChange is executed from the UI loop whenever the displayed state
	// changes, including the initial refresh.
	OnChange func(mute.State)

	drag           Drag
	tasks          Tasks
	refreshPending atomic.Bool
	requested      atomic.Pointer[mute.State]
	presented      bool
	shown          sync.Once
	current        *mute.State
}

// Refresh reads the current mute state and displays the matching icon.
func (this *Overlay) Refresh(ctx context.Context) mute.State {
	return this.apply(this.Reader.Read(ctx))
}

func (this *Overlay) apply(state mute.State) mute.State {
	this.Surface.SetIcon(this.Icons.Load(state))

	if last := this.current; last == nil || *last != state {
		l := log.With("state", state)
		if last != nil {
			l = l.With("lastState", *last)
		}
		l.Info("Mute state changed.")
		if v := this.OnChange; v != nil {
			v(state)
		}
	}
	this.current = &state
	return state
}

// Current returns the displayed state; false if nothing was displayed yet.
func (this *Overlay) Current() (mute.State, bool) {
	if v := this.current; v != nil {
		return *v, true
	}
	return mute.StateUnmuted, false
}

// RequestRefresh reads the mute state on the calling goroutine and schedules
// displaying it on the UI loop. If several requests arrive before the UI loop
// ran, only the latest state is displayed.
func (this *Overlay) RequestRefresh(ctx context.Context) {
	state := this.Reader.Read(ctx)
	this.requested.Store(&state)
	if !this.refreshPending.CompareAndSwap(false, true) {
		return
	}
	this.tasks.Enqueue(func() {
		this.refreshPending.Store(false)
		if v := this.requested.Load(); v != nil {
			this.apply(*v)
		}
	})
}

func (this *Overlay) Enqueue(task func()) {
	this.tasks.Enqueue(task)
}

// Drain executes the queued tasks.
func (this *Overlay) Drain() int {
	return this.tasks.Drain()
}

// Tick handles one iteration of the UI loop. It has to be called before the
// frame of this iteration is drawn.
func (this *Overlay) Tick(ctx context.Context, in Input) error {
	if ctx.Err() != nil {
		return ErrTerminated
	}
	if this.presented {
		this.Shown()
	}

	for _, b := range in.Pressed {
		this.Press(b, in.Cursor)
	}
	for _, b := range in.Released {
		this.Release(b)
	}
	if this.Dragging() {
		this.Motion(in.Cursor)
	}

	this.Drain()
	return nil
}

// Presented has to be called after a frame was drawn. The next Tick calls
// Shown.
func (this *Overlay) Presented() {
	this.presented = true
}

// Shown runs OnShown the first time it is called.
func (this *Overlay) Shown() {
	this.shown.Do(func() {
		log.Debug("Overlay shown.")
		if v := this.OnShown; v != nil {
			v()
		}
	})
}

func (this *Overlay) Press(button Button, cursor Point) {
	if this.drag.Press(button, cursor) {
		log.With("offset", cursor).
			Trace("Drag started.")
	}
}

func (this *Overlay) Release(button Button) {
	if this.drag.Release(button) {
		log.With("position", this.Surface.Position()).
			Trace("Drag finished.")
	}
}

// Motion handles a pointer movement. cursor is relative to the window's
// current top-left corner.
func (this *Overlay) Motion(cursor Point) {
	current := this.Surface.Position()
	if next, ok := this.drag.Motion(current.Add(cursor)); ok && next != current {
		this.Surface.SetPosition(next)
	}
}

func (this *Overlay) Dragging() bool {
	return this.drag.Active()
}
