package signal

import (
	"context"

	log "github.com/echocat/slf4g"

	"github.com/blaubaer/mic-overlay/pkg/mute"
)

func NewDispatcher(s Signal) *Dispatcher {
	return &Dispatcher{
		Signal:  s,
		pending: make(chan mute.State, 1),
	}
}

// Dispatcher applies state changes to a Signal on its own goroutine so the
// UI loop never waits for it.
type Dispatcher struct {
	Signal Signal

	pending chan mute.State
}

// Notify records state as the next state to apply. It never blocks; a state
// not yet applied is replaced.
func (this *Dispatcher) Notify(state mute.State) {
	for {
		select {
		case this.pending <- state:
			return
		default:
		}
		select {
		case <-this.pending:
		default:
		}
	}
}

// Run initializes the signal and applies notified states until ctx is done.
func (this *Dispatcher) Run(ctx context.Context) error {
	l := log.With("signal", this.Signal.GetType())
	if err := this.Signal.Initialize(); err != nil {
		return err
	}
	defer func() {
		if err := this.Signal.Dispose(); err != nil {
			l.WithError(err).
				Warn("Cannot dispose signal.")
		}
	}()
	l.Info("Signal initialized.")

	for {
		select {
		case <-ctx.Done():
			return nil
		case state := <-this.pending:
			if err := this.Signal.Ensure(state); err != nil {
				l.WithError(err).
					With("state", state).
					Error("Cannot ensure signal state.")
				continue
			}
			l.With("state", state).
				Debug("Signal state ensured.")
		}
	}
}
