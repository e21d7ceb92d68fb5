package signal

import "github.com/blaubaer/mic-overlay/pkg/mute"

// Signal mirrors the displayed mute state to something outside of the
// overlay. A Signal observes only; it never changes the mute state.
type Signal interface {
	Initialize() error
	Dispose() error
	Ensure(mute.State) error

	GetType() Type
}
