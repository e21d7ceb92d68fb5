package hue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amimof/huego"
	log "github.com/echocat/slf4g"

	"github.com/blaubaer/mic-overlay/pkg/mute"
	"github.com/blaubaer/mic-overlay/pkg/signal"
)

const appName = "github.com/blaubaer/mic-overlay"

func New(ctx context.Context, conf *Configuration, saveConfFunc func() error) *Hue {
	return &Hue{
		ctx:          ctx,
		conf:         conf,
		saveConfFunc: saveConfFunc,
	}
}

// Hue switches hue lights and groups on while the microphone is live and off
// while it is muted.
type Hue struct {
	ctx          context.Context
	conf         *Configuration
	saveConfFunc func() error

	bridge *huego.Bridge
	lights []huego.Light
	groups []huego.Group
	mutex  sync.Mutex
}

func (this *Hue) Initialize() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	bridge, err := this.resolveBridge()
	if err != nil {
		return err
	}
	this.bridge = bridge

	return this.discover()
}

func (this *Hue) discover() error {
	var lights []huego.Light
	if this.conf.Kinds.Has(KindLight) {
		candidates, err := this.bridge.GetLights()
		if err != nil {
			return fmt.Errorf("cannot discover lights of bridge %s: %w", this.bridge.Host, err)
		}
		for _, candidate := range candidates {
			if this.conf.Name.MatchString(candidate.Name) {
				if candidate.State == nil {
					candidate.State = &huego.State{}
				}
				lights = append(lights, candidate)
			}
		}
	}

	var groups []huego.Group
	if this.conf.Kinds.Has(KindGroup) {
		candidates, err := this.bridge.GetGroups()
		if err != nil {
			return fmt.Errorf("cannot discover groups of bridge %s: %w", this.bridge.Host, err)
		}
		for _, candidate := range candidates {
			if this.conf.Name.MatchString(candidate.Name) {
				if candidate.State == nil {
					candidate.State = &huego.State{}
				}
				groups = append(groups, candidate)
			}
		}
	}

	log.With("bridge", this.bridge.Host).
		With("lights", len(lights)).
		With("groups", len(groups)).
		Debug("Hue targets discovered.")

	this.lights = lights
	this.groups = groups
	return nil
}

func (this *Hue) Ensure(state mute.State) error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if this.bridge == nil {
		return fmt.Errorf("not paired with hue bridge")
	}

	for i, v := range this.lights {
		if target, ok := this.targetState(state, v.State); ok {
			if _, err := this.bridge.SetLightState(v.ID, target); err != nil {
				return fmt.Errorf("cannot switch light %q#%d of bridge %s for %v: %w", v.Name, v.ID, this.bridge.Host, state, err)
			}
			this.lights[i].State = &target
		}
	}
	for i, v := range this.groups {
		if target, ok := this.targetState(state, v.State); ok {
			if _, err := this.bridge.SetGroupState(v.ID, target); err != nil {
				return fmt.Errorf("cannot switch group %q#%d of bridge %s for %v: %w", v.Name, v.ID, this.bridge.Host, state, err)
			}
			this.groups[i].State = &target
		}
	}
	return nil
}

// targetState returns the state a light has to be switched to; false if it
// already is in the right state. An unmuted microphone means on air.
func (this *Hue) targetState(state mute.State, current *huego.State) (huego.State, bool) {
	if current == nil {
		current = &huego.State{}
	}
	if state.IsMuted() {
		if current.On {
			return huego.State{On: false}, true
		}
		return huego.State{}, false
	}
	if !current.On || current.Bri != this.conf.Brightness || current.Hue != this.conf.Hue || current.Sat != this.conf.Saturation {
		return huego.State{
			On:  true,
			Bri: this.conf.Brightness,
			Hue: this.conf.Hue,
			Sat: this.conf.Saturation,
		}, true
	}
	return huego.State{}, false
}

func (this *Hue) resolveBridge() (*huego.Bridge, error) {
	if !this.conf.Pair && this.conf.User != "" {
		host := this.conf.Bridge
		if host == "" {
			discovered, err := huego.Discover()
			if err != nil {
				return nil, fmt.Errorf("cannot discover hue bridge: %w", err)
			}
			host = discovered.Host
		}
		return huego.New(host, this.conf.User), nil
	}
	return this.pair()
}

func (this *Hue) pair() (*huego.Bridge, error) {
	bridge := &huego.Bridge{Host: this.conf.Bridge}
	if bridge.Host == "" {
		discovered, err := huego.Discover()
		if err != nil {
			return nil, fmt.Errorf("cannot discover hue bridge: %w", err)
		}
		bridge = discovered
	}

	for {
		log.With("bridge", bridge.Host).
			Info("Wait for hue link button been pressed...")
		user, err := bridge.CreateUser(appName)
		if apiErr, ok := err.(*huego.APIError); ok && apiErr.Type == 101 {
			select {
			case <-this.ctx.Done():
				return nil, this.ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		} else if err != nil {
			return nil, fmt.Errorf("was not able to pair with %s: %w", bridge.Host, err)
		}

		this.conf.Pair = false
		this.conf.Bridge = bridge.Host
		this.conf.User = user
		if v := this.saveConfFunc; v != nil {
			if err := v(); err != nil {
				log.WithError(err).
					Warn("Cannot store hue credentials. The signal will work now, but next time the pairing might be required again.")
			}
		}

		log.With("bridge", bridge.Host).
			Info("Successful paired.")
		return huego.New(bridge.Host, user), nil
	}
}

// Dispose switches every handled light off; the microphone is not observed
// anymore.
func (this *Hue) Dispose() error {
	if err := this.Ensure(mute.StateMuted); err != nil {
		return err
	}

	this.mutex.Lock()
	defer this.mutex.Unlock()
	this.bridge = nil
	return nil
}

func (this *Hue) GetType() signal.Type {
	return signal.TypeHue
}
