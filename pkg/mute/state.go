package mute

import (
	"fmt"
	"strings"
)

// State is the mute state of the default capture device.
type State uint8

const (
	StateUnmuted = State(0)
	StateMuted   = State(1)
)

var (
	AllStates = States{
		StateUnmuted,
		StateMuted,
	}
)

func (this *State) Set(plain string) error {
	switch strings.TrimSpace(strings.ToLower(plain)) {
	case "unmuted", "no", "false", "off", "0":
		*this = StateUnmuted
		return nil
	case "muted", "yes", "true", "on", "1":
		*this = StateMuted
		return nil
	default:
		return fmt.Errorf("illegal-mute-state: %s", plain)
	}
}

func (this State) String() string {
	v, err := this.MarshalText()
	if err != nil {
		return fmt.Sprintf("illegal-mute-state-%d", this)
	}
	return string(v)
}

func (this State) IsMuted() bool {
	return this == StateMuted
}

func (this State) MarshalText() (text []byte, err error) {
	switch this {
	case StateUnmuted:
		return []byte("unmuted"), nil
	case StateMuted:
		return []byte("muted"), nil
	default:
		return nil, fmt.Errorf("illegal mute state: %d", this)
	}
}

func (this *State) UnmarshalText(text []byte) error {
	return this.Set(string(text))
}

type States []State

func (this States) Strings() []string {
	result := make([]string, len(this))
	for i, v := range this {
		result[i] = v.String()
	}
	return result
}

func (this States) String() string {
	return strings.Join(this.Strings(), ",")
}
