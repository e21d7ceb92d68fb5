package hue

import (
	"fmt"
	"strings"

	"github.com/blaubaer/mic-overlay/pkg/common"
)

func NewConfiguration() Configuration {
	return Configuration{
		false,
		"",
		"",

		common.MustNewPattern("^OnAir"),
		Kinds{},

		254,
		65535,
		254,
	}
}

type Configuration struct {
	Pair   bool   `yaml:"pair,omitempty"`
	Bridge string `yaml:"bridge,omitempty"`
	User   string `yaml:"user,omitempty"`

	Name  common.Pattern `yaml:"target"`
	Kinds Kinds          `yaml:"kinds,omitempty"`

	Brightness uint8  `yaml:"brightness"`
	Hue        uint16 `yaml:"hue"`
	Saturation uint8  `yaml:"saturation"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("signal.hue.pair", "Pair again with the hue bridge even if a user is already known.").
		Envar("MO_SIGNAL_HUE_PAIR").
		BoolVar(&this.Pair)
	using.Flag("signal.hue.bridge", "Host of the hue bridge. Discovered automatically if absent.").
		Envar("MO_SIGNAL_HUE_BRIDGE").
		StringVar(&this.Bridge)
	using.Flag("signal.hue.user", "User on the hue bridge. Set by pairing and then stored in the configuration.").
		Envar("MO_SIGNAL_HUE_USER").
		StringVar(&this.User)
	using.Flag("signal.hue.name", "Regular expression matching the names of the lights/groups which are switched on while the microphone is live.").
		Envar("MO_SIGNAL_HUE_NAME").
		SetValue(&this.Name)
	using.Flag("signal.hue.kind", "Kind(s) of what should be handled. Possible values: "+AllKinds.String()).
		Envar("MO_SIGNAL_HUE_KIND").
		SetValue(&this.Kinds)

	using.Flag("signal.hue.brightness", "Brightness from 1 (minimum) to 254 (maximum).").
		Envar("MO_SIGNAL_HUE_BRIGHTNESS").
		Uint8Var(&this.Brightness)
	using.Flag("signal.hue.hue", "Hue between 0 and 65535. Both 0 and 65535 are red, 25500 is green and 46920 is blue.").
		Envar("MO_SIGNAL_HUE_HUE").
		Uint16Var(&this.Hue)
	using.Flag("signal.hue.saturation", "Saturation from 0 (white) to 254 (most saturated).").
		Envar("MO_SIGNAL_HUE_SATURATION").
		Uint8Var(&this.Saturation)
}

type Kind uint8

const (
	KindLight = Kind(0)
	KindGroup = Kind(1)
)

var AllKinds = Kinds{
	KindLight,
	KindGroup,
}

func (this *Kind) Set(plain string) error {
	switch strings.TrimSpace(strings.ToLower(plain)) {
	case "light":
		*this = KindLight
		return nil
	case "group", "room":
		*this = KindGroup
		return nil
	default:
		return fmt.Errorf("illegal-signal-hue-kind: %s", plain)
	}
}

func (this Kind) String() string {
	switch this {
	case KindLight:
		return "light"
	case KindGroup:
		return "group"
	default:
		return fmt.Sprintf("illegal-signal-hue-kind-%d", this)
	}
}

func (this Kind) MarshalText() ([]byte, error) {
	return []byte(this.String()), nil
}

func (this *Kind) UnmarshalText(text []byte) error {
	return this.Set(string(text))
}

// Kinds is empty if every kind should be handled.
type Kinds []Kind

func (this *Kinds) Set(plain string) error {
	for _, plain := range strings.Split(plain, ",") {
		if plain = strings.TrimSpace(plain); plain != "" {
			var v Kind
			if err := v.Set(plain); err != nil {
				return err
			}
			*this = append(*this, v)
		}
	}
	return nil
}

func (this Kinds) String() string {
	result := make([]string, len(this))
	for i, v := range this {
		result[i] = v.String()
	}
	return strings.Join(result, ",")
}

func (this Kinds) IsCumulative() bool {
	return true
}

func (this Kinds) Has(v Kind) bool {
	if len(this) == 0 {
		return true
	}
	for _, candidate := range this {
		if v == candidate {
			return true
		}
	}
	return false
}
