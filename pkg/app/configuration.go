package app

import (
	"os"
	"path/filepath"
	"reflect"

	"github.com/blaubaer/mic-overlay/pkg/common"
	"github.com/blaubaer/mic-overlay/pkg/events"
	"github.com/blaubaer/mic-overlay/pkg/icon"
	"github.com/blaubaer/mic-overlay/pkg/mute"
	"github.com/blaubaer/mic-overlay/pkg/overlay"
	"github.com/blaubaer/mic-overlay/pkg/signal/facade"
)

func NewConfiguration() Configuration {
	return Configuration{
		false,

		overlay.NewConfiguration(),
		icon.NewConfiguration(),
		common.NewPactl(),
		mute.NewConfiguration(),
		events.NewConfiguration(),

		facade.NewConfiguration(),
	}
}

type Configuration struct {
	PreventAutoSave bool `yaml:"preventAutoSave"`

	Window overlay.Configuration `yaml:"window"`
	Icon   icon.Configuration    `yaml:"icon,omitempty"`
	Pactl  common.Pactl          `yaml:"pactl,omitempty"`
	Mute   mute.Configuration    `yaml:"mute,omitempty"`
	Events events.Configuration  `yaml:"events,omitempty"`

	Signal facade.Configuration `yaml:"signal,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("preventAutoSave", "If provided configuration will NOT automatically be saved upon changes.").
		Envar("MO_PREVENT_AUTO_SAVE").
		BoolVar(&this.PreventAutoSave)

	this.Window.SetupConfiguration(using)
	this.Icon.SetupConfiguration(using)
	this.Pactl.SetupConfiguration(using)
	this.Mute.SetupConfiguration(using)
	this.Events.SetupConfiguration(using)
	this.Signal.SetupConfiguration(using)
}

func defaultConfigurationFile() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "mic-overlay", "configuration.yml")
	}
	if v, err := os.UserHomeDir(); err == nil {
		return filepath.Join(v, ".config", "mic-overlay", "configuration.yml")
	}
	return "configuration.yml"
}

// configurationTransformers lets mergo treat common.Pattern as a scalar.
type configurationTransformers struct{}

var patternType = reflect.TypeOf(common.Pattern{})

func (configurationTransformers) Transformer(t reflect.Type) func(dst, src reflect.Value) error {
	if t != patternType {
		return nil
	}
	return func(dst, src reflect.Value) error {
		if dst.CanSet() && !src.Interface().(common.Pattern).IsZero() {
			dst.Set(src)
		}
		return nil
	}
}
