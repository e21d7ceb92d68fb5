package mute

import (
	"time"

	"github.com/blaubaer/mic-overlay/pkg/common"
)

func NewConfiguration() Configuration {
	return Configuration{
		2 * time.Second,
	}
}

type Configuration struct {
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("mute.timeout", "How long the query of the mute state may take before it is treated as failed.").
		Envar("MO_MUTE_TIMEOUT").
		DurationVar(&this.Timeout)
}
