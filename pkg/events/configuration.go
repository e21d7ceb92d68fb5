package events

import "github.com/blaubaer/mic-overlay/pkg/common"

const DefaultToken = "source"

func NewConfiguration() Configuration {
	return Configuration{
		DefaultToken,
	}
}

type Configuration struct {
	Token string `yaml:"token,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("events.token", "Event lines of the subscribe stream containing this token (case-insensitive) trigger a refresh.").
		Envar("MO_EVENTS_TOKEN").
		StringVar(&this.Token)
}
