package overlay

import "github.com/blaubaer/mic-overlay/pkg/common"

func NewConfiguration() Configuration {
	return Configuration{
		Point{1310, 105},
		false,
		30,
	}
}

type Configuration struct {
	Position Point `yaml:"position"`
	// Opaque disables the transparent framebuffer.
	Opaque bool `yaml:"opaque,omitempty"`
	// TPS is how often per second input and queued refreshes are handled.
	TPS int `yaml:"tps,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("position.x", "Initial horizontal screen position of the overlay.").
		Envar("MO_POSITION_X").
		IntVar(&this.Position.X)
	using.Flag("position.y", "Initial vertical screen position of the overlay.").
		Envar("MO_POSITION_Y").
		IntVar(&this.Position.Y)
	using.Flag("window.opaque", "Draw an opaque background instead of requesting a transparent window.").
		Envar("MO_WINDOW_OPAQUE").
		BoolVar(&this.Opaque)
	using.Flag("window.tps", "Ticks per second of the UI loop.").
		Envar("MO_WINDOW_TPS").
		IntVar(&this.TPS)
}
