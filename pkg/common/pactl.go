package common

const (
	DefaultPactlBinary = "pactl"
	DefaultPactlSource = "@DEFAULT_SOURCE@"
)

func NewPactl() Pactl {
	return Pactl{
		DefaultPactlBinary,
		DefaultPactlSource,
	}
}

// Pactl describes how the PulseAudio/PipeWire control tool is invoked.
type Pactl struct {
	Binary string `yaml:"binary,omitempty"`
	Source string `yaml:"source,omitempty"`
}

func (this *Pactl) SetupConfiguration(using FlagHolder) {
	using.Flag("pactl.binary", "Path or name of the pactl executable.").
		Envar("MO_PACTL_BINARY").
		StringVar(&this.Binary)
	using.Flag("pactl.source", "Capture source whose mute state is displayed.").
		Envar("MO_PACTL_SOURCE").
		StringVar(&this.Source)
}
