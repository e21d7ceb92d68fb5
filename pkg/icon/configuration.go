package icon

import (
	"os"
	"path/filepath"

	"github.com/blaubaer/mic-overlay/pkg/common"
)

const (
	DefaultSize         = 96
	DefaultFallbackSize = 48
)

func NewConfiguration() Configuration {
	return Configuration{
		"",
		DefaultSize,
	}
}

type Configuration struct {
	// Directory containing the icon files. If empty the directory of the
	// running executable is used.
	Directory string `yaml:"directory,omitempty"`
	Size      int    `yaml:"size,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("icon.directory", "Directory which contains "+FileMuted+" and "+FileUnmuted+". Defaults to the directory of the executable.").
		Envar("MO_ICON_DIRECTORY").
		StringVar(&this.Directory)
	using.Flag("icon.size", "Width and height in pixels the icons are scaled to.").
		Envar("MO_ICON_SIZE").
		IntVar(&this.Size)
}

// ResolveDirectory returns Directory or, if empty, the directory of the
// executable with symlinks resolved.
func (this *Configuration) ResolveDirectory() string {
	if v := this.Directory; v != "" {
		return v
	}
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}
