package icon

import (
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"

	log "github.com/echocat/slf4g"
	"golang.org/x/image/draw"

	"github.com/blaubaer/mic-overlay/pkg/mute"
)

const (
	FileMuted   = "mic-muted.png"
	FileUnmuted = "mic-unmuted.png"
)

func NewRenderer(conf *Configuration) *Renderer {
	size := conf.Size
	if size <= 0 {
		size = DefaultSize
	}
	return &Renderer{
		Directory:    conf.ResolveDirectory(),
		Size:         size,
		FallbackSize: DefaultFallbackSize,
	}
}

// Renderer turns a mute.State into the image which should be displayed.
type Renderer struct {
	Directory    string
	Size         int
	FallbackSize int
}

// Path returns the icon file for the given state.
func (this *Renderer) Path(state mute.State) string {
	if state.IsMuted() {
		return filepath.Join(this.Directory, FileMuted)
	}
	return filepath.Join(this.Directory, FileUnmuted)
}

// Load returns the scaled icon of state. It never fails; if the icon file
// cannot be used the error icon is returned instead.
func (this *Renderer) Load(state mute.State) image.Image {
	fn := this.Path(state)
	result, err := this.LoadErr(state)
	if err != nil {
		l := log.WithError(err).
			With("file", fn)
		if errors.Is(err, fs.ErrNotExist) {
			l.Error("Cannot load icon. Make sure the icon files are in the same directory as the executable or set --icon.directory.")
		} else {
			l.Error("Cannot load icon.")
		}
		return ErrorIcon(this.fallbackSize())
	}
	return result
}

// LoadErr is Load without the fallback.
func (this *Renderer) LoadErr(state mute.State) (*image.RGBA, error) {
	fn := this.Path(state)
	f, err := os.Open(fn)
	if err != nil {
		return nil, fmt.Errorf("cannot open icon %q: %w", fn, err)
	}
	defer func() {
		_ = f.Close()
	}()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("cannot decode icon %q: %w", fn, err)
	}

	return Scale(src, this.size()), nil
}

func (this *Renderer) size() int {
	if v := this.Size; v > 0 {
		return v
	}
	return DefaultSize
}

func (this *Renderer) fallbackSize() int {
	if v := this.FallbackSize; v > 0 {
		return v
	}
	return DefaultFallbackSize
}

// Scale draws src into a new size x size image.
func Scale(src image.Image, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
