package window

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/blaubaer/mic-overlay/pkg/overlay"
)

const appName = "mic-overlay"

var background = color.RGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xff}

var buttons = map[ebiten.MouseButton]overlay.Button{
	ebiten.MouseButtonLeft:   overlay.ButtonPrimary,
	ebiten.MouseButtonRight:  overlay.ButtonSecondary,
	ebiten.MouseButtonMiddle: overlay.ButtonMiddle,
}

var buttonOrder = []ebiten.MouseButton{
	ebiten.MouseButtonLeft,
	ebiten.MouseButtonRight,
	ebiten.MouseButtonMiddle,
}

func New(conf *overlay.Configuration, size int) *Window {
	return &Window{
		Title:    "Mic Status Overlay",
		Size:     size,
		Opaque:   conf.Opaque,
		TPS:      conf.TPS,
		position: conf.Position,
	}
}

// Window is the ebiten backed overlay.Surface. It drives the UI loop of the
// assigned overlay.Overlay.
type Window struct {
	Overlay *overlay.Overlay
	Title   string
	Size    int
	Opaque  bool
	TPS     int

	ctx      context.Context
	running  bool
	position overlay.Point
	icon     image.Image
	rendered *ebiten.Image
	dirty    bool
}

func (this *Window) Position() overlay.Point {
	if !this.running {
		return this.position
	}
	x, y := ebiten.WindowPosition()
	return overlay.Point{X: x, Y: y}
}

func (this *Window) SetPosition(p overlay.Point) {
	this.position = p
	ebiten.SetWindowPosition(p.X, p.Y)
}

func (this *Window) SetIcon(v image.Image) {
	this.icon = v
	this.dirty = true
}

// Run blocks until the window was closed or ctx is done. It has to be called
// from the main goroutine.
func (this *Window) Run(ctx context.Context) error {
	if this.Overlay == nil {
		return fmt.Errorf("no overlay assigned to window")
	}
	this.ctx = ctx

	ebiten.SetWindowTitle(this.Title)
	ebiten.SetWindowDecorated(false)
	ebiten.SetWindowFloating(true)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	ebiten.SetWindowSize(this.Size, this.Size)
	ebiten.SetWindowPosition(this.position.X, this.position.Y)
	ebiten.SetRunnableOnUnfocused(true)
	if this.TPS > 0 {
		ebiten.SetTPS(this.TPS)
	}

	this.running = true
	defer func() { this.running = false }()

	err := ebiten.RunGameWithOptions(this, &ebiten.RunGameOptions{
		ScreenTransparent: !this.Opaque,
		SkipTaskbar:       true,
		InitUnfocused:     true,
		X11ClassName:      appName,
		X11InstanceName:   appName,
	})
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("cannot run overlay window: %w", err)
	}
	return nil
}

func (this *Window) Update() error {
	cx, cy := ebiten.CursorPosition()
	in := overlay.Input{Cursor: overlay.Point{X: cx, Y: cy}}
	in.Pressed = mapButtons(inpututil.IsMouseButtonJustPressed)
	in.Released = mapButtons(inpututil.IsMouseButtonJustReleased)

	if err := this.Overlay.Tick(this.ctx, in); errors.Is(err, overlay.ErrTerminated) {
		return ebiten.Termination
	} else if err != nil {
		return err
	}
	return nil
}

// mapButtons returns the overlay buttons of all mouse buttons for which
// predicate is true, in the order of overlay.Button.
func mapButtons(predicate func(ebiten.MouseButton) bool) []overlay.Button {
	var result []overlay.Button
	for _, eb := range buttonOrder {
		if predicate(eb) {
			result = append(result, buttons[eb])
		}
	}
	return result
}

func (this *Window) Draw(screen *ebiten.Image) {
	if this.Opaque {
		screen.Fill(background)
	}

	if this.dirty {
		if v := this.rendered; v != nil {
			v.Deallocate()
		}
		this.rendered = nil
		if v := this.icon; v != nil {
			this.rendered = ebiten.NewImageFromImage(v)
		}
		this.dirty = false
	}

	if v := this.rendered; v != nil {
		b := v.Bounds()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(this.Size-b.Dx())/2, float64(this.Size-b.Dy())/2)
		screen.DrawImage(v, op)
	}

	this.Overlay.Presented()
}

func (this *Window) Layout(_, _ int) (int, int) {
	return this.Size, this.Size
}
