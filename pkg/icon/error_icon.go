package icon

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

var (
	errorIconBackground = color.RGBA{R: 0xcc, G: 0x22, B: 0x22, A: 0xff}
	errorIconForeground = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// ErrorIcon renders a generic error symbol (white cross on a red disc).
func ErrorIcon(size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	s := float32(size)
	c := s / 2

	disc := vector.NewRasterizer(size, size)
	addCircle(disc, c, c, s*0.48)
	disc.Draw(dst, dst.Bounds(), image.NewUniform(errorIconBackground), image.Point{})

	cross := vector.NewRasterizer(size, size)
	arm, width := s*0.22, s*0.07
	addBar(cross, c-arm, c-arm, c+arm, c+arm, width)
	addBar(cross, c-arm, c+arm, c+arm, c-arm, width)
	cross.DrawOp = draw.Over
	cross.Draw(dst, dst.Bounds(), image.NewUniform(errorIconForeground), image.Point{})

	return dst
}

func addCircle(z *vector.Rasterizer, cx, cy, r float32) {
	const segments = 64
	z.MoveTo(cx+r, cy)
	for i := 1; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / segments
		z.LineTo(cx+r*float32(math.Cos(a)), cy+r*float32(math.Sin(a)))
	}
	z.ClosePath()
}

// addBar adds a rectangle of the given width centered on the line from
// (x0, y0) to (x1, y1).
func addBar(z *vector.Rasterizer, x0, y0, x1, y1, width float32) {
	dx, dy := x1-x0, y1-y0
	l := float32(math.Hypot(float64(dx), float64(dy)))
	nx, ny := -dy/l*width/2, dx/l*width/2
	z.MoveTo(x0+nx, y0+ny)
	z.LineTo(x1+nx, y1+ny)
	z.LineTo(x1-nx, y1-ny)
	z.LineTo(x0-nx, y0-ny)
	z.ClosePath()
}
