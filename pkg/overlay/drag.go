package overlay

import "fmt"

type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

func (this Point) Add(o Point) Point {
	return Point{this.X + o.X, this.Y + o.Y}
}

func (this Point) Sub(o Point) Point {
	return Point{this.X - o.X, this.Y - o.Y}
}

func (this Point) String() string {
	return fmt.Sprintf("%d,%d", this.X, this.Y)
}

type Button uint8

const (
	ButtonPrimary = Button(iota)
	ButtonSecondary
	ButtonMiddle
)

// Drag tracks a drag gesture of the primary button. The zero value is idle.
type Drag struct {
	active bool
	offset Point
}

func (this *Drag) Active() bool {
	return this.active
}

// Press starts dragging. cursor is relative to the window's top-left corner.
func (this *Drag) Press(button Button, cursor Point) bool {
	if button != ButtonPrimary {
		return false
	}
	this.active = true
	this.offset = cursor
	return true
}

func (this *Drag) Release(button Button) bool {
	if button != ButtonPrimary || !this.active {
		return false
	}
	this.active = false
	return true
}

// Motion returns the window's new top-left corner for the pointer at the
// screen position pointer. It returns false if no drag is in progress.
func (this *Drag) Motion(pointer Point) (Point, bool) {
	if !this.active {
		return Point{}, false
	}
	return pointer.Sub(this.offset), true
}
