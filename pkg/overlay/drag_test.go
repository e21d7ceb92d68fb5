package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDrag_roundTrip(t *testing.T) {
	var instance Drag

	assert.True(t, instance.Press(ButtonPrimary, Point{10, 20}))
	assert.True(t, instance.Active())

	actual, ok := instance.Motion(Point{500, 300})
	assert.True(t, ok)
	assert.Equal(t, Point{490, 280}, actual)

	actual, ok = instance.Motion(Point{15, 25})
	assert.True(t, ok)
	assert.Equal(t, Point{5, 5}, actual)

	assert.True(t, instance.Release(ButtonPrimary))
	assert.False(t, instance.Active())

	_, ok = instance.Motion(Point{900, 900})
	assert.False(t, ok)
}

func TestDrag_nonPrimaryButtons(t *testing.T) {
	var instance Drag

	assert.False(t, instance.Press(ButtonSecondary, Point{1, 1}))
	assert.False(t, instance.Press(ButtonMiddle, Point{1, 1}))
	assert.False(t, instance.Active())

	instance.Press(ButtonPrimary, Point{3, 4})
	assert.False(t, instance.Release(ButtonSecondary))
	assert.True(t, instance.Active())

	actual, ok := instance.Motion(Point{13, 14})
	assert.True(t, ok)
	assert.Equal(t, Point{10, 10}, actual)
}

func TestDrag_releaseWhileIdle(t *testing.T) {
	var instance Drag
	assert.False(t, instance.Release(ButtonPrimary))
}
