package icon

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blaubaer/mic-overlay/pkg/mute"
)

func TestRenderer_Path(t *testing.T) {
	instance := Renderer{Directory: filepath.Join("opt", "mic-overlay")}

	assert.Equal(t, filepath.Join("opt", "mic-overlay", "mic-muted.png"), instance.Path(mute.StateMuted))
	assert.Equal(t, filepath.Join("opt", "mic-overlay", "mic-unmuted.png"), instance.Path(mute.StateUnmuted))
	assert.Equal(t, instance.Path(mute.StateMuted), instance.Path(mute.StateMuted))
}

func TestRenderer_Load(t *testing.T) {
	dir := t.TempDir()
	writePng(t, filepath.Join(dir, FileMuted), 256, color.RGBA{R: 0xff, A: 0xff})
	writePng(t, filepath.Join(dir, FileUnmuted), 32, color.RGBA{G: 0xff, A: 0xff})
	instance := Renderer{Directory: dir, Size: 96}

	muted := instance.Load(mute.StateMuted)
	assert.Equal(t, image.Rect(0, 0, 96, 96), muted.Bounds())
	assertNearColor(t, color.RGBA{R: 0xff, A: 0xff}, muted.At(48, 48))

	unmuted := instance.Load(mute.StateUnmuted)
	assert.Equal(t, image.Rect(0, 0, 96, 96), unmuted.Bounds())
	assertNearColor(t, color.RGBA{G: 0xff, A: 0xff}, unmuted.At(48, 48))
}

func TestRenderer_Load_missingFile(t *testing.T) {
	dir := t.TempDir()
	writePng(t, filepath.Join(dir, FileUnmuted), 16, color.RGBA{B: 0xff, A: 0xff})
	instance := Renderer{Directory: dir, Size: 96, FallbackSize: 48}

	_, err := instance.LoadErr(mute.StateMuted)
	assert.ErrorIs(t, err, os.ErrNotExist)

	fallback := instance.Load(mute.StateMuted)
	require.NotNil(t, fallback)
	assert.Equal(t, image.Rect(0, 0, 48, 48), fallback.Bounds())

	unmuted := instance.Load(mute.StateUnmuted)
	assert.Equal(t, image.Rect(0, 0, 96, 96), unmuted.Bounds())
}

func TestRenderer_Load_corruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileMuted), []byte("not a png"), 0600))
	instance := Renderer{Directory: dir}

	_, err := instance.LoadErr(mute.StateMuted)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot decode icon")

	assert.Equal(t, image.Rect(0, 0, DefaultFallbackSize, DefaultFallbackSize), instance.Load(mute.StateMuted).Bounds())
}

func TestErrorIcon(t *testing.T) {
	actual := ErrorIcon(48)

	assert.Equal(t, image.Rect(0, 0, 48, 48), actual.Bounds())
	assert.Equal(t, uint8(0), actual.RGBAAt(0, 0).A, "corners are transparent")
	assertNearColor(t, errorIconForeground, actual.At(24, 24))
	assertNearColor(t, errorIconBackground, actual.At(24, 6))
}

func writePng(t testing.TB, fn string, size int, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	f, err := os.Create(fn)
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()
	require.NoError(t, png.Encode(f, img))
}

func assertNearColor(t testing.TB, expected color.RGBA, actual color.Color) {
	t.Helper()
	a := color.RGBAModel.Convert(actual).(color.RGBA)
	near := func(x, y uint8) bool {
		d := int(x) - int(y)
		return d >= -2 && d <= 2
	}
	assert.True(t, near(expected.R, a.R) && near(expected.G, a.G) && near(expected.B, a.B) && near(expected.A, a.A),
		"expected %v but got %v", expected, a)
}
