package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dario.cat/mergo"
	"github.com/alecthomas/kingpin/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blaubaer/mic-overlay/pkg/common"
	"github.com/blaubaer/mic-overlay/pkg/overlay"
	"github.com/blaubaer/mic-overlay/pkg/signal"
)

func TestConfiguration_saveAndLoad(t *testing.T) {
	expected := NewConfiguration()
	expected.Window.Position = overlay.Point{X: 10, Y: 20}
	expected.Signal.Type = signal.TypeHue
	expected.Signal.Hue.User = "abc"

	var buf bytes.Buffer
	require.NoError(t, expected.encode(&buf))

	actual := NewConfiguration()
	require.NoError(t, actual.decode(&buf))

	assert.Equal(t, overlay.Point{X: 10, Y: 20}, actual.Window.Position)
	assert.Equal(t, signal.TypeHue, actual.Signal.Type)
	assert.Equal(t, "abc", actual.Signal.Hue.User)
	assert.Equal(t, "^OnAir", actual.Signal.Hue.Name.String())
	assert.Equal(t, 2*time.Second, actual.Mute.Timeout)
	assert.Equal(t, "source", actual.Events.Token)
}

func TestConfiguration_decode_unknownField(t *testing.T) {
	actual := NewConfiguration()
	err := actual.decode(strings.NewReader("window:\n  colour: red\n"))
	require.Error(t, err)
}

func TestConfiguration_decode_empty(t *testing.T) {
	actual := NewConfiguration()
	require.NoError(t, actual.decode(strings.NewReader("")))
	assert.Equal(t, NewConfiguration().Window, actual.Window)
}

func TestConfiguration_load_notFound(t *testing.T) {
	actual := NewConfiguration()
	fn := filepath.Join(t.TempDir(), "absent.yml")

	found, err := actual.load(fn)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, NewConfiguration().Window, actual.Window)
}

func TestConfiguration_load_invalid(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "configuration.yml")
	require.NoError(t, os.WriteFile(fn, []byte("window: [\n"), 0600))

	actual := NewConfiguration()
	found, err := actual.load(fn)
	assert.True(t, found)
	assert.ErrorContains(t, err, "cannot load configuration file")
}

func TestConfiguration_store(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sub")
	fn := filepath.Join(dir, "configuration.yml")
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(fn, []byte("window:\n  opaque: true\n"), 0600))

	expected := NewConfiguration()
	expected.Signal.Type = signal.TypeHomeassistant
	expected.Signal.HomeAssistant.Token = "secret"
	require.NoError(t, expected.store(fn))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temporary file is left behind")
	assert.Equal(t, "configuration.yml", entries[0].Name())

	info, err := os.Stat(fn)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	actual := NewConfiguration()
	found, err := actual.load(fn)
	require.NoError(t, err)
	assert.True(t, found)
	assert.False(t, actual.Window.Opaque, "previous content is replaced")
	assert.Equal(t, signal.TypeHomeassistant, actual.Signal.Type)
	assert.Equal(t, "secret", actual.Signal.HomeAssistant.Token)
}

func TestConfiguration_flagsOverrideFile(t *testing.T) {
	config := NewConfiguration()
	require.NoError(t, config.decode(strings.NewReader(`
window:
  position:
    x: 1
    y: 2
pactl:
  binary: /usr/bin/pactl
signal:
  type: hue
  hue:
    target: ^Desk
    brightness: 100
    hue: 0
    saturation: 0
`)))

	var fromFlags Configuration
	cmd := kingpin.New("test", "")
	fromFlags.SetupConfiguration(cmd)
	_, err := cmd.Parse([]string{"--position.x=500", "--signal.hue.name=^Studio"})
	require.NoError(t, err)

	require.NoError(t, mergo.Merge(&config, fromFlags, mergo.WithOverride, mergo.WithTransformers(configurationTransformers{})))

	assert.Equal(t, overlay.Point{X: 500, Y: 2}, config.Window.Position)
	assert.Equal(t, "/usr/bin/pactl", config.Pactl.Binary)
	assert.Equal(t, common.DefaultPactlSource, config.Pactl.Source)
	assert.Equal(t, signal.TypeHue, config.Signal.Type)
	assert.Equal(t, "^Studio", config.Signal.Hue.Name.String())
	assert.Equal(t, uint8(100), config.Signal.Hue.Brightness)
}

func TestConfiguration_flagsKeepPattern(t *testing.T) {
	config := NewConfiguration()
	var fromFlags Configuration

	require.NoError(t, mergo.Merge(&config, fromFlags, mergo.WithOverride, mergo.WithTransformers(configurationTransformers{})))

	assert.Equal(t, "^OnAir", config.Signal.Hue.Name.String())
	assert.Equal(t, NewConfiguration().Window, config.Window)
}

func TestApp_Initialize(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "sub", "configuration.yml")
	instance := NewApp()
	instance.ConfigurationFile = fn

	require.NoError(t, instance.Initialize())
	_, err := os.Stat(fn)
	require.NoError(t, err, "absent configuration is written")

	require.NoError(t, os.WriteFile(fn, []byte("window:\n  position:\n    x: 7\n    y: 8\n"), 0600))
	instance = NewApp()
	instance.ConfigurationFile = fn
	require.NoError(t, instance.Initialize())
	assert.Equal(t, overlay.Point{X: 7, Y: 8}, instance.config.Window.Position)

	b, err := os.ReadFile(fn)
	require.NoError(t, err)
	assert.Equal(t, "window:\n  position:\n    x: 7\n    y: 8\n", string(b), "existing configuration is not rewritten")
}

func TestApp_saveConf_prevented(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "configuration.yml")
	instance := NewApp()
	instance.ConfigurationFile = fn
	instance.config.PreventAutoSave = true

	require.NoError(t, instance.alwaysSaveConf())
	_, err := os.Stat(fn)
	assert.True(t, os.IsNotExist(err))
}
