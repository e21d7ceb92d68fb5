package app

import (
	"context"
	"os"
	"sync"
	"time"

	"dario.cat/mergo"
	log "github.com/echocat/slf4g"

	"github.com/blaubaer/mic-overlay/pkg/common"
	"github.com/blaubaer/mic-overlay/pkg/events"
	"github.com/blaubaer/mic-overlay/pkg/icon"
	"github.com/blaubaer/mic-overlay/pkg/mute"
	"github.com/blaubaer/mic-overlay/pkg/overlay"
	"github.com/blaubaer/mic-overlay/pkg/overlay/window"
	"github.com/blaubaer/mic-overlay/pkg/signal"
	"github.com/blaubaer/mic-overlay/pkg/signal/facade"
)

const disposeTimeout = 5 * time.Second

func NewApp() *App {
	return &App{
		config: NewConfiguration(),
	}
}

// App is the application context: it owns the configuration and wires the
// overlay, the listener and the optional signal together.
type App struct {
	ConfigurationFile string

	configFromFlags Configuration
	config          Configuration
	saveMutex       sync.Mutex
}

func (this *App) SetupConfiguration(using common.FlagHolder) {
	this.configFromFlags.SetupConfiguration(using)

	using.Flag("configuration", "Defines the file from which the configuration should be loaded and/or stored to.").
		Short('c').
		StringVar(&this.ConfigurationFile)
}

func (this *App) Initialize() error {
	fn := this.configurationFile()
	found, err := this.config.load(fn)
	if err != nil {
		return err
	}
	if !found {
		log.With("file", fn).Debug("Configuration absent. Using defaults.")
	}
	if err := mergo.Merge(&this.config, this.configFromFlags, mergo.WithOverride, mergo.WithTransformers(configurationTransformers{})); err != nil {
		return err
	}

	return this.saveConf(false)
}

// Run shows the overlay and blocks until its window was closed or ctx is
// done. It has to be called from the main goroutine.
func (this *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	reader := mute.NewReader(&this.config.Mute, &this.config.Pactl)
	icons := icon.NewRenderer(&this.config.Icon)
	win := window.New(&this.config.Window, icons.Size)
	ov := &overlay.Overlay{
		Reader:  reader,
		Icons:   icons,
		Surface: win,
	}
	win.Overlay = ov

	listener := events.NewListener(&this.config.Events, &this.config.Pactl, func(string) {
		ov.RequestRefresh(ctx)
	})
	ov.OnShown = func() {
		listener.Start(ctx)
	}

	signalDone, err := this.startSignal(ctx, ov)
	if err != nil {
		return err
	}

	log.With("position", this.config.Window.Position).
		With("icons", icons.Directory).
		Info("Starting overlay...")

	ov.Refresh(ctx)
	rErr := win.Run(ctx)

	log.Info("Overlay closed. Going down...")
	cancel()
	select {
	case <-signalDone:
	case <-time.After(disposeTimeout):
		log.Warn("Signal did not shut down in time.")
	}
	return rErr
}

func (this *App) startSignal(ctx context.Context, ov *overlay.Overlay) (<-chan struct{}, error) {
	done := make(chan struct{})
	s, err := facade.New(ctx, &this.config.Signal, this.alwaysSaveConf)
	if err != nil {
		return nil, err
	}
	if s == nil {
		close(done)
		return done, nil
	}

	d := signal.NewDispatcher(s)
	ov.OnChange = d.Notify
	go func() {
		defer close(done)
		if err := d.Run(ctx); err != nil && ctx.Err() == nil {
			log.WithError(err).
				With("signal", s.GetType()).
				Error("Cannot run signal. The mute state will not be mirrored.")
		}
	}()
	return done, nil
}

func (this *App) configurationFile() string {
	if v := this.ConfigurationFile; v != "" {
		return v
	}
	return defaultConfigurationFile()
}

func (this *App) alwaysSaveConf() error {
	return this.saveConf(true)
}

func (this *App) saveConf(always bool) error {
	this.saveMutex.Lock()
	defer this.saveMutex.Unlock()

	if this.config.PreventAutoSave {
		log.Debug("Automatically save of configuration disabled.")
		return nil
	}

	fn := this.configurationFile()
	if !always {
		_, err := os.Stat(fn)
		if os.IsNotExist(err) {
			log.With("file", fn).Info("Configuration absent.")
			// Ok, we should save...
		} else if err != nil {
			return err
		} else {
			return nil
		}
	}

	if err := this.config.store(fn); err != nil {
		return err
	}

	log.With("file", fn).Info("Configuration saved.")

	return nil
}
