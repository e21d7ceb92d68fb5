package facade

import (
	"context"
	"fmt"

	"github.com/blaubaer/mic-overlay/pkg/signal"
	"github.com/blaubaer/mic-overlay/pkg/signal/homeassistant"
	"github.com/blaubaer/mic-overlay/pkg/signal/hue"
)

// New returns the signal selected by conf; nil for signal.TypeNone.
func New(ctx context.Context, conf *Configuration, saveConfFunc func() error) (signal.Signal, error) {
	switch conf.Type {
	case signal.TypeNone:
		return nil, nil
	case signal.TypeHue:
		return hue.New(ctx, &conf.Hue, saveConfFunc), nil
	case signal.TypeHomeassistant:
		return homeassistant.New(ctx, &conf.HomeAssistant, saveConfFunc), nil
	default:
		return nil, fmt.Errorf("unsupported signal type: %v", conf.Type)
	}
}
