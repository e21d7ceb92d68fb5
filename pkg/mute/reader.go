package mute

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	log "github.com/echocat/slf4g"

	"github.com/blaubaer/mic-overlay/pkg/common"
)

// Reader queries the mute state of a capture source with a one-shot command.
type Reader struct {
	Binary    string
	Arguments []string
	Timeout   time.Duration
}

func NewReader(conf *Configuration, pactl *common.Pactl) *Reader {
	return &Reader{
		Binary:    pactl.Binary,
		Arguments: []string{"get-source-mute", pactl.Source},
		Timeout:   conf.Timeout,
	}
}

// Read returns the current state. Every failure of the command is reported as
// StateUnmuted.
func (this *Reader) Read(ctx context.Context) State {
	result, err := this.ReadErr(ctx)
	if err != nil {
		log.WithError(err).
			With("binary", this.Binary).
			Warn("Cannot query mute state. Assume unmuted.")
		return StateUnmuted
	}
	return result
}

// ReadErr is Read without the fallback.
func (this *Reader) ReadErr(ctx context.Context) (State, error) {
	if v := this.Timeout; v > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v)
		defer cancel()
	}

	out, err := exec.CommandContext(ctx, this.Binary, this.Arguments...).Output()
	if ee, ok := common.AsError[*exec.ExitError](err); ok {
		return StateUnmuted, fmt.Errorf("%s %v exited with %d: %s", this.Binary, this.Arguments, ee.ExitCode(), strings.TrimSpace(string(ee.Stderr)))
	}
	if err != nil {
		return StateUnmuted, fmt.Errorf("cannot execute %s %v: %w", this.Binary, this.Arguments, err)
	}

	result := Parse(string(out))
	log.With("state", result).
		Debug("Mute state queried.")
	return result, nil
}

// Parse interprets the output of the query command.
func Parse(output string) State {
	if strings.Contains(strings.ToLower(output), "yes") {
		return StateMuted
	}
	return StateUnmuted
}
