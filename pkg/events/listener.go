package events

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	log "github.com/echocat/slf4g"

	"github.com/blaubaer/mic-overlay/pkg/common"
)

// ErrStreamClosed is returned by Listener.Run once the event stream ended.
var ErrStreamClosed = errors.New("event stream closed")

// MaxLineLength is the longest event line which is still evaluated.
const MaxLineLength = 64 * 1024

// Listener consumes the line oriented event stream of `pactl subscribe` and
// calls OnEvent for each line which contains Token.
type Listener struct {
	Binary    string
	Arguments []string
	Token     string

	// OnEvent is called from the goroutine executing Run. It must not touch
	// any UI state itself.
	OnEvent func(line string)
}

func NewListener(conf *Configuration, pactl *common.Pactl, onEvent func(string)) *Listener {
	return &Listener{
		Binary:    pactl.Binary,
		Arguments: []string{"subscribe"},
		Token:     conf.Token,
		OnEvent:   onEvent,
	}
}

// IsRelevant reports whether line contains token, ignoring case.
func IsRelevant(line, token string) bool {
	return strings.Contains(strings.ToLower(line), strings.ToLower(token))
}

// Start runs the listener in its own goroutine. The returned channel receives
// the result of Run and is closed afterwards.
func (this *Listener) Start(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		err := this.Run(ctx)
		if errors.Is(err, ErrStreamClosed) && ctx.Err() == nil {
			log.With("binary", this.Binary).
				Warn("Event stream closed. The mute state will not be updated anymore.")
		} else if err != nil && ctx.Err() == nil {
			log.WithError(err).
				With("binary", this.Binary).
				Warn("Cannot listen for events. The mute state will not be updated anymore.")
		}
		done <- err
	}()
	return done
}

// Run starts the subscribe command and blocks until its output ends.
func (this *Listener) Run(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, this.Binary, this.Arguments...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("cannot open output of %s %v: %w", this.Binary, this.Arguments, err)
	}
	stderr := &lineLogger{onLine: this.logErrorLine}
	cmd.Stderr = stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("cannot start %s %v: %w", this.Binary, this.Arguments, err)
	}
	log.With("binary", this.Binary).
		With("pid", cmd.Process.Pid).
		Debug("Listening for events...")

	cErr := this.Consume(stdout)
	if cErr != nil {
		// Nobody reads stdout anymore; Wait would block until the command
		// exits on its own.
		_ = cmd.Process.Kill()
	}
	wErr := cmd.Wait()
	stderr.Flush()
	if cErr != nil {
		return cErr
	}
	if wErr != nil && ctx.Err() == nil {
		return fmt.Errorf("%w: %s %v: %v", ErrStreamClosed, this.Binary, this.Arguments, wErr)
	}
	return ErrStreamClosed
}

// Consume reads r line by line until it is exhausted. Lines longer than
// MaxLineLength are skipped.
func (this *Listener) Consume(r io.Reader) error {
	br := bufio.NewReaderSize(r, MaxLineLength)
	oversized := false
	for {
		chunk, err := br.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) {
			if !oversized {
				log.With("limit", MaxLineLength).
					Debug("Event line exceeds limit. Skipping it.")
			}
			oversized = true
			continue
		}
		if len(chunk) > 0 && !oversized {
			this.handle(strings.TrimRight(string(chunk), "\r\n"))
		}
		oversized = false
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("cannot read event stream: %w", err)
		}
	}
}

func (this *Listener) handle(line string) {
	if !IsRelevant(line, this.Token) {
		return
	}
	log.With("event", line).
		Trace("Relevant event received.")
	if v := this.OnEvent; v != nil {
		v(line)
	}
}

func (this *Listener) logErrorLine(line string) {
	log.With("binary", this.Binary).
		With("line", line).
		Warn("Event stream reported an error.")
}
