package homeassistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/echocat/slf4g"

	"github.com/blaubaer/mic-overlay/pkg/mute"
	"github.com/blaubaer/mic-overlay/pkg/signal"
)

var ErrUnauthorized = errors.New("home assistant rejected the access token")

func New(ctx context.Context, conf *Configuration, saveConfFunc func() error) *Homeassistant {
	return &Homeassistant{
		ctx:          ctx,
		conf:         conf,
		saveConfFunc: saveConfFunc,
		client:       http.Client{Timeout: conf.Timeout},
	}
}

// Homeassistant mirrors the mute state to an input_boolean entity: on while
// the microphone is live, off while it is muted.
type Homeassistant struct {
	ctx          context.Context
	conf         *Configuration
	saveConfFunc func() error
	mutex        sync.Mutex

	lastState atomic.Pointer[entityState]

	client http.Client
}

type entityState struct {
	timestamp time.Time
	state     string
}

type stateGetResponse struct {
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes"`
}

type statePostRequest struct {
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes"`
}

func entityStateOf(s mute.State) string {
	if s.IsMuted() {
		return "off"
	}
	return "on"
}

// Initialize checks that the server is reachable and accepts the token. A
// server which was not configured explicitly is stored in the configuration
// once it was accepted.
func (this *Homeassistant) Initialize() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if strings.TrimSpace(this.conf.Token) == "" {
		return fmt.Errorf("no access token for home assistant %s configured", this.conf.server())
	}

	rsp, err := this.do(http.MethodGet, "/api/", nil)
	if err != nil {
		return err
	}
	_ = rsp.Body.Close()
	if rsp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code of %s: %d - %s", this.conf.server(), rsp.StatusCode, rsp.Status)
	}

	if this.conf.Server == "" {
		this.conf.Server = this.conf.server()
		if v := this.saveConfFunc; v != nil {
			if err := v(); err != nil {
				return fmt.Errorf("cannot store home assistant server: %w", err)
			}
		}
	}

	log.With("server", this.conf.Server).
		With("entityId", this.conf.EntityId).
		Debug("Connected to home assistant.")
	return nil
}

func (this *Homeassistant) Ensure(s mute.State) error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	target := entityState{
		state:     entityStateOf(s),
		timestamp: time.Now(),
	}
	logger := log.With("entityId", this.conf.EntityId)

	if v := this.lastState.Load(); v != nil && v.state == target.state {
		if v.timestamp.Add(this.conf.DeadZoneInterval).After(target.timestamp) {
			logger.Debug("Entity is already in requested state (while dead zone timeout). No update needed.")
			return nil
		}
	}

	attributes, current, err := this.get()
	if err != nil {
		return err
	}

	if attributes != nil && current == target.state {
		logger.Debug("Entity is already in requested state. No update needed.")
		this.lastState.Store(&target)
		return nil
	}

	if attributes == nil {
		logger.Info("Entity not found. It will be created now...")
		attributes = map[string]any{
			"icon":          "mdi:microphone",
			"friendly_name": strings.TrimPrefix(this.conf.EntityId, "input_boolean."),
		}
	}
	attributes["editable"] = false

	body, err := json.Marshal(statePostRequest{
		State:      target.state,
		Attributes: attributes,
	})
	if err != nil {
		return err
	}

	rsp, err := this.do(http.MethodPost, "/api/states/"+this.conf.EntityId, body)
	if err != nil {
		return err
	}
	_ = rsp.Body.Close()
	if rsp.StatusCode != http.StatusOK && rsp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status code: %d - %s", rsp.StatusCode, rsp.Status)
	}

	logger.With("state", target.state).
		Debug("Entity updated.")
	this.lastState.Store(&target)
	return nil
}

// get returns the attributes and the state of the entity; nil attributes if
// the entity does not exist yet.
func (this *Homeassistant) get() (map[string]any, string, error) {
	rsp, err := this.do(http.MethodGet, "/api/states/"+this.conf.EntityId, nil)
	if err != nil {
		return nil, "", err
	}
	defer func() {
		_ = rsp.Body.Close()
	}()

	switch rsp.StatusCode {
	case http.StatusOK:
		var gRsp stateGetResponse
		if err := json.NewDecoder(rsp.Body).Decode(&gRsp); err != nil {
			return nil, "", fmt.Errorf("failed to decode response body: %w", err)
		}
		if gRsp.Attributes == nil {
			gRsp.Attributes = map[string]any{}
		}
		return gRsp.Attributes, gRsp.State, nil
	case http.StatusNotFound:
		return nil, "", nil
	default:
		return nil, "", fmt.Errorf("unexpected status code: %d - %s", rsp.StatusCode, rsp.Status)
	}
}

func (this *Homeassistant) do(method, path string, body []byte) (*http.Response, error) {
	ctx := this.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	var br io.Reader
	if body != nil {
		br = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(this.conf.server(), "/")+path, br)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+this.conf.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rsp, err := this.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to access %v: %w", req.URL, err)
	}
	switch rsp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		_ = rsp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, this.conf.server())
	}
	return rsp, nil
}

func (this *Homeassistant) Dispose() error {
	return nil
}

func (this *Homeassistant) GetType() signal.Type {
	return signal.TypeHomeassistant
}
