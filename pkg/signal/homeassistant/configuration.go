package homeassistant

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/blaubaer/mic-overlay/pkg/common"
)

const DefaultServer = "http://homeassistant.local:8123/"

func NewConfiguration() Configuration {
	return Configuration{
		Server:           "",
		Token:            "",
		EntityId:         fmt.Sprintf("input_boolean.%s_microphone_live", hostId),
		DeadZoneInterval: time.Minute,
		Timeout:          time.Second * 30,
	}
}

var forbiddenEntityIdChars = regexp.MustCompile("[^a-z0-9_]")

func normalizeEntityIdPart(id string) string {
	id = strings.ToLower(id)
	id = strings.TrimSpace(id)
	id = strings.ReplaceAll(id, "-", "_")
	id = strings.ReplaceAll(id, ".", "_")
	return forbiddenEntityIdChars.ReplaceAllString(id, "_")
}

var hostId = func() string {
	if result, err := os.Hostname(); err == nil && result != "" {
		return normalizeEntityIdPart(result)
	}

	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Errorf("cannot generate entity id: %v", err))
	}
	return hex.EncodeToString(buf)
}()

type Configuration struct {
	Server   string `yaml:"server,omitempty"`
	Token    string `yaml:"token,omitempty"`
	EntityId string `yaml:"entityId"`

	DeadZoneInterval time.Duration `yaml:"deadZoneInterval,omitempty"`
	Timeout          time.Duration `yaml:"timeout,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("signal.homeassistant.server", "URL of the Home Assistant instance. Default: "+DefaultServer).
		Envar("MO_SIGNAL_HOMEASSISTANT_SERVER").
		StringVar(&this.Server)
	using.Flag("signal.homeassistant.token", "Long lived access token of the Home Assistant instance. Stored in the configuration.").
		Envar("MO_SIGNAL_HOMEASSISTANT_TOKEN").
		StringVar(&this.Token)
	using.Flag("signal.homeassistant.entityId", "Entity which is on while the microphone is live and off while it is muted.").
		Envar("MO_SIGNAL_HOMEASSISTANT_ENTITY_ID").
		StringVar(&this.EntityId)
	using.Flag("signal.homeassistant.deadZoneInterval", "For how long the last written state is trusted instead of reading the entity again.").
		Envar("MO_SIGNAL_HOMEASSISTANT_DEAD_ZONE_INTERVAL").
		DurationVar(&this.DeadZoneInterval)
	using.Flag("signal.homeassistant.timeout", "Timeout of each request to Home Assistant.").
		Envar("MO_SIGNAL_HOMEASSISTANT_TIMEOUT").
		DurationVar(&this.Timeout)
}

func (this Configuration) server() string {
	if v := strings.TrimSpace(this.Server); v != "" {
		return v
	}
	return DefaultServer
}
