package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file. Every value is a
// pointer so that unset keys leave the defaults and flags alone.
type FileConfig struct {
	Server  ServerConfig  `toml:"server"`
	Gesture GestureConfig `toml:"gesture"`
	Source  SourceConfig  `toml:"source"`
	Store   StoreConfig   `toml:"store"`
	Redis   RedisConfig   `toml:"redis"`
	Hook    HookConfig    `toml:"hook"`
	Log     LogConfig     `toml:"log"`
}

type ServerConfig struct {
	Port           *int      `toml:"port"`
	AllowedOrigins *[]string `toml:"allowed_origins"`
	Preview        *bool     `toml:"preview"`
	Tray           *bool     `toml:"tray"`
}

type GestureConfig struct {
	SwipeThreshold  *float64 `toml:"swipe_threshold"`
	PushThreshold   *float64 `toml:"push_threshold"`
	SwipeTimeoutMs  *int     `toml:"swipe_timeout_ms"`
	PushMaxDistance *float64 `toml:"push_max_distance"`
	ResetOnHandoff  *bool    `toml:"reset_on_handoff"`
}

type SourceConfig struct {
	Kind            *string   `toml:"kind"`
	BridgeCommand   *string   `toml:"bridge_command"`
	BridgeArgs      *[]string `toml:"bridge_args"`
	ReplayRecording *string   `toml:"replay_recording"`
	ReplayLoop      *bool     `toml:"replay_loop"`
	ReplaySpeed     *float64  `toml:"replay_speed"`
	Record          *bool     `toml:"record"`
}

type StoreConfig struct {
	DBPath *string `toml:"db_path"`
}

type RedisConfig struct {
	Addr     *string `toml:"addr"`
	Password *string `toml:"password"`
	DB       *int    `toml:"db"`
	Channel  *string `toml:"channel"`
}

type HookConfig struct {
	Command   *string   `toml:"command"`
	Args      *[]string `toml:"args"`
	TimeoutMs *int      `toml:"timeout_ms"`
}

type LogConfig struct {
	Level  *string `toml:"level"`
	Format *string `toml:"format"`
}

// LoadFile reads a TOML config from the given path. Missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return FileConfig{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}

// DefaultTemplate returns a commented config file with the default values.
func DefaultTemplate() string {
	d := DefaultConfig()
	return fmt.Sprintf(`# gesturerelay configuration

[server]
port = %d
allowed_origins = ["*"]
preview = false
tray = false

[gesture]
swipe_threshold = %.2f
push_threshold = %.2f
swipe_timeout_ms = %d
push_max_distance = %.1f
reset_on_handoff = false

[source]
kind = %q
bridge_command = %q
# bridge_args = []
# replay_recording = ""
replay_loop = false
replay_speed = 1.0
record = false

[store]
# db_path = %q

[redis]
# addr = "localhost:6379"
# password = ""
# db = 0
channel = %q

[hook]
# command = ""
# args = []
timeout_ms = %d

[log]
level = %q
format = %q
`,
		d.Port,
		d.SwipeThreshold, d.PushThreshold, d.SwipeTimeout.Milliseconds(), d.PushMaxDistance,
		d.Source, d.BridgeCommand,
		d.DBPath,
		d.RedisChannel,
		d.HookTimeout.Milliseconds(),
		d.LogLevel, d.LogFormat,
	)
}
