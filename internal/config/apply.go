package config

import "time"

// Apply copies every value set in the file into cfg, except for settings
// whose command line flag was changed. changed reports whether the named
// flag was given explicitly; nil treats every flag as unchanged.
func (f FileConfig) Apply(cfg *Config, changed func(flag string) bool) {
	if changed == nil {
		changed = func(string) bool { return false }
	}

	applyValue(changed, "port", &cfg.Port, f.Server.Port)
	applyValue(changed, "allowed-origins", &cfg.AllowedOrigins, f.Server.AllowedOrigins)
	applyValue(changed, "preview", &cfg.Preview, f.Server.Preview)
	applyValue(changed, "tray", &cfg.Tray, f.Server.Tray)

	applyValue(changed, "swipe-threshold", &cfg.SwipeThreshold, f.Gesture.SwipeThreshold)
	applyValue(changed, "push-threshold", &cfg.PushThreshold, f.Gesture.PushThreshold)
	applyMillis(changed, "swipe-timeout-ms", &cfg.SwipeTimeout, f.Gesture.SwipeTimeoutMs)
	applyValue(changed, "push-max-distance", &cfg.PushMaxDistance, f.Gesture.PushMaxDistance)
	applyValue(changed, "reset-on-handoff", &cfg.ResetOnHandoff, f.Gesture.ResetOnHandoff)

	applyValue(changed, "source", &cfg.Source, f.Source.Kind)
	applyValue(changed, "bridge-command", &cfg.BridgeCommand, f.Source.BridgeCommand)
	applyValue(changed, "bridge-args", &cfg.BridgeArgs, f.Source.BridgeArgs)
	applyValue(changed, "replay-recording", &cfg.ReplayRecording, f.Source.ReplayRecording)
	applyValue(changed, "replay-loop", &cfg.ReplayLoop, f.Source.ReplayLoop)
	applyValue(changed, "replay-speed", &cfg.ReplaySpeed, f.Source.ReplaySpeed)
	applyValue(changed, "record", &cfg.Record, f.Source.Record)

	applyValue(changed, "db-path", &cfg.DBPath, f.Store.DBPath)

	applyValue(changed, "redis-addr", &cfg.RedisAddr, f.Redis.Addr)
	applyValue(changed, "redis-password", &cfg.RedisPassword, f.Redis.Password)
	applyValue(changed, "redis-db", &cfg.RedisDB, f.Redis.DB)
	applyValue(changed, "redis-channel", &cfg.RedisChannel, f.Redis.Channel)

	applyValue(changed, "hook-command", &cfg.HookCommand, f.Hook.Command)
	applyValue(changed, "hook-args", &cfg.HookArgs, f.Hook.Args)
	applyMillis(changed, "hook-timeout-ms", &cfg.HookTimeout, f.Hook.TimeoutMs)

	applyValue(changed, "log-level", &cfg.LogLevel, f.Log.Level)
	applyValue(changed, "log-format", &cfg.LogFormat, f.Log.Format)
}

func applyValue[T any](changed func(string) bool, name string, target *T, value *T) {
	if value == nil || changed(name) {
		return
	}
	*target = *value
}

func applyMillis(changed func(string) bool, name string, target *time.Duration, value *int) {
	if value == nil || changed(name) {
		return
	}
	*target = time.Duration(*value) * time.Millisecond
}
