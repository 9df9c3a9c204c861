// Package main provides the CLI entrypoint for the gesture relay.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayusman/gesturerelay/internal/bootstrap"
	"github.com/ayusman/gesturerelay/internal/config"
)

var (
	configPath string

	swipeTimeoutMs int
	hookTimeoutMs  int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:           "gesturerelay",
		Short:         "Relay body-tracking gestures to websocket subscribers",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := resolveConfig(cmd, &cfg); err != nil {
				return err
			}
			return bootstrap.Run(cfg)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "path to the TOML config file")

	f := rootCmd.Flags()
	f.IntVar(&cfg.Port, "port", cfg.Port, "HTTP/websocket listen port")
	f.StringSliceVar(&cfg.AllowedOrigins, "allowed-origins", cfg.AllowedOrigins, "websocket origins to accept (* for any)")
	f.BoolVar(&cfg.Preview, "preview", cfg.Preview, "serve the skeleton preview at /api/stream")
	f.BoolVar(&cfg.Tray, "tray", cfg.Tray, "show a system tray menu")

	f.Float64Var(&cfg.SwipeThreshold, "swipe-threshold", cfg.SwipeThreshold, "hand travel that counts as a swipe")
	f.Float64Var(&cfg.PushThreshold, "push-threshold", cfg.PushThreshold, "hand travel toward the sensor that counts as a click")
	f.IntVar(&swipeTimeoutMs, "swipe-timeout-ms", int(cfg.SwipeTimeout.Milliseconds()), "tracking window lifetime in milliseconds")
	f.Float64Var(&cfg.PushMaxDistance, "push-max-distance", cfg.PushMaxDistance, "max hand distance from the sensor for a click")
	f.BoolVar(&cfg.ResetOnHandoff, "reset-on-handoff", cfg.ResetOnHandoff, "reset tracking windows when the closest body changes")

	f.StringVar(&cfg.Source, "source", cfg.Source, "frame source: bridge or replay")
	f.StringVar(&cfg.BridgeCommand, "bridge-command", cfg.BridgeCommand, "sensor bridge executable")
	f.StringSliceVar(&cfg.BridgeArgs, "bridge-args", cfg.BridgeArgs, "sensor bridge arguments")
	f.StringVar(&cfg.ReplayRecording, "replay-recording", cfg.ReplayRecording, "recording id to replay")
	f.BoolVar(&cfg.ReplayLoop, "replay-loop", cfg.ReplayLoop, "loop the replayed recording")
	f.Float64Var(&cfg.ReplaySpeed, "replay-speed", cfg.ReplaySpeed, "replay speed multiplier")
	f.BoolVar(&cfg.Record, "record", cfg.Record, "record incoming frames")

	f.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "recordings database path")

	f.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "republish gestures to this Redis server")
	f.StringVar(&cfg.RedisPassword, "redis-password", cfg.RedisPassword, "Redis password")
	f.IntVar(&cfg.RedisDB, "redis-db", cfg.RedisDB, "Redis database")
	f.StringVar(&cfg.RedisChannel, "redis-channel", cfg.RedisChannel, "Redis pub/sub channel")

	f.StringVar(&cfg.HookCommand, "hook-command", cfg.HookCommand, "command run for every gesture")
	f.StringSliceVar(&cfg.HookArgs, "hook-args", cfg.HookArgs, "hook command arguments")
	f.IntVar(&hookTimeoutMs, "hook-timeout-ms", int(cfg.HookTimeout.Milliseconds()), "hook command timeout in milliseconds")

	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	f.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text or json")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newRecordingsCmd())

	return rootCmd
}

// resolveConfig layers the config file under explicitly set flags.
func resolveConfig(cmd *cobra.Command, cfg *config.Config) error {
	cfg.SwipeTimeout = time.Duration(swipeTimeoutMs) * time.Millisecond
	cfg.HookTimeout = time.Duration(hookTimeoutMs) * time.Millisecond

	fileCfg, err := config.LoadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	fileCfg.Apply(cfg, cmd.Flags().Changed)

	return cfg.Validate()
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create the config file if needed and print its path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}
			if _, err := os.Stat(configPath); err != nil {
				if !os.IsNotExist(err) {
					return fmt.Errorf("failed to stat config: %w", err)
				}
				if err := os.WriteFile(configPath, []byte(config.DefaultTemplate()), 0o644); err != nil {
					return fmt.Errorf("failed to write config: %w", err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), configPath)
			return nil
		},
	}
}

func newTabWriter(cmd *cobra.Command) *tabwriter.Writer {
	return tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
}
