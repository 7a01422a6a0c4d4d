// Package config provides viper-backed configuration for auractl.
// Values come from defaults, the config file, and AURACTL_* environment
// variables, in ascending precedence; CLI flags override all of them.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete auractl configuration.
type Config struct {
	Agent   AgentConfig   `mapstructure:"agent"`
	Tmux    TmuxConfig    `mapstructure:"tmux"`
	Naming  NamingConfig  `mapstructure:"naming"`
	Launch  LaunchConfig  `mapstructure:"launch"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// AgentConfig controls how the agent process is started inside a session.
type AgentConfig struct {
	// Command is the shell command prefix the rendered prompt is passed to.
	Command string `mapstructure:"command"`
}

// TmuxConfig controls the multiplexer boundary.
type TmuxConfig struct {
	// Socket is the tmux socket name all auractl sessions live on.
	Socket string `mapstructure:"socket"`
	// Width is the width of created sessions in columns.
	Width int `mapstructure:"width"`
	// Height is the height of created sessions in rows.
	Height int `mapstructure:"height"`
	// HistoryLimit is the scrollback line count for created sessions.
	HistoryLimit int `mapstructure:"history_limit"`
}

// NamingConfig controls session name generation.
type NamingConfig struct {
	// MaxAttempts bounds the collision suffix search per replica.
	MaxAttempts int `mapstructure:"max_attempts"`
}

// LaunchConfig controls launch scheduling.
type LaunchConfig struct {
	// Parallel is the maximum number of replicas launched concurrently.
	// 1 launches sequentially.
	Parallel int `mapstructure:"parallel"`
}

// LoggingConfig controls structured launch logging.
type LoggingConfig struct {
	// Enabled turns file logging on.
	Enabled bool `mapstructure:"enabled"`
	// Level is one of DEBUG, INFO, WARN, ERROR.
	Level string `mapstructure:"level"`
	// Dir is the directory the launch log is written to.
	// Empty means ~/.local/state/auractl.
	Dir string `mapstructure:"dir"`
}

// SetDefaults registers default values with viper. Called before the config
// file is read so defaults apply even without one.
func SetDefaults() {
	viper.SetDefault("agent.command", "claude --dangerously-skip-permissions")
	viper.SetDefault("tmux.socket", "aura")
	viper.SetDefault("tmux.width", 200)
	viper.SetDefault("tmux.height", 50)
	viper.SetDefault("tmux.history_limit", 10000)
	viper.SetDefault("naming.max_attempts", 1000)
	viper.SetDefault("launch.parallel", 1)
	viper.SetDefault("logging.enabled", true)
	viper.SetDefault("logging.level", "INFO")
	viper.SetDefault("logging.dir", "")
}

// Get unmarshals the current viper state into a Config.
func Get() *Config {
	var cfg Config
	// Unmarshal cannot fail for this shape; unknown keys are ignored.
	_ = viper.Unmarshal(&cfg)
	return &cfg
}

// ConfigDir returns the directory auractl looks in for config.yaml.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "auractl")
}

// StateDir returns the default directory for launch logs.
func StateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "state", "auractl")
}
