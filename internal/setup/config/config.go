package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	ErrConfigFileNotFound    = errors.New("could not find config file in any config path")
	ErrConfigVersionMissing  = errors.New("config file is missing version field")
	ErrConfigVersionMismatch = errors.New("config file version mismatch")
)

// RepositoryVersion is the repository version tag for config file references.
const RepositoryVersion = "v1.0.0"

// Current version of the config file.
const (
	CurrentCommonVersion = 1
	CurrentBotVersion    = 1
)

// Config represents the entire application configuration.
type Config struct {
	Common CommonConfig `koanf:"common"`
	Bot    BotConfig    `koanf:"bot"`
}

// CommonConfig contains configuration shared between the bot and the admin CLI.
type CommonConfig struct {
	// Version of the common config.
	Version     int         `koanf:"version"`
	Debug       Debug       `koanf:"debug"`
	SQLite      SQLite      `koanf:"sqlite"`
	Reputation  Reputation  `koanf:"reputation"`
	Quota       Quota       `koanf:"quota"`
	API         API         `koanf:"api"`
	Maintenance Maintenance `koanf:"maintenance"`
	Telemetry   Telemetry   `koanf:"telemetry"`
}

// BotConfig contains Discord bot specific configuration.
type BotConfig struct {
	// Version of the bot config.
	Version int `koanf:"version"`
	// Request timeout in milliseconds.
	RequestTimeout int `koanf:"request_timeout"`
	// Discord configuration.
	Discord Discord `koanf:"discord"`
}

// Debug contains debug-related configuration.
type Debug struct {
	// Log level (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`
	// Maximum log files to keep.
	MaxLogsToKeep int `koanf:"max_logs_to_keep"`
	// Maximum lines per log file.
	MaxLogLines int `koanf:"max_log_lines"`
}

// SQLite contains ledger database configuration.
type SQLite struct {
	// Path to the database file.
	Path string `koanf:"path"`
	// Maximum open connections.
	MaxOpenConns int `koanf:"max_open_conns"`
	// Write lock and busy wait bound in milliseconds.
	LockTimeout int `koanf:"lock_timeout"`
}

// Reputation contains vote tracking configuration.
type Reputation struct {
	// Minutes a broadcast stays votable.
	TTLMinutes int `koanf:"ttl_minutes"`
	// Minimum minutes between prune passes.
	PruneIntervalMinutes int `koanf:"prune_interval_minutes"`
	// Lowest score an admin may set.
	MinScore int64 `koanf:"min_score"`
	// Highest score an admin may set.
	MaxScore int64 `koanf:"max_score"`
}

// Quota contains broadcast quota configuration.
type Quota struct {
	// Hours broadcast actions are kept before being discarded.
	RetentionHours int `koanf:"retention_hours"`
}

// API contains the admin REST API configuration.
type API struct {
	Enabled bool   `koanf:"enabled"`
	Host    string `koanf:"host"`
	Port    int    `koanf:"port"`
}

// Maintenance contains the background prune worker configuration.
type Maintenance struct {
	// Seconds between prune checks.
	IntervalSeconds int `koanf:"interval_seconds"`
}

// Telemetry contains trace export configuration.
type Telemetry struct {
	// Uptrace DSN. Tracing export is disabled when empty.
	UptraceDSN string `koanf:"uptrace_dsn"`
	// Service name reported with traces.
	ServiceName string `koanf:"service_name"`
}

// Discord contains Discord bot configuration.
type Discord struct {
	// Bot token.
	Token string `koanf:"token"`
	// Guild whose administrators may run admin commands.
	AdminGuildID uint64 `koanf:"admin_guild_id"`
	// Channels that receive broadcasts.
	BroadcastChannelIDs []uint64 `koanf:"broadcast_channel_ids"`
	// Words that block a broadcast outright.
	BlockedWords []string `koanf:"blocked_words"`
}

// LockTimeoutDuration returns the lock bound, defaulting to 30 seconds.
func (s SQLite) LockTimeoutDuration() time.Duration {
	if s.LockTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.LockTimeout) * time.Millisecond
}

// TTL returns the vote window, defaulting to 4 hours.
func (r Reputation) TTL() time.Duration {
	if r.TTLMinutes <= 0 {
		return 4 * time.Hour
	}
	return time.Duration(r.TTLMinutes) * time.Minute
}

// PruneInterval returns the prune throttle, defaulting to 10 minutes.
func (r Reputation) PruneInterval() time.Duration {
	if r.PruneIntervalMinutes <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(r.PruneIntervalMinutes) * time.Minute
}

// ScoreBounds returns the admin override bounds, defaulting to +/-100000.
func (r Reputation) ScoreBounds() (int64, int64) {
	minScore, maxScore := r.MinScore, r.MaxScore
	if minScore == 0 && maxScore == 0 {
		return -100000, 100000
	}
	return minScore, maxScore
}

// Retention returns the broadcast action retention, defaulting to 48 hours.
func (q Quota) Retention() time.Duration {
	if q.RetentionHours <= 0 {
		return 48 * time.Hour
	}
	return time.Duration(q.RetentionHours) * time.Hour
}

// Interval returns the maintenance tick, defaulting to 5 minutes.
func (m Maintenance) Interval() time.Duration {
	if m.IntervalSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(m.IntervalSeconds) * time.Second
}

// Address returns the API listen address.
func (a API) Address() string {
	host := a.Host
	if host == "" {
		host = "127.0.0.1"
	}
	port := a.Port
	if port == 0 {
		port = 8080
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// DefaultCommon returns a common config with every default filled in.
func DefaultCommon() CommonConfig {
	return CommonConfig{
		Version: CurrentCommonVersion,
		Debug: Debug{
			LogLevel:      "info",
			MaxLogsToKeep: 10,
			MaxLogLines:   100000,
		},
		SQLite: SQLite{
			Path:         "foxcom.db",
			MaxOpenConns: 4,
			LockTimeout:  30000,
		},
		Reputation: Reputation{
			TTLMinutes:           240,
			PruneIntervalMinutes: 10,
			MinScore:             -100000,
			MaxScore:             100000,
		},
		Quota: Quota{RetentionHours: 48},
		API:   API{Host: "127.0.0.1", Port: 8080},
		Maintenance: Maintenance{
			IntervalSeconds: 300,
		},
		Telemetry: Telemetry{ServiceName: "foxcom"},
	}
}

// LoadConfig loads the named configuration files ("common", "bot") from the
// first config path that contains each of them.
func LoadConfig(names ...string) (*Config, string, error) {
	if len(names) == 0 {
		names = []string{"common", "bot"}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configPaths := []string{
		".foxcom",
		homeDir + "/.foxcom/config",
		"/etc/foxcom/config",
		"config",
		".",
	}

	return LoadConfigFrom(configPaths, names...)
}

// LoadConfigFrom loads the named configuration files from the given search paths.
func LoadConfigFrom(configPaths []string, names ...string) (*Config, string, error) {
	k := koanf.New(".")

	var usedConfigPath string

	for _, configName := range names {
		configLoaded := false

		for _, path := range configPaths {
			configPath := fmt.Sprintf("%s/%s.toml", path, configName)

			sub := koanf.New(".")
			if err := sub.Load(file.Provider(configPath), toml.Parser()); err != nil {
				continue
			}

			if err := k.MergeAt(sub, configName); err != nil {
				return nil, "", fmt.Errorf("failed to merge %s.toml: %w", configName, err)
			}

			configLoaded = true

			if usedConfigPath == "" {
				usedConfigPath = path
			}

			break
		}

		if !configLoaded {
			return nil, "", fmt.Errorf("%w: %s.toml", ErrConfigFileNotFound, configName)
		}
	}

	config := Config{Common: DefaultCommon()}
	if err := k.Unmarshal("", &config); err != nil {
		return nil, "", fmt.Errorf("error unmarshaling config: %w", err)
	}

	for _, name := range names {
		var err error

		switch name {
		case "common":
			err = checkConfigVersion(name, config.Common.Version, CurrentCommonVersion)
		case "bot":
			err = checkConfigVersion(name, config.Bot.Version, CurrentBotVersion)
		}

		if err != nil {
			return nil, "", err
		}
	}

	return &config, usedConfigPath, nil
}

func checkConfigVersion(name string, current, expected int) error {
	if current == 0 {
		return fmt.Errorf("%w: %s.toml", ErrConfigVersionMissing, name)
	}

	if current != expected {
		return fmt.Errorf(
			"%w: %s.toml (got: %d, expected: %d)\n"+
				"Please update your config file from: https://github.com/doom2286/Foxcom/tree/%s/config/%s.toml",
			ErrConfigVersionMismatch,
			name,
			current,
			expected,
			RepositoryVersion,
			name,
		)
	}

	return nil
}
