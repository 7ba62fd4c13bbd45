package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

const appName = "repcoach"

type Config struct {
	DB      DBConfig      `toml:"database"`
	Coach   CoachConfig   `toml:"coach"`
	Voice   VoiceConfig   `toml:"voice"`
	Logging LoggingConfig `toml:"logging"`
}

type DBConfig struct {
	ConnectionString string `toml:"connection_string"` // The entire DB connection string.
	AuthToken        string `toml:"auth_token,omitempty"`
}

type CoachConfig struct {
	DefaultUser string `toml:"default_user"`
	DefaultMode string `toml:"default_mode"`
	Timezone    string `toml:"timezone"`
	ModesFile   string `toml:"modes_file"` // custom modes, merged with the built-in ones
}

type VoiceConfig struct {
	Enabled         bool     `toml:"enabled"`
	Command         string   `toml:"command"`
	Args            []string `toml:"args"`
	Rate            int      `toml:"rate"`
	CooldownSeconds float64  `toml:"cooldown_seconds"` // 0 keeps the per-family default
	TimeoutSeconds  float64  `toml:"timeout_seconds"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	File   string `toml:"file"`
	JSON   bool   `toml:"json"`
	Stdout bool   `toml:"stdout"`
}

// Returns the directory holding the config, the pending session and the local database.
func GetConfigDir() (string, error) {
	if dir := os.Getenv("REPCOACH_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// Returns the path to the config file.
func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Default is the configuration used when no config file exists yet.
func Default(dir string) *Config {
	return &Config{
		DB: DBConfig{
			ConnectionString: "file:" + filepath.Join(dir, appName+".db"),
		},
		Coach: CoachConfig{
			DefaultUser: "guest",
			DefaultMode: "bicep_curl",
			Timezone:    "Local",
			ModesFile:   filepath.Join(dir, "modes.toml"),
		},
		Voice: VoiceConfig{
			Enabled:        false,
			Command:        "espeak",
			Rate:           150,
			TimeoutSeconds: 10,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(dir, appName+".log"),
		},
	}
}

// Reads the configuration from the config file, then applies .env and environment overrides.
// A missing config file is not an error.
func LoadConfig() (*Config, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return nil, err
	}
	return Load(filepath.Join(dir, "config.toml"), dir)
}

func Load(path, dir string) (*Config, error) {
	cfg := Default(dir)
	if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading config %s: %w", path, err)
	}

	// A .env next to the binary is optional.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Warn("ignoring unreadable .env file")
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if url := os.Getenv("TURSO_DATABASE_URL"); url != "" {
		c.DB.ConnectionString = url
		c.DB.AuthToken = os.Getenv("TURSO_AUTH_TOKEN")
	}
	if url := os.Getenv("REPCOACH_DATABASE_URL"); url != "" {
		c.DB.ConnectionString = url
	}
	if user := os.Getenv("REPCOACH_USER"); user != "" {
		c.Coach.DefaultUser = user
	}
	if level := os.Getenv("REPCOACH_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	// Check for a DEV_MODE environment variable.
	if os.Getenv("DEV_MODE") == "true" {
		c.DB.ConnectionString = "file:./local.db"
	}
}

func (c *Config) Validate() error {
	var errs error
	if strings.TrimSpace(c.DB.ConnectionString) == "" {
		errs = multierr.Append(errs, errors.New("database.connection_string must be set"))
	}
	if _, err := c.Location(); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("coach.timezone: %w", err))
	}
	if c.Voice.Enabled && strings.TrimSpace(c.Voice.Command) == "" {
		errs = multierr.Append(errs, errors.New("voice.command must be set when voice is enabled"))
	}
	if c.Voice.CooldownSeconds < 0 {
		errs = multierr.Append(errs, errors.New("voice.cooldown_seconds must not be negative"))
	}
	if c.Voice.TimeoutSeconds < 0 {
		errs = multierr.Append(errs, errors.New("voice.timeout_seconds must not be negative"))
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("logging.level: %w", err))
	}
	if errs != nil {
		return fmt.Errorf("invalid config: %w", errs)
	}
	return nil
}

// Location resolves coach.timezone; empty means local time.
func (c *Config) Location() (*time.Location, error) {
	if c.Coach.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Coach.Timezone)
}

func (c *Config) VoiceCooldown() time.Duration {
	return seconds(c.Voice.CooldownSeconds)
}

func (c *Config) VoiceTimeout() time.Duration {
	return seconds(c.Voice.TimeoutSeconds)
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

// Write stores the config at path, creating the directory when needed.
func (c *Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}
