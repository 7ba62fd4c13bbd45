package testsupport

import (
	"testing"

	"github.com/misterclayt0n/repcoach/internal/config"
)

// ConfigOption customizes a Config built by NewConfig.
type ConfigOption func(*config.Config)

// NewConfig returns the default config rooted in a temp directory, with the environment
// cleared of overrides.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("REPCOACH_CONFIG_DIR", dir)
	for _, key := range []string{"TURSO_DATABASE_URL", "TURSO_AUTH_TOKEN", "REPCOACH_DATABASE_URL", "REPCOACH_USER", "REPCOACH_LOG_LEVEL", "DEV_MODE"} {
		t.Setenv(key, "")
	}

	cfg := config.Default(dir)
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

func WithTimezone(tz string) ConfigOption {
	return func(c *config.Config) { c.Coach.Timezone = tz }
}

func WithVoice(command string, cooldownSeconds float64) ConfigOption {
	return func(c *config.Config) {
		c.Voice.Enabled = true
		c.Voice.Command = command
		c.Voice.CooldownSeconds = cooldownSeconds
	}
}
