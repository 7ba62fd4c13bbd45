package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/misterclayt0n/repcoach/internal/config"
	"github.com/misterclayt0n/repcoach/internal/testsupport"
)

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	testsupport.NewConfig(t)
	dir := t.TempDir()

	cfg, err := config.Load(filepath.Join(dir, "config.toml"), dir)
	require.NoError(t, err)
	assert.Equal(t, "file:"+filepath.Join(dir, "repcoach.db"), cfg.DB.ConnectionString)
	assert.Equal(t, "guest", cfg.Coach.DefaultUser)
	assert.False(t, cfg.Voice.Enabled)
	assert.Zero(t, cfg.VoiceCooldown())
	assert.Equal(t, 10*time.Second, cfg.VoiceTimeout())
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	testsupport.NewConfig(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[database]
connection_string = "file:/tmp/other.db"

[coach]
default_user = "ana"
timezone = "America/Sao_Paulo"

[voice]
enabled = true
command = "say"
cooldown_seconds = 2.5
`), 0o644))

	cfg, err := config.Load(path, dir)
	require.NoError(t, err)
	assert.Equal(t, "file:/tmp/other.db", cfg.DB.ConnectionString)
	assert.Equal(t, "ana", cfg.Coach.DefaultUser)
	assert.Equal(t, 2500*time.Millisecond, cfg.VoiceCooldown())
	// Unset keys keep their defaults.
	assert.Equal(t, "bicep_curl", cfg.Coach.DefaultMode)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Sao_Paulo", loc.String())

	t.Setenv("TURSO_DATABASE_URL", "libsql://coach.turso.io")
	t.Setenv("TURSO_AUTH_TOKEN", "secret")
	t.Setenv("REPCOACH_USER", "bruno")
	cfg, err = config.Load(path, dir)
	require.NoError(t, err)
	assert.Equal(t, "libsql://coach.turso.io", cfg.DB.ConnectionString)
	assert.Equal(t, "secret", cfg.DB.AuthToken)
	assert.Equal(t, "bruno", cfg.Coach.DefaultUser)

	t.Setenv("DEV_MODE", "true")
	cfg, err = config.Load(path, dir)
	require.NoError(t, err)
	assert.Equal(t, "file:./local.db", cfg.DB.ConnectionString)
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithTimezone("Mars/Olympus"),
		testsupport.WithVoice("", -1),
	)
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "coach.timezone")
	assert.Contains(t, msg, "voice.command must be set")
	assert.Contains(t, msg, "voice.cooldown_seconds must not be negative")
	assert.Contains(t, msg, "logging.level")
}

func TestWriteAndReload(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithVoice("espeak", 4))
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	require.NoError(t, cfg.Write(path))

	got, err := config.Load(path, dir)
	require.NoError(t, err)
	assert.Equal(t, cfg.Voice, got.Voice)
	assert.Equal(t, cfg.DB.ConnectionString, got.DB.ConnectionString)
}

func TestGetConfigPathHonoursOverride(t *testing.T) {
	testsupport.NewConfig(t)
	t.Setenv("REPCOACH_CONFIG_DIR", "/srv/repcoach")

	path, err := config.GetConfigPath()
	require.NoError(t, err)
	assert.Equal(t, "/srv/repcoach/config.toml", path)
}
