package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadWithDefaults(t *testing.T) {
	t.Setenv("PORT", "")

	cfg, err := Load(WithConfigFile(""), WithEnvFile(""))
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	require.Equal(t, "en", cfg.Site.DefaultLang)
	require.Equal(t, "data/data.json", cfg.Data.Source)
	require.Equal(t, 6*time.Second, cfg.Site.SlideInterval)
	require.Empty(t, cfg.Contact.RelayURL)
	require.False(t, cfg.IsProduction())
}

func TestLoadHonoursPortEnv(t *testing.T) {
	t.Setenv("PORT", "9191")

	cfg, err := Load(WithConfigFile(""), WithEnvFile(""))
	require.NoError(t, err)
	require.Equal(t, ":9191", cfg.Server.Addr)
}

func TestLoadFileThenEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  addr: ":7000"
  read_timeout: 20s
site:
  name: Test Mobility
  default_lang: ar
contact:
  relay_url: https://relay.example.com/f/abc
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	t.Setenv("MEDWEB_SITE__NAME", "Env Mobility")
	t.Setenv("MEDWEB_DATA__FETCH_TIMEOUT", "3s")
	t.Setenv("MEDWEB_SITE__DEV_MODE", "true")

	cfg, err := Load(WithConfigFile(path), WithEnvFile(""))
	require.NoError(t, err)

	require.Equal(t, ":7000", cfg.Server.Addr)
	require.Equal(t, 20*time.Second, cfg.Server.ReadTimeout)
	require.Equal(t, "ar", cfg.Site.DefaultLang)
	require.Equal(t, "Env Mobility", cfg.Site.Name)
	require.Equal(t, 3*time.Second, cfg.Data.FetchTimeout)
	require.True(t, cfg.Site.DevMode)
	require.Equal(t, "https://relay.example.com/f/abc", cfg.Contact.RelayURL)
	// untouched defaults survive the overlay
	require.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("MEDWEB_LOG__LEVEL=debug\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("MEDWEB_LOG__LEVEL") })

	cfg, err := Load(WithConfigFile(""), WithEnvFile(envPath))
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestValidateReportsFields(t *testing.T) {
	cfg := Default()
	cfg.Server.Addr = ":8080"
	cfg.Site.DefaultLang = "fr"
	cfg.Site.Environment = "prod"
	cfg.Contact.RelayURL = "http://relay.example.com"

	err := cfg.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.ElementsMatch(t, []string{"site.default_lang", "contact.relay_url", "session.signing_key"}, verr.Fields())
}

func TestValidateRejectsNonPositiveTimeouts(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("MEDWEB_DATA__FETCH_TIMEOUT", "0s")

	_, err := Load(WithConfigFile(""), WithEnvFile(""))
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, []string{"data.fetch_timeout"}, verr.Fields())

	cfg := Default()
	cfg.Server.Addr = ":8080"
	cfg.Contact.Timeout = -time.Second
	require.True(t, errors.As(cfg.Validate(), &verr))
	require.Equal(t, []string{"contact.timeout"}, verr.Fields())
}
