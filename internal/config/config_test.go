package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, home, body string) {
	t.Helper()

	dir := filepath.Join(home, configDir)
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(body), 0o600))
}

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	settings, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "gemini:gemini-pro", settings.Generator.Model)
	assert.Equal(t, 30*time.Second, settings.Generator.Timeout)
	assert.Equal(t, 25*60, settings.Timer.DefaultSeconds())
	assert.Equal(t, 5*60, settings.Timer.BreakSeconds())
	assert.Equal(t, []int{10, 20, 30, 40, 50, 60}, settings.Timer.FocusOptions)
	assert.Equal(t, 3, settings.Summary.TipCount)
	assert.Equal(t, filepath.Join(home, ".studybuddy", "tips.toml"), settings.TipsPath)
	assert.Equal(t, filepath.Join(home, ".studybuddy", "secrets"), settings.SecretsRoot)
}

func TestLoadReadsConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfig(t, home, `
[generator]
model = "openai:gpt-4o-mini"
timeout = "10s"

[timer]
default_minutes = 50
break_minutes = 10
focus_options = [50, 25, 25]

[summary]
tip_count = 2
`)

	settings, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "openai:gpt-4o-mini", settings.Generator.Model)
	assert.Equal(t, 10*time.Second, settings.Generator.Timeout)
	assert.Equal(t, 50, settings.Timer.DefaultMinutes)
	assert.Equal(t, 10*60, settings.Timer.BreakSeconds())
	assert.Equal(t, []int{25, 50}, settings.Timer.FocusOptions)
	assert.Equal(t, 2, settings.Summary.TipCount)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfig(t, home, "[timer]\nbreak_minutes = 10\n")
	t.Setenv("SB_TIMER_BREAK_MINUTES", "7")
	t.Setenv("SB_GENERATOR_BASE_URL", "http://127.0.0.1:9999")

	settings, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 7, settings.Timer.BreakMinutes)
	assert.Equal(t, "http://127.0.0.1:9999", settings.Generator.BaseURL)

	for _, raw := range []string{"20,10", "10 20", "[10, 20]", " 10,\t20 "} {
		t.Run(raw, func(t *testing.T) {
			t.Setenv("SB_TIMER_FOCUS_OPTIONS", raw)

			settings, err := Load(viper.New())
			require.NoError(t, err)
			assert.Equal(t, []int{10, 20}, settings.Timer.FocusOptions)
		})
	}
}

func TestLoadRejectsMalformedFocusOptionsFromEnvironment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	for _, raw := range []string{"10,twenty", "ten", ",", "10;20"} {
		t.Run(raw, func(t *testing.T) {
			t.Setenv("SB_TIMER_FOCUS_OPTIONS", raw)

			_, err := Load(viper.New())
			require.Error(t, err)
			assert.ErrorContains(t, err, "timer.focus_options")
		})
	}
}

func TestLoadDotenvPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	settings, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, ".env", settings.DotenvPath)

	writeConfig(t, home, "[secrets]\ndotenv = \"\"\n")
	settings, err = Load(viper.New())
	require.NoError(t, err)
	assert.Empty(t, settings.DotenvPath)

	t.Setenv("SB_SECRETS_DOTENV", "/tmp/keys.env")
	settings, err = Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "/tmp/keys.env", settings.DotenvPath)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfig(t, home, `
[timer]
default_minutes = 0
focus_options = [-5, 10]

[summary]
tip_count = -1
`)

	_, err := Load(viper.New())
	require.Error(t, err)
	assert.ErrorContains(t, err, "timer.default_minutes must be positive")
	assert.ErrorContains(t, err, "timer.focus_options must be positive")
	assert.ErrorContains(t, err, "summary.tip_count must not be negative")
}

func TestLoadReportsMalformedConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfig(t, home, "[timer\nbroken")

	_, err := Load(viper.New())
	require.Error(t, err)
	assert.ErrorContains(t, err, "read config file")
}
