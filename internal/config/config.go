package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".studybuddy"
	envPrefix  = "SB"

	KeyGeneratorModel     = "generator.model"
	KeyGeneratorBaseURL   = "generator.base_url"
	KeyGeneratorTimeout   = "generator.timeout"
	KeyTimerDefault       = "timer.default_minutes"
	KeyTimerBreak         = "timer.break_minutes"
	KeyTimerFocusOptions  = "timer.focus_options"
	KeySummaryTipCount    = "summary.tip_count"
	KeyTipsPath           = "tips.path"
	KeySecretsRoot        = "secrets.root"
	KeySecretsDotenv      = "secrets.dotenv"
	defaultGeneratorModel = "gemini:gemini-pro"
)

var defaultFocusOptions = []int{10, 20, 30, 40, 50, 60}

type Settings struct {
	Generator   GeneratorSettings
	Timer       TimerSettings
	Summary     SummarySettings
	TipsPath    string
	SecretsRoot string
	// DotenvPath is read for API keys after the process environment. Empty
	// disables it.
	DotenvPath string
}

type GeneratorSettings struct {
	// Model is "provider:model", e.g. "gemini:gemini-pro".
	Model   string
	BaseURL string
	Timeout time.Duration
}

type TimerSettings struct {
	DefaultMinutes int
	BreakMinutes   int
	FocusOptions   []int
}

func (t TimerSettings) DefaultSeconds() int {
	return t.DefaultMinutes * 60
}

func (t TimerSettings) BreakSeconds() int {
	return t.BreakMinutes * 60
}

type SummarySettings struct {
	TipCount int
}

// Dir returns the directory holding config.toml, tips.toml and file secrets.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(homeDir, configDir), nil
}

// Load reads ~/.studybuddy/config.toml when present, applies SB_* environment
// overrides (SB_GENERATOR_MODEL, SB_TIMER_BREAK_MINUTES, ...) and validates
// the result.
func Load(cfg *viper.Viper) (Settings, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	dir, err := Dir()
	if err != nil {
		return Settings{}, err
	}

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(dir)
	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault(KeyGeneratorModel, defaultGeneratorModel)
	cfg.SetDefault(KeyGeneratorBaseURL, "")
	cfg.SetDefault(KeyGeneratorTimeout, 30*time.Second)
	cfg.SetDefault(KeyTimerDefault, 25)
	cfg.SetDefault(KeyTimerBreak, 5)
	cfg.SetDefault(KeyTimerFocusOptions, defaultFocusOptions)
	cfg.SetDefault(KeySummaryTipCount, 3)
	cfg.SetDefault(KeyTipsPath, filepath.Join(dir, "tips.toml"))
	cfg.SetDefault(KeySecretsRoot, filepath.Join(dir, "secrets"))
	cfg.SetDefault(KeySecretsDotenv, ".env")

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Settings{}, fmt.Errorf("read config file: %w", err)
		}
	}

	focusOptions, err := intList(cfg.Get(KeyTimerFocusOptions))
	if err != nil {
		return Settings{}, fmt.Errorf("invalid config: %s: %w", KeyTimerFocusOptions, err)
	}

	settings := Settings{
		Generator: GeneratorSettings{
			Model:   strings.TrimSpace(cfg.GetString(KeyGeneratorModel)),
			BaseURL: strings.TrimSpace(cfg.GetString(KeyGeneratorBaseURL)),
			Timeout: cfg.GetDuration(KeyGeneratorTimeout),
		},
		Timer: TimerSettings{
			DefaultMinutes: cfg.GetInt(KeyTimerDefault),
			BreakMinutes:   cfg.GetInt(KeyTimerBreak),
			FocusOptions:   normalizeOptions(focusOptions),
		},
		Summary: SummarySettings{
			TipCount: cfg.GetInt(KeySummaryTipCount),
		},
		TipsPath:    cfg.GetString(KeyTipsPath),
		SecretsRoot: cfg.GetString(KeySecretsRoot),
		DotenvPath:  strings.TrimSpace(cfg.GetString(KeySecretsDotenv)),
	}

	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}

	return settings, nil
}

func (s Settings) Validate() error {
	var errs []error
	if s.Generator.Model == "" {
		errs = append(errs, errors.New("generator.model is required"))
	}
	if s.Generator.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("generator.timeout must be positive, got %s", s.Generator.Timeout))
	}
	if s.Timer.DefaultMinutes <= 0 {
		errs = append(errs, fmt.Errorf("timer.default_minutes must be positive, got %d", s.Timer.DefaultMinutes))
	}
	if s.Timer.BreakMinutes <= 0 {
		errs = append(errs, fmt.Errorf("timer.break_minutes must be positive, got %d", s.Timer.BreakMinutes))
	}
	for _, option := range s.Timer.FocusOptions {
		if option <= 0 {
			errs = append(errs, fmt.Errorf("timer.focus_options must be positive, got %d", option))
		}
	}
	if s.Summary.TipCount < 0 {
		errs = append(errs, fmt.Errorf("summary.tip_count must not be negative, got %d", s.Summary.TipCount))
	}
	if strings.TrimSpace(s.TipsPath) == "" {
		errs = append(errs, errors.New("tips.path is empty"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}

	return nil
}

// intList accepts a TOML array or, from SB_* variables, a string of integers
// separated by commas or spaces ("10,20", "10 20", "[10, 20]").
func intList(raw any) ([]int, error) {
	text, ok := raw.(string)
	if !ok {
		values, err := cast.ToIntSliceE(raw)
		if err != nil {
			return nil, fmt.Errorf("expected a list of minutes, got %v", raw)
		}
		return values, nil
	}

	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(strings.TrimPrefix(text, "["), "]")
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 {
		return nil, errors.New("expected at least one number of minutes")
	}

	values := make([]int, 0, len(fields))
	for _, field := range fields {
		value, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("%q is not a whole number of minutes", field)
		}
		values = append(values, value)
	}

	return values, nil
}

func normalizeOptions(options []int) []int {
	normalized := slices.Clone(options)
	slices.Sort(normalized)
	return slices.Compact(normalized)
}
