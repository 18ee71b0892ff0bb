package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/bnema/studybuddy/internal/adapters/generator"
	tomlrepo "github.com/bnema/studybuddy/internal/adapters/repo/toml"
	chainstore "github.com/bnema/studybuddy/internal/adapters/secrets/chain"
	"github.com/bnema/studybuddy/internal/adapters/tui"
	"github.com/bnema/studybuddy/internal/application"
	"github.com/bnema/studybuddy/internal/config"
	"github.com/bnema/studybuddy/internal/domain"
	"github.com/bnema/studybuddy/internal/ports"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type rootFlags struct {
	configFile string
	logLevel   string
	logFile    string
}

// app is wired on first use so that flags are parsed before config and
// logging are set up, and so that commands like version never touch them.
type app struct {
	flags rootFlags

	loaded      bool
	settings    config.Settings
	logger      *slog.Logger
	logSink     io.Closer
	logToStderr bool
	clock       ports.Clock
	credentials *application.CredentialService
	tips        *tomlrepo.TipCatalog
	runTUI      func(ctx context.Context, driver tui.Driver, session *domain.Session, opts tui.Options) error
}

func (a *app) load(cmd *cobra.Command) error {
	if a.loaded {
		return nil
	}

	cfg := viper.New()
	if a.flags.configFile != "" {
		if _, err := os.Stat(a.flags.configFile); err != nil {
			return fmt.Errorf("read config file: %w", err)
		}
		cfg.SetConfigFile(a.flags.configFile)
	}
	settings, err := config.Load(cfg)
	if err != nil {
		return err
	}

	logger, sink, err := newLogger(a.flags.logLevel, a.flags.logFile, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	vars := make(map[string]string, len(generator.Providers))
	for _, provider := range generator.Providers {
		vars[application.SecretKey(provider)] = generator.CredentialEnvVar(provider)
	}
	secrets, err := chainstore.NewDefault(chainstore.Sources{
		EnvVars:    vars,
		DotenvPath: settings.DotenvPath,
		FileRoot:   settings.SecretsRoot,
	})
	if err != nil {
		return fmt.Errorf("wire secret store chain: %w", err)
	}

	tips, err := tomlrepo.NewTipCatalog(settings.TipsPath)
	if err != nil {
		return fmt.Errorf("wire tip catalog: %w", err)
	}

	a.settings = settings
	a.logger = logger
	a.logSink = sink
	a.logToStderr = a.flags.logFile == ""
	a.clock = ports.SystemClock{}
	a.credentials = application.NewCredentialService(secrets)
	a.tips = tips
	if a.runTUI == nil {
		a.runTUI = tui.Run
	}
	a.loaded = true

	logger.Debug("configuration loaded",
		"model", settings.Generator.Model,
		"tips", settings.TipsPath,
		"secrets", settings.SecretsRoot,
		"secret_layers", secrets.Names(),
	)
	return nil
}

func (a *app) close() {
	if a.logSink != nil {
		_ = a.logSink.Close()
		a.logSink = nil
	}
}

// sessionService resolves the API key for the configured provider and builds
// a service around the matching generator. A missing key is fatal here so
// that no cycle ever runs without a usable generator.
func (a *app) sessionService(ctx context.Context, logger *slog.Logger) (*application.SessionService, error) {
	provider, _, err := generator.ParseModel(a.settings.Generator.Model)
	if err != nil {
		return nil, err
	}

	apiKey, err := a.credentials.APIKey(ctx, provider)
	if err != nil {
		return nil, fmt.Errorf("%w (set %s or run `sb auth set-key --provider %s`)", err, generator.CredentialEnvVar(provider), provider)
	}

	gen, err := generator.New(generator.Options{
		Model:   a.settings.Generator.Model,
		APIKey:  apiKey,
		BaseURL: a.settings.Generator.BaseURL,
		Timeout: a.settings.Generator.Timeout,
	})
	if err != nil {
		return nil, err
	}

	return application.NewSessionService(gen, a.tips, a.clock, application.Settings{
		DefaultTimerSeconds: a.settings.Timer.DefaultSeconds(),
		BreakSeconds:        a.settings.Timer.BreakSeconds(),
		FocusOptions:        a.settings.Timer.FocusOptions,
		TipCount:            a.settings.Summary.TipCount,
		GeneratorTimeout:    a.settings.Generator.Timeout,
	}, logger), nil
}

func newLogger(level string, path string, stderr io.Writer) (*slog.Logger, io.Closer, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return nil, nil, fmt.Errorf("parse --log-level %q: %w", level, err)
	}

	out := stderr
	var sink io.Closer
	if path != "" {
		file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out, sink = file, file
	}

	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: lvl})), sink, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
