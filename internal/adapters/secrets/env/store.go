package env

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/bnema/studybuddy/internal/domain"
	"github.com/bnema/studybuddy/internal/ports"
	"github.com/spf13/viper"
)

type lookupFunc func(name string) (value string, ok bool, err error)

// Store resolves secret keys to variable names (GOOGLE_API_KEY, ...) and reads
// them either from the process environment or from a dotenv file. It never
// writes.
type Store struct {
	vars   map[string]string
	source string
	lookup lookupFunc
}

var _ ports.SecretStore = (*Store)(nil)

// NewStore reads from the process environment.
func NewStore(vars map[string]string) *Store {
	return &Store{vars: vars, source: "environment", lookup: lookupProcess}
}

// NewDotenvStore reads KEY=value lines from path on every Get, so edits are
// picked up without a restart. A missing file behaves like an empty one.
func NewDotenvStore(path string, vars map[string]string) *Store {
	return &Store{vars: vars, source: path, lookup: dotenvLookup(path)}
}

// Source names where values come from: "environment" or the dotenv path.
func (s *Store) Source() string {
	return s.source
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name, ok := s.vars[key]
	if !ok {
		return "", fmt.Errorf("%w: no variable mapped to %q", domain.ErrSecretNotFound, key)
	}

	value, ok, err := s.lookup(name)
	if err != nil {
		return "", err
	}
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return "", fmt.Errorf("%w: %s is not set in %s", domain.ErrSecretNotFound, name, s.source)
	}

	return value, nil
}

func (s *Store) Put(ctx context.Context, key string, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fmt.Errorf("put %q into %s: %w", key, s.source, domain.ErrSecretReadOnly)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fmt.Errorf("delete %q from %s: %w", key, s.source, domain.ErrSecretReadOnly)
}

func lookupProcess(name string) (string, bool, error) {
	value, ok := os.LookupEnv(name)
	return value, ok, nil
}

func dotenvLookup(path string) lookupFunc {
	return func(name string) (string, bool, error) {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", false, nil
			}
			return "", false, fmt.Errorf("stat dotenv file: %w", err)
		}

		cfg := viper.New()
		cfg.SetConfigFile(path)
		cfg.SetConfigType("env")
		if err := cfg.ReadInConfig(); err != nil {
			return "", false, fmt.Errorf("read dotenv file %s: %w", path, err)
		}
		if !cfg.IsSet(name) {
			return "", false, nil
		}

		return cfg.GetString(name), true, nil
	}
}
