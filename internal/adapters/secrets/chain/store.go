package chain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	envstore "github.com/bnema/studybuddy/internal/adapters/secrets/env"
	filestore "github.com/bnema/studybuddy/internal/adapters/secrets/file"
	passstore "github.com/bnema/studybuddy/internal/adapters/secrets/pass"
	"github.com/bnema/studybuddy/internal/domain"
	"github.com/bnema/studybuddy/internal/ports"
)

// Layer is one named backend of a Store.
type Layer struct {
	Name  string
	Store ports.SecretStore
}

// Store consults its layers in order. Reads return the first value found;
// writes and deletes go to the first layer that accepts them, skipping
// read-only layers. Cancellation stops the walk.
type Store struct {
	layers []Layer
}

var _ ports.SecretStore = (*Store)(nil)

var errNoLayers = errors.New("secret store chain has no layers")

func New(layers ...Layer) (*Store, error) {
	if len(layers) == 0 {
		return nil, errNoLayers
	}
	for i, layer := range layers {
		if layer.Store == nil {
			return nil, fmt.Errorf("secret layer %d (%q) is nil", i, layer.Name)
		}
	}

	return &Store{layers: layers}, nil
}

// Sources configures the default lookup order: environment, dotenv file,
// pass, then files under FileRoot. An empty DotenvPath leaves that layer out.
type Sources struct {
	EnvVars    map[string]string
	DotenvPath string
	FileRoot   string
}

func NewDefault(src Sources) (*Store, error) {
	layers := []Layer{{Name: "env", Store: envstore.NewStore(src.EnvVars)}}
	if path := strings.TrimSpace(src.DotenvPath); path != "" {
		layers = append(layers, Layer{Name: "dotenv", Store: envstore.NewDotenvStore(path, src.EnvVars)})
	}
	layers = append(layers,
		Layer{Name: "pass", Store: passstore.NewStore()},
		Layer{Name: "file", Store: filestore.NewStore(src.FileRoot)},
	)

	return New(layers...)
}

// Names lists the layers in lookup order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.layers))
	for _, layer := range s.layers {
		names = append(names, layer.Name)
	}
	return names
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var errs []error
	for _, layer := range s.layers {
		value, err := layer.Store.Get(ctx, key)
		if err == nil {
			return value, nil
		}
		if shouldStop(err) {
			return "", err
		}
		errs = append(errs, fmt.Errorf("%s: %w", layer.Name, err))
	}

	return "", fmt.Errorf("get %q: %w", key, errors.Join(errs...))
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	return s.write(ctx, "put", key, func(store ports.SecretStore) error {
		return store.Put(ctx, key, value)
	})
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.write(ctx, "delete", key, func(store ports.SecretStore) error {
		return store.Delete(ctx, key)
	})
}

func (s *Store) write(ctx context.Context, op string, key string, apply func(ports.SecretStore) error) error {
	var errs []error
	for _, layer := range s.layers {
		err := apply(layer.Store)
		if err == nil {
			return nil
		}
		if shouldStop(err) {
			return err
		}
		if errors.Is(err, domain.ErrSecretReadOnly) {
			continue
		}
		errs = append(errs, fmt.Errorf("%s: %w", layer.Name, err))
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(errs) == 0 {
		return fmt.Errorf("%s %q: %w", op, key, domain.ErrSecretReadOnly)
	}

	return fmt.Errorf("%s %q: %w", op, key, errors.Join(errs...))
}

func shouldStop(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
