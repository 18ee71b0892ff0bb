package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/studybuddy/internal/domain"
	"github.com/bnema/studybuddy/internal/ports"
)

// CredentialService resolves and stores the response generator API key.
type CredentialService struct {
	store ports.SecretStore
}

func NewCredentialService(store ports.SecretStore) *CredentialService {
	return &CredentialService{store: store}
}

// SecretKey is the secret-store key holding provider's API key.
func SecretKey(provider string) string {
	return "studybuddy/" + strings.ToLower(strings.TrimSpace(provider)) + "/api_key"
}

// APIKey returns the key for provider or an error wrapping
// domain.ErrMissingCredential.
func (s *CredentialService) APIKey(ctx context.Context, provider string) (string, error) {
	value, err := s.store.Get(ctx, SecretKey(provider))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", fmt.Errorf("%w for provider %q: %w", domain.ErrMissingCredential, provider, err)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w for provider %q", domain.ErrMissingCredential, provider)
	}

	return value, nil
}

func (s *CredentialService) SetAPIKey(ctx context.Context, provider, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return errors.New("api key value is empty")
	}

	if err := s.store.Put(ctx, SecretKey(provider), value); err != nil {
		return fmt.Errorf("store api key: %w", err)
	}

	return nil
}

func (s *CredentialService) RemoveAPIKey(ctx context.Context, provider string) error {
	if err := s.store.Delete(ctx, SecretKey(provider)); err != nil {
		return fmt.Errorf("delete api key: %w", err)
	}

	return nil
}
