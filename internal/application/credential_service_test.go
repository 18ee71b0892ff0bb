package application

import (
	"context"
	"testing"

	"github.com/bnema/studybuddy/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialServiceRoundTrip(t *testing.T) {
	t.Parallel()

	store := &memorySecretStore{}
	svc := NewCredentialService(store)

	require.NoError(t, svc.SetAPIKey(context.Background(), "gemini", "  key-123 \n"))
	assert.Equal(t, "key-123", store.values["studybuddy/gemini/api_key"])

	key, err := svc.APIKey(context.Background(), "gemini")
	require.NoError(t, err)
	assert.Equal(t, "key-123", key)

	require.NoError(t, svc.RemoveAPIKey(context.Background(), "gemini"))
	_, err = svc.APIKey(context.Background(), "gemini")
	require.ErrorIs(t, err, domain.ErrMissingCredential)
	assert.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestCredentialServiceRejectsBlankValues(t *testing.T) {
	t.Parallel()

	store := &memorySecretStore{values: map[string]string{"studybuddy/openai/api_key": "  "}}
	svc := NewCredentialService(store)

	_, err := svc.APIKey(context.Background(), "openai")
	require.ErrorIs(t, err, domain.ErrMissingCredential)

	err = svc.SetAPIKey(context.Background(), "openai", "")
	require.Error(t, err)
	assert.ErrorContains(t, err, "api key value is empty")
}

func TestSecretKeyNormalizesProvider(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "studybuddy/gemini/api_key", SecretKey(" Gemini "))
}
