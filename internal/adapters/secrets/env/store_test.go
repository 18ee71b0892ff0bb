package env

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/studybuddy/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const geminiKey = "studybuddy/gemini/api_key"

func newTestStore(env map[string]string) *Store {
	store := NewStore(map[string]string{geminiKey: "GOOGLE_API_KEY"})
	store.lookup = func(name string) (string, bool, error) {
		value, ok := env[name]
		return value, ok, nil
	}
	return store
}

func writeDotenv(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestStoreGetReadsMappedVariable(t *testing.T) {
	t.Parallel()

	store := newTestStore(map[string]string{"GOOGLE_API_KEY": " g-key \n"})

	value, err := store.Get(context.Background(), geminiKey)
	require.NoError(t, err)
	assert.Equal(t, "g-key", value)
}

func TestStoreGetMissingOrBlankIsNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		env  map[string]string
		key  string
		want string
	}{
		{name: "unset", env: map[string]string{}, key: geminiKey, want: "GOOGLE_API_KEY is not set in environment"},
		{name: "blank", env: map[string]string{"GOOGLE_API_KEY": "  "}, key: geminiKey, want: "GOOGLE_API_KEY is not set"},
		{name: "unmapped key", env: map[string]string{}, key: "studybuddy/openai/api_key", want: "no variable mapped"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := newTestStore(tc.env).Get(context.Background(), tc.key)
			require.ErrorIs(t, err, domain.ErrSecretNotFound)
			assert.ErrorContains(t, err, tc.want)
		})
	}
}

func TestStoreIsReadOnly(t *testing.T) {
	t.Parallel()

	store := newTestStore(nil)
	require.ErrorIs(t, store.Put(context.Background(), geminiKey, "x"), domain.ErrSecretReadOnly)
	require.ErrorIs(t, store.Delete(context.Background(), geminiKey), domain.ErrSecretReadOnly)
}

func TestStoreHonorsCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestStore(map[string]string{"GOOGLE_API_KEY": "k"}).Get(ctx, geminiKey)
	require.ErrorIs(t, err, context.Canceled)
}

func TestDotenvStoreReadsFile(t *testing.T) {
	t.Parallel()

	path := writeDotenv(t, "# study buddy\nGOOGLE_API_KEY=\"dotenv-key\"\nOTHER=1\n")
	store := NewDotenvStore(path, map[string]string{geminiKey: "GOOGLE_API_KEY"})

	value, err := store.Get(context.Background(), geminiKey)
	require.NoError(t, err)
	assert.Equal(t, "dotenv-key", value)
	assert.Equal(t, path, store.Source())
}

func TestDotenvStorePicksUpEdits(t *testing.T) {
	t.Parallel()

	path := writeDotenv(t, "OTHER=1\n")
	store := NewDotenvStore(path, map[string]string{geminiKey: "GOOGLE_API_KEY"})

	_, err := store.Get(context.Background(), geminiKey)
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
	assert.ErrorContains(t, err, "GOOGLE_API_KEY is not set in "+path)

	require.NoError(t, os.WriteFile(path, []byte("GOOGLE_API_KEY=later\n"), 0o600))
	value, err := store.Get(context.Background(), geminiKey)
	require.NoError(t, err)
	assert.Equal(t, "later", value)
}

func TestDotenvStoreMissingFileIsNotFound(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".env")
	store := NewDotenvStore(path, map[string]string{geminiKey: "GOOGLE_API_KEY"})

	_, err := store.Get(context.Background(), geminiKey)
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
	require.ErrorIs(t, store.Put(context.Background(), geminiKey, "x"), domain.ErrSecretReadOnly)
}
