package credential

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/smallbiznis/helpdesk/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "credential")
	store := NewFileStore(path, "token")

	token, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Save(ctx, "abc"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// A fresh store on the same path sees the token.
	token, err = NewFileStore(path, "token").Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	require.NoError(t, store.Clear(ctx))
	token, err = store.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Clear(ctx))
}

func TestFileStoreKeepsOtherKeys(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "credential")
	require.NoError(t, os.WriteFile(path, []byte(`{"other":"x"}`), 0o600))

	store := NewFileStore(path, "token")
	require.NoError(t, store.Save(ctx, "abc"))
	require.NoError(t, store.Clear(ctx))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"other":"x"}`, string(raw))
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credential")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	_, err := NewFileStore(path, "token").Token(context.Background())
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, "abc"))
	token, _ := store.Token(ctx)
	assert.Equal(t, "abc", token)
	require.NoError(t, store.Clear(ctx))
	token, _ = store.Token(ctx)
	assert.Empty(t, token)
}

func TestNewHolderSelectsStore(t *testing.T) {
	holder, err := NewHolder(Params{Cfg: config.Config{Credential: config.CredentialConfig{Store: config.CredentialStoreMemory}}})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, holder)

	holder, err = NewHolder(Params{Cfg: config.Config{Credential: config.CredentialConfig{
		Store: config.CredentialStoreFile, Path: filepath.Join(t.TempDir(), "c"), Key: "token",
	}}})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, holder)

	_, err = NewHolder(Params{Cfg: config.Config{Credential: config.CredentialConfig{Store: config.CredentialStoreRedis}}})
	assert.ErrorIs(t, err, ErrStoreNotConfigured)

	_, err = NewHolder(Params{Cfg: config.Config{Credential: config.CredentialConfig{Store: "vault"}}})
	assert.Error(t, err)
}
