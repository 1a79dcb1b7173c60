package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdentity(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "client.db")

	database, err := Open(path)
	require.NoError(t, err)

	_, err = database.GetIdentity(ctx)
	require.ErrorIs(t, err, ErrNoIdentity)

	require.NoError(t, database.CreateIdentity(ctx, []byte("salt"), []byte("sealed")))
	require.Error(t, database.CreateIdentity(ctx, []byte("salt2"), []byte("sealed2")))
	require.NoError(t, database.Close())

	database, err = Open(path)
	require.NoError(t, err)
	defer database.Close()

	identity, err := database.GetIdentity(ctx)
	require.NoError(t, err)
	require.Equal(t, []byte("salt"), identity.Salt)
	require.Equal(t, []byte("sealed"), identity.EncryptedPrivateKey)
	require.False(t, identity.CreatedAt.IsZero())
}
