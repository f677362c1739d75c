package crypto

import (
	"testing"

	"github.com/canopy-network/cardano/lib"
	"github.com/stretchr/testify/require"
)

func TestKeystoreImport(t *testing.T) {
	password := "password"
	root := randomRoot(t)
	ks := NewKeystoreInMemory()
	id, err := ks.Import(root, password, "main")
	require.NoError(t, err)
	require.Equal(t, WalletID(root.Public()), id)
	// by id and by nickname
	for _, key := range []string{id, "main"} {
		got, e := ks.GetKey(key, password)
		require.NoError(t, e)
		require.True(t, root.Equals(got))
		public, e := ks.GetPublic(key)
		require.NoError(t, e)
		require.True(t, root.Public().Equals(public))
	}
	require.Equal(t, []string{id}, ks.List())
}

func TestKeystoreWrongPassword(t *testing.T) {
	root := randomRoot(t)
	ks := NewKeystoreInMemory()
	id, err := ks.Import(root, "right", "")
	require.NoError(t, err)
	_, err = ks.GetKey(id, "wrong")
	require.Equal(t, lib.CodeInvalidPassword, err.Code())
	_, err = ks.GetKey(id, "")
	require.Equal(t, lib.CodeInvalidPassword, err.Code())
	_, err = ks.GetKey("unknown", "right")
	require.Equal(t, lib.CodeKeyNotFound, err.Code())
}

func TestKeystoreDelete(t *testing.T) {
	ks := NewKeystoreInMemory()
	id, err := ks.Import(randomRoot(t), "pass", "nick")
	require.NoError(t, err)
	ks.DeleteKey("nick")
	require.Empty(t, ks.ByID)
	require.Empty(t, ks.ByNickname)
	_, err = ks.GetPublic(id)
	require.Equal(t, lib.CodeKeyNotFound, err.Code())
	// deleting an unknown key is a no-op
	ks.DeleteKey("nick")
}

func TestKeystoreFile(t *testing.T) {
	dir := t.TempDir()
	// missing file gives an empty store
	ks, err := NewKeystoreFromFile(dir)
	require.NoError(t, err)
	require.Empty(t, ks.List())
	root := randomRoot(t)
	id, err := ks.Import(root, "pass", "savings")
	require.NoError(t, err)
	require.NoError(t, ks.SaveToFile(dir))
	loaded, err := NewKeystoreFromFile(dir)
	require.NoError(t, err)
	got, err := loaded.GetKey(id, "pass")
	require.NoError(t, err)
	require.True(t, root.Equals(got))
	got, err = loaded.GetKey("savings", "pass")
	require.NoError(t, err)
	require.True(t, root.Equals(got))
}
