// internal/solana/keypair_test.go
package solana

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeKeypairFile(t *testing.T, acc types.Account) string {
	t.Helper()

	ints := make([]int, len(acc.PrivateKey))
	for i, b := range acc.PrivateKey {
		ints[i] = int(b)
	}
	data, err := json.Marshal(ints)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "keypair.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestLoadKeypairFromFile(t *testing.T) {
	acc := types.NewAccount()
	path := writeKeypairFile(t, acc)

	got, err := LoadKeypair(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, acc.PublicKey, got.PublicKey)
}

func TestLoadKeypairMissingFile(t *testing.T) {
	_, err := LoadKeypair(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadKeypairEmptySource(t *testing.T) {
	_, err := LoadKeypair(context.Background(), "   ")
	assert.Error(t, err)
}

func TestDecodeKeypairJSONWrongLength(t *testing.T) {
	_, err := decodeKeypairJSON([]byte("[1,2,3]"))
	assert.Error(t, err)
}

func TestDecodeKeypairJSONNotJSON(t *testing.T) {
	_, err := decodeKeypairJSON([]byte("not json"))
	assert.Error(t, err)
}

func TestDecodeKeypairJSONByteRange(t *testing.T) {
	ints := make([]int, 64)
	ints[10] = 300 // out of byte range
	data, err := json.Marshal(ints)
	require.NoError(t, err)

	_, err = decodeKeypairJSON(data)
	assert.Error(t, err)
}

func TestParsePublicKey(t *testing.T) {
	pub := types.NewAccount().PublicKey

	got, err := ParsePublicKey(pub.ToBase58())
	require.NoError(t, err)
	assert.Equal(t, pub, got)

	_, err = ParsePublicKey("")
	assert.Error(t, err)

	_, err = ParsePublicKey("abc") // valid base58, wrong length
	assert.Error(t, err)

	_, err = ParsePublicKey("0OIl") // not base58 alphabet
	assert.Error(t, err)
}
