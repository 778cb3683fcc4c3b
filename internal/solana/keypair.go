// internal/solana/keypair.go
package solana

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretspb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"
)

// secretSourcePrefix marks a key source that lives in Google Secret Manager
// instead of the local filesystem, e.g.
//
//	sm://projects/<PROJECT_ID>/secrets/<SECRET_ID>/versions/latest
const secretSourcePrefix = "sm://"

// LoadKeypair restores a solana-keygen keypair (JSON array [u8;64]) from the
// given source and returns it as a types.Account.
//
// Source is either a local file path or a Secret Manager version path with the
// "sm://" prefix.
func LoadKeypair(ctx context.Context, source string) (types.Account, error) {
	src := strings.TrimSpace(source)
	if src == "" {
		return types.Account{}, fmt.Errorf("keypair source is empty")
	}

	var (
		raw []byte
		err error
	)
	if strings.HasPrefix(src, secretSourcePrefix) {
		raw, err = readKeypairSecret(ctx, strings.TrimPrefix(src, secretSourcePrefix))
	} else {
		raw, err = os.ReadFile(src)
	}
	if err != nil {
		return types.Account{}, fmt.Errorf("read keypair %s: %w", src, err)
	}

	keyBytes, err := decodeKeypairJSON(raw)
	if err != nil {
		return types.Account{}, fmt.Errorf("decode keypair %s: %w", src, err)
	}

	acc, err := types.AccountFromBytes(keyBytes)
	if err != nil {
		return types.Account{}, fmt.Errorf("AccountFromBytes: %w", err)
	}
	return acc, nil
}

// readKeypairSecret fetches the keypair JSON from a Secret Manager version.
func readKeypairSecret(ctx context.Context, name string) ([]byte, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("secretmanager.NewClient: %w", err)
	}
	defer client.Close()

	resp, err := client.AccessSecretVersion(ctx, &secretspb.AccessSecretVersionRequest{
		Name: name,
	})
	if err != nil {
		return nil, fmt.Errorf("AccessSecretVersion: %w", err)
	}
	return resp.Payload.Data, nil
}

// decodeKeypairJSON restores the 64-byte secret key from a solana-keygen
// keypair JSON.
// - canonical: [u8;64] decoded as []byte
// - fallback: [int,...] decoded as []int, then converted
func decodeKeypairJSON(data []byte) ([]byte, error) {
	var keyBytes []byte
	if err := json.Unmarshal(data, &keyBytes); err == nil {
		if len(keyBytes) == ed25519.PrivateKeySize {
			return keyBytes, nil
		}
		// unexpected length falls through to the int-array path for the error
	}

	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return nil, fmt.Errorf("unmarshal keypair json: %w", err)
	}
	if len(ints) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("unexpected secret key length: got %d, want %d", len(ints), ed25519.PrivateKeySize)
	}

	keyBytes = make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("keypair byte out of range at %d: %d", i, v)
		}
		keyBytes[i] = byte(v)
	}
	return keyBytes, nil
}

// ParsePublicKey validates a base58 pubkey string before handing it to the
// SDK; common.PublicKeyFromString swallows decode errors.
func ParsePublicKey(s string) (common.PublicKey, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return common.PublicKey{}, fmt.Errorf("public key is empty")
	}
	b, err := base58.Decode(t)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("decode base58 %q: %w", t, err)
	}
	if len(b) != common.PublicKeyLength {
		return common.PublicKey{}, fmt.Errorf("unexpected public key length: got %d, want %d", len(b), common.PublicKeyLength)
	}
	return common.PublicKeyFromBytes(b), nil
}
