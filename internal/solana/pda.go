// internal/solana/pda.go
package solana

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
)

// Token-metadata program PDA seeds. These are fixed external contracts: the
// namespace strings and seed ordering must match the on-chain program byte
// for byte or derived addresses will not resolve.
var (
	seedMetadata            = []byte("metadata")
	seedCollectionAuthority = []byte("collection_authority")
)

// MetadataAddress derives the metadata PDA for a mint:
// ["metadata", program id, mint].
func MetadataAddress(mint common.PublicKey) (common.PublicKey, error) {
	pub, err := token_metadata.GetTokenMetaPubkey(mint)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("GetTokenMetaPubkey: %w", err)
	}
	return pub, nil
}

// MasterEditionAddress derives the master edition PDA for a mint:
// ["metadata", program id, mint, "edition"].
func MasterEditionAddress(mint common.PublicKey) (common.PublicKey, error) {
	pub, err := token_metadata.GetMasterEdition(mint)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("GetMasterEdition: %w", err)
	}
	return pub, nil
}

// CollectionAuthorityRecordAddress derives the collection authority record PDA
// for (collection mint, delegated authority):
// ["metadata", program id, mint, "collection_authority", authority].
// The SDK has no helper for this one, so the seeds are assembled here.
func CollectionAuthorityRecordAddress(mint, authority common.PublicKey) (common.PublicKey, error) {
	pub, _, err := common.FindProgramAddress(
		[][]byte{
			seedMetadata,
			common.MetaplexTokenMetaProgramID.Bytes(),
			mint.Bytes(),
			seedCollectionAuthority,
			authority.Bytes(),
		},
		common.MetaplexTokenMetaProgramID,
	)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("FindProgramAddress: %w", err)
	}
	return pub, nil
}
