// internal/cli/mint_nft.go
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"nftmint/internal/solana"
)

var mintNFTCmd = &cobra.Command{
	Use:   "mint-nft",
	Short: "Mints a member NFT into an existing collection",
	RunE:  mintNFTFunc,
}

func init() {
	mintNFTCmd.Flags().StringVar(&collectionMintB58, "collection", "", "existing collection mint address (base58)")
	_ = mintNFTCmd.MarkFlagRequired("collection")
}

func mintNFTFunc(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()

	collection, err := solana.ParsePublicKey(collectionMintB58)
	if err != nil {
		return err
	}

	m, err := newMinter(ctx)
	if err != nil {
		return err
	}

	res, err := m.MintMember(ctx, nftMeta(), collection)
	if err != nil {
		return err
	}

	printMintResult("member", *res)
	return nil
}
