// internal/cli/mint_collection.go
package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var mintCollectionCmd = &cobra.Command{
	Use:   "mint-collection",
	Short: "Mints only the collection NFT",
	RunE:  mintCollectionFunc,
}

func mintCollectionFunc(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()

	m, err := newMinter(ctx)
	if err != nil {
		return err
	}

	res, err := m.MintCollection(ctx, collectionMeta())
	if err != nil {
		return err
	}

	if err := m.InspectCollectionAuthority(ctx, res.Mint); err != nil {
		logger.Warn("collection authority record query failed", zap.Error(err))
	}

	printMintResult("collection", *res)
	return nil
}
