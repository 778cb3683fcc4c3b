// internal/cli/run.go
package cli

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"nftmint/internal/solana"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Mints the collection NFT, then a member NFT verified against it",
	RunE:  runFunc,
}

func runFunc(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 2*requestTimeout)
	defer cancel()

	m, err := newMinter(ctx)
	if err != nil {
		return err
	}

	res, err := m.Run(ctx, collectionMeta(), nftMeta())
	if err != nil {
		return err
	}

	printMintResult("collection", res.Collection)
	printMintResult("member", res.Member)
	return nil
}

func printMintResult(label string, r solana.MintResult) {
	color.Green("%s mint: %s", label, r.Mint.ToBase58())
	color.Green("%s signature: %s", label, r.Signature)
}
