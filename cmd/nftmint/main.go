// cmd/nftmint/main.go

// "nftmint" mints a Metaplex collection NFT and a member NFT verified
// against it on Solana.
package main

import (
	"os"

	"github.com/fatih/color"

	"nftmint/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		color.Red("nftmint failed: %v", err)
		os.Exit(1)
	}
	os.Exit(0)
}
