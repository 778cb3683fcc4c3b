// internal/cli/root.go
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nftmint/internal/solana"
)

const requestTimeout = 120 * time.Second

var (
	rpcURL string

	adminKeySource               string
	collectionAuthorityKeySource string
	recipientKeySource           string

	collectionName    string
	collectionSymbol  string
	collectionURI     string
	collectionFeeBPS  uint16
	nftName           string
	nftSymbol         string
	nftURI            string
	nftFeeBPS         uint16
	collectionMintB58 string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "nftmint",
	Short: "Mints a Metaplex collection NFT and a verified member NFT",
	PersistentPreRunE: func(*cobra.Command, []string) error {
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	p := rootCmd.PersistentFlags()
	p.StringVar(&rpcURL, "rpc", "", "RPC endpoint (default: SOLANA_RPC_URL env, then devnet)")
	p.StringVar(&adminKeySource, "admin-key", "keys/admin.json", "administrator keypair (file path or sm://<secret-version>)")
	p.StringVar(&collectionAuthorityKeySource, "collection-authority-key", "keys/collection_authority.json", "collection authority keypair")
	p.StringVar(&recipientKeySource, "recipient-key", "keys/recipient.json", "recipient keypair")

	p.StringVar(&collectionName, "collection-name", "My Collection", "collection NFT name")
	p.StringVar(&collectionSymbol, "collection-symbol", "COLL", "collection NFT symbol")
	p.StringVar(&collectionURI, "collection-uri", "", "collection metadata.json URL")
	p.Uint16Var(&collectionFeeBPS, "collection-fee-bps", 0, "collection seller fee basis points")
	p.StringVar(&nftName, "nft-name", "My NFT", "member NFT name")
	p.StringVar(&nftSymbol, "nft-symbol", "NFT", "member NFT symbol")
	p.StringVar(&nftURI, "nft-uri", "", "member metadata.json URL")
	p.Uint16Var(&nftFeeBPS, "nft-fee-bps", 0, "member seller fee basis points")

	rootCmd.AddCommand(runCmd, mintCollectionCmd, mintNFTCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// newMinter loads the three keypairs and wires a minter against the
// configured endpoint.
func newMinter(ctx context.Context) (*solana.Minter, error) {
	admin, err := solana.LoadKeypair(ctx, adminKeySource)
	if err != nil {
		return nil, err
	}
	collectionAuthority, err := solana.LoadKeypair(ctx, collectionAuthorityKeySource)
	if err != nil {
		return nil, err
	}
	recipient, err := solana.LoadKeypair(ctx, recipientKeySource)
	if err != nil {
		return nil, err
	}

	logger.Info("keypairs loaded",
		zap.String("admin", admin.PublicKey.ToBase58()),
		zap.String("collectionAuthority", collectionAuthority.PublicKey.ToBase58()),
		zap.String("recipient", recipient.PublicKey.ToBase58()),
	)

	c := solana.NewClient(rpcURL, logger)
	return solana.NewMinter(c, admin, collectionAuthority, recipient.PublicKey, logger), nil
}

func collectionMeta() solana.MetadataInput {
	return solana.MetadataInput{
		Name:                 collectionName,
		Symbol:               collectionSymbol,
		URI:                  collectionURI,
		SellerFeeBasisPoints: collectionFeeBPS,
	}
}

func nftMeta() solana.MetadataInput {
	return solana.MetadataInput{
		Name:                 nftName,
		Symbol:               nftSymbol,
		URI:                  nftURI,
		SellerFeeBasisPoints: nftFeeBPS,
	}
}
