// internal/solana/mint.go
package solana

import (
	"context"
	"errors"
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/associated_token_account"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"
	"go.uber.org/zap"
)

var (
	ErrMinterNotConfigured = errors.New("minter: not configured")
	ErrNoCollectionMint    = errors.New("minter: collection mint is empty")
)

// MetadataInput is the off-chain metadata for one NFT.
type MetadataInput struct {
	Name                 string
	Symbol               string
	URI                  string // URL of the hosted metadata.json
	SellerFeeBasisPoints uint16 // e.g. 500 = 5%
}

// MintResult reports a confirmed mint.
type MintResult struct {
	Mint      common.PublicKey
	Signature string
}

// nftInstructionParam carries everything the shared 7-instruction NFT
// sequence needs. Collection is nil for the collection NFT itself and set to
// the parent mint for a member NFT.
type nftInstructionParam struct {
	Payer      common.PublicKey // fee payer, mint/update authority, creator
	Mint       common.PublicKey
	TokenOwner common.PublicKey // ATA owner receiving the single unit
	MintRent   uint64
	Meta       MetadataInput
	Collection *common.PublicKey
}

// buildNFTInstructions assembles the fixed NFT mint sequence. Order matters:
// each instruction's accounts are derived from, or require the existence of,
// the previous one's output.
//
//	1) create mint account
//	2) initialize mint (decimals 0)
//	3) create metadata (creator unverified at creation, countersigned in 6)
//	4) create the owner's ATA
//	5) mint the single unit
//	6) sign metadata as creator
//	7) create master edition (MaxSupply=0; the edition PDA takes over the
//	   mint authority, so no further units can ever be minted)
func buildNFTInstructions(p nftInstructionParam) ([]types.Instruction, error) {
	ata, _, err := common.FindAssociatedTokenAddress(p.TokenOwner, p.Mint)
	if err != nil {
		return nil, fmt.Errorf("FindAssociatedTokenAddress: %w", err)
	}
	metadataPubkey, err := MetadataAddress(p.Mint)
	if err != nil {
		return nil, err
	}
	masterEditionPubkey, err := MasterEditionAddress(p.Mint)
	if err != nil {
		return nil, err
	}

	var collection *token_metadata.Collection
	if p.Collection != nil {
		collection = &token_metadata.Collection{
			Verified: false, // flipped by the VerifyCollection instruction
			Key:      *p.Collection,
		}
	}

	maxSupply := uint64(0) // non-editionable original

	return []types.Instruction{
		system.CreateAccount(system.CreateAccountParam{
			From:     p.Payer,
			New:      p.Mint,
			Owner:    common.TokenProgramID,
			Lamports: p.MintRent,
			Space:    token.MintAccountSize,
		}),
		token.InitializeMint(token.InitializeMintParam{
			Decimals:   0,
			Mint:       p.Mint,
			MintAuth:   p.Payer,
			FreezeAuth: &p.Payer,
		}),
		token_metadata.CreateMetadataAccountV3(token_metadata.CreateMetadataAccountV3Param{
			Metadata:                metadataPubkey,
			Mint:                    p.Mint,
			MintAuthority:           p.Payer,
			Payer:                   p.Payer,
			UpdateAuthority:         p.Payer,
			UpdateAuthorityIsSigner: true,
			IsMutable:               true,
			Data: token_metadata.DataV2{
				Name:                 p.Meta.Name,
				Symbol:               p.Meta.Symbol,
				Uri:                  p.Meta.URI,
				SellerFeeBasisPoints: p.Meta.SellerFeeBasisPoints,
				Creators: &[]token_metadata.Creator{
					{
						Address:  p.Payer,
						Verified: false,
						Share:    100,
					},
				},
				Collection: collection,
			},
			CollectionDetails: nil,
		}),
		associated_token_account.CreateAssociatedTokenAccount(
			associated_token_account.CreateAssociatedTokenAccountParam{
				Funder:                 p.Payer,
				Owner:                  p.TokenOwner,
				Mint:                   p.Mint,
				AssociatedTokenAccount: ata,
			},
		),
		token.MintTo(token.MintToParam{
			Mint:   p.Mint,
			To:     ata,
			Auth:   p.Payer,
			Amount: 1,
		}),
		token_metadata.SignMetadata(token_metadata.SignMetadataParam{
			Metadata: metadataPubkey,
			Creator:  p.Payer,
		}),
		token_metadata.CreateMasterEditionV3(token_metadata.CreateMasterEditionParam{
			Edition:         masterEditionPubkey,
			Mint:            p.Mint,
			UpdateAuthority: p.Payer,
			MintAuthority:   p.Payer,
			Metadata:        metadataPubkey,
			Payer:           p.Payer,
			MaxSupply:       &maxSupply,
		}),
	}, nil
}

// buildVerifyCollectionInstruction appends collection verification for a
// member NFT. It can only succeed once the collection's master edition exists
// on chain, which is why it lives in the second transaction.
func buildVerifyCollectionInstruction(payer, memberMint, collectionMint common.PublicKey) (types.Instruction, error) {
	memberMetadata, err := MetadataAddress(memberMint)
	if err != nil {
		return types.Instruction{}, err
	}
	collectionMetadata, err := MetadataAddress(collectionMint)
	if err != nil {
		return types.Instruction{}, err
	}
	collectionEdition, err := MasterEditionAddress(collectionMint)
	if err != nil {
		return types.Instruction{}, err
	}

	return token_metadata.VerifyCollection(token_metadata.VerifyCollectionParam{
		Metadata:                       memberMetadata,
		CollectionAuthority:            payer,
		Payer:                          payer,
		CollectionMint:                 collectionMint,
		Collection:                     collectionMetadata,
		CollectionMasterEditionAccount: collectionEdition,
	}), nil
}

// Minter drives the two mint transactions with the administrator keypair.
type Minter struct {
	Client ChainClient

	Admin               types.Account // fee payer / mint & update authority / creator
	CollectionAuthority types.Account // loaded and reported, signs nothing (see InspectCollectionAuthority)
	Recipient           common.PublicKey

	Logger *zap.Logger
}

// NewMinter wires a minter. A nil logger is replaced with a no-op one.
func NewMinter(c ChainClient, admin, collectionAuthority types.Account, recipient common.PublicKey, logger *zap.Logger) *Minter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Minter{
		Client:              c,
		Admin:               admin,
		CollectionAuthority: collectionAuthority,
		Recipient:           recipient,
		Logger:              logger,
	}
}

// MintCollection submits transaction #1: the collection NFT, minted into the
// administrator's own ATA, with a null collection field.
func (m *Minter) MintCollection(ctx context.Context, meta MetadataInput) (*MintResult, error) {
	if m == nil || m.Client == nil {
		return nil, ErrMinterNotConfigured
	}

	mint := types.NewAccount()
	ins, err := m.buildInstructions(ctx, mint.PublicKey, m.Admin.PublicKey, meta, nil)
	if err != nil {
		return nil, err
	}

	sig, err := m.submit(ctx, ins, mint)
	if err != nil {
		return nil, err
	}

	m.Logger.Info("collection NFT minted",
		zap.String("mint", mint.PublicKey.ToBase58()),
		zap.String("sig", sig),
	)
	return &MintResult{Mint: mint.PublicKey, Signature: sig}, nil
}

// MintMember submits transaction #2: a member NFT minted into the recipient's
// ATA, attached to collectionMint and verified in the same transaction.
func (m *Minter) MintMember(ctx context.Context, meta MetadataInput, collectionMint common.PublicKey) (*MintResult, error) {
	if m == nil || m.Client == nil {
		return nil, ErrMinterNotConfigured
	}
	if collectionMint == (common.PublicKey{}) {
		return nil, ErrNoCollectionMint
	}

	mint := types.NewAccount()
	ins, err := m.buildInstructions(ctx, mint.PublicKey, m.Recipient, meta, &collectionMint)
	if err != nil {
		return nil, err
	}

	verifyIns, err := buildVerifyCollectionInstruction(m.Admin.PublicKey, mint.PublicKey, collectionMint)
	if err != nil {
		return nil, err
	}
	ins = append(ins, verifyIns)

	sig, err := m.submit(ctx, ins, mint)
	if err != nil {
		return nil, err
	}

	m.Logger.Info("member NFT minted and verified",
		zap.String("mint", mint.PublicKey.ToBase58()),
		zap.String("collection", collectionMint.ToBase58()),
		zap.String("sig", sig),
	)
	return &MintResult{Mint: mint.PublicKey, Signature: sig}, nil
}

func (m *Minter) buildInstructions(
	ctx context.Context,
	mint, tokenOwner common.PublicKey,
	meta MetadataInput,
	collection *common.PublicKey,
) ([]types.Instruction, error) {
	mintRent, err := m.Client.GetMinimumBalanceForRentExemption(ctx, token.MintAccountSize)
	if err != nil {
		return nil, fmt.Errorf("GetMinimumBalanceForRentExemption: %w", err)
	}

	return buildNFTInstructions(nftInstructionParam{
		Payer:      m.Admin.PublicKey,
		Mint:       mint,
		TokenOwner: tokenOwner,
		MintRent:   mintRent,
		Meta:       meta,
		Collection: collection,
	})
}

// submit signs with the administrator and the fresh mint account, sends, and
// waits for confirmation against the blockhash's validity window.
func (m *Minter) submit(ctx context.Context, ins []types.Instruction, mint types.Account) (string, error) {
	recent, err := m.Client.GetLatestBlockhash(ctx)
	if err != nil {
		return "", fmt.Errorf("GetLatestBlockhash: %w", err)
	}

	tx, err := types.NewTransaction(types.NewTransactionParam{
		Signers: []types.Account{m.Admin, mint},
		Message: types.NewMessage(types.NewMessageParam{
			FeePayer:        m.Admin.PublicKey,
			RecentBlockhash: recent.Blockhash,
			Instructions:    ins,
		}),
	})
	if err != nil {
		return "", fmt.Errorf("NewTransaction: %w", err)
	}

	sig, err := m.Client.SendTransaction(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("SendTransaction: %w", err)
	}

	m.Logger.Info("transaction submitted", zap.String("sig", sig))

	if err := m.Client.WaitForConfirmation(ctx, sig, recent.LatestValidBlockHeight); err != nil {
		return "", err
	}
	return sig, nil
}

// InspectCollectionAuthority derives the collection authority record PDA for
// (collection mint, collection authority) and logs whatever is on chain at
// that address. Informational only: nothing downstream depends on it.
//
// TODO: ApproveCollectionAuthority is never sent, so this record never exists
// on chain and verification relies on the administrator being the update
// authority; wire the delegation if the collection-authority keypair should
// ever countersign instead.
func (m *Minter) InspectCollectionAuthority(ctx context.Context, collectionMint common.PublicKey) error {
	if m == nil || m.Client == nil {
		return ErrMinterNotConfigured
	}

	record, err := CollectionAuthorityRecordAddress(collectionMint, m.CollectionAuthority.PublicKey)
	if err != nil {
		return err
	}

	exists, info, err := AccountExists(ctx, m.Client, record.ToBase58())
	if err != nil {
		return fmt.Errorf("GetAccountInfo: %w", err)
	}
	if !exists {
		m.Logger.Info("collection authority record not found on chain",
			zap.String("record", record.ToBase58()),
			zap.String("authority", m.CollectionAuthority.PublicKey.ToBase58()),
		)
		return nil
	}

	m.Logger.Info("collection authority record",
		zap.String("record", record.ToBase58()),
		zap.String("authority", m.CollectionAuthority.PublicKey.ToBase58()),
		zap.Uint64("lamports", info.Lamports),
		zap.String("owner", info.Owner.ToBase58()),
		zap.Int("dataLen", len(info.Data)),
	)
	return nil
}

// Run executes the full flow: collection first, the informational authority
// record dump, then the member NFT. A transaction #1 failure stops the run
// before transaction #2 is ever built.
func (m *Minter) Run(ctx context.Context, collectionMeta, memberMeta MetadataInput) (*RunResult, error) {
	collection, err := m.MintCollection(ctx, collectionMeta)
	if err != nil {
		return nil, fmt.Errorf("mint collection: %w", err)
	}

	if err := m.InspectCollectionAuthority(ctx, collection.Mint); err != nil {
		// informational query only; do not fail the run over it
		m.Logger.Warn("collection authority record query failed", zap.Error(err))
	}

	member, err := m.MintMember(ctx, memberMeta, collection.Mint)
	if err != nil {
		return nil, fmt.Errorf("mint member: %w", err)
	}

	return &RunResult{Collection: *collection, Member: *member}, nil
}

// RunResult reports both confirmed transactions of a full run.
type RunResult struct {
	Collection MintResult
	Member     MintResult
}
