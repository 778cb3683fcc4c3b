// internal/solana/mint_test.go
package solana

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChain records submissions and lets tests fail individual steps.
type fakeChain struct {
	sent        []types.Transaction
	sendCalls   int
	sendErr     error
	confirmErr  error
	accountInfo client.AccountInfo
}

func (f *fakeChain) GetMinimumBalanceForRentExemption(context.Context, uint64) (uint64, error) {
	return 1461600, nil
}

func (f *fakeChain) GetLatestBlockhash(context.Context) (rpc.GetLatestBlockhashValue, error) {
	// any 32-byte base58 string works as a blockhash for offline signing
	return rpc.GetLatestBlockhashValue{
		Blockhash:            types.NewAccount().PublicKey.ToBase58(),
		LatestValidBlockHeight: 1000,
	}, nil
}

func (f *fakeChain) SendTransaction(_ context.Context, tx types.Transaction) (string, error) {
	f.sendCalls++
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.sent = append(f.sent, tx)
	return "fakesig", nil
}

func (f *fakeChain) WaitForConfirmation(context.Context, string, uint64) error {
	return f.confirmErr
}

func (f *fakeChain) GetAccountInfo(context.Context, string) (client.AccountInfo, error) {
	return f.accountInfo, nil
}

func newTestMinter(f *fakeChain) *Minter {
	return NewMinter(f, types.NewAccount(), types.NewAccount(), types.NewAccount().PublicKey, nil)
}

func TestBuildNFTInstructionsOrder(t *testing.T) {
	admin := types.NewAccount().PublicKey
	mint := types.NewAccount().PublicKey

	ins, err := buildNFTInstructions(nftInstructionParam{
		Payer:      admin,
		Mint:       mint,
		TokenOwner: admin,
		MintRent:   1461600,
		Meta:       MetadataInput{Name: "Coll", Symbol: "C", URI: "https://example.com/c.json"},
	})
	require.NoError(t, err)
	require.Len(t, ins, 7)

	wantPrograms := []common.PublicKey{
		common.SystemProgramID,                    // create mint account
		common.TokenProgramID,                     // initialize mint
		common.MetaplexTokenMetaProgramID,         // create metadata
		common.SPLAssociatedTokenAccountProgramID, // create ATA
		common.TokenProgramID,                     // mint to
		common.MetaplexTokenMetaProgramID,         // sign metadata
		common.MetaplexTokenMetaProgramID,         // create master edition
	}
	for i, want := range wantPrograms {
		assert.Equal(t, want, ins[i].ProgramID, "instruction %d", i)
	}

	// the single unit: MintTo data is [7, amount u64 LE]
	assert.Equal(t, []byte{7, 1, 0, 0, 0, 0, 0, 0, 0}, ins[4].Data)
}

func TestMemberMetadataCarriesUnverifiedCollection(t *testing.T) {
	admin := types.NewAccount().PublicKey
	collection := types.NewAccount().PublicKey

	build := func(coll *common.PublicKey) []byte {
		ins, err := buildNFTInstructions(nftInstructionParam{
			Payer:      admin,
			Mint:       types.NewAccount().PublicKey,
			TokenOwner: admin,
			MintRent:   1461600,
			Meta:       MetadataInput{Name: "Member"},
			Collection: coll,
		})
		require.NoError(t, err)
		return ins[2].Data // create-metadata instruction
	}

	withColl := build(&collection)
	idx := bytes.Index(withColl, collection.Bytes())
	require.Greater(t, idx, 0, "metadata must reference the collection mint")
	// borsh Collection layout is (verified, key): the byte before the key is
	// the verified flag, and it must start out false
	assert.Equal(t, byte(0), withColl[idx-1])

	without := build(nil)
	assert.False(t, bytes.Contains(without, collection.Bytes()))
}

func TestBuildVerifyCollectionInstruction(t *testing.T) {
	admin := types.NewAccount().PublicKey
	member := types.NewAccount().PublicKey
	collection := types.NewAccount().PublicKey

	ins, err := buildVerifyCollectionInstruction(admin, member, collection)
	require.NoError(t, err)
	assert.Equal(t, common.MetaplexTokenMetaProgramID, ins.ProgramID)
}

func TestRunSubmitsTwoTransactions(t *testing.T) {
	f := &fakeChain{}
	m := newTestMinter(f)

	res, err := m.Run(context.Background(), MetadataInput{Name: "Coll"}, MetadataInput{Name: "Member"})
	require.NoError(t, err)
	require.Len(t, f.sent, 2)

	// 7 instructions for the collection, 8 for the member NFT
	assert.Len(t, f.sent[0].Message.Instructions, 7)
	assert.Len(t, f.sent[1].Message.Instructions, 8)

	assert.NotEqual(t, res.Collection.Mint, res.Member.Mint)
	assert.Equal(t, "fakesig", res.Collection.Signature)
}

func TestRunStopsAfterFirstFailure(t *testing.T) {
	f := &fakeChain{sendErr: errors.New("simulation failed")}
	m := newTestMinter(f)

	_, err := m.Run(context.Background(), MetadataInput{}, MetadataInput{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mint collection")
	assert.Equal(t, 1, f.sendCalls, "second transaction must not be attempted")
}

func TestRunSurfacesOnChainError(t *testing.T) {
	f := &fakeChain{confirmErr: ErrTransactionError}
	m := newTestMinter(f)

	_, err := m.Run(context.Background(), MetadataInput{}, MetadataInput{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransactionError)
}

func TestMintMemberRequiresCollectionMint(t *testing.T) {
	m := newTestMinter(&fakeChain{})

	_, err := m.MintMember(context.Background(), MetadataInput{}, common.PublicKey{})
	assert.ErrorIs(t, err, ErrNoCollectionMint)
}

func TestInspectCollectionAuthorityMissingRecord(t *testing.T) {
	f := &fakeChain{} // zero AccountInfo: record absent
	m := newTestMinter(f)

	err := m.InspectCollectionAuthority(context.Background(), types.NewAccount().PublicKey)
	assert.NoError(t, err)
}
