// internal/solana/client.go
package solana

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/blocto/solana-go-sdk/types"
	"go.uber.org/zap"
)

var (
	ErrBlockhashExpired = errors.New("solana client: blockhash expired before confirmation")
	ErrTransactionError = errors.New("solana client: transaction failed on chain")
)

const defaultPollInterval = 2 * time.Second

// ChainClient is the minimal RPC surface the minter needs. Extracted so the
// mint flow can be tested against a fake.
type ChainClient interface {
	GetMinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error)
	GetLatestBlockhash(ctx context.Context) (rpc.GetLatestBlockhashValue, error)
	SendTransaction(ctx context.Context, tx types.Transaction) (string, error)
	WaitForConfirmation(ctx context.Context, sig string, lastValidBlockHeight uint64) error
	GetAccountInfo(ctx context.Context, address string) (client.AccountInfo, error)
}

// Client wraps the blocto RPC client with the confirmation loop this CLI
// needs. Implements ChainClient.
type Client struct {
	RPC *client.Client

	Commitment   rpc.Commitment
	PollInterval time.Duration

	logger *zap.Logger
}

var _ ChainClient = (*Client)(nil)

// NewClient builds a client for the given endpoint.
// Endpoint resolution order:
// 1) rpcURL argument (if non-empty)
// 2) SOLANA_RPC_URL env
// 3) devnet default
func NewClient(rpcURL string, logger *zap.Logger) *Client {
	u := strings.TrimSpace(rpcURL)
	if u == "" {
		u = strings.TrimSpace(os.Getenv("SOLANA_RPC_URL"))
	}
	if u == "" {
		u = rpc.DevnetRPCEndpoint
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		RPC:          client.NewClient(u),
		Commitment:   rpc.CommitmentConfirmed,
		PollInterval: defaultPollInterval,
		logger:       logger,
	}
}

func (c *Client) GetMinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error) {
	return c.RPC.GetMinimumBalanceForRentExemption(ctx, size)
}

func (c *Client) GetLatestBlockhash(ctx context.Context) (rpc.GetLatestBlockhashValue, error) {
	return c.RPC.GetLatestBlockhash(ctx)
}

func (c *Client) SendTransaction(ctx context.Context, tx types.Transaction) (string, error) {
	return c.RPC.SendTransaction(ctx, tx)
}

func (c *Client) GetAccountInfo(ctx context.Context, address string) (client.AccountInfo, error) {
	return c.RPC.GetAccountInfo(ctx, address)
}

// WaitForConfirmation polls the signature status until the transaction reaches
// the client's commitment level, the blockhash expires, or ctx is done.
// A status carrying a non-nil Err is surfaced as ErrTransactionError: the
// transaction landed but its execution failed, which callers must treat as a
// hard failure, never a silent success.
func (c *Client) WaitForConfirmation(ctx context.Context, sig string, lastValidBlockHeight uint64) error {
	interval := c.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	for {
		status, err := c.RPC.GetSignatureStatus(ctx, sig)
		if err != nil {
			return fmt.Errorf("GetSignatureStatus: %w", err)
		}

		if status != nil {
			if status.Err != nil {
				return fmt.Errorf("%w: sig=%s err=%v", ErrTransactionError, sig, status.Err)
			}
			if status.ConfirmationStatus != nil && commitmentReached(*status.ConfirmationStatus, c.Commitment) {
				c.logger.Debug("transaction confirmed",
					zap.String("sig", sig),
					zap.String("status", string(*status.ConfirmationStatus)),
				)
				return nil
			}
		}

		// no status yet, or not deep enough: give up once the blockhash can
		// no longer be included
		height, err := c.RPC.RpcClient.GetBlockHeight(ctx)
		if err != nil {
			return fmt.Errorf("GetBlockHeight: %w", err)
		}
		if height.Result > lastValidBlockHeight {
			return fmt.Errorf("%w: sig=%s height=%d lastValid=%d", ErrBlockhashExpired, sig, height.Result, lastValidBlockHeight)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

// commitmentReached reports whether got satisfies want, given the
// processed < confirmed < finalized ordering.
func commitmentReached(got, want rpc.Commitment) bool {
	rank := map[rpc.Commitment]int{
		rpc.CommitmentProcessed: 0,
		rpc.CommitmentConfirmed: 1,
		rpc.CommitmentFinalized: 2,
	}
	g, ok := rank[got]
	if !ok {
		return false
	}
	w, ok := rank[want]
	if !ok {
		return false
	}
	return g >= w
}

// AccountExists checks for an account at address. The RPC layer reports a
// missing account either as a null value (zero AccountInfo) or as an error
// message, depending on version; both map to false.
func AccountExists(ctx context.Context, c ChainClient, address string) (bool, client.AccountInfo, error) {
	info, err := c.GetAccountInfo(ctx, address)
	if err == nil {
		empty := client.AccountInfo{}
		if info.Owner == empty.Owner && info.Lamports == 0 && len(info.Data) == 0 {
			return false, info, nil
		}
		return true, info, nil
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "not found") ||
		strings.Contains(msg, "could not find account") ||
		strings.Contains(msg, "account does not exist") {
		return false, client.AccountInfo{}, nil
	}
	return false, client.AccountInfo{}, err
}
