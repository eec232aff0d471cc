package chaintypes

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Querier is the capability surface both the raw remote client and the
// verified client implement, so callers can be written generically over
// either — get an unverified answer quickly, or a verified one slowly.
type Querier interface {
	GetBalance(ctx context.Context, addr common.Address, tag BlockTag) (*big.Int, error)
	GetNonce(ctx context.Context, addr common.Address, tag BlockTag) (uint64, error)
	GetCode(ctx context.Context, addr common.Address, tag BlockTag) ([]byte, error)
	GetStorageAt(ctx context.Context, addr common.Address, slot common.Hash, tag BlockTag) (*big.Int, error)
	GetTransactionReceipt(ctx context.Context, txHash common.Hash) (*TxReceipt, error)
	GetBlockReceipts(ctx context.Context, tag BlockTag) ([]*TxReceipt, error)
}
