// Package verifiedclient is the verifying proxy itself: it answers the same
// account, storage, code, and receipt queries rpcclient does, but only after
// checking the remote's answer against a trusted state or receipts root held
// in trustedstate. A query for a block this process has not been told to
// trust fails closed rather than falling back to an unverified answer.
package verifiedclient

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/sync/errgroup"

	"github.com/eshaan7/verified-eth-rpc-proxy/pkg/chaintypes"
	"github.com/eshaan7/verified-eth-rpc-proxy/pkg/metrics"
	"github.com/eshaan7/verified-eth-rpc-proxy/pkg/mpt"
	"github.com/eshaan7/verified-eth-rpc-proxy/pkg/rlpcodec"
	"github.com/eshaan7/verified-eth-rpc-proxy/pkg/rpcclient"
	"github.com/eshaan7/verified-eth-rpc-proxy/pkg/trustedstate"
)

var _ chaintypes.Querier = (*Client)(nil)
var _ remote = (*rpcclient.Client)(nil)

// remote is the subset of rpcclient.Client this package drives. Declaring it
// as an interface keeps the verification logic testable against a fake
// transport without a live node or an HTTP server.
type remote interface {
	BlockNumber(ctx context.Context) (uint64, error)
	HeaderByNumber(ctx context.Context, tag chaintypes.BlockTag) (*types.Header, error)
	GetProof(ctx context.Context, address common.Address, storageKeys []common.Hash, tag chaintypes.BlockTag) (*chaintypes.AccountProof, error)
	GetCode(ctx context.Context, address common.Address, tag chaintypes.BlockTag) ([]byte, error)
	GetTransactionReceipt(ctx context.Context, txHash common.Hash) (*chaintypes.TxReceipt, error)
	GetBlockReceipts(ctx context.Context, tag chaintypes.BlockTag) ([]*chaintypes.TxReceipt, error)
}

// Client is a verifying proxy over a raw RPC client and a trusted block
// table.
type Client struct {
	remote  remote
	trusted *trustedstate.Store
	metrics *metrics.Collector
}

// New returns a verifying proxy that checks rc's answers against the blocks
// held in trusted.
func New(rc *rpcclient.Client, trusted *trustedstate.Store, collector *metrics.Collector) *Client {
	return &Client{remote: rc, trusted: trusted, metrics: collector.OrNop()}
}

// resolveBlockNumber turns tag into the concrete block number it names,
// asking the remote when the tag isn't already a number. A concrete number
// is never trusted on its own — it's only ever used as the key into the
// trust table by the caller — so asking an untrusted remote to do this
// translation doesn't widen what this client will vouch for.
func (c *Client) resolveBlockNumber(ctx context.Context, tag chaintypes.BlockTag) (uint64, error) {
	switch tag.Kind {
	case chaintypes.BlockTagNumber:
		return tag.Number, nil
	case chaintypes.BlockTagLatest:
		n, err := c.remote.BlockNumber(ctx)
		if err != nil {
			return 0, err
		}
		return n, nil
	default:
		header, err := c.remote.HeaderByNumber(ctx, tag)
		if err != nil {
			return 0, err
		}
		return header.Number.Uint64(), nil
	}
}

// resolveTrustedBlock maps a block tag to the trusted block it names: the
// tag is first resolved to a concrete block number through the remote, then
// that number is checked against the trust table. A tag that resolves to a
// number this process hasn't been told to trust fails closed.
func (c *Client) resolveTrustedBlock(ctx context.Context, tag chaintypes.BlockTag) (chaintypes.TrustedBlock, error) {
	number, err := c.resolveBlockNumber(ctx, tag)
	if err != nil {
		return chaintypes.TrustedBlock{}, fmt.Errorf("resolving block tag %q: %w", tag.RPCString(), err)
	}
	b, ok := c.trusted.Get(number)
	if !ok {
		return chaintypes.TrustedBlock{}, chaintypes.UntrustedBlockError(number)
	}
	return b, nil
}

// verifiedAccount fetches and verifies the account at address against the
// trusted block's state root, along with its code. The two remote calls run
// concurrently since neither depends on the other.
func (c *Client) verifiedAccount(ctx context.Context, address common.Address, tag chaintypes.BlockTag, storageKeys []common.Hash) (chaintypes.Account, *chaintypes.AccountProof, []byte, error) {
	trusted, err := c.resolveTrustedBlock(ctx, tag)
	if err != nil {
		return chaintypes.Account{}, nil, nil, err
	}

	var proof *chaintypes.AccountProof
	var code []byte

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		proof, err = c.remote.GetProof(gctx, address, storageKeys, chaintypes.AtNumber(trusted.Number))
		return err
	})
	g.Go(func() error {
		var err error
		code, err = c.remote.GetCode(gctx, address, chaintypes.AtNumber(trusted.Number))
		return err
	})
	if err := g.Wait(); err != nil {
		return chaintypes.Account{}, nil, nil, err
	}

	acctStart := time.Now()
	acct, err := mpt.VerifyAccountProof(proof, trusted.StateRoot)
	c.metrics.ObserveDuration("account", time.Since(acctStart).Seconds())
	if err != nil {
		c.metrics.ObserveVerification("account", false)
		return chaintypes.Account{}, nil, nil, chaintypes.AccountProofError(err)
	}

	codeStart := time.Now()
	err = mpt.VerifyCodeHash(acct.CodeHash, code)
	c.metrics.ObserveDuration("code", time.Since(codeStart).Seconds())
	if err != nil {
		c.metrics.ObserveVerification("code", false)
		return chaintypes.Account{}, nil, nil, chaintypes.CodeHashMismatchError(address, acct.CodeHash, crypto.Keccak256Hash(code))
	}
	c.metrics.ObserveVerification("account", true)
	c.metrics.ObserveVerification("code", true)

	return acct, proof, code, nil
}

// GetAccount returns the verified account state for address at tag.
func (c *Client) GetAccount(ctx context.Context, address common.Address, tag chaintypes.BlockTag) (chaintypes.Account, error) {
	acct, _, _, err := c.verifiedAccount(ctx, address, tag, nil)
	return acct, err
}

// GetBalance returns address's verified balance at tag.
func (c *Client) GetBalance(ctx context.Context, address common.Address, tag chaintypes.BlockTag) (*big.Int, error) {
	acct, err := c.GetAccount(ctx, address, tag)
	if err != nil {
		return nil, err
	}
	return acct.Balance, nil
}

// GetNonce returns address's verified nonce at tag.
func (c *Client) GetNonce(ctx context.Context, address common.Address, tag chaintypes.BlockTag) (uint64, error) {
	acct, err := c.GetAccount(ctx, address, tag)
	if err != nil {
		return 0, err
	}
	return acct.Nonce, nil
}

// GetCode returns address's verified bytecode at tag.
func (c *Client) GetCode(ctx context.Context, address common.Address, tag chaintypes.BlockTag) ([]byte, error) {
	_, _, code, err := c.verifiedAccount(ctx, address, tag, nil)
	return code, err
}

// GetStorageAt returns the verified value of slot under address's storage
// trie at tag.
func (c *Client) GetStorageAt(ctx context.Context, address common.Address, slot common.Hash, tag chaintypes.BlockTag) (*big.Int, error) {
	trusted, err := c.resolveTrustedBlock(ctx, tag)
	if err != nil {
		return nil, err
	}

	proof, err := c.remote.GetProof(ctx, address, []common.Hash{slot}, chaintypes.AtNumber(trusted.Number))
	if err != nil {
		return nil, err
	}

	acctStart := time.Now()
	acct, err := mpt.VerifyAccountProof(proof, trusted.StateRoot)
	c.metrics.ObserveDuration("account", time.Since(acctStart).Seconds())
	if err != nil {
		c.metrics.ObserveVerification("account", false)
		return nil, chaintypes.AccountProofError(err)
	}
	c.metrics.ObserveVerification("account", true)

	var entry *chaintypes.StorageProofEntry
	for i := range proof.StorageProof {
		if proof.StorageProof[i].Key == slot {
			entry = &proof.StorageProof[i]
			break
		}
	}
	if entry == nil {
		return nil, chaintypes.SlotNotFoundError(address, slot)
	}

	storageStart := time.Now()
	err = mpt.VerifyStorageProof(*entry, acct.StorageRoot)
	c.metrics.ObserveDuration("storage", time.Since(storageStart).Seconds())
	if err != nil {
		c.metrics.ObserveVerification("storage", false)
		return nil, chaintypes.StorageProofError(err)
	}
	c.metrics.ObserveVerification("storage", true)

	return entry.Value, nil
}

// reconstructReceiptsRoot rebuilds the receipts root for a block's full,
// ordered receipt list and compares it against the trusted root.
func reconstructReceiptsRoot(blockNumber uint64, receipts []*chaintypes.TxReceipt, wantRoot common.Hash) error {
	encoded := make([][]byte, len(receipts))
	for i, r := range receipts {
		enc, err := rlpcodec.EncodeReceipt(*r)
		if err != nil {
			return fmt.Errorf("encoding receipt %d: %w", i, err)
		}
		encoded[i] = enc
	}
	got := rlpcodec.OrderedTrieRoot(encoded)
	if got != wantRoot {
		return chaintypes.ReceiptsRootMismatchError(blockNumber, wantRoot, got)
	}
	return nil
}

// GetTransactionReceipt returns txHash's receipt once it has been checked
// against its block's trusted receipts root. This requires fetching every
// receipt in the block to reconstruct the root, then confirming txHash's own
// receipt is the one that landed at its claimed index.
func (c *Client) GetTransactionReceipt(ctx context.Context, txHash common.Hash) (*chaintypes.TxReceipt, error) {
	receipt, err := c.remote.GetTransactionReceipt(ctx, txHash)
	if err != nil {
		return nil, err
	}
	if receipt.BlockNumber == 0 {
		return nil, chaintypes.MissingReceiptMetadataError(txHash)
	}

	trusted, err := c.resolveTrustedBlock(ctx, chaintypes.AtNumber(receipt.BlockNumber))
	if err != nil {
		return nil, err
	}

	blockReceipts, err := c.remote.GetBlockReceipts(ctx, chaintypes.AtNumber(receipt.BlockNumber))
	if err != nil {
		return nil, err
	}

	receiptsStart := time.Now()
	verifyErr := reconstructReceiptsRoot(trusted.Number, blockReceipts, trusted.ReceiptsRoot)
	if verifyErr == nil {
		if receipt.TransactionIndex >= uint64(len(blockReceipts)) {
			verifyErr = chaintypes.ReceiptVerificationFailedError(txHash, trusted.Number)
		} else if atIndex := blockReceipts[receipt.TransactionIndex]; !receiptsEqual(receipt, atIndex) {
			verifyErr = chaintypes.ReceiptVerificationFailedError(txHash, trusted.Number)
		}
	}
	c.metrics.ObserveDuration("receipts", time.Since(receiptsStart).Seconds())
	if verifyErr != nil {
		c.metrics.ObserveVerification("receipts", false)
		return nil, verifyErr
	}
	c.metrics.ObserveVerification("receipts", true)

	return receipt, nil
}

// receiptsEqual requires both receipts to carry the same transaction hash,
// then compares them by their canonical RLP encoding rather than the rest of
// their fields one by one, so cosmetic differences in how a remote reports a
// receipt (nil vs empty log slices, a recomputed vs cached bloom) never
// produce a false mismatch once both encode identically.
func receiptsEqual(a, b *chaintypes.TxReceipt) bool {
	if a.TransactionHash != b.TransactionHash {
		return false
	}
	encA, errA := rlpcodec.EncodeReceipt(*a)
	encB, errB := rlpcodec.EncodeReceipt(*b)
	if errA != nil || errB != nil {
		return false
	}
	return string(encA) == string(encB)
}

// GetBlockReceipts returns every receipt in the block identified by tag,
// once their combined list has been checked against the block's trusted
// receipts root.
func (c *Client) GetBlockReceipts(ctx context.Context, tag chaintypes.BlockTag) ([]*chaintypes.TxReceipt, error) {
	trusted, err := c.resolveTrustedBlock(ctx, tag)
	if err != nil {
		return nil, err
	}

	receipts, err := c.remote.GetBlockReceipts(ctx, chaintypes.AtNumber(trusted.Number))
	if err != nil {
		return nil, err
	}

	receiptsStart := time.Now()
	verifyErr := reconstructReceiptsRoot(trusted.Number, receipts, trusted.ReceiptsRoot)
	c.metrics.ObserveDuration("receipts", time.Since(receiptsStart).Seconds())
	if verifyErr != nil {
		c.metrics.ObserveVerification("receipts", false)
		return nil, verifyErr
	}
	c.metrics.ObserveVerification("receipts", true)

	return receipts, nil
}
