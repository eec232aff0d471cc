// Package rpcclient is a thin, unverified JSON-RPC client for the upstream
// node: every value it returns is exactly what the remote said, with no
// Merkle proof checked against a trusted root. It exists so the verified
// client has something concrete to wrap, and so a caller that does not need
// verification (or is fetching the proof/code the verified client is about
// to check) can talk to the same node.
package rpcclient

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/eshaan7/verified-eth-rpc-proxy/pkg/chaintypes"
)

var _ chaintypes.Querier = (*Client)(nil)

// Client is a raw RPC client for the upstream node's eth_* namespace.
type Client struct {
	c *rpc.Client
}

// Dial connects to a node at the given URL.
func Dial(rawurl string) (*Client, error) {
	return DialContext(context.Background(), rawurl)
}

// DialContext connects to a node at the given URL with a context.
func DialContext(ctx context.Context, rawurl string) (*Client, error) {
	c, err := rpc.DialContext(ctx, rawurl)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", rawurl, err)
	}
	return NewClient(c), nil
}

// NewClient wraps an already-established RPC client.
func NewClient(c *rpc.Client) *Client {
	return &Client{c: c}
}

// Close closes the underlying RPC connection.
func (c *Client) Close() { c.c.Close() }

// BlockNumber returns the upstream node's current block height.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	var result hexutil.Uint64
	err := c.c.CallContext(ctx, &result, "eth_blockNumber")
	if err != nil {
		return 0, chaintypes.RemoteTransportError("eth_blockNumber", err)
	}
	return uint64(result), nil
}

// HeaderByNumber returns the header for tag. It does not establish trust in
// the header; a caller must validate it (e.g. against a light client)
// before treating its state/receipts roots as trusted.
func (c *Client) HeaderByNumber(ctx context.Context, tag chaintypes.BlockTag) (*types.Header, error) {
	var raw *types.Header
	err := c.c.CallContext(ctx, &raw, "eth_getBlockByNumber", tag.RPCString(), false)
	if err != nil {
		return nil, chaintypes.RemoteTransportError("eth_getBlockByNumber", err)
	}
	if raw == nil {
		return nil, chaintypes.BlockNotFoundError(tag.Number)
	}
	return raw, nil
}

// GetBalance returns the raw, unverified balance the remote reports.
func (c *Client) GetBalance(ctx context.Context, address common.Address, tag chaintypes.BlockTag) (*big.Int, error) {
	var result hexutil.Big
	err := c.c.CallContext(ctx, &result, "eth_getBalance", address, tag.RPCString())
	if err != nil {
		return nil, chaintypes.RemoteTransportError("eth_getBalance", err)
	}
	return (*big.Int)(&result), nil
}

// GetNonce returns the raw, unverified nonce the remote reports.
func (c *Client) GetNonce(ctx context.Context, address common.Address, tag chaintypes.BlockTag) (uint64, error) {
	var result hexutil.Uint64
	err := c.c.CallContext(ctx, &result, "eth_getTransactionCount", address, tag.RPCString())
	if err != nil {
		return 0, chaintypes.RemoteTransportError("eth_getTransactionCount", err)
	}
	return uint64(result), nil
}

// GetCode returns the raw, unverified bytecode the remote reports.
func (c *Client) GetCode(ctx context.Context, address common.Address, tag chaintypes.BlockTag) ([]byte, error) {
	var result hexutil.Bytes
	err := c.c.CallContext(ctx, &result, "eth_getCode", address, tag.RPCString())
	if err != nil {
		return nil, chaintypes.RemoteTransportError("eth_getCode", err)
	}
	return result, nil
}

// GetStorageAt returns the raw, unverified storage slot value the remote
// reports.
func (c *Client) GetStorageAt(ctx context.Context, address common.Address, key common.Hash, tag chaintypes.BlockTag) (*big.Int, error) {
	var result hexutil.Bytes
	err := c.c.CallContext(ctx, &result, "eth_getStorageAt", address, key, tag.RPCString())
	if err != nil {
		return nil, chaintypes.RemoteTransportError("eth_getStorageAt", err)
	}
	return new(big.Int).SetBytes(result), nil
}

// storageProofJSON mirrors one element of an EIP-1186 storageProof array.
type storageProofJSON struct {
	Key   common.Hash     `json:"key"`
	Value *hexutil.Big    `json:"value"`
	Proof []hexutil.Bytes `json:"proof"`
}

// proofJSON mirrors the full eth_getProof response.
type proofJSON struct {
	Address      common.Address      `json:"address"`
	AccountProof []hexutil.Bytes     `json:"accountProof"`
	Balance      *hexutil.Big        `json:"balance"`
	CodeHash     common.Hash         `json:"codeHash"`
	Nonce        hexutil.Uint64      `json:"nonce"`
	StorageHash  common.Hash         `json:"storageHash"`
	StorageProof []storageProofJSON  `json:"storageProof"`
}

// GetProof calls eth_getProof and returns the decoded, still-unverified
// response.
func (c *Client) GetProof(ctx context.Context, address common.Address, storageKeys []common.Hash, tag chaintypes.BlockTag) (*chaintypes.AccountProof, error) {
	var raw proofJSON
	err := c.c.CallContext(ctx, &raw, "eth_getProof", address, storageKeys, tag.RPCString())
	if err != nil {
		return nil, chaintypes.RemoteTransportError("eth_getProof", err)
	}

	accountProof := make([][]byte, len(raw.AccountProof))
	for i, node := range raw.AccountProof {
		accountProof[i] = node
	}

	storageProof := make([]chaintypes.StorageProofEntry, len(raw.StorageProof))
	for i, sp := range raw.StorageProof {
		proof := make([][]byte, len(sp.Proof))
		for j, node := range sp.Proof {
			proof[j] = node
		}
		var value *big.Int
		if sp.Value != nil {
			value = sp.Value.ToInt()
		} else {
			value = new(big.Int)
		}
		storageProof[i] = chaintypes.StorageProofEntry{
			Key:   sp.Key,
			Value: value,
			Proof: proof,
		}
	}

	balance := new(big.Int)
	if raw.Balance != nil {
		balance = raw.Balance.ToInt()
	}

	return &chaintypes.AccountProof{
		Address:      raw.Address,
		Nonce:        uint64(raw.Nonce),
		Balance:      balance,
		CodeHash:     raw.CodeHash,
		StorageHash:  raw.StorageHash,
		AccountProof: accountProof,
		StorageProof: storageProof,
	}, nil
}

// GetTransactionReceipt returns the raw, unverified receipt the remote
// reports for a transaction hash.
func (c *Client) GetTransactionReceipt(ctx context.Context, txHash common.Hash) (*chaintypes.TxReceipt, error) {
	var raw *types.Receipt
	err := c.c.CallContext(ctx, &raw, "eth_getTransactionReceipt", txHash)
	if err != nil {
		return nil, chaintypes.RemoteTransportError("eth_getTransactionReceipt", err)
	}
	if raw == nil {
		return nil, ethereum.NotFound
	}
	return toChainReceipt(raw), nil
}

// GetBlockReceipts returns the raw, unverified receipts for every
// transaction in the block identified by tag.
func (c *Client) GetBlockReceipts(ctx context.Context, tag chaintypes.BlockTag) ([]*chaintypes.TxReceipt, error) {
	var raw []*types.Receipt
	err := c.c.CallContext(ctx, &raw, "eth_getBlockReceipts", tag.RPCString())
	if err != nil {
		return nil, chaintypes.RemoteTransportError("eth_getBlockReceipts", err)
	}
	receipts := make([]*chaintypes.TxReceipt, len(raw))
	for i, r := range raw {
		receipts[i] = toChainReceipt(r)
	}
	return receipts, nil
}

// toChainReceipt adapts go-ethereum's wire receipt shape, already decoded by
// its own JSON unmarshaler, into the canonical shape this system hashes and
// compares against a trusted receipts root.
func toChainReceipt(r *types.Receipt) *chaintypes.TxReceipt {
	statusOrPostState := r.PostState
	if len(statusOrPostState) == 0 {
		// Mirror go-ethereum's statusEncoding: the post-EIP-658 status byte is
		// part of a receipt's RLP encoding only when it's 1 (success). A
		// failed receipt commits to the empty byte string, not 0x00.
		if r.Status == types.ReceiptStatusSuccessful {
			statusOrPostState = []byte{1}
		} else {
			statusOrPostState = []byte{}
		}
	}
	var blockNumber uint64
	if r.BlockNumber != nil {
		blockNumber = r.BlockNumber.Uint64()
	}
	return &chaintypes.TxReceipt{
		StatusOrPostState: statusOrPostState,
		CumulativeGasUsed: r.CumulativeGasUsed,
		LogsBloom:         r.Bloom,
		Logs:              r.Logs,
		TxType:            r.Type,
		TransactionHash:   r.TxHash,
		TransactionIndex:  uint64(r.TransactionIndex),
		BlockNumber:       blockNumber,
		BlockHash:         r.BlockHash,
	}
}
