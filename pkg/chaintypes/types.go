// Package chaintypes holds the data model shared by the proof verifier, the
// trusted block table, and the raw/verified RPC clients: addresses, hashes,
// accounts, proofs, receipts, and the block-tag variants used to resolve a
// query to a concrete block number.
package chaintypes

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// BlockTagKind discriminates the variants of BlockTag.
type BlockTagKind int

const (
	BlockTagLatest BlockTagKind = iota
	BlockTagNumber
	BlockTagEarliest
	BlockTagPending
	BlockTagFinalized
	BlockTagSafe
)

// BlockTag selects a block for a query. Number is only meaningful when Kind
// is BlockTagNumber.
type BlockTag struct {
	Kind   BlockTagKind
	Number uint64
}

// Latest returns the BlockTag for the chain head.
func Latest() BlockTag { return BlockTag{Kind: BlockTagLatest} }

// AtNumber returns the BlockTag pinned to a specific block number.
func AtNumber(n uint64) BlockTag { return BlockTag{Kind: BlockTagNumber, Number: n} }

// RPCString renders the tag the way the remote JSON-RPC interface expects it
// as the block parameter of eth_getBlockByNumber and friends.
func (t BlockTag) RPCString() string {
	switch t.Kind {
	case BlockTagNumber:
		return hexutil.EncodeUint64(t.Number)
	case BlockTagEarliest:
		return "earliest"
	case BlockTagPending:
		return "pending"
	case BlockTagFinalized:
		return "finalized"
	case BlockTagSafe:
		return "safe"
	default:
		return "latest"
	}
}

// TrustedBlock is a unit of trust: a block number together with the three
// roots an authoritative source (a light client, a checkpoint service) has
// already vouched for. All four fields are considered mutually consistent
// once inserted.
type TrustedBlock struct {
	Number       uint64
	Hash         common.Hash
	StateRoot    common.Hash
	ReceiptsRoot common.Hash
}

// Account is the four-field leaf value the state trie commits to.
type Account struct {
	Nonce       uint64
	Balance     *big.Int
	StorageRoot common.Hash
	CodeHash    common.Hash
}

// StorageProofEntry is one element of an EIP-1186 storageProof list.
type StorageProofEntry struct {
	Key   common.Hash
	Value *big.Int
	Proof [][]byte
}

// AccountProof is the full eth_getProof response, decoded and ready for
// verification. Nothing in this struct is trusted until it survives
// VerifyRPCProof.
type AccountProof struct {
	Address      common.Address
	Nonce        uint64
	Balance      *big.Int
	CodeHash     common.Hash
	StorageHash  common.Hash
	AccountProof [][]byte
	StorageProof []StorageProofEntry
}

// TxReceipt is the consensus-shaped receipt this system hashes and compares
// against a trusted receipts root. StatusOrPostState holds either the
// post-EIP-658 status (0x01 for success, the empty byte string for failure)
// or the pre-Byzantium 32-byte state root.
type TxReceipt struct {
	StatusOrPostState []byte
	CumulativeGasUsed uint64
	LogsBloom         types.Bloom
	Logs              []*types.Log
	TxType            uint8
	TransactionHash   common.Hash
	TransactionIndex  uint64
	BlockNumber       uint64
	BlockHash         common.Hash
}
