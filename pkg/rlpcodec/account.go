// Package rlpcodec provides the canonical RLP encodings this system hashes
// against trusted roots: the state-trie account leaf, the consensus receipt,
// and the ordered-trie root construction used to reconstruct a block's
// receipts root from its receipt list.
package rlpcodec

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/eshaan7/verified-eth-rpc-proxy/pkg/chaintypes"
)

// accountRLP mirrors go-ethereum's state trie leaf value: nonce, balance,
// storage root, code hash, in that order.
type accountRLP struct {
	Nonce       uint64
	Balance     *big.Int
	StorageRoot common.Hash
	CodeHash    common.Hash
}

// EncodeAccount returns the RLP preimage hashed at keccak256(address) in the
// state trie.
func EncodeAccount(a chaintypes.Account) ([]byte, error) {
	balance := a.Balance
	if balance == nil {
		balance = new(big.Int)
	}
	return rlp.EncodeToBytes(&accountRLP{
		Nonce:       a.Nonce,
		Balance:     balance,
		StorageRoot: a.StorageRoot,
		CodeHash:    a.CodeHash,
	})
}

// EncodeStorageValue returns the RLP encoding of a single U256 storage slot
// value, the value half of a storage-proof leaf.
func EncodeStorageValue(v *big.Int) ([]byte, error) {
	if v == nil {
		v = new(big.Int)
	}
	return rlp.EncodeToBytes(v)
}
