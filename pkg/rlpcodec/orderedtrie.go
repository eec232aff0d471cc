package rlpcodec

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/ethereum/go-ethereum/trie"
)

// emptyRootHash is the canonical empty-trie hash: keccak256(rlp("")).
var emptyRootHash = common.HexToHash("0x56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421")

// EncodeScalarIndex returns the length-prefixed RLP encoding of a sequence
// index, the key half of an ordered-trie leaf and, independently, the index
// encoding used by block-receipts index lookups.
func EncodeScalarIndex(i int) []byte {
	enc, err := rlp.EncodeToBytes(uint64(i))
	if err != nil {
		// rlp.EncodeToBytes on a uint64 cannot fail.
		panic(err)
	}
	return enc
}

// encodedItemList adapts a flat slice of already-encoded items to
// types.DerivableList so it can be handed to types.DeriveSha. Each item is
// written verbatim at its index; no further encoding is applied.
type encodedItemList [][]byte

func (l encodedItemList) Len() int { return len(l) }

func (l encodedItemList) EncodeIndex(i int, w *bytes.Buffer) {
	w.Write(l[i])
}

// OrderedTrieRoot builds the root of a trie whose keys are length-prefixed
// sequence indices and whose values are the already-encoded items, and
// returns its root hash. This is how the receipts root is reconstructed
// from a block's decoded receipt list.
//
// The index-reorder quirk described for this construction (effective index
// i for i>0x7f, 0 at i==0x7f or the last position, i+1 otherwise) is the
// insertion order types.DeriveSha uses internally to satisfy StackTrie's
// sorted-key requirement; it does not change which key each item lands at,
// only the order leaves are added in, so delegating to DeriveSha reproduces
// it exactly without restating it here.
func OrderedTrieRoot(items [][]byte) common.Hash {
	if len(items) == 0 {
		return emptyRootHash
	}
	return types.DeriveSha(encodedItemList(items), trie.NewStackTrie(nil))
}
