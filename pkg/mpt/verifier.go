// Package mpt verifies Merkle-Patricia trie inclusion proofs of the shape
// eth_getProof returns, and composes that primitive into the account,
// storage, and code checks a verifying proxy needs before it can trust a
// value the remote claims to sit under a given root.
package mpt

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/eshaan7/verified-eth-rpc-proxy/pkg/chaintypes"
	"github.com/eshaan7/verified-eth-rpc-proxy/pkg/rlpcodec"
)

// Verification failure kinds. Wrapped errors carry one of these as their
// root cause; callers match with errors.Is.
var (
	ErrProofMalformed = errors.New("mpt: proof malformed")
	ErrRootMismatch   = errors.New("mpt: root mismatch")
	ErrKeyMismatch    = errors.New("mpt: key mismatch")
	ErrValueMismatch  = errors.New("mpt: value mismatch")
)

// KeccakEmpty is the Keccak-256 hash of the empty byte string, the code hash
// of an externally-owned (code-less) account.
var KeccakEmpty = common.HexToHash("0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470")

// VerifyInclusion walks proof, an ordered list of RLP-encoded trie nodes
// from root to leaf, and confirms it demonstrates that key maps to
// expectedValue under root.
//
// Every proof entry must be a full node referenced from its parent by
// Keccak hash (a 32-byte reference). go-ethereum's RLP encoding lets a
// sub-32-byte child be embedded directly in its parent's own encoding
// instead of hashed and listed separately, but that only arises for tries
// keyed by short, non-hashed paths; the 32-byte Keccak addresses and
// storage slots this package verifies never produce an encoding small
// enough to embed, so a proof entry referencing one here is rejected as
// malformed rather than silently mishandled.
func VerifyInclusion(root common.Hash, key Nibbles, expectedValue []byte, proof [][]byte) error {
	if len(proof) == 0 {
		return fmt.Errorf("empty proof: %w", ErrProofMalformed)
	}

	wantHash := root[:]
	pos := 0

	for i, encoded := range proof {
		nodeHash := crypto.Keccak256(encoded)
		if !bytes.Equal(nodeHash, wantHash) {
			return fmt.Errorf("node %d hash does not match expected reference: %w", i, ErrRootMismatch)
		}

		items, err := decodeRLPList(encoded)
		if err != nil {
			return fmt.Errorf("decoding node %d: %w", i, ErrProofMalformed)
		}

		switch len(items) {
		case 2:
			hexNibbles := compactToHex(items[0])

			matchLen := 0
			for matchLen < len(hexNibbles) && pos+matchLen < len(key) {
				if hexNibbles[matchLen] != key[pos+matchLen] {
					break
				}
				matchLen++
			}
			if matchLen < len(hexNibbles) {
				return fmt.Errorf("key diverges at node %d: %w", i, ErrKeyMismatch)
			}
			pos += len(hexNibbles)

			if hasTerm(hexNibbles) {
				if i != len(proof)-1 {
					return fmt.Errorf("leaf node %d is not the last proof entry: %w", i, ErrProofMalformed)
				}
				if !bytes.Equal(items[1], expectedValue) {
					return fmt.Errorf("leaf value does not match expected value: %w", ErrValueMismatch)
				}
				return nil
			}

			if i == len(proof)-1 {
				return fmt.Errorf("proof ends at an extension node: %w", ErrProofMalformed)
			}
			childRef := items[1]
			if len(childRef) != 32 {
				return fmt.Errorf("extension node %d references an embedded child, which is not supported: %w", i, ErrProofMalformed)
			}
			wantHash = childRef

		case 17:
			if pos >= len(key) {
				return fmt.Errorf("key exhausted before reaching a value at node %d: %w", i, ErrKeyMismatch)
			}
			nibble := key[pos]
			pos++

			if nibble == terminatorByte {
				if len(items[16]) == 0 {
					return fmt.Errorf("no value at branch node %d: %w", i, ErrKeyMismatch)
				}
				if !bytes.Equal(items[16], expectedValue) {
					return fmt.Errorf("branch value does not match expected value: %w", ErrValueMismatch)
				}
				return nil
			}

			childRef := items[nibble]
			if len(childRef) == 0 {
				return fmt.Errorf("no child at nibble %d of node %d: %w", nibble, i, ErrKeyMismatch)
			}
			if i == len(proof)-1 {
				return fmt.Errorf("proof ends at a branch node with an unresolved child: %w", ErrProofMalformed)
			}
			if len(childRef) != 32 {
				return fmt.Errorf("branch node %d references an embedded child at nibble %d, which is not supported: %w", i, nibble, ErrProofMalformed)
			}
			wantHash = childRef

		default:
			return fmt.Errorf("node %d has %d elements, want 2 or 17: %w", i, len(items), ErrProofMalformed)
		}
	}

	return fmt.Errorf("proof ended without reaching a value: %w", ErrProofMalformed)
}

// VerifyAccountProof checks proof.AccountProof against stateRoot and, on
// success, returns the account it proves.
func VerifyAccountProof(proof *chaintypes.AccountProof, stateRoot common.Hash) (chaintypes.Account, error) {
	acct := chaintypes.Account{
		Nonce:       proof.Nonce,
		Balance:     proof.Balance,
		StorageRoot: proof.StorageHash,
		CodeHash:    proof.CodeHash,
	}
	value, err := rlpcodec.EncodeAccount(acct)
	if err != nil {
		return chaintypes.Account{}, fmt.Errorf("encoding account for verification: %w", ErrProofMalformed)
	}

	key := KeyToNibbles(crypto.Keccak256(proof.Address[:]))
	if err := VerifyInclusion(stateRoot, key, value, proof.AccountProof); err != nil {
		return chaintypes.Account{}, err
	}
	return acct, nil
}

// VerifyStorageProof checks a single storage-proof entry against
// storageRoot, the proven account's storage root.
func VerifyStorageProof(entry chaintypes.StorageProofEntry, storageRoot common.Hash) error {
	value, err := rlpcodec.EncodeStorageValue(entry.Value)
	if err != nil {
		return fmt.Errorf("encoding storage value for verification: %w", ErrProofMalformed)
	}
	key := KeyToNibbles(crypto.Keccak256(entry.Key[:]))
	return VerifyInclusion(storageRoot, key, value, entry.Proof)
}

// VerifyCodeHash checks that code hashes to codeHash. When codeHash is the
// empty-code hash, any code (including none) is accepted without hashing.
func VerifyCodeHash(codeHash common.Hash, code []byte) error {
	if codeHash == KeccakEmpty {
		return nil
	}
	got := crypto.Keccak256Hash(code)
	if got != codeHash {
		return fmt.Errorf("keccak256(code) = %s, want %s: %w", got.Hex(), codeHash.Hex(), ErrValueMismatch)
	}
	return nil
}

// VerifyRPCProof runs the account, storage, and code checks in order against
// a single trusted state root, short-circuiting on the first failure. The
// storage and code checks bind to the account's own (now-proven) storage
// root and code hash rather than the raw, as-yet-unverified proof fields.
func VerifyRPCProof(proof *chaintypes.AccountProof, code []byte, stateRoot common.Hash) (chaintypes.Account, error) {
	acct, err := VerifyAccountProof(proof, stateRoot)
	if err != nil {
		return chaintypes.Account{}, err
	}
	for _, entry := range proof.StorageProof {
		if err := VerifyStorageProof(entry, acct.StorageRoot); err != nil {
			return chaintypes.Account{}, err
		}
	}
	if err := VerifyCodeHash(acct.CodeHash, code); err != nil {
		return chaintypes.Account{}, err
	}
	return acct, nil
}
