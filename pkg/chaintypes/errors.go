package chaintypes

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Sentinel error kinds. Callers match with errors.Is; every wrapped error
// carries one of these as its root cause.
var (
	ErrRemoteTransport           = errors.New("remote transport error")
	ErrBlockNotFound             = errors.New("block not found")
	ErrUntrustedBlock            = errors.New("untrusted block")
	ErrProofInvalid              = errors.New("proof invalid")
	ErrCodeHashMismatch          = errors.New("code hash mismatch")
	ErrReceiptsRootMismatch      = errors.New("receipts root mismatch")
	ErrReceiptVerificationFailed = errors.New("receipt verification failed")
	ErrSlotNotFound              = errors.New("slot not found")
	ErrMissingReceiptMetadata    = errors.New("missing receipt metadata")
)

// RemoteTransportError wraps a failed upstream RPC call with the method name.
func RemoteTransportError(method string, err error) error {
	return fmt.Errorf("%s: %w: %v", method, ErrRemoteTransport, err)
}

// UntrustedBlockError renders the exact user-visible message the original
// verifying proxy used for an unresolved trust lookup.
func UntrustedBlockError(number uint64) error {
	return fmt.Errorf("Block %d is not in trusted list: %w", number, ErrUntrustedBlock)
}

// BlockNotFoundError reports a block number the remote does not know about.
func BlockNotFoundError(number uint64) error {
	return fmt.Errorf("block %d not found: %w", number, ErrBlockNotFound)
}

// AccountProofError wraps an account-proof verification failure.
func AccountProofError(err error) error {
	return fmt.Errorf("Failed to verify account proof: %w: %v", ErrProofInvalid, err)
}

// StorageProofError wraps a storage-proof verification failure.
func StorageProofError(err error) error {
	return fmt.Errorf("Failed to verify storage proof: %w: %v", ErrProofInvalid, err)
}

// CodeHashMismatchError reports a code whose hash does not match the proof.
func CodeHashMismatchError(addr common.Address, expected, got common.Hash) error {
	return fmt.Errorf("code hash mismatch for %s: expected %s, got %s: %w",
		addr.Hex(), expected.Hex(), got.Hex(), ErrCodeHashMismatch)
}

// ReceiptsRootMismatchError reports a reconstructed root that disagrees with
// the trusted block's receipts root.
func ReceiptsRootMismatchError(blockNumber uint64, expected, got common.Hash) error {
	return fmt.Errorf("receipts root mismatch at block %d: expected %s, got %s: %w",
		blockNumber, expected.Hex(), got.Hex(), ErrReceiptsRootMismatch)
}

// ReceiptVerificationFailedError reports a single receipt that survived the
// list-level root check but disagreed with the list at its own index.
func ReceiptVerificationFailedError(txHash common.Hash, blockNumber uint64) error {
	return fmt.Errorf("receipt %s in block %d did not match the verified receipt list: %w",
		txHash.Hex(), blockNumber, ErrReceiptVerificationFailed)
}

// SlotNotFoundError reports a storage slot the remote omitted from its proof.
func SlotNotFoundError(addr common.Address, slot common.Hash) error {
	return fmt.Errorf("slot %s not found in storage proof for %s: %w",
		slot.Hex(), addr.Hex(), ErrSlotNotFound)
}

// MissingReceiptMetadataError reports a receipt lacking the fields needed to
// locate it within its block's receipt list.
func MissingReceiptMetadataError(txHash common.Hash) error {
	return fmt.Errorf("receipt %s is missing block number or transaction index: %w",
		txHash.Hex(), ErrMissingReceiptMetadata)
}
