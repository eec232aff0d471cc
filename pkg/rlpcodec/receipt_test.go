package rlpcodec

import (
	"bytes"
	"testing"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/eshaan7/verified-eth-rpc-proxy/pkg/chaintypes"
)

func TestEncodeReceiptLegacyNoTypePrefix(t *testing.T) {
	r := chaintypes.TxReceipt{
		StatusOrPostState: []byte{1},
		CumulativeGasUsed: 21000,
		TxType:            types.LegacyTxType,
	}
	encoded, err := EncodeReceipt(r)
	if err != nil {
		t.Fatalf("EncodeReceipt failed: %v", err)
	}

	status, gas, _, logs, err := DecodeReceiptBody(encoded)
	if err != nil {
		t.Fatalf("DecodeReceiptBody failed on legacy encoding: %v", err)
	}
	if !bytes.Equal(status, r.StatusOrPostState) {
		t.Errorf("status mismatch: got %x, want %x", status, r.StatusOrPostState)
	}
	if gas != r.CumulativeGasUsed {
		t.Errorf("cumulative gas mismatch: got %d, want %d", gas, r.CumulativeGasUsed)
	}
	if len(logs) != 0 {
		t.Errorf("expected no logs, got %d", len(logs))
	}
}

func TestEncodeReceiptTypedPrefix(t *testing.T) {
	r := chaintypes.TxReceipt{
		StatusOrPostState: []byte{1},
		CumulativeGasUsed: 50000,
		TxType:            types.DynamicFeeTxType,
	}
	encoded, err := EncodeReceipt(r)
	if err != nil {
		t.Fatalf("EncodeReceipt failed: %v", err)
	}
	if encoded[0] != types.DynamicFeeTxType {
		t.Fatalf("expected leading tx type byte 0x%x, got 0x%x", types.DynamicFeeTxType, encoded[0])
	}

	// Stripping the prefix must yield a decodable legacy-shaped body.
	if _, _, _, _, err := DecodeReceiptBody(encoded[1:]); err != nil {
		t.Fatalf("DecodeReceiptBody on typed body failed: %v", err)
	}
}

func TestEncodeReceiptFailedStatusIsEmptyString(t *testing.T) {
	r := chaintypes.TxReceipt{
		StatusOrPostState: []byte{},
		CumulativeGasUsed: 21000,
		TxType:            types.LegacyTxType,
	}
	encoded, err := EncodeReceipt(r)
	if err != nil {
		t.Fatalf("EncodeReceipt failed: %v", err)
	}

	status, _, _, _, err := DecodeReceiptBody(encoded)
	if err != nil {
		t.Fatalf("DecodeReceiptBody failed: %v", err)
	}
	if len(status) != 0 {
		t.Errorf("expected empty status for a failed receipt, got %x", status)
	}

	// A failed receipt must encode differently from a successful one: the
	// status field is the RLP empty string (0x80), not a zero byte (0x00).
	success := chaintypes.TxReceipt{
		StatusOrPostState: []byte{1},
		CumulativeGasUsed: 21000,
		TxType:            types.LegacyTxType,
	}
	successEncoded, err := EncodeReceipt(success)
	if err != nil {
		t.Fatalf("EncodeReceipt failed: %v", err)
	}
	if bytes.Equal(encoded, successEncoded) {
		t.Error("failed and successful receipts must not encode identically")
	}
}

func TestEncodeReceiptPreByzantiumPostState(t *testing.T) {
	postState := bytes.Repeat([]byte{0xab}, 32)
	r := chaintypes.TxReceipt{
		StatusOrPostState: postState,
		CumulativeGasUsed: 21000,
		TxType:            types.LegacyTxType,
	}
	encoded, err := EncodeReceipt(r)
	if err != nil {
		t.Fatalf("EncodeReceipt failed: %v", err)
	}
	status, _, _, _, err := DecodeReceiptBody(encoded)
	if err != nil {
		t.Fatalf("DecodeReceiptBody failed: %v", err)
	}
	if !bytes.Equal(status, postState) {
		t.Errorf("post-state mismatch: got %x, want %x", status, postState)
	}
}
