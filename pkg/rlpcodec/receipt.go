package rlpcodec

import (
	"bytes"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/eshaan7/verified-eth-rpc-proxy/pkg/chaintypes"
)

// receiptRLP is the consensus-shaped receipt body that sits, unprefixed, at
// a legacy transaction's position in the receipts trie.
type receiptRLP struct {
	StatusOrPostState []byte
	CumulativeGasUsed uint64
	Bloom             types.Bloom
	Logs              []*types.Log
}

// EncodeReceipt returns the exact byte string the chain's receipts trie
// stores at a receipt's position: the length-prefixed consensus body for
// legacy transactions, or that body with a single leading tx_type byte for
// everything else (EIP-2718 typed receipts).
func EncodeReceipt(r chaintypes.TxReceipt) ([]byte, error) {
	var buf bytes.Buffer
	body := &receiptRLP{
		StatusOrPostState: r.StatusOrPostState,
		CumulativeGasUsed: r.CumulativeGasUsed,
		Bloom:             r.LogsBloom,
		Logs:              r.Logs,
	}
	if err := rlp.Encode(&buf, body); err != nil {
		return nil, err
	}
	if r.TxType == types.LegacyTxType {
		return buf.Bytes(), nil
	}
	return append([]byte{r.TxType}, buf.Bytes()...), nil
}

// DecodeReceiptBody decodes the consensus body written by EncodeReceipt
// (without any leading tx_type byte) back into its consensus fields. Used by
// round-trip tests and by callers that need to confirm a receipt decodes
// losslessly.
func DecodeReceiptBody(body []byte) (statusOrPostState []byte, cumulativeGasUsed uint64, bloom types.Bloom, logs []*types.Log, err error) {
	var dec receiptRLP
	if err := rlp.NewStream(bytes.NewReader(body), 0).Decode(&dec); err != nil {
		return nil, 0, types.Bloom{}, nil, err
	}
	return dec.StatusOrPostState, dec.CumulativeGasUsed, dec.Bloom, dec.Logs, nil
}
