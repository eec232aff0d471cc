// Command verifyaccount is a worked example of the verifying proxy: it
// trusts exactly one block (supplied on the command line, as if handed down
// by a light client or checkpoint service) and uses it to verify a single
// account query against a live node.
//
// Usage:
//
//	go run ./cmd/verifyaccount \
//	    --rpc-url http://localhost:8545 \
//	    --block-number 18000000 \
//	    --state-root 0x... --receipts-root 0x... \
//	    <address> [storage_key]
//
// Flags must come before the positional arguments: parsing stops at the
// first non-flag argument.
//
// This is a demonstration binary, not a general-purpose CLI: it does not
// load trusted blocks from a light client, a config file, or a flag set
// richer than what's needed to exercise verifiedclient end to end.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/eshaan7/verified-eth-rpc-proxy/pkg/chaintypes"
	"github.com/eshaan7/verified-eth-rpc-proxy/pkg/metrics"
	"github.com/eshaan7/verified-eth-rpc-proxy/pkg/rpcclient"
	"github.com/eshaan7/verified-eth-rpc-proxy/pkg/trustedstate"
	"github.com/eshaan7/verified-eth-rpc-proxy/pkg/verifiedclient"
)

func main() {
	rpcURL := flag.String("rpc-url", "http://localhost:8545", "JSON-RPC endpoint URL")
	blockNumber := flag.Uint64("block-number", 0, "trusted block number")
	stateRoot := flag.String("state-root", "", "trusted state root for --block-number (required)")
	receiptsRoot := flag.String("receipts-root", "", "trusted receipts root for --block-number (optional, needed only for receipt queries)")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 || *stateRoot == "" {
		fmt.Fprintln(os.Stderr, "Usage: verifyaccount [flags] <address> [storage_key]")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	address := common.HexToAddress(args[0])
	var storageKey *common.Hash
	if len(args) > 1 {
		k := common.HexToHash(args[1])
		storageKey = &k
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Printf("Connecting to %s...\n", *rpcURL)
	raw, err := rpcclient.DialContext(ctx, *rpcURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer raw.Close()

	collector := metrics.New(prometheus.DefaultRegisterer)

	trusted := trustedstate.New()
	trusted.SetMetrics(collector)
	trusted.Add(chaintypes.TrustedBlock{
		Number:       *blockNumber,
		StateRoot:    common.HexToHash(*stateRoot),
		ReceiptsRoot: common.HexToHash(*receiptsRoot),
	})

	verified := verifiedclient.New(raw, trusted, collector)
	tag := chaintypes.AtNumber(*blockNumber)

	acct, err := verified.GetAccount(ctx, address, tag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "account verification failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\n=== Verified Account ===")
	fmt.Printf("Address:      %s\n", address.Hex())
	fmt.Printf("Balance:      %s wei\n", acct.Balance.String())
	fmt.Printf("Nonce:        %d\n", acct.Nonce)
	fmt.Printf("StorageRoot:  %s\n", acct.StorageRoot.Hex())
	fmt.Printf("CodeHash:     %s\n", acct.CodeHash.Hex())

	if storageKey != nil {
		value, err := verified.GetStorageAt(ctx, address, *storageKey, tag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "storage verification failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("\n=== Verified Storage Slot ===")
		fmt.Printf("Key:   %s\n", storageKey.Hex())
		fmt.Printf("Value: %s\n", value.String())
	}
}
