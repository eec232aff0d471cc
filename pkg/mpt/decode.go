package mpt

import "github.com/ethereum/go-ethereum/rlp"

// decodeRLPList splits the top-level RLP list of a trie node into its
// elements. String elements are returned as their bare content; list
// elements (an inlined child node embedded because its own encoding is
// under 32 bytes) are returned with their list header intact, since that
// full encoding is what a parent's inline reference must match byte for
// byte.
func decodeRLPList(enc []byte) ([][]byte, error) {
	kind, listContent, _, err := rlp.Split(enc)
	if err != nil {
		return nil, err
	}
	if kind != rlp.List {
		return nil, ErrProofMalformed
	}

	var items [][]byte
	rest := listContent
	for len(rest) > 0 {
		itemKind, content, tail, err := rlp.Split(rest)
		if err != nil {
			return nil, err
		}
		consumed := len(rest) - len(tail)
		if itemKind == rlp.List {
			items = append(items, rest[:consumed])
		} else {
			items = append(items, content)
		}
		rest = tail
	}
	return items, nil
}
