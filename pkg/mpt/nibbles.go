package mpt

// terminatorByte marks the end of a key's nibble path; go-ethereum's hex-prefix
// encoding reserves nibble value 16 for it since real nibbles only span 0-15.
const terminatorByte = 16

// Nibbles is a key in hex-nibble form, terminated by terminatorByte.
type Nibbles []byte

// KeyToNibbles unpacks a byte key into its terminated nibble form, the
// representation trie nodes are keyed by.
func KeyToNibbles(key []byte) Nibbles {
	l := len(key)*2 + 1
	n := make([]byte, l)
	for i, b := range key {
		n[i*2] = b / 16
		n[i*2+1] = b % 16
	}
	n[l-1] = terminatorByte
	return n
}

func hasTerm(n []byte) bool {
	return len(n) > 0 && n[len(n)-1] == terminatorByte
}

// compactToHex reverses hex-prefix (compact) encoding, the form leaf and
// extension node keys are stored in within a proof, back into nibbles.
func compactToHex(compact []byte) []byte {
	if len(compact) == 0 {
		return compact
	}
	base := make([]byte, len(compact)*2+1)
	for i, b := range compact {
		base[i*2] = b / 16
		base[i*2+1] = b % 16
	}
	base[len(base)-1] = terminatorByte
	if base[0] < 2 {
		base = base[:len(base)-1]
	}
	chop := 2 - base[0]&1
	return base[chop:]
}
