package mpt

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func TestDecodeRLPListLeafNode(t *testing.T) {
	enc, err := hex.DecodeString("c78320123482aabb")
	if err != nil {
		t.Fatal(err)
	}
	items, err := decodeRLPList(enc)
	if err != nil {
		t.Fatalf("decodeRLPList failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if !bytes.Equal(items[0], []byte{0x20, 0x12, 0x34}) {
		t.Errorf("item 0 mismatch: got %x", items[0])
	}
	if !bytes.Equal(items[1], []byte{0xAA, 0xBB}) {
		t.Errorf("item 1 mismatch: got %x", items[1])
	}
}

func TestDecodeRLPListBranchNodeKeepsInlineChildrenRaw(t *testing.T) {
	enc, err := hex.DecodeString("d580c23001c230028080808080808080808080808080")
	if err != nil {
		t.Fatal(err)
	}
	items, err := decodeRLPList(enc)
	if err != nil {
		t.Fatalf("decodeRLPList failed: %v", err)
	}
	if len(items) != 17 {
		t.Fatalf("expected 17 items, got %d", len(items))
	}
	if len(items[0]) != 0 {
		t.Errorf("expected empty slot 0, got %x", items[0])
	}
	if !bytes.Equal(items[1], []byte{0xc2, 0x30, 0x01}) {
		t.Errorf("expected slot 1 to retain the inline child's full list encoding, got %x", items[1])
	}
	if !bytes.Equal(items[2], []byte{0xc2, 0x30, 0x02}) {
		t.Errorf("expected slot 2 to retain the inline child's full list encoding, got %x", items[2])
	}
	if len(items[16]) != 0 {
		t.Errorf("expected empty value slot, got %x", items[16])
	}
}

func TestDecodeRLPListRejectsNonList(t *testing.T) {
	if _, err := decodeRLPList([]byte{0x82, 0xAA, 0xBB}); err != ErrProofMalformed {
		t.Fatalf("expected ErrProofMalformed for a bare string, got %v", err)
	}
}
