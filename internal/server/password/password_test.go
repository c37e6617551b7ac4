package password

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	h := NewHasher(DefaultCost)

	digest, err := h.Hash("pw123456")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if digest == "pw123456" || digest == "" {
		t.Fatalf("digest must not be empty or equal to the plaintext")
	}
	if !strings.HasPrefix(digest, "$2") {
		t.Fatalf("expected bcrypt digest, got %q", digest)
	}

	if !h.Verify("pw123456", digest) {
		t.Fatal("correct password rejected")
	}
	if h.Verify("wrongpass", digest) {
		t.Fatal("wrong password accepted")
	}
}

func TestHash_Salted(t *testing.T) {
	h := NewHasher(DefaultCost)

	d1, err := h.Hash("pw123456")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	d2, err := h.Hash("pw123456")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if d1 == d2 {
		t.Fatal("two hashes of the same password must differ (salt)")
	}
}

func TestNewHasher_InvalidCostFallsBack(t *testing.T) {
	h := NewHasher(0)

	digest, err := h.Hash("pw123456")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !h.Verify("pw123456", digest) {
		t.Fatal("digest does not verify")
	}
}
