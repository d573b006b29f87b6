package crypto

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompareRoundTrip(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("pass")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if hash == "pass" {
		t.Fatal("hash must not equal the plaintext")
	}

	if err := hasher.Compare(hash, "pass"); err != nil {
		t.Errorf("expected match, got %v", err)
	}
}

func TestCompareMismatch(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("pass")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	err = hasher.Compare(hash, "wrong")
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
}

func TestCompareMalformedHash(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	err := hasher.Compare("not-a-bcrypt-hash", "pass")
	if err == nil {
		t.Fatal("expected an error for a malformed hash")
	}
	if errors.Is(err, ErrPasswordMismatch) {
		t.Fatal("a malformed hash is a fault, not a mismatch")
	}
}

func TestHashesAreSalted(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	first, err := hasher.Hash("pass")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	second, err := hasher.Hash("pass")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if first == second {
		t.Error("two hashes of the same password must differ")
	}
}

func TestNewBcryptHasherClampsCost(t *testing.T) {
	hasher := NewBcryptHasher(99)
	if hasher.cost != bcrypt.DefaultCost {
		t.Errorf("expected default cost for out-of-range input, got %d", hasher.cost)
	}
}

func TestRandomTokenGenerator(t *testing.T) {
	gen := NewRandomTokenGenerator()

	first, err := gen.NewToken()
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}
	second, err := gen.NewToken()
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}

	if first == second {
		t.Error("tokens must be unique")
	}
	if len(first) != 64 {
		t.Errorf("expected 64 hex characters, got %d", len(first))
	}
	if strings.ToLower(first) != first {
		t.Error("expected lowercase hex encoding")
	}
}
