package auth

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// MinCost keeps the adaptive hashing cheap enough for the test suite; the
// contract under test does not depend on the cost factor.
func testHasher() *PasswordHasher { return NewPasswordHasher(bcrypt.MinCost) }

func TestHash_SameInputDifferentOutputs(t *testing.T) {
	t.Parallel()

	h := testHasher()
	h1, err := h.Hash("p@ss1234")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	h2, err := h.Hash("p@ss1234")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("expected distinct hashes for repeated input, got identical %q", h1)
	}

	for _, hashed := range []string{h1, h2} {
		ok, err := h.Verify("p@ss1234", hashed)
		if err != nil {
			t.Fatalf("Verify error: %v", err)
		}
		if !ok {
			t.Fatalf("Verify = false for matching password against %q", hashed)
		}
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	t.Parallel()

	h := testHasher()
	hashed, err := h.Hash("correct horse")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	ok, err := h.Verify("wrong horse", hashed)
	if err != nil {
		t.Fatalf("mismatch must not be an error, got %v", err)
	}
	if ok {
		t.Fatal("Verify = true for wrong password")
	}
}

func TestVerify_MalformedHash(t *testing.T) {
	t.Parallel()

	h := testHasher()
	for _, bad := range []string{"", "invalid_hash_format", "$2b$invalid", "plaintext"} {
		ok, err := h.Verify("whatever", bad)
		if err == nil {
			t.Fatalf("expected error for malformed hash %q, got ok=%v", bad, ok)
		}
		if !errors.Is(err, ErrMalformedHash) {
			t.Fatalf("expected ErrMalformedHash for %q, got %v", bad, err)
		}
		if ok {
			t.Fatalf("Verify = true for malformed hash %q", bad)
		}
	}
}

func TestHash_EmptyAndUnicode(t *testing.T) {
	t.Parallel()

	h := testHasher()
	for _, plain := range []string{"", "пароль密码🔒", "!@#$%^&*()_+-=[]{}|;:,.<>?"} {
		hashed, err := h.Hash(plain)
		if err != nil {
			t.Fatalf("Hash(%q) error: %v", plain, err)
		}
		ok, err := h.Verify(plain, hashed)
		if err != nil || !ok {
			t.Fatalf("Verify(%q) = %v, %v; want true, nil", plain, ok, err)
		}
		ok, err = h.Verify(plain+"x", hashed)
		if err != nil {
			t.Fatalf("Verify error: %v", err)
		}
		if ok {
			t.Fatalf("Verify = true for wrong password against hash of %q", plain)
		}
	}
}

func TestHash_TruncatesBeyond72Bytes(t *testing.T) {
	t.Parallel()

	// bcrypt only considers the first 72 bytes: two passwords sharing that
	// prefix collapse to the same credential.
	h := testHasher()
	prefix := strings.Repeat("a", 72)
	hashed, err := h.Hash(prefix + "tail-one")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	ok, err := h.Verify(prefix+"completely-different-tail", hashed)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if !ok {
		t.Fatal("expected passwords sharing a 72-byte prefix to verify equal")
	}

	// A difference inside the first 72 bytes still matters.
	ok, err = h.Verify(strings.Repeat("b", 72), hashed)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if ok {
		t.Fatal("Verify = true for password differing within the 72-byte window")
	}
}
