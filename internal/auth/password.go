// Package auth implements the credential primitives of the service: bcrypt
// password hashing and HS256 token issuance/verification.  Both are pure
// functions of their inputs (plus a wall-clock read for tokens) and hold no
// shared state, so they are safe for concurrent use across requests.
package auth

import (
    "errors"
    "fmt"

    "golang.org/x/crypto/bcrypt"
)

// ErrMalformedHash is returned by Verify when the stored hash is not a
// structurally valid bcrypt string (wrong prefix, wrong field count,
// truncated).  It is distinct from a plain mismatch, which returns false
// with a nil error.
var ErrMalformedHash = errors.New("malformed password hash")

// maxPasswordBytes is bcrypt's effective input length.  Input beyond it is
// truncated before hashing, so passwords sharing the first 72 bytes
// collapse to the same credential.  The truncation is applied explicitly
// because the library rejects longer input outright instead of truncating.
const maxPasswordBytes = 72

// PasswordHasher wraps bcrypt with a fixed cost factor.  The zero cost is
// replaced with bcrypt's default so that a zero-value config still yields a
// usable hasher.
type PasswordHasher struct {
    cost int
}

// NewPasswordHasher returns a hasher using the given bcrypt cost.  Costs
// below bcrypt's minimum fall back to the library default.
func NewPasswordHasher(cost int) *PasswordHasher {
    if cost < bcrypt.MinCost {
        cost = bcrypt.DefaultCost
    }
    return &PasswordHasher{cost: cost}
}

// Hash produces a salted bcrypt hash of the plaintext.  A fresh random salt
// is generated on every call, so hashing the same input twice yields two
// different strings.  Empty and arbitrary Unicode inputs are valid; input
// beyond maxPasswordBytes is truncated.
func (h *PasswordHasher) Hash(plain string) (string, error) {
    b, err := bcrypt.GenerateFromPassword(truncate(plain), h.cost)
    if err != nil {
        return "", fmt.Errorf("hash password: %w", err)
    }
    return string(b), nil
}

// Verify recomputes the hash from the salt embedded in hashed and compares
// in constant time.  A mismatch returns (false, nil).  A hash that cannot
// be parsed at all returns (false, ErrMalformedHash) so callers can tell a
// corrupt stored credential apart from a wrong password.
func (h *PasswordHasher) Verify(plain, hashed string) (bool, error) {
    err := bcrypt.CompareHashAndPassword([]byte(hashed), truncate(plain))
    switch {
    case err == nil:
        return true, nil
    case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
        return false, nil
    default:
        return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
    }
}

func truncate(plain string) []byte {
    b := []byte(plain)
    if len(b) > maxPasswordBytes {
        b = b[:maxPasswordBytes]
    }
    return b
}
