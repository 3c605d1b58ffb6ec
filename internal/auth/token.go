package auth

import (
    "errors"
    "fmt"
    "math"
    "time"

    "github.com/golang-jwt/jwt/v5"
)

// Token type values embedded in the "typ" claim.  Access tokens are the
// only kind the request gate accepts; refresh tokens are accepted only by
// the refresh endpoint.  Without this claim a still-valid access token
// could be replayed as a refresh token to mint new pairs indefinitely.
const (
    TokenTypeAccess  = "access"
    TokenTypeRefresh = "refresh"
)

// ErrTokenInvalid covers every verification failure: malformed input, bad
// signature, and expiry.  Callers get a single rejection outcome so the
// response never reveals why a token was refused; the underlying cause is
// still wrapped for server-side logs.
var ErrTokenInvalid = errors.New("invalid token")

// ErrTokenIssuance is returned when a token cannot be minted, e.g. the
// expiry timestamp would overflow or signing fails.
var ErrTokenIssuance = errors.New("token issuance failed")

// Claims is the identity assertion carried by a token.
type Claims struct {
    UserID    string // sub: credential record identifier
    Email     string
    Role      string
    TokenType string // typ: access or refresh
    IssuedAt  int64  // iat, unix seconds
    ExpiresAt int64  // exp, unix seconds
}

// IssueToken signs an HS256 JWT asserting the given identity.  iat is the
// current unix time and exp is iat+ttlSeconds; a TTL of zero produces an
// already-expired token, which is valid to mint but will never verify.
func IssueToken(userID, email, role, tokenType, secret string, ttlSeconds int64) (string, error) {
    now := time.Now().UTC().Unix()
    if ttlSeconds > 0 && now > math.MaxInt64-ttlSeconds {
        return "", fmt.Errorf("%w: expiry overflow", ErrTokenIssuance)
    }
    claims := jwt.MapClaims{
        "sub":   userID,
        "email": email,
        "role":  role,
        "typ":   tokenType,
        "iat":   now,
        "exp":   now + ttlSeconds,
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return "", fmt.Errorf("%w: %v", ErrTokenIssuance, err)
    }
    return signed, nil
}

// VerifyToken parses the token, checks the HMAC signature against secret
// and rejects expired tokens, then returns the embedded claims.  All
// failure modes collapse into ErrTokenInvalid.
func VerifyToken(token, secret string) (Claims, error) {
    tok, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
        }
        return []byte(secret), nil
    }, jwt.WithExpirationRequired())
    if err != nil || !tok.Valid {
        return Claims{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
    }
    mc, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return Claims{}, fmt.Errorf("%w: unexpected claims type", ErrTokenInvalid)
    }
    c := Claims{
        UserID:    stringClaim(mc, "sub"),
        Email:     stringClaim(mc, "email"),
        Role:      stringClaim(mc, "role"),
        TokenType: stringClaim(mc, "typ"),
    }
    if iat, ok := mc["iat"].(float64); ok {
        c.IssuedAt = int64(iat)
    }
    if exp, ok := mc["exp"].(float64); ok {
        c.ExpiresAt = int64(exp)
    }
    if c.UserID == "" {
        return Claims{}, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
    }
    return c, nil
}

func stringClaim(mc jwt.MapClaims, key string) string {
    v, _ := mc[key].(string)
    return v
}
