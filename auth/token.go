package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/gitforge/backend/config"
)

// DefaultAudience is used when a token is minted without an explicit
// client-context audience.
const DefaultAudience = "web"

var (
	// ErrInvalidToken is returned when the signature or structure is bad
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned for structurally valid tokens past expiry
	ErrTokenExpired = errors.New("token expired")
)

// TokenClaims is the decoded claim set of an access or refresh token.
type TokenClaims struct {
	SubjectID int64
	Audience  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenCodec signs and verifies self-contained tokens. Expiry is always
// issued-at plus the configured lifetime for the token kind; nothing is
// persisted server-side.
type TokenCodec struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenCodec creates a codec from the auth configuration.
func NewTokenCodec(cfg config.AuthConfig) (*TokenCodec, error) {
	method := jwt.GetSigningMethod(cfg.Algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm: %s", cfg.Algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm: %s", cfg.Algorithm)
	}
	return &TokenCodec{
		secret:     []byte(cfg.SecretKey),
		method:     method,
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
	}, nil
}

// Encode mints a signed token for the given subject. The refresh flag selects
// the configured lifetime; an empty audience falls back to DefaultAudience.
func (c *TokenCodec) Encode(subjectID int64, audience string, refresh bool) (string, error) {
	if audience == "" {
		audience = DefaultAudience
	}
	ttl := c.accessTTL
	if refresh {
		ttl = c.refreshTTL
	}

	now := time.Now()
	token := jwt.NewWithClaims(c.method, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(subjectID, 10),
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies a token and returns its claims. Expired-but-valid tokens
// yield ErrTokenExpired; everything else that fails yields ErrInvalidToken.
func (c *TokenCodec) Decode(tokenString string) (*TokenClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	subjectID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, claims.Subject)
	}

	audience := DefaultAudience
	if len(claims.Audience) > 0 {
		audience = claims.Audience[0]
	}

	decoded := &TokenClaims{
		SubjectID: subjectID,
		Audience:  audience,
	}
	if claims.IssuedAt != nil {
		decoded.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		decoded.ExpiresAt = claims.ExpiresAt.Time
	}
	return decoded, nil
}
