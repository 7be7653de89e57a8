package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is who a verified token says the caller is.
type Identity struct {
	UserID string
	Email  string
}

// TokenVerifier turns a bearer token into an Identity.
//
// Two implementations exist: JWTVerifier for HS256 tokens signed with our
// own secret, and FirebaseVerifier for Firebase ID tokens. The middleware
// only sees this interface, so AUTH_PROVIDER picks one at startup.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// Claims is the payload inside every JWT token.
//
// Why embed jwt.RegisteredClaims?
//   - It gives us standard JWT fields for free: ExpiresAt, IssuedAt, Issuer.
//   - We add our custom fields (UserID, Email) on top.
//
// UserID is a plain string, not a UUID: with Firebase in front, user ids
// are Firebase UIDs, and the two providers must agree on the shape.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

const issuer = "plotgrid"

// GenerateToken creates a signed HS256 JWT for a given user.
//
// The service itself never logs anyone in. This exists for tooling and
// tests that need a token the JWT verifier will accept.
func GenerateToken(userID, email, secret string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// ParseToken validates a JWT string and extracts the claims.
//
// It verifies:
//  1. The signature matches our secret (not tampered with).
//  2. The token hasn't expired (ExpiresAt is in the future).
//  3. The signing method is HMAC (prevents algorithm-switching attacks).
func ParseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(token *jwt.Token) (any, error) {
			// Reject "none" and RSA before the signature is checked.
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		},
		jwt.WithIssuer(issuer),
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("token has no user id")
	}

	return claims, nil
}

// JWTVerifier checks HS256 tokens signed with a shared secret.
type JWTVerifier struct {
	secret string
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: secret}
}

func (v *JWTVerifier) Verify(_ context.Context, token string) (*Identity, error) {
	claims, err := ParseToken(token, v.secret)
	if err != nil {
		return nil, err
	}
	return &Identity{UserID: claims.UserID, Email: claims.Email}, nil
}
