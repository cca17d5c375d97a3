package auth

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token claim constants.
const (
	Issuer   = "myfilmfriends-api"
	Audience = "myfilmfriends-client"
)

// ErrInvalidCredential marks a credential that was presented but cannot be accepted.
var ErrInvalidCredential = errors.New("invalid credential")

// Claims is the payload of an issued token.
type Claims struct {
	UserID uint   `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 bearer tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer returns an issuer signing with secret and expiring tokens after ttl.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for the user and returns it with its expiry.
func (t *TokenIssuer) Issue(userID uint, role string) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.ttl)
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{Audience},
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        generateJTI(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Parse verifies signature, method, issuer, audience and expiry.
func (t *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	return t.parse(tokenString,
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
}

// ParseForRefresh verifies signature, method, issuer and audience and accepts
// an expired token.
func (t *TokenIssuer) ParseForRefresh(tokenString string) (*Claims, error) {
	claims, err := t.parse(tokenString, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, err
	}
	if claims.Issuer != Issuer || !slices.Contains(claims.Audience, Audience) {
		return nil, errors.Join(ErrInvalidCredential, jwt.ErrTokenInvalidClaims)
	}
	return claims, nil
}

func (t *TokenIssuer) parse(tokenString string, opts ...jwt.ParserOption) (*Claims, error) {
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return t.secret, nil
	}, opts...)
	if err != nil {
		return nil, errors.Join(ErrInvalidCredential, err)
	}

	if claims.UserID == 0 || claims.Subject != strconv.FormatUint(uint64(claims.UserID), 10) {
		return nil, errors.Join(ErrInvalidCredential, jwt.ErrTokenInvalidSubject)
	}
	return claims, nil
}

func generateJTI(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.Unix(), uuid.NewString()[:8])
}
