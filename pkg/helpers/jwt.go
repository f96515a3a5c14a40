package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTManager issues and validates stateless session tokens.
type JWTManager struct {
	Secret []byte
	Issuer string
	TTL    time.Duration

	now func() time.Time
}

func NewJWTManager(secret, issuer string, ttl time.Duration) *JWTManager {
	return &JWTManager{Secret: []byte(secret), Issuer: issuer, TTL: ttl, now: time.Now}
}

// WithClock overrides the issuance clock; used by tests.
func (m *JWTManager) WithClock(now func() time.Time) *JWTManager {
	m.now = now
	return m
}

type Claims struct {
	AccountID string `json:"uid"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// Generate signs a token for the account and role; it returns the expiry too.
func (m *JWTManager) Generate(accountID, role string) (string, time.Time, error) {
	now := m.clock()
	exp := now.Add(m.TTL)
	claims := &Claims{
		AccountID: accountID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.Issuer,
			Subject:   accountID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

// Parse verifies signature, structure and expiry.
func (m *JWTManager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	}, jwt.WithTimeFunc(m.clock), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !tkn.Valid || claims.AccountID == "" || claims.Role == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func (m *JWTManager) clock() time.Time {
	if m.now == nil {
		return time.Now()
	}
	return m.now()
}
