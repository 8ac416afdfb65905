package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// ErrInvalidToken covers malformed, tampered and expired tokens alike.
// Callers cannot tell the failure modes apart; the distinction only
// reaches the debug log.
var ErrInvalidToken = errors.New("invalid token")

// Manager issues and verifies signed bearer tokens. It holds no state
// beyond the signing secret; every token is self-contained.
type Manager struct {
	secret []byte
	ttl    time.Duration
	log    *logrus.Logger
}

// NewManager initializes a token manager
func NewManager(secret string, ttl time.Duration, log *logrus.Logger) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, log: log}
}

// Issue creates a signed token embedding userID, expiring ttl from now
func (m *Manager) Issue(userID int64) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	})
	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Verify checks the token signature and expiry and returns the embedded
// user id.
func (m *Manager) Verify(tokenString string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		m.log.Debugf("Token rejected: %v", err)
		return 0, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		m.log.Debugf("Token rejected: bad subject %q", claims.Subject)
		return 0, ErrInvalidToken
	}
	return userID, nil
}
