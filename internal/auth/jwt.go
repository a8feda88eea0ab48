package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is the only verification error this package surfaces.
// Malformed, expired and badly signed tokens are deliberately
// indistinguishable to callers.
var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	JTI string `json:"jti"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Generate mints a signed bearer token whose subject is the account id.
// No HTTP route issues tokens; they are minted out-of-band (and in tests).
func (m *Manager) Generate(accountID int64) (string, error) {
	now := time.Now().UTC()

	claims := Claims{
		JTI: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(accountID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses and validates a bearer token and returns the account id it
// carries. With an empty secret the manager never verifies anything.
func (m *Manager) Verify(tokenStr string) (int64, error) {
	if len(m.secret) == 0 {
		return 0, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Enforce HS256
		_, ok := t.Method.(*jwt.SigningMethodHMAC)

		if !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})

	if err != nil {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)

	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)

	if err != nil {
		return 0, ErrInvalidToken
	}

	return id, nil
}
