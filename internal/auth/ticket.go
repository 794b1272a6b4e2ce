// internal/auth/ticket.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidTicket indicates a malformed, forged or mismatched ticket.
	ErrInvalidTicket = errors.New("invalid session ticket")
	// ErrExpiredTicket indicates the ticket lifetime has passed.
	ErrExpiredTicket = errors.New("session ticket has expired")
)

// MinSecretLen is the shortest accepted HMAC secret.
const MinSecretLen = 32

// ticketClaims binds a ticket to one game session.
type ticketClaims struct {
	GameID uuid.UUID `json:"gid"`
	jwt.RegisteredClaims
}

// Issuer signs and checks HS256 tickets granting socket access to a session.
type Issuer struct {
	key       []byte
	ttl       time.Duration
	clockSkew time.Duration
	now       func() time.Time
}

// NewIssuer returns an Issuer; secrets shorter than MinSecretLen are refused.
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if len(secret) < MinSecretLen {
		return nil, fmt.Errorf("jwt secret must be at least %d characters", MinSecretLen)
	}
	return &Issuer{key: []byte(secret), ttl: ttl, clockSkew: 30 * time.Second, now: time.Now}, nil
}

// TTL is the lifetime of issued tickets.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue returns a ticket for gameID.
func (i *Issuer) Issue(gameID uuid.UUID) (string, error) {
	now := i.now()
	claims := ticketClaims{
		GameID: gameID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   gameID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("sign ticket: %w", err)
	}
	return signed, nil
}

// Verify checks the ticket signature and lifetime and that it was issued for gameID.
func (i *Issuer) Verify(ticket string, gameID uuid.UUID) error {
	token, err := jwt.ParseWithClaims(ticket, &ticketClaims{},
		func(token *jwt.Token) (interface{}, error) {
			return i.key, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(i.clockSkew),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrExpiredTicket
		}
		return ErrInvalidTicket
	}
	claims, ok := token.Claims.(*ticketClaims)
	if !ok || !token.Valid || claims.GameID != gameID {
		return ErrInvalidTicket
	}
	return nil
}
