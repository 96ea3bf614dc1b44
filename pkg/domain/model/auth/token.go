package auth

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// TokenTTL is the lifetime of a session token
const TokenTTL = 24 * time.Hour

// TokenID identifies a session token
type TokenID string

// String returns the string representation of the token ID
func (id TokenID) String() string {
	return string(id)
}

// TokenSecret is the secret paired with a TokenID
type TokenSecret string

// Role is the moderation role carried by the host platform's identity
type Role string

const (
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// CanModerate reports whether the role may run detection and resolve pairs
func (r Role) CanModerate() bool {
	return r == RoleModerator || r == RoleAdmin
}

// NewTokenID generates a new UUID v4 TokenID
func NewTokenID() TokenID {
	return TokenID(uuid.New().String())
}

// NewTokenSecret generates a random 256-bit secret
func NewTokenSecret() TokenSecret {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return TokenSecret(hex.EncodeToString(buf))
}

// Token is a session token for an authenticated moderator. Sub is the
// host platform's stable user ID; Email and Name are display claims
// copied from the verified identity.
type Token struct {
	ID        TokenID
	Secret    TokenSecret
	Sub       string
	Email     string
	Name      string
	Role      Role
	ExpiresAt time.Time
	CreatedAt time.Time
}

// NewToken creates a session token with a fresh ID and secret
func NewToken(sub, email, name string, role Role) *Token {
	now := time.Now()
	return &Token{
		ID:        NewTokenID(),
		Secret:    NewTokenSecret(),
		Sub:       sub,
		Email:     email,
		Name:      name,
		Role:      role,
		ExpiresAt: now.Add(TokenTTL),
		CreatedAt: now,
	}
}

// NewAnonymousUser returns the fixed identity used when no
// authentication is configured
func NewAnonymousUser() *Token {
	return NewToken("anonymous", "", "Anonymous", RoleAdmin)
}

// IsExpired checks if the token has expired
func (t *Token) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// Validate checks if the token ID is usable
func (id TokenID) Validate() error {
	if id == "" {
		return goerr.New("token ID is empty")
	}
	return nil
}

// Validate checks if the token is storable
func (t *Token) Validate() error {
	if err := t.ID.Validate(); err != nil {
		return err
	}
	if t.Secret == "" {
		return goerr.New("token secret is empty")
	}
	if t.Sub == "" {
		return goerr.New("token subject is empty")
	}
	if t.ExpiresAt.IsZero() {
		return goerr.New("token expiry is not set")
	}
	return nil
}
