// Package auth implements the session core: it turns verified credentials
// into signed bearer tokens and presented tokens back into user identities.
//
// Tokens are stateless HS256 JWTs carrying the user id and an absolute
// expiry. The server keeps no session state, so logout is purely a client
// concern (discard the token); a still-valid token cannot be revoked before
// its natural expiry. Anyone needing true revocation has to add a deny-list
// keyed by token id on top of this package.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lib/pq"
	"github.com/scribeapp/scribe/internal/models"
	"github.com/scribeapp/scribe/internal/repo"
	"golang.org/x/crypto/bcrypt"
)

// pq unique_violation
const uniqueViolation = "23505"

// Authenticator verifies credentials against the user store and issues and
// validates session tokens. Verify does no I/O; Login and Register hit the
// store once each.
type Authenticator struct {
	Users  *repo.UserRepo
	Secret []byte

	// TTL is the token lifetime from issuance.
	TTL time.Duration

	// Cost is the bcrypt work factor for new password hashes.
	Cost int

	// now is the clock used for issuance and expiry checks; tests override it.
	now func() time.Time
}

// New returns an Authenticator with the given signing secret, token lifetime,
// and bcrypt cost. cost <= 0 falls back to bcrypt.DefaultCost.
func New(users *repo.UserRepo, secret []byte, ttl time.Duration, cost int) *Authenticator {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &Authenticator{
		Users:  users,
		Secret: secret,
		TTL:    ttl,
		Cost:   cost,
		now:    time.Now,
	}
}

// Register hashes the raw password and creates the user. The raw password
// never reaches the store; only the bcrypt hash does. A duplicate username or
// email returns ErrConflict, detected from the database unique constraint so
// concurrent registrations cannot race past an existence check.
func (a *Authenticator) Register(ctx context.Context, username, email, rawPassword string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), a.Cost)
	if err != nil {
		return nil, err
	}

	user, err := a.Users.Create(ctx, username, email, string(hash))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrConflict
		}
		return nil, err
	}
	return user, nil
}

// Login verifies the password against the stored hash and issues a signed
// token embedding the user id, expiring TTL from now. An unknown username and
// a wrong password both return ErrInvalidCredentials.
func (a *Authenticator) Login(ctx context.Context, username, rawPassword string) (string, *models.User, error) {
	user, err := a.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(rawPassword)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := a.now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"iat":     now.Unix(),
		"exp":     now.Add(a.TTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.Secret)
	if err != nil {
		return "", nil, err
	}

	return signed, user, nil
}

// Verify checks the token's signature and expiry and returns the embedded
// user id. This is the sole source of truth for the acting identity on
// protected operations.
func (a *Authenticator) Verify(tokenString string) (int, error) {
	token, err := jwt.Parse(tokenString,
		func(t *jwt.Token) (interface{}, error) { return a.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrExpired
		}
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	id, ok := claims["user_id"].(float64)
	if !ok {
		return 0, ErrInvalidToken
	}
	return int(id), nil
}
