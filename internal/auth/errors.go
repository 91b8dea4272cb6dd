package auth

import "errors"

var (
	// ErrConflict means the username or email is already registered.
	ErrConflict = errors.New("username or email already taken")

	// ErrInvalidCredentials covers both "no such user" and "wrong password".
	// The two cases are not distinguished so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthenticated means no token was presented at all.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrInvalidToken means the token is malformed, unsigned, or tampered with.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpired means the token was valid but is past its expiry.
	ErrExpired = errors.New("token expired")
)
