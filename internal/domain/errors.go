package domain

import "errors"

var (
	// ErrNotLoggedIn is returned by operations that require a current user.
	ErrNotLoggedIn = errors.New("no user is logged in")

	// ErrNoAccountID is returned when a remote operation needs a backend
	// account id and the profile has none yet.
	ErrNoAccountID = errors.New("profile has no backend account id")

	// ErrInvalidInput covers client-side validation failures.
	ErrInvalidInput = errors.New("invalid input")
)
