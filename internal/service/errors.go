package service

import "errors"

// ErrConnection means the auth server could not be reached or answered
// something that was not JSON.
var ErrConnection = errors.New("could not connect to the server")

// ValidationError is user input rejected before anything was sent.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AuthError is a refusal from the auth server, or a response it could not use.
type AuthError struct {
	Title   string
	Message string
}

func (e *AuthError) Error() string {
	return e.Title + ": " + e.Message
}
