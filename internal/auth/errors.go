package auth

import "errors"

// ErrNoCredential is returned by a CredentialStore when nothing is stored.
var ErrNoCredential = errors.New("no stored credential")

// AuthError reports that no usable credential could be obtained. It is not
// retried; the message is meant to be shown to the user as is.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
