package httpsession

import "errors"

var (
	// ErrUnknownAuthHandler is returned for an --auth-handler value that is not supported.
	ErrUnknownAuthHandler = errors.New("unknown auth handler")

	// ErrInvalidAuthIdentity is returned when the identity does not fit the auth handler.
	ErrInvalidAuthIdentity = errors.New("invalid auth identity")

	// ErrKeyWithoutCert is returned when a client key is given without a certificate.
	ErrKeyWithoutCert = errors.New("client key given without certificate")

	// ErrSessionClosed is returned when a closed session is used.
	ErrSessionClosed = errors.New("session is closed")
)
