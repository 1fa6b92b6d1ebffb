// Package apperrors defines the caller-visible error kinds of the API.
// Every failure surfaces as one of these classes with a short, stable
// message; internal detail stays in the server logs.
package apperrors

import "github.com/zeebo/errs"

// Error classes. Classes are matched with Has, so handlers can branch on
// the kind without parsing messages.
var (
	ErrInvalidCredentials = errs.Class("invalid credentials")
	ErrNotAuthorized      = errs.Class("not authorized")
	ErrMissingMetadata    = errs.Class("missing metadata")
	ErrFileNotFound       = errs.Class("file not found")
	ErrStorageWrite       = errs.Class("storage write failed")
	ErrStorageDelete      = errs.Class("storage delete failed")
	ErrUpload             = errs.Class("upload failed")
)

// Stable caller-visible messages. Login failures share one message so an
// unknown email and a wrong password are indistinguishable by case.
const (
	InvalidCredentialsMsg = "invalid email or password"
	NotAuthorizedMsg      = "authentication required"
	UploadFailedMsg       = "could not process the upload"
)

// NewInvalidCredentials returns the login failure error. Both the
// unknown-email and wrong-password cases call this, never anything more
// specific.
func NewInvalidCredentials() error {
	return ErrInvalidCredentials.New(InvalidCredentialsMsg)
}

// NewNotAuthorized returns the error for mutations attempted with an
// anonymous context.
func NewNotAuthorized() error {
	return ErrNotAuthorized.New(NotAuthorizedMsg)
}

// NewUpload returns the catch-all upload failure shown to callers. The
// wrapped cause is for logs only and is erased from the message.
func NewUpload() error {
	return ErrUpload.New(UploadFailedMsg)
}
