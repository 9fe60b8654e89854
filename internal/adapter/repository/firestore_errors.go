package repository

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"sokoni/pkg/errors"
)

// wrapFirestoreErr maps a Firestore failure onto the app error taxonomy.
// Unavailable and deadline failures are transient and marked retryable;
// everything else is internal.
func wrapFirestoreErr(message string, err error) *errors.AppError {
	switch status.Code(err) {
	case codes.NotFound:
		return errors.NotFound(message, err)
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
		return errors.Unavailable(message, err)
	default:
		return errors.Internal(message, err)
	}
}
