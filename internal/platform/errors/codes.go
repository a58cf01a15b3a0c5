// Package errors provides structured application errors with stable codes.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Request validation
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeEmailInvalid    Code = "EMAIL_INVALID"

	// Price experiment
	CodePriceUnknown Code = "PRICE_UNKNOWN"

	// Feedback
	CodeFeedbackMessageInvalid Code = "FEEDBACK_MESSAGE_INVALID"
	CodeFeedbackRatingInvalid  Code = "FEEDBACK_RATING_INVALID"

	// Users
	CodeUserEmailTaken  Code = "USER_EMAIL_TAKEN"
	CodeUserRoleInvalid Code = "USER_ROLE_INVALID"
	CodeUserLastAdmin   Code = "USER_LAST_ADMIN"

	// SEO
	CodeSEOPathInvalid Code = "SEO_PATH_INVALID"

	// Assets
	CodeAssetAmountInvalid Code = "ASSET_AMOUNT_INVALID"

	// Auth
	CodeAuthCredentialsInvalid Code = "AUTH_CREDENTIALS_INVALID"
	CodeAuthTokenMissing       Code = "AUTH_TOKEN_MISSING"
	CodeAuthTokenInvalid       Code = "AUTH_TOKEN_INVALID"
	CodeAuthTokenExpired       Code = "AUTH_TOKEN_EXPIRED"
	CodeAuthForbidden          Code = "AUTH_FORBIDDEN"

	// Storage
	CodeNotFound Code = "NOT_FOUND"
	CodeConflict Code = "CONFLICT"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeInvalidArgument,
		CodeEmailInvalid,
		CodePriceUnknown,
		CodeFeedbackMessageInvalid,
		CodeFeedbackRatingInvalid,
		CodeUserRoleInvalid,
		CodeSEOPathInvalid,
		CodeAssetAmountInvalid:
		return http.StatusBadRequest

	case CodeAuthCredentialsInvalid,
		CodeAuthTokenMissing,
		CodeAuthTokenInvalid,
		CodeAuthTokenExpired:
		return http.StatusUnauthorized

	case CodeAuthForbidden:
		return http.StatusForbidden

	case CodeNotFound:
		return http.StatusNotFound

	case CodeUserEmailTaken,
		CodeUserLastAdmin,
		CodeConflict:
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}
