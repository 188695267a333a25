package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/qline-io/qline/internal/auth/domain"
	entrydomain "github.com/qline-io/qline/internal/entry/domain"
	integrationdomain "github.com/qline-io/qline/internal/integration/domain"
	organizationdomain "github.com/qline-io/qline/internal/organization/domain"
	queuedomain "github.com/qline-io/qline/internal/queue/domain"
)

// ErrUnauthorized is returned when a request carries no valid bearer token.
var ErrUnauthorized = errors.New("unauthorized")

type httpError struct {
	status  int
	code    string
	message string
}

var errorTable = []struct {
	sentinel error
	mapped   httpError
}{
	{ErrUnauthorized, httpError{http.StatusUnauthorized, "unauthorized", "authentication required"}},
	{authdomain.ErrInvalidCredentials, httpError{http.StatusUnauthorized, "invalid_credentials", "invalid email or password"}},
	{authdomain.ErrInvalidToken, httpError{http.StatusUnauthorized, "invalid_token", "token is invalid"}},
	{authdomain.ErrTokenExpired, httpError{http.StatusUnauthorized, "token_expired", "token has expired"}},
	{authdomain.ErrUserExists, httpError{http.StatusConflict, "user_exists", "a user with this email already exists"}},
	{authdomain.ErrUserNotFound, httpError{http.StatusNotFound, "user_not_found", "user not found"}},
	{authdomain.ErrInvalidEmail, httpError{http.StatusBadRequest, "invalid_email", "email address is invalid"}},
	{authdomain.ErrWeakPassword, httpError{http.StatusBadRequest, "weak_password", "password does not meet requirements"}},

	{organizationdomain.ErrNotFound, httpError{http.StatusNotFound, "organization_not_found", "organization not found"}},
	{organizationdomain.ErrNameTaken, httpError{http.StatusConflict, "organization_name_taken", "an organization with this name already exists"}},
	{organizationdomain.ErrForbidden, httpError{http.StatusForbidden, "forbidden", "operation not permitted"}},
	{organizationdomain.ErrInvalidName, httpError{http.StatusBadRequest, "invalid_name", "organization name is invalid"}},

	{queuedomain.ErrNotFound, httpError{http.StatusNotFound, "queue_not_found", "queue not found"}},
	{queuedomain.ErrNameTaken, httpError{http.StatusConflict, "queue_name_taken", "a queue with this name already exists in the organization"}},
	{queuedomain.ErrForbidden, httpError{http.StatusForbidden, "forbidden", "operation not permitted"}},
	{queuedomain.ErrInvalidName, httpError{http.StatusBadRequest, "invalid_name", "queue name is invalid"}},
	{queuedomain.ErrInvalidType, httpError{http.StatusBadRequest, "invalid_type", "queue type is invalid"}},
	{queuedomain.ErrInvalidVisibility, httpError{http.StatusBadRequest, "invalid_visibility", "queue visibility is invalid"}},
	{queuedomain.ErrOrganizationNeeded, httpError{http.StatusBadRequest, "organization_required", "organizational queues require an organization"}},
	{queuedomain.ErrAdminExists, httpError{http.StatusConflict, "admin_exists", "user is already an administrator of this queue"}},
	{queuedomain.ErrAdminNotFound, httpError{http.StatusNotFound, "admin_not_found", "administrator grant not found"}},

	{entrydomain.ErrNotFound, httpError{http.StatusNotFound, "entry_not_found", "entry not found"}},
	{entrydomain.ErrForbidden, httpError{http.StatusForbidden, "forbidden", "operation not permitted"}},
	{entrydomain.ErrInvalidTransition, httpError{http.StatusBadRequest, "invalid_transition", "status transition is not allowed"}},
	{entrydomain.ErrInvalidStatus, httpError{http.StatusBadRequest, "invalid_status", "unknown entry status"}},
	{entrydomain.ErrDuplicateEntry, httpError{http.StatusConflict, "duplicate_entry", "an entry for this slot already exists"}},
	{entrydomain.ErrDateTimeRequired, httpError{http.StatusBadRequest, "datetime_required", "date and time are required for organizational queues"}},
	{entrydomain.ErrInvalidDateTime, httpError{http.StatusBadRequest, "invalid_datetime", "date or time format is invalid"}},
	{entrydomain.ErrFieldNotAllowed, httpError{http.StatusBadRequest, "field_not_allowed", "field is not allowed for this queue type"}},

	{integrationdomain.ErrUnsupportedMediaType, httpError{http.StatusUnsupportedMediaType, "unsupported_media_type", "media type is not supported"}},
	{integrationdomain.ErrMalformedPayload, httpError{http.StatusBadRequest, "malformed_payload", "payload could not be parsed"}},
	{integrationdomain.ErrInvalidRecord, httpError{http.StatusBadRequest, "invalid_record", "record is missing required fields"}},
}

func mapError(err error) httpError {
	for _, row := range errorTable {
		if errors.Is(err, row.sentinel) {
			return row.mapped
		}
	}
	return httpError{http.StatusInternalServerError, "internal_error", "internal server error"}
}

// AbortWithError records err on the context and stops the handler chain.
// ErrorHandlingMiddleware turns it into the response body.
func AbortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ErrorHandlingMiddleware maps domain sentinel errors onto HTTP responses.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		lastErr := c.Errors.Last()
		if lastErr == nil || c.Writer.Written() {
			return
		}

		mapped := mapError(lastErr.Err)
		c.JSON(mapped.status, gin.H{
			"error":   mapped.code,
			"message": mapped.message,
		})
	}
}

func classifyErrorForLog(err error) (string, string) {
	mapped := mapError(err)
	if mapped.status >= http.StatusInternalServerError {
		return "internal", mapped.code
	}
	return "client", mapped.code
}
