package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	submissiondomain "github.com/smallbiznis/eltrackr/internal/submission/domain"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

// submissionFieldErrors lists every submission validation error in field order.
var submissionFieldErrors = []struct {
	err     error
	field   string
	message string
}{
	{submissiondomain.ErrInvalidID, "id", "Unknown or malformed record id."},
	{submissiondomain.ErrInvalidName, "name", "Name is required."},
	{submissiondomain.ErrInvalidEmail, "email", "Email is required."},
	{submissiondomain.ErrInvalidEnergyUsage, "energy_usage", "Energy usage must be a number from 0 to 1000000000."},
	{submissiondomain.ErrInvalidWaterUsage, "water_usage", "Water usage must be a number from 0 to 1000000000."},
	{submissiondomain.ErrInvalidTransportDistance, "transport_distance", "Transport distance must be a number from 0 to 1000000000."},
	{submissiondomain.ErrInvalidPageToken, "page_token", "Page token is not valid."},
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if fieldErrs := validationErrorsOf(err); len(fieldErrs) > 0 {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  fieldErrs,
		}
	}

	switch {
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "invalid request",
		}
	case errors.Is(err, ErrNotFound),
		errors.Is(err, submissiondomain.ErrNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, submissiondomain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "store_unavailable",
			Message: "record store unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

// validationErrorsOf expands a (possibly joined) submission validation error.
func validationErrorsOf(err error) []ValidationError {
	var out []ValidationError
	for _, fe := range submissionFieldErrors {
		if errors.Is(err, fe.err) {
			out = append(out, ValidationError{
				Field:   fe.field,
				Code:    fe.err.Error(),
				Message: fe.message,
			})
		}
	}
	return out
}

// classifyErrorForLog returns the payload type and the first validation code.
func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	return payload.Type, code
}
