package failure

import (
	"errors"
	"net/http"
)

// NonFieldErrors is the key used for validation problems that do not belong to a single field.
const NonFieldErrors = "non_field_errors"

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
type Failure struct {
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

var InvalidPageParam = &Failure{Code: http.StatusBadRequest, Message: "invalid page parameter"}
var InvalidLimitParam = &Failure{Code: http.StatusBadRequest, Message: "invalid limit parameter"}
var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}

// Error returns the error code and message in a formatted string.
func (e *Failure) Error() string {
	return e.Message
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		}
	}

	return nil
}

// Validation returns a new Failure describing which inbound fields are invalid.
// A nil or empty map yields nil.
func Validation(fields map[string][]string) error {
	if len(fields) == 0 {
		return nil
	}

	return &Failure{
		Code:    http.StatusBadRequest,
		Message: "validation failed",
		Fields:  fields,
	}
}

// FieldError is a shortcut for a validation failure on a single field.
func FieldError(field, msg string) error {
	return Validation(map[string][]string{field: {msg}})
}

// Unauthorized returns a new Failure with code for unauthorized requests.
func Unauthorized(msg string) error {
	return &Failure{
		Code:    http.StatusUnauthorized,
		Message: msg,
	}
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Message: entityName,
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetFields returns the per-field validation messages of an error, if any.
func GetFields(err error) map[string][]string {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Fields
	}

	return nil
}

// IsNotFound reports whether err is a not-found failure.
func IsNotFound(err error) bool {
	return GetCode(err) == http.StatusNotFound
}
