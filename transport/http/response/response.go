package response

import (
	"encoding/json"
	"littlelemon/shared/constant"
	"littlelemon/shared/failure"
	"littlelemon/shared/logger"
	"net/http"
	"strconv"
)

const internalErrorMessage = "internal server error"

type Data[T any] struct {
	Data *T `json:"data,omitempty"`
}

type Error struct {
	Error *string `json:"error,omitempty"`
}

type Message struct {
	Message *string `json:"message,omitempty"`
}

// ValidationError documents the per-field error body, e.g. {"price": ["price is required"]}.
type ValidationError map[string][]string

// WithMessage sends a response with a simple text message
func WithMessage(writer http.ResponseWriter, code int, message string) {
	response(writer, code, Message{Message: &message})
}

// WithJSON sends a response containing a JSON object wrapped in a "data" envelope
func WithJSON(writer http.ResponseWriter, code int, jsonPayload any) {
	response(writer, code, Data[any]{Data: &jsonPayload})
}

// WithResource sends the payload as the whole body, without an envelope.
func WithResource(writer http.ResponseWriter, code int, payload any) {
	response(writer, code, payload)
}

// WithList sends items as a bare JSON array and the unpaginated total in X-Total-Count.
func WithList[T any](writer http.ResponseWriter, items []T, total int) {
	if items == nil {
		items = []T{}
	}

	writer.Header().Set(constant.ResponseHeaderTotalCount, strconv.Itoa(total))
	response(writer, http.StatusOK, items)
}

// WithNoContent answers 204 with an empty body.
func WithNoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// WithError sends a response with an error message.
// Validation failures are rendered as a field map, authentication failures with a generic message,
// and anything unexpected as an opaque 500.
func WithError(writer http.ResponseWriter, err error) {
	code := failure.GetCode(err)

	if fields := failure.GetFields(err); len(fields) > 0 {
		response(writer, code, ValidationError(fields))

		return
	}

	var errMsg string

	switch code {
	case http.StatusUnauthorized:
		errMsg = constant.ResponseErrorUnauthenticated
	case http.StatusInternalServerError:
		logger.ErrorWithStack(err)

		errMsg = internalErrorMessage
	default:
		errMsg = err.Error()
	}

	response(writer, code, Error{Error: &errMsg})
}

// WithUnauthenticated sends the generic 401 body.
func WithUnauthenticated(writer http.ResponseWriter) {
	WithError(writer, failure.Unauthorized(constant.ResponseErrorUnauthenticated))
}

// WithRequestLimitExceeded sends a default response for when the request limit is exceeded
func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

// WithPreparingShutdown sends a default response for when the server is preparing to shut down
func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func response(writer http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)

		writer.WriteHeader(http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err = writer.Write(response); err != nil {
		logger.ErrorWithStack(err)
	}
}
