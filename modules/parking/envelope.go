package parking

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/binder"
	domain "github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/validator"
)

// Error codes that exist only at the HTTP layer.
const (
	CodeInvalidRequest   domain.ErrorCode = "INVALID_REQUEST"
	CodeRouteNotFound    domain.ErrorCode = "NOT_FOUND"
	CodeMethodNotAllowed domain.ErrorCode = "METHOD_NOT_ALLOWED"
)

var (
	errRouteNotFound    = errors.New("route not found")
	errMethodNotAllowed = errors.New("method not allowed")
)

// Envelope is the body of every response. Lists and reports travel in Data.
type Envelope struct {
	Success   bool                `json:"success"`
	Session   *domain.Session     `json:"session,omitempty"`
	Fee       *int64              `json:"fee,omitempty"`
	ErrorCode domain.ErrorCode    `json:"error_code,omitempty"`
	Error     string              `json:"error,omitempty"`
	Fields    map[string][]string `json:"fields,omitempty"`
	Data      any                 `json:"data,omitempty"`
}

type response struct {
	status int
	body   Envelope
	err    error
}

func ok(body Envelope) response {
	body.Success = true
	return response{status: http.StatusOK, body: body}
}

func created(body Envelope) response {
	resp := ok(body)
	resp.status = http.StatusCreated
	return resp
}

func sessionResponse(s domain.Session) response {
	return ok(Envelope{Session: &s, Fee: s.Fee})
}

// fail maps err to a status and a public message. Internal faults never
// leak their text.
func fail(err error) response {
	resp := response{err: err, body: Envelope{Error: err.Error()}}

	switch {
	case errors.Is(err, errRouteNotFound):
		resp.status, resp.body.ErrorCode = http.StatusNotFound, CodeRouteNotFound
		return resp
	case errors.Is(err, errMethodNotAllowed):
		resp.status, resp.body.ErrorCode = http.StatusMethodNotAllowed, CodeMethodNotAllowed
		return resp
	case binder.IsBindError(err):
		resp.status, resp.body.ErrorCode = http.StatusBadRequest, CodeInvalidRequest
		return resp
	}

	code := domain.CodeOf(err)
	resp.body.ErrorCode = code
	resp.status = StatusFor(code)
	switch {
	case code == domain.CodeValidation:
		resp.body.Error = "validation failed"
		resp.body.Fields = validator.ExtractValidationErrors(err).Map()
	case code == domain.CodeInternal:
		resp.body.Error = "internal error"
	default:
		if cause := domain.BusinessCause(err); cause != nil {
			resp.body.Error = cause.Error()
		}
	}
	return resp
}

// StatusFor returns the HTTP status of an error code.
func StatusFor(code domain.ErrorCode) int {
	switch {
	case code == domain.CodeOK:
		return http.StatusOK
	case code == domain.CodeValidation:
		return http.StatusUnprocessableEntity
	case code == domain.CodeInternal:
		return http.StatusInternalServerError
	case code.IsNotFound():
		return http.StatusNotFound
	default:
		return http.StatusConflict
	}
}

func (resp response) render(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(resp.status)
	return json.NewEncoder(w).Encode(resp.body)
}
