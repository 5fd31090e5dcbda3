package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/hashicorp-forge/notion-bridge/pkg/notion"
)

// ErrorKind is the machine-readable category of an error response.
type ErrorKind string

const (
	KindInvalidRequest      ErrorKind = "invalid_request"
	KindNotFound            ErrorKind = "not_found"
	KindUpstreamError       ErrorKind = "upstream_error"
	KindUpstreamUnavailable ErrorKind = "upstream_unavailable"
	KindInternalError       ErrorKind = "internal_error"
)

// ErrorEnvelope is the body of every error response:
//
//	{"error": {"kind": "not_found", "message": "...", "status": 404}}
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody is the inner object of an ErrorEnvelope. Status is the upstream
// HTTP status when the failure came from Notion.
type ErrorBody struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Status  *int      `json:"status,omitempty"`
}

// RequestError is a local validation failure. It never reaches the upstream.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string { return e.Err.Error() }

func (e *RequestError) Unwrap() error { return e.Err }

// invalidRequest returns a RequestError with a formatted message.
func invalidRequest(format string, args ...any) error {
	return &RequestError{Err: fmt.Errorf(format, args...)}
}

var (
	// errRouteNotFound is returned for any method and path outside the route
	// table.
	errRouteNotFound = errors.New("route not found")

	// errPaginationLimit is returned when the upstream keeps returning
	// continuation cursors past the configured page cap.
	errPaginationLimit = errors.New("notion did not finish paginating block children")
)

// MapError converts a failure into the HTTP status and envelope returned to
// the caller.
func MapError(err error) (int, ErrorEnvelope) {
	var (
		reqErr *RequestError
		nErr   *notion.Error
	)

	switch {
	case errors.As(err, &reqErr):
		return envelope(http.StatusBadRequest, KindInvalidRequest, reqErr.Error(), 0)

	case errors.Is(err, errRouteNotFound):
		return envelope(http.StatusNotFound, KindNotFound, "no route matches the request", 0)

	case errors.Is(err, errPaginationLimit):
		return envelope(http.StatusBadGateway, KindUpstreamUnavailable, err.Error(), 0)

	case errors.As(err, &nErr):
		switch nErr.Kind {
		case notion.KindStatus:
			msg := nErr.Message
			if msg == "" {
				msg = fmt.Sprintf("notion returned status %d", nErr.StatusCode)
			}
			switch {
			case nErr.StatusCode == http.StatusNotFound:
				return envelope(http.StatusNotFound, KindNotFound, msg, nErr.StatusCode)
			case nErr.StatusCode >= 500:
				return envelope(http.StatusBadGateway, KindUpstreamUnavailable, msg, nErr.StatusCode)
			case nErr.StatusCode >= 400:
				return envelope(nErr.StatusCode, KindUpstreamError, msg, nErr.StatusCode)
			default:
				// 1xx/3xx the HTTP client did not follow.
				return envelope(http.StatusBadGateway, KindUpstreamError, msg, nErr.StatusCode)
			}
		case notion.KindNetwork:
			return envelope(http.StatusBadGateway, KindUpstreamUnavailable,
				"error connecting to notion", 0)
		case notion.KindDecode:
			return envelope(http.StatusInternalServerError, KindInternalError,
				"error decoding notion response", 0)
		}
	}

	return envelope(http.StatusInternalServerError, KindInternalError, "internal error", 0)
}

func envelope(status int, kind ErrorKind, msg string, upstreamStatus int) (int, ErrorEnvelope) {
	body := ErrorBody{
		Kind:    kind,
		Message: msg,
	}
	if upstreamStatus != 0 {
		s := upstreamStatus
		body.Status = &s
	}
	return status, ErrorEnvelope{Error: body}
}
