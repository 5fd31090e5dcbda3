package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// maxRequestBodyBytes limits JSON request bodies.
const maxRequestBodyBytes = 1 << 20

// decodeRequest decodes the JSON request body into in. An empty body leaves in
// untouched. Any decoding problem is returned as a RequestError.
func decodeRequest(r *http.Request, in any) error {
	if r.Body == nil {
		return nil
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err := dec.Decode(in); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &RequestError{Err: fmt.Errorf("invalid request body: %w", err)}
	}

	return nil
}

// parseResourceIDFromURL parses a URL path with the format
// "/api/{apiPath}/{resourceID}" and returns the resource ID.
func parseResourceIDFromURL(url, apiPath string) (string, error) {
	// Remove API path from URL.
	url = strings.TrimPrefix(url, fmt.Sprintf("/api/%s", apiPath))

	// Remove empty entries and validate path.
	urlPath := strings.Split(url, "/")
	var resultPath []string
	for _, v := range urlPath {
		// Only append non-empty values, this removes any empty strings in the
		// slice.
		if v != "" {
			resultPath = append(resultPath, v)
		}
	}
	resultPathLen := len(resultPath)
	// Only allow 1 value to be set in the resultPath slice. For example, if the
	// urlPath is set to "/{page_id}" then the resultPath slice would be
	// ["{page_id}"].
	if resultPathLen > 1 {
		return "", invalidRequest("invalid URL path")
	}
	// If there are no entries in the resultPath slice, then there was no resource
	// ID set in the URL path.
	if resultPathLen == 0 {
		return "", invalidRequest("no page ID set in URL path")
	}

	// Return resource ID.
	return resultPath[0], nil
}

// writeRaw writes an upstream JSON body unchanged.
func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, logger hclog.Logger, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logger.Error("error encoding response", "error", err)
		writeError(w, logger, err)
		return
	}
	writeRaw(w, status, append(body, '\n'))
}

// writeError maps err to a status and error envelope and writes it.
func writeError(w http.ResponseWriter, logger hclog.Logger, err error) {
	status, env := MapError(err)

	body, mErr := json.Marshal(env)
	if mErr != nil {
		// ErrorEnvelope only holds strings and ints.
		logger.Error("error encoding error envelope", "error", mErr)
		body = []byte(`{"error":{"kind":"internal_error","message":"internal error"}}`)
		status = http.StatusInternalServerError
	}

	writeRaw(w, status, append(body, '\n'))
}
