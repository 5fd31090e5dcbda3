package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/hashicorp-forge/notion-bridge/internal/server"
	"github.com/hashicorp-forge/notion-bridge/pkg/notion"
)

// QueryDatabaseRequest contains the fields that are allowed to make the POST
// request.
type QueryDatabaseRequest struct {
	DatabaseID string `json:"database_id"`

	// PageSize has no local upper bound; Notion rejects values it does not
	// accept.
	PageSize *int `json:"page_size,omitempty"`

	StartCursor string `json:"start_cursor,omitempty"`

	// Filter and Sorts are forwarded to Notion unchanged.
	Filter json.RawMessage `json:"filter,omitempty"`
	Sorts  json.RawMessage `json:"sorts,omitempty"`
}

// Validate validates the database query request.
func (r QueryDatabaseRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DatabaseID,
			validation.By(notBlank),
		),
		validation.Field(&r.PageSize,
			validation.NilOrNotEmpty.Error("must be a positive integer"),
			validation.Min(1).Error("must be a positive integer"),
		),
	)
}

func notBlank(value any) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return validation.NewError("validation_required", "cannot be blank")
	}
	return nil
}

// nullToNil drops an explicit JSON null so it is not forwarded.
func nullToNil(raw json.RawMessage) json.RawMessage {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	return raw
}

// QueryDatabaseHandler runs a single database query page and returns Notion's
// response unchanged.
//
// Endpoint: POST /api/query_database
func QueryDatabaseHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req QueryDatabaseRequest
		if err := decodeRequest(r, &req); err != nil {
			srv.Logger.Warn("error decoding query database request",
				"error", err,
				"method", r.Method,
				"path", r.URL.Path,
			)
			writeError(w, srv.Logger, err)
			return
		}

		if err := req.Validate(); err != nil {
			srv.Logger.Warn("invalid query database request",
				"error", err,
				"method", r.Method,
				"path", r.URL.Path,
			)
			writeError(w, srv.Logger, &RequestError{Err: err})
			return
		}

		body, err := srv.Notion.QueryDatabase(r.Context(), req.DatabaseID,
			&notion.QueryDatabaseParams{
				PageSize:    req.PageSize,
				StartCursor: req.StartCursor,
				Filter:      nullToNil(req.Filter),
				Sorts:       nullToNil(req.Sorts),
			})
		if err != nil {
			srv.Logger.Error("error querying database",
				"error", err,
				"database_id", req.DatabaseID,
			)
			writeError(w, srv.Logger, err)
			return
		}

		writeRaw(w, http.StatusOK, body)
	})
}
