package api

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/hashicorp-forge/notion-bridge/internal/server"
	"github.com/hashicorp-forge/notion-bridge/pkg/notion"
)

// SearchRequest contains the fields that are allowed to make the POST request.
type SearchRequest struct {
	// Query filters results by title. Empty lists everything shared with the
	// integration.
	Query string `json:"query"`

	// Limit is forwarded as Notion's page_size. Notion's default applies when
	// it is omitted.
	Limit *int `json:"limit,omitempty"`

	// StartCursor continues a previous search.
	StartCursor string `json:"start_cursor,omitempty"`
}

// Validate validates the search request.
func (r SearchRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Limit,
			validation.NilOrNotEmpty.Error("must be a positive integer"),
			validation.Min(1).Error("must be a positive integer"),
		),
	)
}

// SearchHandler forwards a search to Notion and returns Notion's response
// unchanged.
//
// Endpoint: POST /api/search
func SearchHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req SearchRequest
		if err := decodeRequest(r, &req); err != nil {
			srv.Logger.Warn("error decoding search request",
				"error", err,
				"method", r.Method,
				"path", r.URL.Path,
			)
			writeError(w, srv.Logger, err)
			return
		}

		if err := req.Validate(); err != nil {
			srv.Logger.Warn("invalid search request",
				"error", err,
				"method", r.Method,
				"path", r.URL.Path,
			)
			writeError(w, srv.Logger, &RequestError{Err: err})
			return
		}

		body, err := srv.Notion.Search(r.Context(), &notion.SearchParams{
			Query:       req.Query,
			PageSize:    req.Limit,
			StartCursor: req.StartCursor,
		})
		if err != nil {
			srv.Logger.Error("error searching notion",
				"error", err,
				"query", req.Query,
			)
			writeError(w, srv.Logger, err)
			return
		}

		writeRaw(w, http.StatusOK, body)
	})
}
