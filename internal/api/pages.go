package api

import (
	"context"
	"encoding/json"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/hashicorp-forge/notion-bridge/internal/server"
	"github.com/hashicorp-forge/notion-bridge/pkg/notion"
)

// PageContentResponse is the body of a successful page content request.
type PageContentResponse struct {
	// Blocks are the page's top-level blocks in upstream order.
	Blocks []json.RawMessage `json:"blocks"`

	// Text is the plain-text rendering of the textual blocks.
	Text string `json:"text"`
}

// pageIDFromRequest extracts and validates the page ID path segment.
func pageIDFromRequest(r *http.Request, apiPath string) (string, error) {
	pageID, err := parseResourceIDFromURL(r.URL.Path, apiPath)
	if err != nil {
		return "", err
	}
	if err := validation.Validate(pageID, validation.Required); err != nil {
		return "", &RequestError{Err: err}
	}
	return pageID, nil
}

// GetPageHandler returns a Notion page object.
//
// Endpoint: GET /api/get_page/{page_id}
func GetPageHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pageID, err := pageIDFromRequest(r, "get_page")
		if err != nil {
			srv.Logger.Warn("invalid page ID",
				"error", err,
				"path", r.URL.Path,
			)
			writeError(w, srv.Logger, err)
			return
		}

		body, err := srv.Notion.RetrievePage(r.Context(), pageID)
		if err != nil {
			if notion.IsNotFound(err) {
				srv.Logger.Info("page not found", "page_id", pageID)
			} else {
				srv.Logger.Error("error retrieving page",
					"error", err,
					"page_id", pageID,
				)
			}
			writeError(w, srv.Logger, err)
			return
		}

		writeRaw(w, http.StatusOK, body)
	})
}

// GetPageContentHandler returns every top-level block of a page, following
// Notion's pagination until it is exhausted.
//
// Endpoint: GET /api/get_page_content/{page_id}
func GetPageContentHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pageID, err := pageIDFromRequest(r, "get_page_content")
		if err != nil {
			srv.Logger.Warn("invalid page ID",
				"error", err,
				"path", r.URL.Path,
			)
			writeError(w, srv.Logger, err)
			return
		}

		blocks, err := collectBlocks(r.Context(), srv.Notion, pageID, srv.MaxContentPages())
		if err != nil {
			srv.Logger.Error("error retrieving page content",
				"error", err,
				"page_id", pageID,
			)
			writeError(w, srv.Logger, err)
			return
		}

		srv.Logger.Debug("retrieved page content",
			"page_id", pageID,
			"blocks", len(blocks),
		)

		writeJSON(w, srv.Logger, http.StatusOK, PageContentResponse{
			Blocks: blocks,
			Text:   notion.ExtractText(blocks),
		})
	})
}

// collectBlocks reads the children of blockID page by page, at most maxPages
// upstream calls. Any failure discards the blocks read so far.
func collectBlocks(
	ctx context.Context, client notion.API, blockID string, maxPages int,
) ([]json.RawMessage, error) {
	blocks := []json.RawMessage{}
	cursor := ""

	for page := 0; page < maxPages; page++ {
		list, err := client.ListBlockChildren(ctx, blockID, cursor)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, list.Results...)

		if list.NextCursor == "" {
			return blocks, nil
		}
		cursor = list.NextCursor
	}

	return nil, errPaginationLimit
}
