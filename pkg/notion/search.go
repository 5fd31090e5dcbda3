package notion

import (
	"context"
	"encoding/json"
	"net/http"
)

// SearchParams are the forwarded fields of a search request.
type SearchParams struct {
	Query string

	// PageSize is omitted from the upstream request when nil so Notion applies
	// its own default.
	PageSize *int

	StartCursor string
}

type searchSort struct {
	Direction string `json:"direction"`
	Timestamp string `json:"timestamp"`
}

type searchRequest struct {
	Query       string     `json:"query"`
	PageSize    *int       `json:"page_size,omitempty"`
	StartCursor string     `json:"start_cursor,omitempty"`
	Sort        searchSort `json:"sort"`
}

// Search calls POST /search. Results are sorted by last edit time, newest
// first.
func (c *Client) Search(ctx context.Context, params *SearchParams) (json.RawMessage, error) {
	if params == nil {
		params = &SearchParams{}
	}

	body := searchRequest{
		Query:       params.Query,
		PageSize:    params.PageSize,
		StartCursor: params.StartCursor,
		Sort: searchSort{
			Direction: "descending",
			Timestamp: "last_edited_time",
		},
	}

	return c.doRequest(ctx, "search", http.MethodPost, "/search", nil, body)
}
