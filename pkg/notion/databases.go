package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// QueryDatabaseParams are the forwarded fields of a database query. Filter and
// Sorts are passed to Notion unchanged.
type QueryDatabaseParams struct {
	PageSize    *int
	StartCursor string
	Filter      json.RawMessage
	Sorts       json.RawMessage
}

type queryDatabaseRequest struct {
	PageSize    *int            `json:"page_size,omitempty"`
	StartCursor string          `json:"start_cursor,omitempty"`
	Filter      json.RawMessage `json:"filter,omitempty"`
	Sorts       json.RawMessage `json:"sorts,omitempty"`
}

// QueryDatabase calls POST /databases/{database_id}/query.
func (c *Client) QueryDatabase(
	ctx context.Context, databaseID string, params *QueryDatabaseParams,
) (json.RawMessage, error) {
	if params == nil {
		params = &QueryDatabaseParams{}
	}

	path := fmt.Sprintf("/databases/%s/query", url.PathEscape(databaseID))
	body := queryDatabaseRequest{
		PageSize:    params.PageSize,
		StartCursor: params.StartCursor,
		Filter:      params.Filter,
		Sorts:       params.Sorts,
	}

	return c.doRequest(ctx, "query database", http.MethodPost, path, nil, body)
}
