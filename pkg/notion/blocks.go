package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// MaxPageSize is the largest page size accepted by Notion's list endpoints.
const MaxPageSize = 100

// BlockList is one page of a paginated block children listing.
type BlockList struct {
	Results    []json.RawMessage `json:"results"`
	NextCursor string            `json:"next_cursor"`
	HasMore    bool              `json:"has_more"`
}

// ListBlockChildren calls GET /blocks/{block_id}/children for a single page of
// results. Callers follow NextCursor to read the rest.
func (c *Client) ListBlockChildren(
	ctx context.Context, blockID, startCursor string,
) (*BlockList, error) {
	op := "list block children"
	path := fmt.Sprintf("/blocks/%s/children", url.PathEscape(blockID))

	query := url.Values{}
	query.Set("page_size", strconv.Itoa(MaxPageSize))
	if startCursor != "" {
		query.Set("start_cursor", startCursor)
	}

	body, err := c.doRequest(ctx, op, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}

	var list BlockList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, &Error{Kind: KindDecode, Operation: op, Err: err}
	}
	if list.Results == nil {
		return nil, &Error{
			Kind:      KindDecode,
			Operation: op,
			Err:       fmt.Errorf("response has no results field"),
		}
	}

	return &list, nil
}
