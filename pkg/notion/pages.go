package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// RetrievePage calls GET /pages/{page_id}.
func (c *Client) RetrievePage(ctx context.Context, pageID string) (json.RawMessage, error) {
	path := fmt.Sprintf("/pages/%s", url.PathEscape(pageID))
	return c.doRequest(ctx, "retrieve page", http.MethodGet, path, nil, nil)
}
