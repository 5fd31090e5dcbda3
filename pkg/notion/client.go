package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// API is the set of Notion operations used by the HTTP handlers.
type API interface {
	// Search runs a workspace search and returns Notion's response body.
	Search(ctx context.Context, params *SearchParams) (json.RawMessage, error)

	// RetrievePage returns the page object for pageID.
	RetrievePage(ctx context.Context, pageID string) (json.RawMessage, error)

	// ListBlockChildren returns one page of children of blockID starting at
	// startCursor (empty for the first page).
	ListBlockChildren(ctx context.Context, blockID, startCursor string) (*BlockList, error)

	// QueryDatabase runs a single database query page.
	QueryDatabase(ctx context.Context, databaseID string, params *QueryDatabaseParams) (json.RawMessage, error)
}

// Client talks to the Notion REST API. It is safe for concurrent use and is
// never mutated after NewClient returns.
type Client struct {
	config *Config
	client *http.Client
	logger hclog.Logger
}

// Compile-time check.
var _ API = (*Client)(nil)

// NewClient creates a new Notion client.
func NewClient(cfg *Config, logger hclog.Logger) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid notion config: %w", err)
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	if !strings.HasPrefix(cfg.APIKey, "ntn_") &&
		!strings.HasPrefix(cfg.APIKey, "secret_") {
		logger.Warn("notion API key has an unexpected format; current keys start with \"ntn_\"")
	}

	return &Client{
		config: cfg,
		client: cfg.NewHTTPClient(),
		logger: logger,
	}, nil
}

// doRequest executes a single HTTP request against the Notion API and returns
// the response body. Non-2xx statuses, transport failures and bodies that are
// not valid JSON are all returned as *Error. Requests are never retried.
func (c *Client) doRequest(
	ctx context.Context, op, method, path string, query url.Values, body any,
) ([]byte, error) {
	endpoint := strings.TrimRight(c.config.BaseURL, "/") + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Notion-Version", c.config.Version)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("sending notion request", "operation", op, "method", method, "path", path)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Operation: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{
			Kind:      KindNetwork,
			Operation: op,
			Err:       fmt.Errorf("failed to read response: %w", err),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		nErr := &Error{
			Kind:       KindStatus,
			Operation:  op,
			StatusCode: resp.StatusCode,
		}

		// Notion error objects look like
		// {"object":"error","status":404,"code":"object_not_found","message":"..."}.
		var apiErr struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(respBody, &apiErr); err == nil {
			nErr.Code = apiErr.Code
			nErr.Message = apiErr.Message
		}

		c.logger.Debug("notion returned an error status",
			"operation", op,
			"status", resp.StatusCode,
			"code", nErr.Code,
		)
		return nil, nErr
	}

	if !json.Valid(respBody) {
		return nil, &Error{
			Kind:      KindDecode,
			Operation: op,
			Err:       fmt.Errorf("response body is not valid JSON"),
		}
	}

	return respBody, nil
}

// ValidateConnection performs a minimal search to check that the API is
// reachable and the key is accepted.
func (c *Client) ValidateConnection(ctx context.Context) error {
	pageSize := 1
	_, err := c.Search(ctx, &SearchParams{PageSize: &pageSize})
	if err == nil {
		return nil
	}

	var nErr *Error
	if errors.As(err, &nErr) && nErr.Kind == KindStatus &&
		nErr.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %v", ErrInvalidAPIKey, err)
	}
	return fmt.Errorf("error connecting to notion: %w", err)
}
