package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/notion-bridge/internal/config"
	"github.com/hashicorp-forge/notion-bridge/internal/server"
	"github.com/hashicorp-forge/notion-bridge/pkg/notion"
)

// mockNotion is a testify mock of notion.API.
type mockNotion struct {
	mock.Mock
}

var _ notion.API = (*mockNotion)(nil)

func (m *mockNotion) Search(ctx context.Context, params *notion.SearchParams) (json.RawMessage, error) {
	args := m.Called(ctx, params)
	body, _ := args.Get(0).(json.RawMessage)
	return body, args.Error(1)
}

func (m *mockNotion) RetrievePage(ctx context.Context, pageID string) (json.RawMessage, error) {
	args := m.Called(ctx, pageID)
	body, _ := args.Get(0).(json.RawMessage)
	return body, args.Error(1)
}

func (m *mockNotion) ListBlockChildren(ctx context.Context, blockID, startCursor string) (*notion.BlockList, error) {
	args := m.Called(ctx, blockID, startCursor)
	list, _ := args.Get(0).(*notion.BlockList)
	return list, args.Error(1)
}

func (m *mockNotion) QueryDatabase(ctx context.Context, databaseID string, params *notion.QueryDatabaseParams) (json.RawMessage, error) {
	args := m.Called(ctx, databaseID, params)
	body, _ := args.Get(0).(json.RawMessage)
	return body, args.Error(1)
}

func newTestServer(m *mockNotion) server.Server {
	cfg := config.NewConfig()
	cfg.Notion.APIKey = "ntn_test"

	return server.Server{
		Config: cfg,
		Notion: m,
		Logger: hclog.NewNullLogger(),
	}
}

// doRequest sends a request through the complete handler.
func doRequest(srv server.Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	NewHandler(srv).ServeHTTP(w, req)
	return w
}

// decodeEnvelope decodes an error response body.
func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) ErrorEnvelope {
	t.Helper()

	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}
