package notion

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *int32) {
	t.Helper()

	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(ts.Close)

	cfg := DefaultConfig()
	cfg.BaseURL = ts.URL
	cfg.APIKey = "ntn_test"
	cfg.Timeout = 2 * time.Second

	client, err := NewClient(cfg, hclog.NewNullLogger())
	require.NoError(t, err)

	return client, &calls
}

func TestClient_Search(t *testing.T) {
	t.Run("sends headers and payload", func(t *testing.T) {
		client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/search", r.URL.Path)
			assert.Equal(t, "Bearer ntn_test", r.Header.Get("Authorization"))
			assert.Equal(t, DefaultVersion, r.Header.Get("Notion-Version"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			assert.JSONEq(t, `{
				"query": "roadmap",
				"page_size": 5,
				"sort": {"direction": "descending", "timestamp": "last_edited_time"}
			}`, string(body))

			w.Write([]byte(`{"object":"list","results":[]}`))
		})

		limit := 5
		body, err := client.Search(context.Background(), &SearchParams{
			Query:    "roadmap",
			PageSize: &limit,
		})
		require.NoError(t, err)
		assert.Equal(t, `{"object":"list","results":[]}`, string(body))
		assert.EqualValues(t, 1, atomic.LoadInt32(calls))
	})

	t.Run("omits page size when unset", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			var payload map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.NotContains(t, payload, "page_size")
			assert.Equal(t, "", payload["query"])
			w.Write([]byte(`{}`))
		})

		_, err := client.Search(context.Background(), nil)
		require.NoError(t, err)
	})
}

func TestClient_RetrievePage(t *testing.T) {
	t.Run("returns the body verbatim", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/pages/abc123", r.URL.Path)
			w.Write([]byte(`{"object":"page","id":"abc123"}`))
		})

		body, err := client.RetrievePage(context.Background(), "abc123")
		require.NoError(t, err)
		assert.Equal(t, `{"object":"page","id":"abc123"}`, string(body))
	})

	t.Run("not found is a status error", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"object":"error","status":404,"code":"object_not_found","message":"Could not find page."}`))
		})

		_, err := client.RetrievePage(context.Background(), "missing")
		require.Error(t, err)

		var nErr *Error
		require.True(t, errors.As(err, &nErr))
		assert.Equal(t, KindStatus, nErr.Kind)
		assert.Equal(t, http.StatusNotFound, nErr.StatusCode)
		assert.Equal(t, "object_not_found", nErr.Code)
		assert.Equal(t, "Could not find page.", nErr.Message)
		assert.True(t, IsNotFound(err))
	})

	t.Run("invalid JSON is a decode error", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>oops</html>`))
		})

		_, err := client.RetrievePage(context.Background(), "abc")
		var nErr *Error
		require.True(t, errors.As(err, &nErr))
		assert.Equal(t, KindDecode, nErr.Kind)
	})

	t.Run("server errors are not retried", func(t *testing.T) {
		client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := client.RetrievePage(context.Background(), "abc")
		var nErr *Error
		require.True(t, errors.As(err, &nErr))
		assert.Equal(t, KindStatus, nErr.Kind)
		assert.Equal(t, http.StatusBadGateway, nErr.StatusCode)
		assert.EqualValues(t, 1, atomic.LoadInt32(calls))
	})
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	cfg := DefaultConfig()
	cfg.BaseURL = ts.URL
	cfg.APIKey = "ntn_test"
	cfg.Timeout = 50 * time.Millisecond

	client, err := NewClient(cfg, nil)
	require.NoError(t, err)

	_, err = client.RetrievePage(context.Background(), "slow")
	var nErr *Error
	require.True(t, errors.As(err, &nErr))
	assert.Equal(t, KindNetwork, nErr.Kind)
}

func TestClient_NetworkFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	baseURL := ts.URL
	ts.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.APIKey = "ntn_test"

	client, err := NewClient(cfg, nil)
	require.NoError(t, err)

	_, err = client.Search(context.Background(), nil)
	var nErr *Error
	require.True(t, errors.As(err, &nErr))
	assert.Equal(t, KindNetwork, nErr.Kind)
	assert.False(t, IsNotFound(err))
}

func TestClient_ListBlockChildren(t *testing.T) {
	t.Run("forwards cursor and decodes the list", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/blocks/page-1/children", r.URL.Path)
			assert.Equal(t, "100", r.URL.Query().Get("page_size"))
			assert.Equal(t, "cursor-a", r.URL.Query().Get("start_cursor"))
			w.Write([]byte(`{"object":"list","results":[{"id":"b1"},{"id":"b2"}],"next_cursor":"cursor-b","has_more":true}`))
		})

		list, err := client.ListBlockChildren(context.Background(), "page-1", "cursor-a")
		require.NoError(t, err)
		require.Len(t, list.Results, 2)
		assert.JSONEq(t, `{"id":"b1"}`, string(list.Results[0]))
		assert.Equal(t, "cursor-b", list.NextCursor)
		assert.True(t, list.HasMore)
	})

	t.Run("first page has no cursor", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.False(t, r.URL.Query().Has("start_cursor"))
			w.Write([]byte(`{"results":[],"next_cursor":null,"has_more":false}`))
		})

		list, err := client.ListBlockChildren(context.Background(), "page-1", "")
		require.NoError(t, err)
		assert.Empty(t, list.Results)
		assert.Equal(t, "", list.NextCursor)
	})

	t.Run("missing results is a decode error", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"object":"list"}`))
		})

		_, err := client.ListBlockChildren(context.Background(), "page-1", "")
		var nErr *Error
		require.True(t, errors.As(err, &nErr))
		assert.Equal(t, KindDecode, nErr.Kind)
	})
}

func TestClient_QueryDatabase(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/databases/db-1/query", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"page_size": 10,
			"filter": {"property": "Status", "select": {"equals": "Done"}}
		}`, string(body))

		w.Write([]byte(`{"object":"list","results":[{"id":"row"}]}`))
	})

	pageSize := 10
	body, err := client.QueryDatabase(context.Background(), "db-1", &QueryDatabaseParams{
		PageSize: &pageSize,
		Filter:   json.RawMessage(`{"property": "Status", "select": {"equals": "Done"}}`),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"object":"list","results":[{"id":"row"}]}`, string(body))
}

func TestClient_ValidateConnection(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			var payload map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.EqualValues(t, 1, payload["page_size"])
			w.Write([]byte(`{"results":[]}`))
		})

		assert.NoError(t, client.ValidateConnection(context.Background()))
	})

	t.Run("unauthorized", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"object":"error","status":401,"code":"unauthorized","message":"API token is invalid."}`))
		})

		err := client.ValidateConnection(context.Background())
		assert.ErrorIs(t, err, ErrInvalidAPIKey)
	})
}

func TestNewClient_InvalidConfig(t *testing.T) {
	_, err := NewClient(&Config{BaseURL: DefaultBaseURL}, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid notion config")
}
