package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/cors"

	"github.com/hashicorp-forge/notion-bridge/internal/server"
)

// Operation identifies one of the bridged Notion operations.
type Operation int

const (
	OperationSearch Operation = iota
	OperationGetPage
	OperationGetPageContent
	OperationQueryDatabase
)

func (o Operation) String() string {
	switch o {
	case OperationSearch:
		return "search"
	case OperationGetPage:
		return "get_page"
	case OperationGetPageContent:
		return "get_page_content"
	case OperationQueryDatabase:
		return "query_database"
	default:
		return fmt.Sprintf("Operation(%d)", int(o))
	}
}

// Route maps a method and path to an operation handler.
type Route struct {
	Operation Operation
	Method    string

	// Path is matched exactly, or as a prefix followed by "/{id}" when
	// HasParam is set.
	Path     string
	HasParam bool

	Handler func(server.Server) http.Handler
}

// Routes is the static route table.
var Routes = []Route{
	{
		Operation: OperationSearch,
		Method:    http.MethodPost,
		Path:      "/api/search",
		Handler:   SearchHandler,
	},
	{
		Operation: OperationGetPage,
		Method:    http.MethodGet,
		Path:      "/api/get_page",
		HasParam:  true,
		Handler:   GetPageHandler,
	},
	{
		Operation: OperationGetPageContent,
		Method:    http.MethodGet,
		Path:      "/api/get_page_content",
		HasParam:  true,
		Handler:   GetPageContentHandler,
	},
	{
		Operation: OperationQueryDatabase,
		Method:    http.MethodPost,
		Path:      "/api/query_database",
		Handler:   QueryDatabaseHandler,
	},
}

func (rt Route) matches(method, path string) bool {
	if method != rt.Method {
		return false
	}
	if path == rt.Path {
		return true
	}
	return rt.HasParam && strings.HasPrefix(path, rt.Path+"/")
}

type boundRoute struct {
	Route
	handler http.Handler
}

// router dispatches requests through the route table.
type router struct {
	srv    server.Server
	routes []boundRoute
}

func (rr *router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	for _, rt := range rr.routes {
		if rt.matches(r.Method, r.URL.Path) {
			rt.handler.ServeHTTP(w, r)
			return
		}
	}

	rr.srv.Logger.Debug("no route for request",
		"method", r.Method,
		"path", r.URL.Path,
	)
	writeError(w, rr.srv.Logger, errRouteNotFound)
}

// NewHandler returns the complete HTTP handler: the route table wrapped with
// request logging and a permissive CORS policy.
func NewHandler(srv server.Server) http.Handler {
	rr := &router{srv: srv}
	for _, rt := range Routes {
		rr.routes = append(rr.routes, boundRoute{
			Route:   rt,
			handler: rt.Handler(srv),
		})
	}

	return logRequests(srv.Logger, cors.AllowAll().Handler(rr))
}
