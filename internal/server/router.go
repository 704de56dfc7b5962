package server

import (
	"net/http"
	"slices"
	"strings"
)

// BasicRouter is the [Router] used by the login callback server.
//
// Patterns use [http.ServeMux] method syntax ("GET /callback"), so the mux answers 405 for other
// methods. Middleware wraps the whole mux, so unmatched requests are logged and recovered too.
type BasicRouter struct {
	mux    *http.ServeMux
	chain  []Middleware
	routes []string
}

// NewBasicRouter creates an empty [BasicRouter].
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{mux: http.NewServeMux()}
}

// Use appends middleware. The first one added runs outermost.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.chain = append(r.chain, middleware...)
}

// Handle registers handler for method and path.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	pattern := strings.ToUpper(method) + " " + path
	r.mux.Handle(pattern, handler)
	r.routes = append(r.routes, pattern)
}

// Handler registers every path from [Handler.Routes] for GET requests.
func (r *BasicRouter) Handler(handler Handler) {
	for _, path := range handler.Routes() {
		r.Handle(http.MethodGet, path, handler)
	}
}

// Routes lists the registered patterns in registration order.
func (r *BasicRouter) Routes() []string {
	return slices.Clone(r.routes)
}

func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var h http.Handler = r.mux
	for i := len(r.chain) - 1; i >= 0; i-- {
		h = r.chain[i](h)
	}
	h.ServeHTTP(w, req)
}
