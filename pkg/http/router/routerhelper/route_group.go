package routerhelper

import (
	"net/http"
	"path"

	"github.com/julienschmidt/httprouter"
)

// RouteGroup registers httprouter handles under a common path prefix.
type RouteGroup struct {
	router *httprouter.Router
	prefix string
}

func NewRouteGroup(router *httprouter.Router, prefix string) *RouteGroup {
	return &RouteGroup{router: router, prefix: prefix}
}

// Group returns a nested group whose prefix is appended to this one.
func (rg *RouteGroup) Group(prefix string) *RouteGroup {
	return &RouteGroup{router: rg.router, prefix: rg.fullPath(prefix)}
}

func (rg *RouteGroup) fullPath(p string) string {
	full := path.Join(rg.prefix, p)
	// path.Join drops a trailing slash, httprouter treats it as a different route
	if len(p) > 1 && p[len(p)-1] == '/' {
		full += "/"
	}
	return full
}

func (rg *RouteGroup) Handle(method, p string, handle httprouter.Handle) {
	rg.router.Handle(method, rg.fullPath(p), handle)
}

func (rg *RouteGroup) Handler(method, p string, handler http.Handler) {
	rg.router.Handler(method, rg.fullPath(p), handler)
}

func (rg *RouteGroup) GET(p string, handle httprouter.Handle) {
	rg.Handle(http.MethodGet, p, handle)
}

func (rg *RouteGroup) POST(p string, handle httprouter.Handle) {
	rg.Handle(http.MethodPost, p, handle)
}

func (rg *RouteGroup) DELETE(p string, handle httprouter.Handle) {
	rg.Handle(http.MethodDelete, p, handle)
}
