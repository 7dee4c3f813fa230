package controllers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	helper "github.com/lintang-b-s/dynroute/pkg/http/router/routerhelper"
	"go.uber.org/zap"
)

type routingAPI struct {
	responder
	routingService RoutingService
	validator      *requestValidator
	log            *zap.Logger
}

func New(routingService RoutingService, log *zap.Logger) *routingAPI {
	return &routingAPI{
		responder:      responder{log: log},
		routingService: routingService,
		validator:      newRequestValidator(),
		log:            log,
	}
}

func (api *routingAPI) Routes(group *helper.RouteGroup) {
	group.POST("/request_path", api.requestPath)
	group.GET("/nodes", api.nodes)
	group.GET("/roads", api.roads)
	group.GET("/cache/stats", api.cacheStats)
	group.POST("/cache/invalidate", api.invalidateCaches)
}

func (api *routingAPI) requestPath(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request requestPathRequest
	if err := readJSON(r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := api.validator.Struct(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	res, err := api.routingService.RequestPath(r.Context(), request.StartNode, request.EndNode, request.VehicleType)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"data": NewPathResponse(res)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *routingAPI) nodes(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	nodes, err := api.routingService.ListNodes(r.Context())
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, envelope{"data": NewNodesResponse(nodes), "count": len(nodes)},
		nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *routingAPI) roads(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	roads, err := api.routingService.ListRoads(r.Context())
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, envelope{"data": NewRoadsResponse(roads), "count": len(roads)},
		nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *routingAPI) cacheStats(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	if err := writeJSON(w, http.StatusOK, envelope{"data": api.routingService.CacheStats()}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *routingAPI) invalidateCaches(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	api.routingService.InvalidateCaches()
	if err := writeJSON(w, http.StatusOK, envelope{"data": map[string]string{"message": "caches invalidated"}},
		nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}
