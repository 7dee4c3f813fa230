package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	helper "github.com/lintang-b-s/dynroute/pkg/http/router/routerhelper"
	"go.uber.org/zap"
)

const defaultTrafficLimit = 100

var timestampLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"}

type trafficAPI struct {
	responder
	trafficService TrafficService
	validator      *requestValidator
	log            *zap.Logger
}

func NewTrafficAPI(trafficService TrafficService, log *zap.Logger) *trafficAPI {
	return &trafficAPI{
		responder:      responder{log: log},
		trafficService: trafficService,
		validator:      newRequestValidator(),
		log:            log,
	}
}

func (api *trafficAPI) Routes(group *helper.RouteGroup) {
	group.POST("/traffic_update", api.trafficUpdate)
	group.GET("/traffic", api.recentTraffic)
}

func (api *trafficAPI) trafficUpdate(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request trafficUpdateRequest
	if err := readJSON(r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := api.validator.Struct(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	ts, err := parseTimestamp(request.Timestamp)
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	summary, err := api.trafficService.UpdateTraffic(r.Context(), request.toTrafficReport(ts))
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	api.log.Debug("traffic report applied", zap.String("intersectionID", summary.IntersectionID),
		zap.Int("roadsUpdated", summary.RoadsUpdated))
	if err := writeJSON(w, http.StatusOK, envelope{"data": NewTrafficUpdateResponse(summary)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *trafficAPI) recentTraffic(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	limit := defaultTrafficLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 {
			api.BadRequestResponse(w, r, errors.New("limit must be a positive int"))
			return
		}
		limit = parsed
	}

	records := api.trafficService.RecentTraffic(limit)
	if err := writeJSON(w, http.StatusOK, envelope{"data": records, "count": len(records)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, errors.New("timestamp must be an ISO 8601 date time")
}
