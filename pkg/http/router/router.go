package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	"github.com/lintang-b-s/dynroute/pkg/http/router/controllers"
	router_helper "github.com/lintang-b-s/dynroute/pkg/http/router/routerhelper"
	http_server "github.com/lintang-b-s/dynroute/pkg/http/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	_ "net/http/pprof"
)

type RateLimitConfig struct {
	Enabled bool
	RPS     float64
	Burst   int
}

type API struct {
	log *zap.Logger
}

func NewAPI(log *zap.Logger) *API {
	return &API{log: log}
}

// Handler builds the full middleware chain around the api routes.
func (api *API) Handler(rateLimit RateLimitConfig, routingService controllers.RoutingService,
	trafficService controllers.TrafficService) http.Handler {
	router := httprouter.New()

	corsHandler := cors.New(cors.Options{ //nolint:gocritic // ignore
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, //nolint:mnd // ignore
	})

	router.Handler(http.MethodGet, "/debug/pprof/*item", http.DefaultServeMux)
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	group := router_helper.NewRouteGroup(router, "/api")

	routingRoutes := controllers.New(routingService, api.log)
	routingRoutes.Routes(group)

	trafficRoutes := controllers.NewTrafficAPI(trafficService, api.log)
	trafficRoutes.Routes(group)

	mwChain := []alice.Constructor{corsHandler.Handler, EnforceJSONHandler, api.recoverPanic,
		RealIP, Heartbeat("healthz"), Logger(api.log), Labels}
	if rateLimit.Enabled {
		mwChain = append(mwChain, Limit(rate.NewLimiter(rate.Limit(rateLimit.RPS), rateLimit.Burst)))
	}
	return alice.New(mwChain...).Then(router)
}

// Run serves the api until ctx is cancelled or the listener fails.
func (api *API) Run(
	ctx context.Context,
	config http_server.Config,
	rateLimit RateLimitConfig,
	routingService controllers.RoutingService,
	trafficService controllers.TrafficService,
) error {
	api.log.Info("Run httprouter API")

	srv := http_server.New(ctx, api.Handler(rateLimit, routingService, trafficService), config)
	api.log.Info(fmt.Sprintf("API run on port %d", config.Port))

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		api.log.Error("HTTP server stopped", zap.Error(err))
		return err
	case <-ctx.Done():
		api.log.Info("Context canceled, shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
