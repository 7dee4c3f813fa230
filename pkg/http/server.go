package http

import (
	"context"

	http_router "github.com/lintang-b-s/dynroute/pkg/http/router"
	"github.com/lintang-b-s/dynroute/pkg/http/router/controllers"
	http_server "github.com/lintang-b-s/dynroute/pkg/http/server"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	Log *zap.Logger
}

func NewServer(log *zap.Logger) *Server {
	return &Server{Log: log}
}

// Use serves the routing and traffic api and blocks until ctx is cancelled or the server fails.
func (s *Server) Use(
	ctx context.Context,
	useRateLimit bool,
	routingService controllers.RoutingService,
	trafficService controllers.TrafficService,
) error {
	viper.SetDefault("API_PORT", 6060)
	viper.SetDefault("API_TIMEOUT", "60s")
	viper.SetDefault("RATE_LIMIT_RPS", 100)
	viper.SetDefault("RATE_LIMIT_BURST", 200)

	config := http_server.Config{
		Port:    viper.GetInt("API_PORT"),
		Timeout: viper.GetDuration("API_TIMEOUT"),
	}
	rateLimit := http_router.RateLimitConfig{
		Enabled: useRateLimit,
		RPS:     viper.GetFloat64("RATE_LIMIT_RPS"),
		Burst:   viper.GetInt("RATE_LIMIT_BURST"),
	}

	api := http_router.NewAPI(s.Log)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return api.Run(gCtx, config, rateLimit, routingService, trafficService)
	})
	return g.Wait()
}
