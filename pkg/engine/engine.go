package engine

import (
	"github.com/lintang-b-s/dynroute/pkg/costfunction"
	"github.com/lintang-b-s/dynroute/pkg/engine/cache"
	"github.com/lintang-b-s/dynroute/pkg/engine/routing"
	"github.com/lintang-b-s/dynroute/pkg/roadnetwork"
	"go.uber.org/zap"
)

type Engine struct {
	routePlanner *RoutePlanner
	graphBuilder *roadnetwork.GraphBuilder
	refresher    *Refresher
	config       Config
}

func (e *Engine) GetRoutePlanner() *RoutePlanner {
	return e.routePlanner
}

func (e *Engine) GetGraphBuilder() *roadnetwork.GraphBuilder {
	return e.graphBuilder
}

func (e *Engine) GetRefresher() *Refresher {
	return e.refresher
}

func (e *Engine) GetConfig() Config {
	return e.config
}

// NewEngine wires source -> graph builder -> graph cache, path cache -> route planner.
// no graph is built here, the first query or the refresher does it.
func NewEngine(source roadnetwork.RoadNetworkSource, config Config, logger *zap.Logger) (*Engine, error) {
	config = config.normalize()

	logger.Info("Starting congestion aware routing engine...", zap.Int("k", config.K),
		zap.Float64("softmaxTemperature", config.SoftmaxTemperature), zap.Float64("alpha", config.WeightAlpha),
		zap.Float64("beta", config.WeightBeta))

	costFunction := costfunction.NewCongestionCostFunctionWithDefaults(config.WeightAlpha, config.WeightBeta,
		config.DefaultLengthKm, config.DefaultMaxSpeedKmh)
	graphBuilder := roadnetwork.NewGraphBuilder(source, costFunction, logger)

	graphCache := cache.NewGraphCache(graphBuilder, config.GraphTTL, config.GraphFetchTimeout, logger)
	pathCache, err := cache.NewPathCache(config.PathCapacity, config.PathTTL, RouteResult.Clone)
	if err != nil {
		return nil, err
	}

	scorerConfig := routing.DefaultScorerConfig()
	scorerConfig.Temperature = config.SoftmaxTemperature
	routePlanner := NewRoutePlanner(graphCache, pathCache, routing.NewRouteScorer(scorerConfig), config.K,
		config.Workers, logger)

	return &Engine{
		routePlanner: routePlanner,
		graphBuilder: graphBuilder,
		refresher:    NewRefresher(routePlanner, config.RefreshInterval, logger),
		config:       config,
	}, nil
}
