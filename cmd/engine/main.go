package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/lintang-b-s/dynroute/pkg/customizer"
	"github.com/lintang-b-s/dynroute/pkg/engine"
	"github.com/lintang-b-s/dynroute/pkg/http"
	"github.com/lintang-b-s/dynroute/pkg/http/usecases"
	"github.com/lintang-b-s/dynroute/pkg/logger"
	"github.com/lintang-b-s/dynroute/pkg/roadnetwork"
	"github.com/lintang-b-s/dynroute/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	configDir    = flag.String("config_dir", "./data/", "directory containing config.{yaml,toml,json}")
	sourceKind   = flag.String("source", "grid", "road network source: grid, json, osm or neo4j")
	roadFile     = flag.String("road_file", "./data/road_network.json", "road network json file (source=json)")
	osmFile      = flag.String("osm_file", "./data/map.osm.pbf", "openstreetmap pbf file (source=osm)")
	gridRows     = flag.Int("grid_rows", 5, "grid rows (source=grid)")
	gridCols     = flag.Int("grid_cols", 5, "grid columns (source=grid)")
	useRateLimit = flag.Bool("rate_limit", true, "enable the api rate limiter")
)

func main() {
	flag.Parse()
	if err := util.ReadConfig(*configDir); err != nil {
		panic(err)
	}
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck // ignore

	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}

	source, closeSource, err := newRoadNetworkSource(ctx, logger)
	if err != nil {
		logger.Fatal("failed to open road network source", zap.String("source", *sourceKind), zap.Error(err))
	}
	defer closeSource()

	routingEngine, err := engine.NewEngine(source.RoadNetworkSource, engine.NewConfigFromViper(), logger)
	if err != nil {
		logger.Fatal("failed to start routing engine", zap.Error(err))
	}
	planner := routingEngine.GetRoutePlanner()

	// warm the graph cache so the first request does not pay for the build
	if _, err := planner.Snapshot(ctx); err != nil {
		logger.Warn("initial road graph build failed", zap.Error(err))
	}

	viper.SetDefault("traffic.history_size", customizer.DEFAULT_TRAFFIC_HISTORY_SIZE)
	trafficUpdater := customizer.NewTrafficUpdater(source.CongestionWriter, planner,
		viper.GetInt("traffic.history_size"), logger)

	routingService := usecases.NewRoutingService(logger, planner)
	trafficService := usecases.NewTrafficService(logger, trafficUpdater)
	api := http.NewServer(logger)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return api.Use(gCtx, *useRateLimit, routingService, trafficService)
	})
	g.Go(func() error {
		return routingEngine.GetRefresher().Run(gCtx)
	})

	signal := http.GracefulShutdown(gCtx)
	if signal != nil {
		logger.Info("dynroute routing engine server stopping", zap.String("signal", signal.String()))
	}
	cleanup()

	if err := g.Wait(); err != nil {
		logger.Error("dynroute routing engine server stopped with error", zap.Error(err))
		return
	}
	logger.Info("dynroute routing engine server stopped")
}

type roadNetwork struct {
	roadnetwork.RoadNetworkSource
	roadnetwork.CongestionWriter
}

// newRoadNetworkSource opens the configured source. grid, json and osm networks are loaded once into a
// MemorySource so traffic reports can update them, neo4j is queried on every graph rebuild.
func newRoadNetworkSource(ctx context.Context, log *zap.Logger) (roadNetwork, func(), error) {
	noop := func() {}

	var initial roadnetwork.RoadNetworkSource
	switch *sourceKind {
	case "grid":
		initial = roadnetwork.NewGridSource(*gridRows, *gridCols, 1.0, 60.0)
	case "json":
		initial = roadnetwork.NewJSONFileSource(*roadFile)
	case "osm":
		initial = roadnetwork.NewOSMSource(*osmFile, log)
	case "neo4j":
		viper.SetDefault("neo4j.uri", "neo4j://localhost:7687")
		viper.SetDefault("neo4j.username", "neo4j")
		viper.SetDefault("neo4j.database", "neo4j")

		executor, err := roadnetwork.NewNeo4jExecutor(viper.GetString("neo4j.uri"),
			viper.GetString("neo4j.username"), viper.GetString("neo4j.password"), viper.GetString("neo4j.database"))
		if err != nil {
			return roadNetwork{}, noop, err
		}
		if err := executor.Verify(ctx); err != nil {
			_ = executor.Close(ctx)
			return roadNetwork{}, noop, err
		}
		neo4jSource := roadnetwork.NewNeo4jSource(executor)
		return roadNetwork{neo4jSource, neo4jSource}, func() { _ = executor.Close(context.Background()) }, nil
	default:
		return roadNetwork{}, noop, fmt.Errorf("unknown road network source %q", *sourceKind)
	}

	memory, err := roadnetwork.NewMemorySourceFrom(ctx, initial)
	if err != nil {
		return roadNetwork{}, noop, err
	}
	log.Info("road network loaded", zap.String("source", *sourceKind), zap.Int("roads", memory.Len()))
	return roadNetwork{memory, memory}, noop, nil
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
