package main

import (
	"flag"

	"github.com/lintang-b-s/dynroute/pkg/logger"
	"github.com/lintang-b-s/dynroute/pkg/roadnetwork"
	"go.uber.org/zap"
)

var (
	rows     = flag.Int("rows", 5, "number of grid rows")
	cols     = flag.Int("cols", 5, "number of grid columns")
	lengthKm = flag.Float64("length_km", 1.0, "length of every road in km")
	speedKmh = flag.Float64("max_speed_kmh", 60.0, "max speed of every road in km/h")
	output   = flag.String("output", "./data/road_network.json", "output road network json file")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}

	grid := roadnetwork.NewGridSource(*rows, *cols, *lengthKm, *speedKmh)
	segments := grid.Segments()
	if err := roadnetwork.WriteRoadNetworkFile(*output, segments); err != nil {
		logger.Fatal("failed to write road network", zap.String("output", *output), zap.Error(err))
	}
	logger.Info("grid road network written", zap.String("output", *output), zap.Int("rows", *rows),
		zap.Int("cols", *cols), zap.Int("roads", len(segments)))
}
