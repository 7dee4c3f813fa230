package customizer

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/lintang-b-s/dynroute/pkg"
	"github.com/lintang-b-s/dynroute/pkg/metrics"
	"github.com/lintang-b-s/dynroute/pkg/roadnetwork"
	"github.com/lintang-b-s/dynroute/pkg/util"
	"go.uber.org/zap"
)

const DEFAULT_TRAFFIC_HISTORY_SIZE = 1000

// RoadReport is what a roadside terminal observed on one road during the reporting window.
type RoadReport struct {
	RoadID          string
	VehicleCount    int
	AverageSpeed    float64 // km/h
	CongestionLevel string  // terminal's own label, e.g. low, medium, high
}

type TrafficReport struct {
	IntersectionID string
	Location       string
	Timestamp      time.Time
	Roads          []RoadReport
}

// TrafficRecord is one stored road observation.
type TrafficRecord struct {
	IntersectionID  string    `json:"terminal_id"`
	Location        string    `json:"location"`
	RoadID          string    `json:"road_id"`
	Timestamp       time.Time `json:"timestamp"`
	VehicleCount    int       `json:"vehicle_count"`
	AverageSpeed    float64   `json:"average_speed"`
	CongestionLevel string    `json:"congestion_level"`
	Congestion      float64   `json:"congestion"`
	Applied         bool      `json:"applied"`
}

type TrafficUpdateSummary struct {
	IntersectionID string
	Timestamp      time.Time
	RecordsSaved   int
	RoadsUpdated   int
	UnknownRoads   []string
}

type CacheInvalidator interface {
	InvalidateCaches()
}

// TrafficUpdater turns terminal traffic reports into road congestion and invalidates the route caches
// so the next query is planned on the new weights.
type TrafficUpdater struct {
	writer      roadnetwork.CongestionWriter
	invalidator CacheInvalidator

	mu          sync.RWMutex
	history     []TrafficRecord // ring buffer
	next        int
	historySize int

	log *zap.Logger
}

func NewTrafficUpdater(writer roadnetwork.CongestionWriter, invalidator CacheInvalidator, historySize int,
	log *zap.Logger) *TrafficUpdater {
	if historySize < 1 {
		historySize = DEFAULT_TRAFFIC_HISTORY_SIZE
	}
	return &TrafficUpdater{
		writer:      writer,
		invalidator: invalidator,
		history:     make([]TrafficRecord, 0, historySize),
		historySize: historySize,
		log:         log,
	}
}

// CongestionFromVehicleCount. congestion = min(2 * vehicleCount, 100), negative counts give 0.
func CongestionFromVehicleCount(vehicleCount int) float64 {
	if vehicleCount <= 0 {
		return 0
	}
	return math.Min(float64(vehicleCount)*pkg.CONGESTION_PER_VEHICLE, pkg.MAX_REPORTED_CONGESTION)
}

// ApplyReport stores every road observation of report and writes the derived congestion to the road network.
// roads unknown to the network are stored and listed in the summary but do not fail the report.
func (tu *TrafficUpdater) ApplyReport(ctx context.Context, report TrafficReport) (TrafficUpdateSummary, error) {
	summary := TrafficUpdateSummary{
		IntersectionID: report.IntersectionID,
		Timestamp:      report.Timestamp,
		UnknownRoads:   []string{},
	}
	if report.Timestamp.IsZero() {
		report.Timestamp = time.Now().UTC()
		summary.Timestamp = report.Timestamp
	}

	tu.log.Info("traffic report received", zap.String("intersectionID", report.IntersectionID),
		zap.Int("roads", len(report.Roads)))

	var applyErr error
	for _, road := range report.Roads {
		congestion := CongestionFromVehicleCount(road.VehicleCount)
		record := TrafficRecord{
			IntersectionID:  report.IntersectionID,
			Location:        report.Location,
			RoadID:          road.RoadID,
			Timestamp:       report.Timestamp,
			VehicleCount:    road.VehicleCount,
			AverageSpeed:    road.AverageSpeed,
			CongestionLevel: road.CongestionLevel,
			Congestion:      congestion,
		}

		if applyErr == nil {
			updated, err := tu.writer.UpdateCongestion(ctx, road.RoadID, congestion)
			switch {
			case err != nil:
				metrics.TrafficReportsApplied.WithLabelValues("error").Inc()
				applyErr = util.WrapErrorf(err, util.ErrInternalServerError, "update congestion of road %s",
					road.RoadID)
			case !updated:
				metrics.TrafficReportsApplied.WithLabelValues("unknown_road").Inc()
				summary.UnknownRoads = append(summary.UnknownRoads, road.RoadID)
				tu.log.Debug("traffic report for unknown road", zap.String("roadID", road.RoadID))
			default:
				metrics.TrafficReportsApplied.WithLabelValues("applied").Inc()
				record.Applied = true
				summary.RoadsUpdated++
			}
		}

		tu.addRecord(record)
		summary.RecordsSaved++
	}

	if summary.RoadsUpdated > 0 {
		tu.invalidator.InvalidateCaches()
	}
	if applyErr != nil {
		tu.log.Error("traffic report partially applied", zap.String("intersectionID", report.IntersectionID),
			zap.Int("roadsUpdated", summary.RoadsUpdated), zap.Error(applyErr))
		return summary, applyErr
	}
	return summary, nil
}

func (tu *TrafficUpdater) addRecord(record TrafficRecord) {
	tu.mu.Lock()
	defer tu.mu.Unlock()
	if len(tu.history) < tu.historySize {
		tu.history = append(tu.history, record)
		return
	}
	tu.history[tu.next] = record
	tu.next = (tu.next + 1) % tu.historySize
}

// RecentRecords returns at most limit stored records, the most recently stored first.
func (tu *TrafficUpdater) RecentRecords(limit int) []TrafficRecord {
	tu.mu.RLock()
	defer tu.mu.RUnlock()

	n := len(tu.history)
	if limit <= 0 || limit > n {
		limit = n
	}
	records := make([]TrafficRecord, 0, limit)
	// newest record sits just before next once the ring is full, at the end otherwise
	newest := n - 1
	if n == tu.historySize {
		newest = (tu.next - 1 + n) % n
	}
	for i := 0; i < limit; i++ {
		records = append(records, tu.history[(newest-i+n)%n])
	}
	return records
}
