package usecases

import (
	"context"

	"github.com/lintang-b-s/dynroute/pkg/customizer"
	"go.uber.org/zap"
)

type TrafficService struct {
	log     *zap.Logger
	updater TrafficUpdater
}

func NewTrafficService(log *zap.Logger, updater TrafficUpdater) *TrafficService {
	return &TrafficService{log: log, updater: updater}
}

func (ts *TrafficService) UpdateTraffic(ctx context.Context, report customizer.TrafficReport) (
	customizer.TrafficUpdateSummary, error) {
	return ts.updater.ApplyReport(ctx, report)
}

func (ts *TrafficService) RecentTraffic(limit int) []customizer.TrafficRecord {
	return ts.updater.RecentRecords(limit)
}
