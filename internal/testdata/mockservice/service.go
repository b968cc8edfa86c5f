package mockservice

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"screentime-metrics-service/internal/model"
	"screentime-metrics-service/internal/service"
)

type Service struct {
	mock.Mock
}

// Interface compliance check
var _ service.ReportService = &Service{}

func (m *Service) GetReport(ctx context.Context, q service.ReportQuery) (model.UsageReport, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(model.UsageReport), args.Error(1)
}

func (m *Service) ListEvents(ctx context.Context, filter model.QueryFilter, loc *time.Location) ([]model.UsageEvent, error) {
	args := m.Called(ctx, filter, loc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UsageEvent), args.Error(1)
}
