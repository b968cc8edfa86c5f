package mockrepository

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"screentime-metrics-service/internal/model"
	"screentime-metrics-service/internal/repository"
)

type Repository struct {
	mock.Mock
}

// Interface compliance check
var _ repository.UsageRepository = &Repository{}

func (m *Repository) FetchEvents(ctx context.Context, filter model.QueryFilter, loc *time.Location) ([]model.UsageEvent, error) {
	args := m.Called(ctx, filter, loc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UsageEvent), args.Error(1)
}
