package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"screentime-metrics-service/internal/config"
	"screentime-metrics-service/internal/model"
	"screentime-metrics-service/internal/repository"
)

// ValidationError represents user input issues.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ReportQuery carries per-request overrides. Zero-valued fields fall back to
// the configured defaults; Location falls back to the configured timezone.
type ReportQuery struct {
	ScreenTimeGoalHours float64
	PickupGoalCount     int
	UnnecessaryApps     []string
	DeviceIDs           []string
	Location            *time.Location
}

type ReportService interface {
	// GetReport runs one full read->normalize->project->aggregate pass and
	// returns the derived report.
	GetReport(ctx context.Context, q ReportQuery) (model.UsageReport, error)

	// ListEvents exposes the normalized, device-class-filtered event stream.
	ListEvents(ctx context.Context, filter model.QueryFilter, loc *time.Location) ([]model.UsageEvent, error)
}

// reportService wires the extraction pipeline to the aggregations.
type reportService struct {
	repo   repository.UsageRepository
	cfg    *config.Config
	logger zerolog.Logger
	now    func() time.Time
}

// NewReportService constructs a reportService.
func NewReportService(repo repository.UsageRepository, cfg *config.Config, logger zerolog.Logger) ReportService {
	return &reportService{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

func (s *reportService) GetReport(ctx context.Context, q ReportQuery) (model.UsageReport, error) {
	if q.ScreenTimeGoalHours == 0 {
		q.ScreenTimeGoalHours = s.cfg.ScreenTimeGoalHours
	}
	if q.PickupGoalCount == 0 {
		q.PickupGoalCount = s.cfg.PickupGoalCount
	}
	if q.UnnecessaryApps == nil {
		q.UnnecessaryApps = s.cfg.UnnecessaryApps
	}
	if q.Location == nil {
		q.Location = s.cfg.Location()
	}

	if q.ScreenTimeGoalHours < 0 {
		return model.UsageReport{}, &ValidationError{Message: "screen_time_goal must be positive"}
	}
	if q.PickupGoalCount < 0 {
		return model.UsageReport{}, &ValidationError{Message: "pickup_goal must be positive"}
	}

	loc := q.Location
	now := s.now().In(loc)

	// Fetch from the local midnight of the first trend date so the whole
	// window is covered without pulling older history.
	windowStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).
		AddDate(0, 0, -(s.cfg.TrendWindowDays - 1))

	filter := model.QueryFilter{
		StartDate: windowStart,
		EndDate:   now,
		DeviceIDs: q.DeviceIDs,
	}

	events, err := s.repo.FetchEvents(ctx, filter, loc)
	if err != nil {
		return model.UsageReport{}, err
	}

	projected, err := projectEvents(events, s.cfg.DeviceClassFilter)
	if err != nil {
		return model.UsageReport{}, err
	}

	unnecessaryHours, accesses := todayUnnecessary(projected, now, loc, q.UnnecessaryApps)

	report := model.UsageReport{
		Meta: model.ReportMeta{
			GeneratedAt:         now.Format(time.RFC3339),
			Timezone:            loc.String(),
			DeviceClass:         s.cfg.DeviceClassFilter,
			ScreenTimeGoalHours: q.ScreenTimeGoalHours,
			PickupGoalCount:     q.PickupGoalCount,
			UnnecessaryApps:     q.UnnecessaryApps,
			TrendWindowDays:     s.cfg.TrendWindowDays,
		},
		Today: model.TodaySummary{
			UnnecessaryHours: unnecessaryHours,
			UnnecessaryLevel: classifyAgainstGoal(unnecessaryHours, q.ScreenTimeGoalHours),
			Accesses:         accesses,
			AccessLevel:      classifyAgainstGoal(float64(accesses), float64(q.PickupGoalCount)),
		},
		DailyTrend:  dailyTrend(projected, now, loc, s.cfg.TrendWindowDays),
		Pickups:     dailyPickups(projected, now, loc, s.cfg.TrendWindowDays),
		Achievement: achievement(projected, now, loc, s.cfg.AchievementWindowDays, q.UnnecessaryApps),
		TopApps:     topApps(projected, now),
	}

	if latest := latestEvent(projected); !latest.IsZero() {
		report.Meta.LatestEvent = latest.In(loc).Format(time.RFC3339)
	}

	s.logger.Debug().
		Int("events", len(projected)).
		Str("window_start", windowStart.Format(time.RFC3339)).
		Msg("report computed")

	return report, nil
}

func (s *reportService) ListEvents(ctx context.Context, filter model.QueryFilter, loc *time.Location) ([]model.UsageEvent, error) {
	if loc == nil {
		loc = s.cfg.Location()
	}

	events, err := s.repo.FetchEvents(ctx, filter, loc)
	if err != nil {
		return nil, err
	}

	return projectEvents(events, s.cfg.DeviceClassFilter)
}

// latestEvent returns the most recent end instant in the set.
func latestEvent(events []model.UsageEvent) time.Time {
	var latest time.Time
	for _, ev := range events {
		if ev.EndTime.After(latest) {
			latest = ev.EndTime
		}
	}
	return latest
}
