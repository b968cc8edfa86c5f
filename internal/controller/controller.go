package controller

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"screentime-metrics-service/internal/model"
	"screentime-metrics-service/internal/service"
)

type ReportController interface {
	GetReport(c *fiber.Ctx) error
	ListEvents(c *fiber.Ctx) error
}

// reportController exposes HTTP handlers for the aggregation endpoints.
type reportController struct {
	reportService service.ReportService
}

// NewReportController builds a ReportController.
func NewReportController(svc service.ReportService) ReportController {
	return &reportController{reportService: svc}
}

// GetReport returns the full usage report for the dashboard.
func (h *reportController) GetReport(c *fiber.Ctx) error {
	q, err := buildReportQuery(c)
	if err != nil {
		return err
	}

	report, svcErr := h.reportService.GetReport(c.Context(), q)
	if svcErr != nil {
		return mapServiceError(svcErr)
	}

	return c.JSON(report)
}

// ListEvents returns the normalized event stream.
func (h *reportController) ListEvents(c *fiber.Ctx) error {
	var filter model.QueryFilter

	if raw := utils.Trim(c.Query("from"), ' '); raw != "" {
		t, parseErr := time.Parse(time.RFC3339, raw)
		if parseErr != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid from timestamp")
		}
		filter.StartDate = t
	}

	if raw := utils.Trim(c.Query("to"), ' '); raw != "" {
		t, parseErr := time.Parse(time.RFC3339, raw)
		if parseErr != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid to timestamp")
		}
		filter.EndDate = t
	}

	filter.DeviceIDs = splitParam(c.Query("device_ids"))

	loc, err := parseTimezone(c)
	if err != nil {
		return err
	}

	events, svcErr := h.reportService.ListEvents(c.Context(), filter, loc)
	if svcErr != nil {
		return mapServiceError(svcErr)
	}

	return c.JSON(events)
}

func buildReportQuery(c *fiber.Ctx) (service.ReportQuery, error) {
	var q service.ReportQuery

	if raw := utils.Trim(c.Query("screen_time_goal"), ' '); raw != "" {
		goal, err := strconv.ParseFloat(raw, 64)
		if err != nil || goal <= 0 {
			return service.ReportQuery{}, fiber.NewError(fiber.StatusBadRequest, "screen_time_goal must be a positive number")
		}
		q.ScreenTimeGoalHours = goal
	}

	if raw := utils.Trim(c.Query("pickup_goal"), ' '); raw != "" {
		goal, err := strconv.Atoi(raw)
		if err != nil || goal <= 0 {
			return service.ReportQuery{}, fiber.NewError(fiber.StatusBadRequest, "pickup_goal must be a positive integer")
		}
		q.PickupGoalCount = goal
	}

	q.UnnecessaryApps = splitParam(c.Query("unnecessary_apps"))
	q.DeviceIDs = splitParam(c.Query("device_ids"))

	loc, err := parseTimezone(c)
	if err != nil {
		return service.ReportQuery{}, err
	}
	q.Location = loc

	return q, nil
}

// parseTimezone resolves the optional tz query parameter; nil means "use the
// configured default".
func parseTimezone(c *fiber.Ctx) (*time.Location, error) {
	raw := utils.Trim(c.Query("tz"), ' ')
	if raw == "" {
		return nil, nil
	}
	loc, err := time.LoadLocation(raw)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid tz: unknown timezone")
	}
	return loc, nil
}

func splitParam(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// mapServiceError translates pipeline failures into HTTP responses. The
// remediation hints travel with the message so the dashboard can render them.
func mapServiceError(err error) error {
	var valErr *service.ValidationError
	switch {
	case errors.As(err, &valErr):
		return fiber.NewError(fiber.StatusBadRequest, valErr.Error())
	case errors.Is(err, model.ErrSourceNotFound):
		return fiber.NewError(fiber.StatusNotFound,
			"activity log not found; verify Screen Time is enabled on this machine")
	case errors.Is(err, model.ErrSourcePermission):
		return fiber.NewError(fiber.StatusForbidden,
			"activity log not readable; grant the process read access (Full Disk Access)")
	case errors.Is(err, model.ErrEmptyResult):
		return fiber.NewError(fiber.StatusNotFound,
			"no usage events for the configured device class")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to build report")
	}
}
