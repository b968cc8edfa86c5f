package service

import (
	"strings"

	"screentime-metrics-service/internal/model"
)

// projectEvents derives usage hours and restricts events to the target
// device class via a case-insensitive substring match on the device model.
// An empty deviceClass matches every event. A projection with no surviving
// events yields ErrEmptyResult so "no data" stays distinguishable from zero
// usage.
func projectEvents(events []model.UsageEvent, deviceClass string) ([]model.UsageEvent, error) {
	class := strings.ToLower(deviceClass)
	projected := make([]model.UsageEvent, 0, len(events))
	for _, ev := range events {
		if class != "" && !strings.Contains(strings.ToLower(ev.DeviceModel), class) {
			continue
		}
		if ev.UsageSeconds < 0 {
			ev.UsageSeconds = 0
		}
		ev.UsageHours = ev.UsageSeconds / 3600
		projected = append(projected, ev)
	}
	if len(projected) == 0 {
		return nil, model.ErrEmptyResult
	}
	return projected, nil
}
