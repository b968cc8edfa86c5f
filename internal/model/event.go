package model

import (
	"time"
)

// UsageEvent is a single application usage session extracted from the
// activity log, with all instants already normalized to the caller's
// timezone.
type UsageEvent struct {
	App          string    `json:"app"`
	UsageSeconds float64   `json:"usage_seconds"`
	UsageHours   float64   `json:"usage_hours"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	CreatedAt    time.Time `json:"created_at"`

	// TZOffsetSeconds is the offset recorded at event time. Informational
	// only; it does not override the normalization timezone.
	TZOffsetSeconds int `json:"tz_offset_seconds"`

	DeviceID string `json:"device_id"`
	// DeviceModel may be absent in the source and is normalized to "".
	DeviceModel string `json:"device_model"`
}

// QueryFilter restricts which events are read from the log. Zero-valued
// fields are ignored; non-zero predicates are AND-combined.
type QueryFilter struct {
	// StartDate is an inclusive lower bound on the event start instant.
	StartDate time.Time
	// EndDate is an inclusive upper bound on the event end instant.
	EndDate time.Time
	// DeviceIDs, when non-empty, restricts results to events from these
	// devices.
	DeviceIDs []string
}
