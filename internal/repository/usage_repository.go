package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"screentime-metrics-service/internal/coredata"
	"screentime-metrics-service/internal/db"
	"screentime-metrics-service/internal/model"
)

// UsageRepository defines read operations against the activity log.
type UsageRepository interface {
	// FetchEvents reads application usage events matching the filter,
	// normalized into loc, most recent first.
	FetchEvents(ctx context.Context, filter model.QueryFilter, loc *time.Location) ([]model.UsageEvent, error)
}

type usageRepository struct {
	path string
}

// NewUsageRepository creates a UsageRepository reading from the activity log
// at path. The connection is scoped to each fetch: opened for the duration
// of one query and closed on every exit path.
func NewUsageRepository(path string) UsageRepository {
	return &usageRepository{path: path}
}

const baseEventQuery = `
SELECT
	ZOBJECT.ZVALUESTRING AS app,
	ZOBJECT.ZENDDATE - ZOBJECT.ZSTARTDATE AS usage_seconds,
	ZOBJECT.ZSTARTDATE AS start_raw,
	ZOBJECT.ZENDDATE AS end_raw,
	ZOBJECT.ZCREATIONDATE AS created_raw,
	ZOBJECT.ZSECONDSFROMGMT AS tz_offset,
	ZSOURCE.ZDEVICEID AS device_id,
	ZSYNCPEER.ZMODEL AS device_model
FROM ZOBJECT
LEFT JOIN ZSTRUCTUREDMETADATA ON ZOBJECT.ZSTRUCTUREDMETADATA = ZSTRUCTUREDMETADATA.Z_PK
LEFT JOIN ZSOURCE ON ZOBJECT.ZSOURCE = ZSOURCE.Z_PK
LEFT JOIN ZSYNCPEER ON ZSOURCE.ZDEVICEID = ZSYNCPEER.ZDEVICEID
WHERE ZOBJECT.ZSTREAMNAME = '/app/usage'`

// eventRow mirrors one result row in the raw stored basis. Joined columns
// are nullable.
type eventRow struct {
	App          sql.NullString  `gorm:"column:app"`
	UsageSeconds sql.NullFloat64 `gorm:"column:usage_seconds"`
	StartRaw     float64         `gorm:"column:start_raw"`
	EndRaw       float64         `gorm:"column:end_raw"`
	CreatedRaw   sql.NullFloat64 `gorm:"column:created_raw"`
	TZOffset     sql.NullInt64   `gorm:"column:tz_offset"`
	DeviceID     sql.NullString  `gorm:"column:device_id"`
	DeviceModel  sql.NullString  `gorm:"column:device_model"`
}

func (r *usageRepository) FetchEvents(ctx context.Context, filter model.QueryFilter, loc *time.Location) ([]model.UsageEvent, error) {
	gdb, err := db.Open(r.path)
	if err != nil {
		return nil, err
	}
	defer db.Close(gdb)

	query, args := buildEventQuery(filter)

	var rows []eventRow
	if err := gdb.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, &model.QueryError{Err: err}
	}

	events := make([]model.UsageEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, normalizeRow(row, loc))
	}
	return events, nil
}

// buildEventQuery composes the optional predicates onto the base query.
// Boundaries are expressed in the raw stored epoch basis so they compare
// directly against the stored columns.
func buildEventQuery(filter model.QueryFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString(baseEventQuery)

	var args []any
	if !filter.StartDate.IsZero() {
		sb.WriteString(" AND ZOBJECT.ZSTARTDATE >= ?")
		args = append(args, coredata.ToRaw(filter.StartDate))
	}
	if !filter.EndDate.IsZero() {
		sb.WriteString(" AND ZOBJECT.ZENDDATE <= ?")
		args = append(args, coredata.ToRaw(filter.EndDate))
	}
	if len(filter.DeviceIDs) > 0 {
		sb.WriteString(" AND ZSOURCE.ZDEVICEID IN ?")
		args = append(args, filter.DeviceIDs)
	}
	sb.WriteString(" ORDER BY ZOBJECT.ZSTARTDATE DESC")

	return sb.String(), args
}

// normalizeRow applies the epoch shift and timezone conversion to all three
// instants of a row, exactly once, and empties out missing joined columns.
func normalizeRow(row eventRow, loc *time.Location) model.UsageEvent {
	ev := model.UsageEvent{
		App:          row.App.String,
		UsageSeconds: row.UsageSeconds.Float64,
		StartTime:    coredata.ToLocal(row.StartRaw, loc),
		EndTime:      coredata.ToLocal(row.EndRaw, loc),
		DeviceID:     row.DeviceID.String,
		DeviceModel:  row.DeviceModel.String,
	}
	if row.CreatedRaw.Valid {
		ev.CreatedAt = coredata.ToLocal(row.CreatedRaw.Float64, loc)
	}
	if row.TZOffset.Valid {
		ev.TZOffsetSeconds = int(row.TZOffset.Int64)
	}
	if ev.UsageSeconds < 0 {
		ev.UsageSeconds = 0
	}
	return ev
}
