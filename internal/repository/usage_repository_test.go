package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"screentime-metrics-service/internal/coredata"
	"screentime-metrics-service/internal/model"
)

type UsageRepositoryTestSuite struct {
	suite.Suite

	path       string
	repository UsageRepository
}

func TestUsageRepository(t *testing.T) {
	suite.Run(t, new(UsageRepositoryTestSuite))
}

const testSchema = `
CREATE TABLE ZOBJECT (
	Z_PK INTEGER PRIMARY KEY,
	ZSTREAMNAME TEXT,
	ZVALUESTRING TEXT,
	ZSTARTDATE REAL,
	ZENDDATE REAL,
	ZCREATIONDATE REAL,
	ZSECONDSFROMGMT INTEGER,
	ZSTRUCTUREDMETADATA INTEGER,
	ZSOURCE INTEGER
);
CREATE TABLE ZSTRUCTUREDMETADATA (Z_PK INTEGER PRIMARY KEY);
CREATE TABLE ZSOURCE (Z_PK INTEGER PRIMARY KEY, ZDEVICEID TEXT);
CREATE TABLE ZSYNCPEER (Z_PK INTEGER PRIMARY KEY, ZDEVICEID TEXT, ZMODEL TEXT);
`

func (s *UsageRepositoryTestSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "knowledgeC.db")

	gdb, err := gorm.Open(sqlite.Open(s.path), &gorm.Config{})
	s.Require().NoError(err)
	s.Require().NoError(gdb.Exec(testSchema).Error)

	s.seedDevice(gdb, 1, "device-a", "iPhone14,2")
	s.seedDevice(gdb, 2, "device-b", "iPad8,1")
	s.closeDB(gdb)

	s.repository = NewUsageRepository(s.path)
}

func (s *UsageRepositoryTestSuite) seedDevice(gdb *gorm.DB, pk int, deviceID, deviceModel string) {
	s.Require().NoError(gdb.Exec(
		"INSERT INTO ZSOURCE (Z_PK, ZDEVICEID) VALUES (?, ?)", pk, deviceID,
	).Error)
	s.Require().NoError(gdb.Exec(
		"INSERT INTO ZSYNCPEER (Z_PK, ZDEVICEID, ZMODEL) VALUES (?, ?, ?)", pk, deviceID, deviceModel,
	).Error)
}

func (s *UsageRepositoryTestSuite) seedEvent(stream, app string, start, end time.Time, sourcePK int) {
	gdb, err := gorm.Open(sqlite.Open(s.path), &gorm.Config{})
	s.Require().NoError(err)
	defer s.closeDB(gdb)

	s.Require().NoError(gdb.Exec(
		`INSERT INTO ZOBJECT (ZSTREAMNAME, ZVALUESTRING, ZSTARTDATE, ZENDDATE, ZCREATIONDATE, ZSECONDSFROMGMT, ZSOURCE)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		stream, app,
		coredata.ToRaw(start), coredata.ToRaw(end), coredata.ToRaw(end),
		0, sourcePK,
	).Error)
}

func (s *UsageRepositoryTestSuite) closeDB(gdb *gorm.DB) {
	sqlDB, err := gdb.DB()
	s.Require().NoError(err)
	s.Require().NoError(sqlDB.Close())
}

func (s *UsageRepositoryTestSuite) TestFetchEvents_OnlyAppUsageStream() {
	start := time.Date(2023, 6, 1, 8, 0, 0, 0, time.UTC)
	s.seedEvent("/app/usage", "com.netflix.Netflix", start, start.Add(30*time.Minute), 1)
	s.seedEvent("/display/isBacklit", "", start, start.Add(time.Minute), 1)

	events, err := s.repository.FetchEvents(context.Background(), model.QueryFilter{}, time.UTC)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal("com.netflix.Netflix", events[0].App)
}

func (s *UsageRepositoryTestSuite) TestFetchEvents_NormalizesInstants() {
	ny, err := time.LoadLocation("America/New_York")
	s.Require().NoError(err)

	start := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)
	s.seedEvent("/app/usage", "com.netflix.Netflix", start, end, 1)

	events, err := s.repository.FetchEvents(context.Background(), model.QueryFilter{}, ny)
	s.Require().NoError(err)
	s.Require().Len(events, 1)

	ev := events[0]
	// Same instant, rendered in the requested zone.
	s.True(ev.StartTime.Equal(start))
	s.True(ev.EndTime.Equal(end))
	s.Equal(ny, ev.StartTime.Location())
	s.Equal(8, ev.StartTime.Hour(), "12:00 UTC is 08:00 in New York in June")
	s.InDelta(1800, ev.UsageSeconds, 1e-6)
	s.Equal("device-a", ev.DeviceID)
	s.Equal("iPhone14,2", ev.DeviceModel)
}

func (s *UsageRepositoryTestSuite) TestFetchEvents_OrderedMostRecentFirst() {
	day := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	s.seedEvent("/app/usage", "first", day.Add(8*time.Hour), day.Add(9*time.Hour), 1)
	s.seedEvent("/app/usage", "third", day.Add(20*time.Hour), day.Add(21*time.Hour), 1)
	s.seedEvent("/app/usage", "second", day.Add(12*time.Hour), day.Add(13*time.Hour), 1)

	events, err := s.repository.FetchEvents(context.Background(), model.QueryFilter{}, time.UTC)
	s.Require().NoError(err)
	s.Require().Len(events, 3)
	s.Equal("third", events[0].App)
	s.Equal("second", events[1].App)
	s.Equal("first", events[2].App)
}

func (s *UsageRepositoryTestSuite) TestFetchEvents_DateBoundsInclusive() {
	day := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	s.seedEvent("/app/usage", "before", day.Add(-2*time.Hour), day.Add(-1*time.Hour), 1)
	s.seedEvent("/app/usage", "inside", day.Add(8*time.Hour), day.Add(9*time.Hour), 1)
	s.seedEvent("/app/usage", "after", day.Add(30*time.Hour), day.Add(31*time.Hour), 1)

	filter := model.QueryFilter{
		StartDate: day,
		EndDate:   day.Add(24 * time.Hour),
	}
	events, err := s.repository.FetchEvents(context.Background(), filter, time.UTC)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal("inside", events[0].App)

	// An event starting exactly on the boundary is included.
	s.seedEvent("/app/usage", "boundary", day, day.Add(time.Hour), 1)
	events, err = s.repository.FetchEvents(context.Background(), filter, time.UTC)
	s.Require().NoError(err)
	s.Len(events, 2)
}

func (s *UsageRepositoryTestSuite) TestFetchEvents_DeviceFilter() {
	start := time.Date(2023, 6, 1, 8, 0, 0, 0, time.UTC)
	s.seedEvent("/app/usage", "on-a", start, start.Add(time.Hour), 1)
	s.seedEvent("/app/usage", "on-b", start, start.Add(time.Hour), 2)

	filter := model.QueryFilter{DeviceIDs: []string{"device-a"}}
	events, err := s.repository.FetchEvents(context.Background(), filter, time.UTC)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal("on-a", events[0].App)
	s.Equal("device-a", events[0].DeviceID)
}

func (s *UsageRepositoryTestSuite) TestFetchEvents_MissingDeviceModelIsEmpty() {
	gdb, err := gorm.Open(sqlite.Open(s.path), &gorm.Config{})
	s.Require().NoError(err)
	s.Require().NoError(gdb.Exec(
		"INSERT INTO ZSOURCE (Z_PK, ZDEVICEID) VALUES (?, ?)", 3, "device-c",
	).Error)
	s.closeDB(gdb)

	start := time.Date(2023, 6, 1, 8, 0, 0, 0, time.UTC)
	s.seedEvent("/app/usage", "no-peer", start, start.Add(time.Hour), 3)

	events, err := s.repository.FetchEvents(context.Background(), model.QueryFilter{}, time.UTC)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal("", events[0].DeviceModel)
}

func (s *UsageRepositoryTestSuite) TestFetchEvents_SourceMissing() {
	repo := NewUsageRepository(filepath.Join(s.T().TempDir(), "nope.db"))
	_, err := repo.FetchEvents(context.Background(), model.QueryFilter{}, time.UTC)
	s.Require().Error(err)
	s.True(errors.Is(err, model.ErrSourceNotFound))
}
