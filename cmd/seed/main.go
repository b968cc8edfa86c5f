// Command seed generates a knowledgeC-shaped SQLite file populated with
// synthetic application usage events, so the service can be exercised on
// machines without a real Screen Time log.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"screentime-metrics-service/internal/coredata"
)

type Config struct {
	Out          string
	Days         int
	EventsPerDay int
	Apps         string
	Seed         int64
}

func parseFlags() *Config {
	c := &Config{}
	flag.StringVar(&c.Out, "out", "knowledgeC.db", "Output database path")
	flag.IntVar(&c.Days, "days", 28, "Days of history to generate")
	flag.IntVar(&c.EventsPerDay, "events-per-day", 40, "Usage events per device per day")
	flag.StringVar(&c.Apps, "apps", "com.netflix.Netflix,com.apple.mobilemail,com.apple.mobilesafari,Tweetie2,com.spotify.client", "Comma-separated app identifiers")
	flag.Int64Var(&c.Seed, "seed", 0, "Random seed (0 = time-based)")
	flag.Parse()

	if c.Days <= 0 || c.EventsPerDay <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -days and -events-per-day must be positive")
		flag.Usage()
		os.Exit(1)
	}

	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}

	return c
}

const schema = `
CREATE TABLE IF NOT EXISTS ZOBJECT (
	Z_PK INTEGER PRIMARY KEY AUTOINCREMENT,
	ZSTREAMNAME TEXT,
	ZVALUESTRING TEXT,
	ZSTARTDATE REAL,
	ZENDDATE REAL,
	ZCREATIONDATE REAL,
	ZSECONDSFROMGMT INTEGER,
	ZSTRUCTUREDMETADATA INTEGER,
	ZSOURCE INTEGER
);
CREATE TABLE IF NOT EXISTS ZSTRUCTUREDMETADATA (Z_PK INTEGER PRIMARY KEY AUTOINCREMENT);
CREATE TABLE IF NOT EXISTS ZSOURCE (Z_PK INTEGER PRIMARY KEY AUTOINCREMENT, ZDEVICEID TEXT);
CREATE TABLE IF NOT EXISTS ZSYNCPEER (Z_PK INTEGER PRIMARY KEY AUTOINCREMENT, ZDEVICEID TEXT, ZMODEL TEXT);
`

type device struct {
	pk    int
	id    string
	model string
}

func main() {
	cfg := parseFlags()
	rng := rand.New(rand.NewSource(cfg.Seed))

	gdb, err := gorm.Open(sqlite.Open(cfg.Out), &gorm.Config{})
	if err != nil {
		log.Fatalf("open %s: %v", cfg.Out, err)
	}

	if err := gdb.Exec(schema).Error; err != nil {
		log.Fatalf("create schema: %v", err)
	}

	devices := []device{
		{pk: 1, id: "seed-device-iphone", model: "iPhone14,2"},
		{pk: 2, id: "seed-device-ipad", model: "iPad8,1"},
	}
	for _, d := range devices {
		if err := gdb.Exec("INSERT INTO ZSOURCE (Z_PK, ZDEVICEID) VALUES (?, ?)", d.pk, d.id).Error; err != nil {
			log.Fatalf("insert source: %v", err)
		}
		if err := gdb.Exec("INSERT INTO ZSYNCPEER (Z_PK, ZDEVICEID, ZMODEL) VALUES (?, ?, ?)", d.pk, d.id, d.model).Error; err != nil {
			log.Fatalf("insert peer: %v", err)
		}
	}

	apps := strings.Split(cfg.Apps, ",")
	now := time.Now()
	total := 0

	for dayOffset := cfg.Days - 1; dayOffset >= 0; dayOffset-- {
		day := now.AddDate(0, 0, -dayOffset).Truncate(24 * time.Hour)
		for _, d := range devices {
			for i := 0; i < cfg.EventsPerDay; i++ {
				app := strings.TrimSpace(apps[rng.Intn(len(apps))])
				start := day.Add(time.Duration(7+rng.Intn(16)) * time.Hour).
					Add(time.Duration(rng.Intn(3600)) * time.Second)
				duration := time.Duration(30+rng.Intn(2700)) * time.Second
				end := start.Add(duration)

				err := gdb.Exec(
					`INSERT INTO ZOBJECT (ZSTREAMNAME, ZVALUESTRING, ZSTARTDATE, ZENDDATE, ZCREATIONDATE, ZSECONDSFROMGMT, ZSOURCE)
					 VALUES (?, ?, ?, ?, ?, ?, ?)`,
					"/app/usage", app,
					coredata.ToRaw(start), coredata.ToRaw(end), coredata.ToRaw(end),
					secondsFromGMT(start), d.pk,
				).Error
				if err != nil {
					log.Fatalf("insert event: %v", err)
				}
				total++
			}
		}
	}

	sqlDB, err := gdb.DB()
	if err == nil {
		_ = sqlDB.Close()
	}

	log.Printf("wrote %d events across %d days to %s (seed %d)", total, cfg.Days, cfg.Out, cfg.Seed)
}

func secondsFromGMT(t time.Time) int {
	_, offset := t.Zone()
	return offset
}
