package model

// GoalLevel classifies a value against a goal-derived threshold pair.
type GoalLevel string

const (
	GoalLevelLow    GoalLevel = "low"
	GoalLevelMedium GoalLevel = "medium"
	GoalLevelHigh   GoalLevel = "high"
)

// TodaySummary captures unnecessary usage for the reference date.
type TodaySummary struct {
	UnnecessaryHours float64   `json:"unnecessary_hours"`
	UnnecessaryLevel GoalLevel `json:"unnecessary_level"`
	Accesses         int       `json:"accesses"`
	AccessLevel      GoalLevel `json:"access_level"`
}

// DailyUsage is one date entry of the usage-hours trend. Date is a local
// calendar date in YYYY-MM-DD form.
type DailyUsage struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
}

// DailyPickups is one date entry of the pickup-count trend.
type DailyPickups struct {
	Date    string `json:"date"`
	Pickups int    `json:"pickups"`
}

// DayAchievement is one date entry of the goal-achievement view: total usage
// alongside the unnecessary subset for the same local date.
type DayAchievement struct {
	Date             string  `json:"date"`
	TotalHours       float64 `json:"total_hours"`
	UnnecessaryHours float64 `json:"unnecessary_hours"`
	Accesses         int     `json:"accesses"`
}

// AppUsage is a per-application usage total.
type AppUsage struct {
	App   string  `json:"app"`
	Hours float64 `json:"hours"`
}

// ReportMeta describes how a report was computed.
type ReportMeta struct {
	GeneratedAt         string   `json:"generated_at"`
	Timezone            string   `json:"timezone"`
	LatestEvent         string   `json:"latest_event,omitempty"`
	DeviceClass         string   `json:"device_class"`
	ScreenTimeGoalHours float64  `json:"screen_time_goal_hours"`
	PickupGoalCount     int      `json:"pickup_goal_count"`
	UnnecessaryApps     []string `json:"unnecessary_apps"`
	TrendWindowDays     int      `json:"trend_window_days"`
}

// UsageReport is the full aggregate set returned to the presentation layer.
// All values are plain data; rendering concerns stay with the consumer.
type UsageReport struct {
	Meta        ReportMeta       `json:"meta"`
	Today       TodaySummary     `json:"today"`
	DailyTrend  []DailyUsage     `json:"daily_trend"`
	Pickups     []DailyPickups   `json:"daily_pickups"`
	Achievement []DayAchievement `json:"achievement"`
	TopApps     []AppUsage       `json:"top_apps"`
}
