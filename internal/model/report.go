package model

import "time"

// DailyActionCount is one row of the per-day action report.
type DailyActionCount struct {
	Day    time.Time  `json:"day"`
	Team   Team       `json:"team"`
	Action ActionType `json:"action"`
	Count  int64      `json:"count"`
}

type ReportFilter struct {
	From time.Time
	To   time.Time
	Team Team
}
