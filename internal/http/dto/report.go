package dto

import "querydesk.app/engine/internal/model"

const DayLayout = "2006-01-02"

type DailyActionResponse struct {
	Day    string `json:"day"`
	Team   string `json:"team"`
	Action string `json:"action"`
	Count  int64  `json:"count"`
}

func ToDailyActionResponses(rows []model.DailyActionCount) []DailyActionResponse {
	out := make([]DailyActionResponse, len(rows))
	for i, r := range rows {
		out[i] = DailyActionResponse{
			Day:    r.Day.Format(DayLayout),
			Team:   string(r.Team),
			Action: ActionName(r.Action),
			Count:  r.Count,
		}
	}
	return out
}

// SyncResponse tells client surfaces how often to poll.
type SyncResponse struct {
	ListIntervalSeconds   int `json:"listIntervalSeconds"`
	ThreadIntervalSeconds int `json:"threadIntervalSeconds"`
}
