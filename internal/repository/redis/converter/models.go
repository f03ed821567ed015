package converter

import "time"

type SyncReportRedisModel struct {
	RunID      string                  `json:"run_id"`
	Status     string                  `json:"status"`
	Count      int                     `json:"count"`
	Pages      int                     `json:"pages"`
	Failed     []ItemFailureRedisModel `json:"failed"`
	Error      string                  `json:"error,omitempty"`
	StartedAt  time.Time               `json:"started_at"`
	FinishedAt time.Time               `json:"finished_at"`
}

type ItemFailureRedisModel struct {
	ExternalID string `json:"external_id"`
	Code       string `json:"code"`
	Page       int    `json:"page"`
	Reason     string `json:"reason"`
}
