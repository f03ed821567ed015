package domain

import "time"

type SyncRunStatus string

const (
	SyncRunRunning   SyncRunStatus = "running"
	SyncRunSucceeded SyncRunStatus = "succeeded"
	SyncRunFailed    SyncRunStatus = "failed"
)

// SyncRun описывает один запуск синхронизации каталога.
type SyncRun struct {
	ID         string
	Status     SyncRunStatus
	Pages      int
	Processed  int
	Failures   []ItemFailure
	Error      string
	StartedAt  time.Time
	FinishedAt *time.Time
}

// ItemFailure — товар, который не удалось нормализовать или сохранить.
type ItemFailure struct {
	ExternalID string `json:"external_id"`
	Code       string `json:"code"`
	Page       int    `json:"page"`
	Reason     string `json:"reason"`
}
