package catalog

import (
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
)

// SyncRunStatus is the state of an article sync run
type SyncRunStatus string

const (
	SyncRunPending   SyncRunStatus = "pending"
	SyncRunRunning   SyncRunStatus = "running"
	SyncRunCompleted SyncRunStatus = "completed"
	SyncRunPartial   SyncRunStatus = "partial"
	SyncRunFailed    SyncRunStatus = "failed"
)

// IsTerminal reports whether the run has finished
func (s SyncRunStatus) IsTerminal() bool {
	return s == SyncRunCompleted || s == SyncRunPartial || s == SyncRunFailed
}

// ArticleSyncRun records the progress of one pull of the Robaws article catalogue
type ArticleSyncRun struct {
	shared.BaseAggregateRoot
	Trigger     string        `gorm:"type:varchar(20);not null;default:'schedule'"`
	Status      SyncRunStatus `gorm:"type:varchar(20);not null;index"`
	Total       int           `gorm:"not null;default:0"`
	Processed   int           `gorm:"not null;default:0"`
	Created     int           `gorm:"not null;default:0"`
	Updated     int           `gorm:"not null;default:0"`
	Failed      int           `gorm:"not null;default:0"`
	Deactivated int           `gorm:"not null;default:0"`
	StartedAt   *time.Time
	FinishedAt  *time.Time
	LastError   string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ArticleSyncRun) TableName() string {
	return "article_sync_runs"
}

// NewArticleSyncRun creates a pending run. Trigger is "schedule" or "manual".
func NewArticleSyncRun(trigger string) *ArticleSyncRun {
	if trigger == "" {
		trigger = "schedule"
	}
	return &ArticleSyncRun{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Trigger:           trigger,
		Status:            SyncRunPending,
	}
}

// Start marks the run as running
func (r *ArticleSyncRun) Start() error {
	if r.Status != SyncRunPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending sync runs can be started")
	}
	now := time.Now()
	r.Status = SyncRunRunning
	r.StartedAt = &now
	r.Touch()
	return nil
}

// SetTotal records the number of articles Robaws reports
func (r *ArticleSyncRun) SetTotal(total int) {
	if total > r.Total {
		r.Total = total
	}
}

// RecordCreated counts a newly cached article
func (r *ArticleSyncRun) RecordCreated() {
	r.Processed++
	r.Created++
}

// RecordUpdated counts a refreshed article
func (r *ArticleSyncRun) RecordUpdated() {
	r.Processed++
	r.Updated++
}

// RecordFailure counts an article that could not be stored
func (r *ArticleSyncRun) RecordFailure(err error) {
	r.Processed++
	r.Failed++
	if err != nil {
		r.LastError = err.Error()
	}
}

// RecordDeactivated counts articles switched off because Robaws dropped them
func (r *ArticleSyncRun) RecordDeactivated(n int) {
	r.Deactivated += n
}

// IsStale reports whether an unfinished run has made no progress since
// before now-after. Such a run was abandoned by a crashed or stopped process.
func (r *ArticleSyncRun) IsStale(now time.Time, after time.Duration) bool {
	if r.Status.IsTerminal() || after <= 0 {
		return false
	}
	last := r.UpdatedAt
	if last.IsZero() {
		last = r.CreatedAt
	}
	return last.Before(now.Add(-after))
}

// Finish closes the run as completed, or partial when some articles failed
func (r *ArticleSyncRun) Finish() {
	now := time.Now()
	r.FinishedAt = &now
	if r.Failed > 0 {
		r.Status = SyncRunPartial
	} else {
		r.Status = SyncRunCompleted
	}
	r.Touch()
	r.AddDomainEvent(NewArticleSyncCompletedEvent(r))
}

// Fail closes the run after an error that stopped it
func (r *ArticleSyncRun) Fail(err error) {
	now := time.Now()
	r.FinishedAt = &now
	r.Status = SyncRunFailed
	if err != nil {
		r.LastError = err.Error()
	}
	r.Touch()
	r.AddDomainEvent(NewArticleSyncCompletedEvent(r))
}

// ProgressPercent returns processed/total as a percentage in [0,100]
func (r *ArticleSyncRun) ProgressPercent() int {
	if r.Status == SyncRunCompleted || r.Status == SyncRunPartial {
		return 100
	}
	if r.Total <= 0 {
		return 0
	}
	p := r.Processed * 100 / r.Total
	if p > 100 {
		p = 100
	}
	return p
}

// Duration returns how long the run took, or has taken so far
func (r *ArticleSyncRun) Duration() time.Duration {
	if r.StartedAt == nil {
		return 0
	}
	end := time.Now()
	if r.FinishedAt != nil {
		end = *r.FinishedAt
	}
	return end.Sub(*r.StartedAt)
}
