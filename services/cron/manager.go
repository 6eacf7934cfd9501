package cron

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/robfig/cron/v3"
	"github.com/sahilchouksey/campus-events/model"
	"github.com/sahilchouksey/campus-events/services"
	"gorm.io/gorm"
)

const (
	JobCleanupExpiredTokens = "cleanup_expired_tokens"
	JobArchiveRosters       = "archive_rosters"
	JobPendingReviewReport  = "pending_review_report"
	JobCleanupOldJobLogs    = "cleanup_old_job_logs"
)

// jobTimeout bounds a single job run
const jobTimeout = 10 * time.Minute

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron    *cron.Cron
	db      *gorm.DB
	archive services.ObjectStore
	now     func() time.Time
}

// NewCronManager creates a new cron manager. archive may be nil, in which
// case the roster archive job is not scheduled.
func NewCronManager(db *gorm.DB, archive services.ObjectStore) *CronManager {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron:    c,
		db:      db,
		archive: archive,
		now:     time.Now,
	}
}

// Start registers every job and starts the scheduler
func (m *CronManager) Start() error {
	log.Info("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	log.Info("Cron jobs started successfully")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (m *CronManager) Stop() {
	log.Info("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Info("Cron jobs stopped")
}

type job struct {
	name     string
	schedule string
	run      func(ctx context.Context) (string, error)
}

func (m *CronManager) jobs() []job {
	jobs := []job{
		// Every hour: drop expired blacklist entries
		{JobCleanupExpiredTokens, "0 0 * * * *", m.CleanupExpiredTokens},
		// Daily at 8 AM: remind admins about the review queue
		{JobPendingReviewReport, "0 0 8 * * *", m.PendingReviewReport},
		// Daily at 2 AM: keep 90 days of job history
		{JobCleanupOldJobLogs, "0 0 2 * * *", m.CleanupOldJobLogs},
	}
	if m.archive != nil {
		// Daily at 1 AM: archive rosters of yesterday's events
		jobs = append(jobs, job{JobArchiveRosters, "0 0 1 * * *", m.ArchiveRosters})
	}
	return jobs
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	for _, j := range m.jobs() {
		j := j
		if _, err := m.cron.AddFunc(j.schedule, func() { m.runJob(j.name, j.run) }); err != nil {
			return err
		}
	}

	log.Info("All cron jobs registered successfully")
	return nil
}

// runJob executes fn and records the run in cron_job_logs
func (m *CronManager) runJob(name string, fn func(ctx context.Context) (string, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	entry := m.logJobStart(name)
	message, err := fn(ctx)
	if err != nil {
		m.logJobError(entry, err)
		return
	}
	m.logJobComplete(entry, message)
}

// logJobStart logs the start of a cron job
func (m *CronManager) logJobStart(jobName string) *model.CronJobLog {
	log.Infof("[CRON] Starting job: %s", jobName)

	entry := &model.CronJobLog{
		JobName:   jobName,
		Status:    model.CronStatusStarted,
		StartedAt: m.now(),
	}
	if err := m.db.Create(entry).Error; err != nil {
		log.Warnf("[CRON] Failed to record start of %s: %v", jobName, err)
	}
	return entry
}

// logJobComplete logs successful completion of a cron job
func (m *CronManager) logJobComplete(entry *model.CronJobLog, message string) {
	log.Infof("[CRON] Completed job: %s - %s", entry.JobName, message)
	m.finish(entry, map[string]interface{}{
		"status":  model.CronStatusCompleted,
		"message": message,
	})
}

// logJobError logs a cron job error
func (m *CronManager) logJobError(entry *model.CronJobLog, err error) {
	log.Errorf("[CRON] Error in job: %s - %v", entry.JobName, err)
	m.finish(entry, map[string]interface{}{
		"status":    model.CronStatusFailed,
		"error_msg": err.Error(),
	})
}

func (m *CronManager) finish(entry *model.CronJobLog, updates map[string]interface{}) {
	if entry.ID == 0 {
		return
	}

	completed := m.now()
	updates["completed_at"] = completed
	updates["duration"] = completed.Sub(entry.StartedAt).Milliseconds()

	if err := m.db.Model(entry).Updates(updates).Error; err != nil {
		log.Warnf("[CRON] Failed to record end of %s: %v", entry.JobName, err)
	}
}
