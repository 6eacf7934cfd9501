package cron

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/campus-events/model"
	"github.com/sahilchouksey/campus-events/services"
	"github.com/sahilchouksey/campus-events/utils/auth"
	"gorm.io/datatypes"
)

const (
	// jobLogRetention is how long cron_job_logs rows are kept
	jobLogRetention = 90 * 24 * time.Hour
	// staleProposalAge flags proposals waiting longer than this
	staleProposalAge = 72 * time.Hour
)

// CleanupExpiredTokens removes blacklist entries whose tokens have expired anyway
func (m *CronManager) CleanupExpiredTokens(ctx context.Context) (string, error) {
	removed, err := auth.NewBlacklistService(m.db).CleanupExpiredTokens(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to clean token blacklist: %w", err)
	}
	return fmt.Sprintf("Removed %d expired tokens", removed), nil
}

// ArchiveRosters uploads the roster of every event that took place yesterday
func (m *CronManager) ArchiveRosters(ctx context.Context) (string, error) {
	if m.archive == nil {
		return "Archive storage not configured", nil
	}

	day := m.now().AddDate(0, 0, -1)

	var events []model.Event
	err := m.db.WithContext(ctx).
		Where("date = ?", datatypes.Date(day)).
		Where("EXISTS (SELECT 1 FROM participants p WHERE p.event_id = events.id)").
		Order("id ASC").
		Find(&events).Error
	if err != nil {
		return "", fmt.Errorf("failed to query events: %w", err)
	}

	attendance := services.NewAttendanceService(m.db)
	archived, failed := 0, 0
	for _, event := range events {
		participants, err := attendance.ListParticipants(ctx, event.ID)
		if err != nil {
			log.Warnf("[CRON] Failed to load roster for event %d: %v", event.ID, err)
			failed++
			continue
		}

		data, err := services.EncodeRoster(participants)
		if err != nil {
			log.Warnf("[CRON] Failed to encode roster for event %d: %v", event.ID, err)
			failed++
			continue
		}

		export := &services.RosterExport{FileName: services.RosterFileName(event.ID, day), Data: data}
		if _, err := services.ArchiveRosterCSV(ctx, m.archive, event.ID, export); err != nil {
			log.Warnf("[CRON] Failed to archive roster for event %d: %v", event.ID, err)
			failed++
			continue
		}
		archived++
	}

	if failed > 0 && archived == 0 {
		return "", fmt.Errorf("all %d roster archives failed", failed)
	}
	return fmt.Sprintf("Archived %d rosters, %d failed", archived, failed), nil
}

// PendingReviewReport logs proposals that have waited too long for a decision
func (m *CronManager) PendingReviewReport(ctx context.Context) (string, error) {
	var pending []model.Event
	err := m.db.WithContext(ctx).
		Where("status = ?", model.EventStatusPending).
		Order("created_at ASC").
		Find(&pending).Error
	if err != nil {
		return "", fmt.Errorf("failed to query pending events: %w", err)
	}

	cutoff := m.now().Add(-staleProposalAge)
	var stale []string
	for _, e := range pending {
		if e.CreatedAt.Before(cutoff) {
			stale = append(stale, fmt.Sprintf("#%d %q", e.ID, e.Title))
		}
	}

	if len(stale) > 0 {
		log.Warnf("[CRON] %d proposals pending for more than %s: %s", len(stale), staleProposalAge, strings.Join(stale, ", "))
	}
	return fmt.Sprintf("%d pending, %d stale", len(pending), len(stale)), nil
}

// CleanupOldJobLogs trims the job history
func (m *CronManager) CleanupOldJobLogs(ctx context.Context) (string, error) {
	cutoff := m.now().Add(-jobLogRetention)
	result := m.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&model.CronJobLog{})
	if result.Error != nil {
		return "", fmt.Errorf("failed to clean cron logs: %w", result.Error)
	}
	return fmt.Sprintf("Cleaned %d old cron logs", result.RowsAffected), nil
}
