package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"api/metrics"
	"api/models"
	"api/realtime"

	"gorm.io/gorm"
)

// Triggers for a lifecycle reconciliation run
const (
	TriggerCron   = "cron"
	TriggerManual = "manual"
)

// LifecycleEngine decides, for every competition, whether it has ended, and
// if so computes and persists its winner set exactly once until an
// invalidating mutation resets the processed flag. Runs are serialized per
// process; the persist step is additionally guarded by a compare-and-set on
// is_processed so concurrent callers cannot double-write winners.
type LifecycleEngine struct {
	db *gorm.DB

	// Now is the engine clock. Tests override it to simulate time.
	Now func() time.Time

	mu sync.Mutex
}

// Lifecycle is the process-wide engine, set by InitLifecycle
var Lifecycle *LifecycleEngine

// InitLifecycle creates the shared lifecycle engine
func InitLifecycle(db *gorm.DB) *LifecycleEngine {
	Lifecycle = NewLifecycleEngine(db)
	return Lifecycle
}

// NewLifecycleEngine creates an engine with the wall clock
func NewLifecycleEngine(db *gorm.DB) *LifecycleEngine {
	return &LifecycleEngine{db: db, Now: time.Now}
}

// ReconcileAll scans for competitions whose end date has passed and that
// have not been processed yet, and processes each one independently. A
// failure on one competition never aborts the rest; the first error is
// returned after every due competition has been attempted, so on-demand
// callers can surface it while the cron path logs and moves on.
func (e *LifecycleEngine) ReconcileAll(trigger string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	metrics.LifecycleRuns.WithLabelValues(trigger).Inc()
	start := time.Now()
	defer func() {
		metrics.LifecycleRunDuration.Observe(time.Since(start).Seconds())
	}()

	var due []models.Competition
	if err := e.db.
		Where("end_date <= ? AND is_processed = ?", e.Now(), false).
		Find(&due).Error; err != nil {
		return fmt.Errorf("failed to scan due competitions: %w", err)
	}

	var firstErr error
	for _, competition := range due {
		if _, err := e.process(competition.ID); err != nil {
			metrics.LifecycleErrors.Inc()
			log.Printf("failed to process winners for competition %s: %v", competition.ID, err)
			if firstErr == nil {
				firstErr = fmt.Errorf("competition %s: %w", competition.ID, err)
			}
		}
	}
	return firstErr
}

// ProcessCompetition computes and persists the winner set for a single
// competition, returning the winners that were written. A competition that
// was already processed by a concurrent caller yields an empty result.
func (e *LifecycleEngine) ProcessCompetition(competitionID string) ([]models.Winner, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.process(competitionID)
}

// process runs winner selection. The caller must hold e.mu.
//
// Winners are every submission whose score equals the maximum score over
// the competition, provided that maximum is positive; ties all win. The
// winner list keeps the stable order created_at ASC, id ASC (earliest
// submission first).
func (e *LifecycleEngine) process(competitionID string) ([]models.Winner, error) {
	defer metrics.RecordDBOperation("process_winners", "competitions", time.Now())

	var submissions []models.Submission
	if err := e.db.
		Where("competition_id = ?", competitionID).
		Order("created_at ASC, id ASC").
		Find(&submissions).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch submissions: %w", err)
	}

	var maxScore float64
	for _, s := range submissions {
		if s.Score > maxScore {
			maxScore = s.Score
		}
	}

	winners := []models.Winner{}
	if maxScore > 0 {
		for _, s := range submissions {
			if s.Score == maxScore {
				winners = append(winners, models.Winner{
					Email:        s.Author,
					Score:        s.Score,
					SubmissionID: s.ID,
					Image:        s.Image,
				})
			}
		}
	}

	// Single atomic update; the is_processed guard makes the write safe
	// under concurrent engine invocations across processes. The write goes
	// through struct fields so the winners serializer runs.
	result := e.db.Model(&models.Competition{}).
		Where("id = ? AND is_processed = ?", competitionID, false).
		Select("Winners", "IsProcessed").
		Updates(models.Competition{Winners: winners, IsProcessed: true})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to persist winners: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return []models.Winner{}, nil
	}

	metrics.CompetitionsProcessed.Inc()
	realtime.Broadcast(realtime.Event{
		CompetitionID: competitionID,
		Type:          realtime.EventWinnersProcessed,
		Winners:       winners,
	})
	return winners, nil
}

// Invalidate clears a competition's winner set and processed flag so the
// engine recomputes it on the next run.
func (e *LifecycleEngine) Invalidate(competitionID string) error {
	return e.db.Model(&models.Competition{}).
		Where("id = ?", competitionID).
		Select("Winners", "IsProcessed").
		Updates(models.Competition{Winners: []models.Winner{}}).Error
}
