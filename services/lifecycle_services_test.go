package services_test

import (
	"testing"
	"time"

	"api/models"
	"api/services"
	"api/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createCompetition(t *testing.T, db *gorm.DB, name string, start, end time.Time) models.Competition {
	t.Helper()
	competition := models.Competition{
		Name:        name,
		Description: "test competition",
		Start:       start,
		End:         end,
		Background:  "/images/competitions/bg.png",
		Awards:      "Gold medal",
		Winners:     []models.Winner{},
	}
	require.NoError(t, db.Create(&competition).Error)
	return competition
}

func createSubmission(t *testing.T, db *gorm.DB, competitionID, author string, score float64, createdAt time.Time) models.Submission {
	t.Helper()
	submission := models.Submission{
		CompetitionID: competitionID,
		Author:        author,
		Image:         "/images/submissions/" + author + ".png",
		Score:         score,
		CreatedAt:     createdAt,
	}
	require.NoError(t, db.Create(&submission).Error)
	return submission
}

func reload(t *testing.T, db *gorm.DB, id string) models.Competition {
	t.Helper()
	var competition models.Competition
	require.NoError(t, db.First(&competition, "id = ?", id).Error)
	return competition
}

func TestReconcileAllSelectsTiedWinners(t *testing.T) {
	db := testutil.Setup(t)
	start := testutil.Date(2025, time.March, 1)
	end := testutil.Date(2025, time.March, 10)
	competition := createCompetition(t, db, "Spring Art Challenge", start, end)

	base := start.Add(time.Hour)
	createSubmission(t, db, competition.ID, "alice@example.com", 8, base)
	createSubmission(t, db, competition.ID, "bob@example.com", 8, base.Add(time.Hour))
	createSubmission(t, db, competition.ID, "carol@example.com", 5, base.Add(2*time.Hour))

	testutil.SetNow(end.Add(time.Hour))
	require.NoError(t, services.Lifecycle.ReconcileAll(services.TriggerCron))

	got := reload(t, db, competition.ID)
	assert.True(t, got.IsProcessed)
	require.Len(t, got.Winners, 2)
	assert.Equal(t, "alice@example.com", got.Winners[0].Email)
	assert.Equal(t, "bob@example.com", got.Winners[1].Email)
	assert.Equal(t, float64(8), got.Winners[0].Score)
}

func TestWinnerSnapshotRoundTrips(t *testing.T) {
	db := testutil.Setup(t)
	start := testutil.Date(2025, time.March, 1)
	end := testutil.Date(2025, time.March, 10)
	competition := createCompetition(t, db, "Snapshot", start, end)
	submission := createSubmission(t, db, competition.ID, "alice@example.com", 8, start.Add(time.Hour))

	testutil.SetNow(end.Add(time.Hour))
	winners, err := services.Lifecycle.ProcessCompetition(competition.ID)
	require.NoError(t, err)
	require.Len(t, winners, 1)

	// Every snapshot field survives the write and read back
	got := reload(t, db, competition.ID)
	require.Len(t, got.Winners, 1)
	assert.Equal(t, submission.Author, got.Winners[0].Email)
	assert.Equal(t, submission.Score, got.Winners[0].Score)
	assert.Equal(t, submission.ID, got.Winners[0].SubmissionID)
	assert.Equal(t, submission.Image, got.Winners[0].Image)
}

func TestReconcileAllZeroScoresYieldNoWinners(t *testing.T) {
	db := testutil.Setup(t)
	start := testutil.Date(2025, time.March, 1)
	end := testutil.Date(2025, time.March, 10)
	competition := createCompetition(t, db, "Unscored Challenge", start, end)

	createSubmission(t, db, competition.ID, "alice@example.com", 0, start.Add(time.Hour))
	createSubmission(t, db, competition.ID, "bob@example.com", 0, start.Add(2*time.Hour))

	testutil.SetNow(end.Add(time.Hour))
	require.NoError(t, services.Lifecycle.ReconcileAll(services.TriggerCron))

	got := reload(t, db, competition.ID)
	assert.True(t, got.IsProcessed, "a competition with no positive scores is still marked processed")
	assert.Empty(t, got.Winners)
}

func TestReconcileAllEmptyCompetition(t *testing.T) {
	db := testutil.Setup(t)
	start := testutil.Date(2025, time.March, 1)
	end := testutil.Date(2025, time.March, 10)
	competition := createCompetition(t, db, "Ghost Town", start, end)

	testutil.SetNow(end.Add(time.Hour))
	require.NoError(t, services.Lifecycle.ReconcileAll(services.TriggerCron))

	got := reload(t, db, competition.ID)
	assert.True(t, got.IsProcessed)
	assert.Empty(t, got.Winners)
}

func TestReconcileAllSkipsRunningCompetitions(t *testing.T) {
	db := testutil.Setup(t)
	start := testutil.Date(2025, time.March, 1)
	end := testutil.Date(2025, time.March, 10)
	competition := createCompetition(t, db, "Still Running", start, end)
	createSubmission(t, db, competition.ID, "alice@example.com", 9, start.Add(time.Hour))

	testutil.SetNow(end.Add(-time.Hour))
	require.NoError(t, services.Lifecycle.ReconcileAll(services.TriggerCron))

	got := reload(t, db, competition.ID)
	assert.False(t, got.IsProcessed)
	assert.Empty(t, got.Winners)
}

func TestReconcileAllIsIdempotent(t *testing.T) {
	db := testutil.Setup(t)
	start := testutil.Date(2025, time.March, 1)
	end := testutil.Date(2025, time.March, 10)
	competition := createCompetition(t, db, "One Shot", start, end)
	submission := createSubmission(t, db, competition.ID, "alice@example.com", 7, start.Add(time.Hour))

	testutil.SetNow(end.Add(time.Hour))
	require.NoError(t, services.Lifecycle.ReconcileAll(services.TriggerCron))

	// A later score change without invalidation must not alter the
	// persisted winner set.
	require.NoError(t, db.Model(&submission).Update("score", 10).Error)
	require.NoError(t, services.Lifecycle.ReconcileAll(services.TriggerCron))

	got := reload(t, db, competition.ID)
	require.Len(t, got.Winners, 1)
	assert.Equal(t, float64(7), got.Winners[0].Score)
}

func TestProcessCompetitionGuardsConcurrentWrites(t *testing.T) {
	db := testutil.Setup(t)
	start := testutil.Date(2025, time.March, 1)
	end := testutil.Date(2025, time.March, 10)
	competition := createCompetition(t, db, "Race", start, end)
	createSubmission(t, db, competition.ID, "alice@example.com", 6, start.Add(time.Hour))

	testutil.SetNow(end.Add(time.Hour))
	winners, err := services.Lifecycle.ProcessCompetition(competition.ID)
	require.NoError(t, err)
	require.Len(t, winners, 1)

	// The second call loses the compare-and-set and writes nothing
	winners, err = services.Lifecycle.ProcessCompetition(competition.ID)
	require.NoError(t, err)
	assert.Empty(t, winners)
}

func TestInvalidateReopensWinnerSelection(t *testing.T) {
	db := testutil.Setup(t)
	start := testutil.Date(2025, time.March, 1)
	end := testutil.Date(2025, time.March, 10)
	competition := createCompetition(t, db, "Second Chance", start, end)
	low := createSubmission(t, db, competition.ID, "alice@example.com", 4, start.Add(time.Hour))
	createSubmission(t, db, competition.ID, "bob@example.com", 6, start.Add(2*time.Hour))

	testutil.SetNow(end.Add(time.Hour))
	require.NoError(t, services.Lifecycle.ReconcileAll(services.TriggerCron))

	got := reload(t, db, competition.ID)
	require.Len(t, got.Winners, 1)
	assert.Equal(t, "bob@example.com", got.Winners[0].Email)

	// Re-scoring after invalidation flips the result
	require.NoError(t, db.Model(&low).Update("score", 9).Error)
	require.NoError(t, services.Lifecycle.Invalidate(competition.ID))

	got = reload(t, db, competition.ID)
	assert.False(t, got.IsProcessed)
	assert.Empty(t, got.Winners)

	require.NoError(t, services.Lifecycle.ReconcileAll(services.TriggerManual))
	got = reload(t, db, competition.ID)
	assert.True(t, got.IsProcessed)
	require.Len(t, got.Winners, 1)
	assert.Equal(t, "alice@example.com", got.Winners[0].Email)
}

func TestReconcileAllProcessesEachDueCompetition(t *testing.T) {
	db := testutil.Setup(t)
	start := testutil.Date(2025, time.March, 1)
	first := createCompetition(t, db, "First", start, testutil.Date(2025, time.March, 5))
	second := createCompetition(t, db, "Second", start, testutil.Date(2025, time.March, 8))
	future := createCompetition(t, db, "Future", start, testutil.Date(2025, time.June, 1))

	createSubmission(t, db, first.ID, "alice@example.com", 3, start.Add(time.Hour))
	createSubmission(t, db, second.ID, "bob@example.com", 5, start.Add(time.Hour))
	createSubmission(t, db, future.ID, "carol@example.com", 9, start.Add(time.Hour))

	testutil.SetNow(testutil.Date(2025, time.March, 9))
	require.NoError(t, services.Lifecycle.ReconcileAll(services.TriggerCron))

	assert.True(t, reload(t, db, first.ID).IsProcessed)
	assert.True(t, reload(t, db, second.ID).IsProcessed)
	assert.False(t, reload(t, db, future.ID).IsProcessed)
}

func TestWinnerOrderFollowsSubmissionTime(t *testing.T) {
	db := testutil.Setup(t)
	start := testutil.Date(2025, time.March, 1)
	end := testutil.Date(2025, time.March, 10)
	competition := createCompetition(t, db, "Ordered", start, end)

	// Insert out of chronological order; the winner list must still come
	// back earliest first.
	createSubmission(t, db, competition.ID, "late@example.com", 8, start.Add(48*time.Hour))
	createSubmission(t, db, competition.ID, "early@example.com", 8, start.Add(time.Hour))

	testutil.SetNow(end.Add(time.Hour))
	require.NoError(t, services.Lifecycle.ReconcileAll(services.TriggerCron))

	got := reload(t, db, competition.ID)
	require.Len(t, got.Winners, 2)
	assert.Equal(t, "early@example.com", got.Winners[0].Email)
	assert.Equal(t, "late@example.com", got.Winners[1].Email)
}
