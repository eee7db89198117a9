package submissions_test

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"api/handlers/submissions"
	"api/models"
	"api/services"
	"api/storage"
	"api/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRouter() *gin.Engine {
	router := gin.New()
	submissions.RegisterRoutes(router.Group(""))
	return router
}

func seedCompetition(t *testing.T, db *gorm.DB, name string, start, end time.Time) models.Competition {
	t.Helper()
	competition := models.Competition{
		Name:        name,
		Description: "seeded",
		Start:       start,
		End:         end,
		Background:  "/images/competitions/bg.png",
		Awards:      "Gold medal",
		Winners:     []models.Winner{},
	}
	require.NoError(t, db.Create(&competition).Error)
	return competition
}

func storedSubmissionCount(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(storage.Store.Root, "images", storage.AreaSubmissions))
	require.NoError(t, err)
	return len(entries)
}

func TestCreateSubmission(t *testing.T) {
	db := testutil.Setup(t)
	router := setupRouter()
	user := testutil.CreateUser(t, db, "alice@example.com", models.RoleUser)
	token := testutil.Token(t, user.ID)

	competition := seedCompetition(t, db, "Open", testutil.Date(2025, time.March, 1), testutil.Date(2025, time.March, 31))
	testutil.SetNow(testutil.Date(2025, time.March, 15))

	fields := map[string][]string{"competitionId": {competition.ID}}
	w := testutil.DoMultipart(t, router, http.MethodPost, "/submissions", fields, "image", token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Submission
	require.NoError(t, db.First(&created, "author = ?", user.Email).Error)
	assert.Equal(t, competition.ID, created.CompetitionID)
	assert.Zero(t, created.Score)
	assert.True(t, storage.Store.Exists(created.Image))

	var parent models.Competition
	require.NoError(t, db.First(&parent, "id = ?", competition.ID).Error)
	assert.Equal(t, 1, parent.TotalSubmissions)
}

func TestCreateSubmissionBeforeStartIsAccepted(t *testing.T) {
	db := testutil.Setup(t)
	router := setupRouter()
	user := testutil.CreateUser(t, db, "early@example.com", models.RoleUser)
	token := testutil.Token(t, user.ID)

	competition := seedCompetition(t, db, "Not Yet Open", testutil.Date(2025, time.June, 1), testutil.Date(2025, time.June, 30))
	testutil.SetNow(testutil.Date(2025, time.May, 1))

	fields := map[string][]string{"competitionId": {competition.ID}}
	w := testutil.DoMultipart(t, router, http.MethodPost, "/submissions", fields, "image", token)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestCreateSubmissionAfterEndRejected(t *testing.T) {
	db := testutil.Setup(t)
	router := setupRouter()
	user := testutil.CreateUser(t, db, "late@example.com", models.RoleUser)
	token := testutil.Token(t, user.ID)

	competition := seedCompetition(t, db, "Closed", testutil.Date(2025, time.January, 1), testutil.Date(2025, time.January, 10))
	testutil.SetNow(testutil.Date(2025, time.February, 1))

	fields := map[string][]string{"competitionId": {competition.ID}}
	w := testutil.DoMultipart(t, router, http.MethodPost, "/submissions", fields, "image", token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), submissions.ErrCompetitionNotActive)
	assert.Zero(t, storedSubmissionCount(t), "no file is kept for a rejected entry")
}

func TestCreateSubmissionDuplicateRejected(t *testing.T) {
	db := testutil.Setup(t)
	router := setupRouter()
	user := testutil.CreateUser(t, db, "alice@example.com", models.RoleUser)
	token := testutil.Token(t, user.ID)

	competition := seedCompetition(t, db, "One Entry", testutil.Date(2025, time.March, 1), testutil.Date(2025, time.March, 31))
	testutil.SetNow(testutil.Date(2025, time.March, 15))

	fields := map[string][]string{"competitionId": {competition.ID}}
	w := testutil.DoMultipart(t, router, http.MethodPost, "/submissions", fields, "image", token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = testutil.DoMultipart(t, router, http.MethodPost, "/submissions", fields, "image", token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), submissions.ErrDuplicateSubmission)

	// The failed create leaves no row behind, the counter holds and the
	// duplicate's file was cleaned up
	var rows int64
	db.Model(&models.Submission{}).Count(&rows)
	assert.EqualValues(t, 1, rows)

	var parent models.Competition
	require.NoError(t, db.First(&parent, "id = ?", competition.ID).Error)
	assert.Equal(t, 1, parent.TotalSubmissions)
	assert.Equal(t, 1, storedSubmissionCount(t))
}

func TestCreateSubmissionUnknownCompetition(t *testing.T) {
	db := testutil.Setup(t)
	router := setupRouter()
	user := testutil.CreateUser(t, db, "alice@example.com", models.RoleUser)
	token := testutil.Token(t, user.ID)

	fields := map[string][]string{"competitionId": {"does-not-exist"}}
	w := testutil.DoMultipart(t, router, http.MethodPost, "/submissions", fields, "image", token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAllSubmissionsScopesByRole(t *testing.T) {
	db := testutil.Setup(t)
	router := setupRouter()

	alice := testutil.CreateUser(t, db, "alice@example.com", models.RoleUser)
	bob := testutil.CreateUser(t, db, "bob@example.com", models.RoleUser)
	staff := testutil.CreateUser(t, db, "staff@example.com", models.RoleStaff)

	competition := seedCompetition(t, db, "Shared", testutil.Date(2025, time.March, 1), testutil.Date(2025, time.March, 31))
	for _, author := range []string{alice.Email, bob.Email} {
		submission := models.Submission{CompetitionID: competition.ID, Author: author, Image: "/images/submissions/" + author + ".png"}
		require.NoError(t, db.Create(&submission).Error)
	}

	var body struct {
		Count int                 `json:"count"`
		Data  []models.Submission `json:"data"`
	}

	w := testutil.DoJSON(router, http.MethodGet, "/submissions", "", testutil.Token(t, alice.ID))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, alice.Email, body.Data[0].Author)

	w = testutil.DoJSON(router, http.MethodGet, "/submissions", "", testutil.Token(t, staff.ID))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
}

func TestGetSubmissionDetailAccess(t *testing.T) {
	db := testutil.Setup(t)
	router := setupRouter()

	alice := testutil.CreateUser(t, db, "alice@example.com", models.RoleUser)
	bob := testutil.CreateUser(t, db, "bob@example.com", models.RoleUser)

	competition := seedCompetition(t, db, "Private", testutil.Date(2025, time.March, 1), testutil.Date(2025, time.March, 31))
	submission := models.Submission{CompetitionID: competition.ID, Author: alice.Email, Image: "/images/submissions/a.png"}
	require.NoError(t, db.Create(&submission).Error)

	w := testutil.DoJSON(router, http.MethodGet, "/submissions/"+submission.ID, "", testutil.Token(t, alice.ID))
	assert.Equal(t, http.StatusOK, w.Code)

	w = testutil.DoJSON(router, http.MethodGet, "/submissions/"+submission.ID, "", testutil.Token(t, bob.ID))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateSubmissionScoreValidation(t *testing.T) {
	db := testutil.Setup(t)
	router := setupRouter()
	staff := testutil.CreateUser(t, db, "staff@example.com", models.RoleStaff)
	token := testutil.Token(t, staff.ID)

	competition := seedCompetition(t, db, "Scored", testutil.Date(2025, time.March, 1), testutil.Date(2025, time.March, 31))
	submission := models.Submission{CompetitionID: competition.ID, Author: "alice@example.com", Image: "/images/submissions/a.png"}
	require.NoError(t, db.Create(&submission).Error)
	testutil.SetNow(testutil.Date(2025, time.March, 15))

	for _, body := range []string{`{"score":-1}`, `{"score":10.5}`, `{}`} {
		w := testutil.DoJSON(router, http.MethodPut, "/submissions/"+submission.ID, body, token)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)
	}
}

func TestUpdateSubmissionRequiresStaffRole(t *testing.T) {
	db := testutil.Setup(t)
	router := setupRouter()
	user := testutil.CreateUser(t, db, "alice@example.com", models.RoleUser)

	competition := seedCompetition(t, db, "Scored", testutil.Date(2025, time.March, 1), testutil.Date(2025, time.March, 31))
	submission := models.Submission{CompetitionID: competition.ID, Author: user.Email, Image: "/images/submissions/a.png"}
	require.NoError(t, db.Create(&submission).Error)

	w := testutil.DoJSON(router, http.MethodPut, "/submissions/"+submission.ID, `{"score":5}`, testutil.Token(t, user.ID))
	assert.Equal(t, http.StatusForbidden, w.Code, "authors cannot score their own entries")
}

func TestUpdateSubmissionScoreStampsAndRecomputes(t *testing.T) {
	db := testutil.Setup(t)
	router := setupRouter()
	staff := testutil.CreateUser(t, db, "staff@example.com", models.RoleStaff)
	token := testutil.Token(t, staff.ID)

	competition := seedCompetition(t, db, "Late Score", testutil.Date(2025, time.January, 1), testutil.Date(2025, time.January, 10))
	winner := models.Submission{CompetitionID: competition.ID, Author: "old@example.com", Image: "/images/submissions/old.png", Score: 5}
	challenger := models.Submission{CompetitionID: competition.ID, Author: "new@example.com", Image: "/images/submissions/new.png"}
	require.NoError(t, db.Create(&winner).Error)
	require.NoError(t, db.Create(&challenger).Error)

	testutil.SetNow(testutil.Date(2025, time.February, 1))
	require.NoError(t, services.Lifecycle.ReconcileAll(services.TriggerManual))

	// Scoring the challenger above the old winner reopens and recomputes
	// the ended competition in the same request.
	w := testutil.DoJSON(router, http.MethodPut, "/submissions/"+challenger.ID, `{"score":9}`, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var scored models.Submission
	require.NoError(t, db.First(&scored, "id = ?", challenger.ID).Error)
	require.NotNil(t, scored.ScoredBy)
	assert.Equal(t, staff.Email, *scored.ScoredBy)
	require.NotNil(t, scored.ScoredAt)

	var parent models.Competition
	require.NoError(t, db.First(&parent, "id = ?", competition.ID).Error)
	assert.True(t, parent.IsProcessed)
	require.Len(t, parent.Winners, 1)
	assert.Equal(t, "new@example.com", parent.Winners[0].Email)
}

func TestUpdateSubmissionZeroScoreKeepsWinners(t *testing.T) {
	db := testutil.Setup(t)
	router := setupRouter()
	staff := testutil.CreateUser(t, db, "staff@example.com", models.RoleStaff)
	token := testutil.Token(t, staff.ID)

	competition := seedCompetition(t, db, "Settled", testutil.Date(2025, time.January, 1), testutil.Date(2025, time.January, 10))
	winner := models.Submission{CompetitionID: competition.ID, Author: "old@example.com", Image: "/images/submissions/old.png", Score: 5}
	other := models.Submission{CompetitionID: competition.ID, Author: "other@example.com", Image: "/images/submissions/other.png", Score: 3}
	require.NoError(t, db.Create(&winner).Error)
	require.NoError(t, db.Create(&other).Error)

	testutil.SetNow(testutil.Date(2025, time.February, 1))
	require.NoError(t, services.Lifecycle.ReconcileAll(services.TriggerManual))

	w := testutil.DoJSON(router, http.MethodPut, "/submissions/"+other.ID, `{"score":0}`, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var parent models.Competition
	require.NoError(t, db.First(&parent, "id = ?", competition.ID).Error)
	assert.True(t, parent.IsProcessed, "a zero score never reopens the winner set")
	require.Len(t, parent.Winners, 1)
	assert.Equal(t, "old@example.com", parent.Winners[0].Email)
}

func TestDeleteSubmissionRecomputesWinners(t *testing.T) {
	db := testutil.Setup(t)
	router := setupRouter()
	manager := testutil.CreateUser(t, db, "manager@example.com", models.RoleManager)
	token := testutil.Token(t, manager.ID)

	competition := seedCompetition(t, db, "Shrinking", testutil.Date(2025, time.January, 1), testutil.Date(2025, time.January, 10))
	top := models.Submission{CompetitionID: competition.ID, Author: "top@example.com", Image: "/images/submissions/top.png", Score: 9}
	second := models.Submission{CompetitionID: competition.ID, Author: "second@example.com", Image: "/images/submissions/second.png", Score: 7}
	require.NoError(t, db.Create(&top).Error)
	require.NoError(t, db.Create(&second).Error)
	require.NoError(t, db.Model(&models.Competition{}).Where("id = ?", competition.ID).Update("total_submissions", 2).Error)

	testutil.SetNow(testutil.Date(2025, time.February, 1))
	require.NoError(t, services.Lifecycle.ReconcileAll(services.TriggerManual))

	w := testutil.DoJSON(router, http.MethodDelete, "/submissions/"+top.ID, "", token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var parent models.Competition
	require.NoError(t, db.First(&parent, "id = ?", competition.ID).Error)
	assert.Equal(t, 1, parent.TotalSubmissions)
	assert.True(t, parent.IsProcessed)
	require.Len(t, parent.Winners, 1)
	assert.Equal(t, "second@example.com", parent.Winners[0].Email)
}

func TestDeleteSubmissionOwnership(t *testing.T) {
	db := testutil.Setup(t)
	router := setupRouter()
	alice := testutil.CreateUser(t, db, "alice@example.com", models.RoleUser)
	bob := testutil.CreateUser(t, db, "bob@example.com", models.RoleUser)

	competition := seedCompetition(t, db, "Owned", testutil.Date(2025, time.March, 1), testutil.Date(2025, time.March, 31))
	submission := models.Submission{CompetitionID: competition.ID, Author: alice.Email, Image: "/images/submissions/a.png"}
	require.NoError(t, db.Create(&submission).Error)
	testutil.SetNow(testutil.Date(2025, time.March, 15))

	w := testutil.DoJSON(router, http.MethodDelete, "/submissions/"+submission.ID, "", testutil.Token(t, bob.ID))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = testutil.DoJSON(router, http.MethodDelete, "/submissions/"+submission.ID, "", testutil.Token(t, alice.ID))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetSubmissionsByCompetitionIsPublic(t *testing.T) {
	db := testutil.Setup(t)
	router := setupRouter()

	competition := seedCompetition(t, db, "Public Wall", testutil.Date(2025, time.March, 1), testutil.Date(2025, time.March, 31))
	submission := models.Submission{CompetitionID: competition.ID, Author: "alice@example.com", Image: "/images/submissions/a.png"}
	require.NoError(t, db.Create(&submission).Error)
	require.NoError(t, db.Model(&models.Competition{}).Where("id = ?", competition.ID).Update("total_submissions", 1).Error)

	w := testutil.DoJSON(router, http.MethodGet, "/submissions/competition/"+competition.ID, "", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Count       int                            `json:"count"`
		Competition submissions.CompetitionSummary `json:"competition"`
		Data        []models.Submission            `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "Public Wall", body.Competition.Name)
	assert.Equal(t, 1, body.Competition.TotalSubmissions)
}
