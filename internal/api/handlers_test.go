package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/studymate/reviewd/internal/api"
	"github.com/studymate/reviewd/internal/db"
	"github.com/studymate/reviewd/internal/models"
	"github.com/studymate/reviewd/internal/repository/sqlite"
	"github.com/studymate/reviewd/internal/services"
	"github.com/studymate/reviewd/internal/testutil/mocks"
)

type apiEnvelope struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message"`
	Data       json.RawMessage    `json:"data"`
	Pagination *models.Pagination `json:"pagination"`
}

func newTestServer(t *testing.T) (http.Handler, *mocks.MockJobQueue) {
	t.Helper()

	database, err := db.Open("file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	masteryRepo := sqlite.NewMasteryRepository(database.DB)
	workbookRepo := sqlite.NewWorkbookRepository(database.DB)
	eventRepo := sqlite.NewEventRepository(database.DB)
	statsRepo := sqlite.NewStatsRepository(database.DB)

	queue := new(mocks.MockJobQueue)
	queue.On("EnqueueStatsRecompute", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	srv := &api.Server{
		DB:              database,
		ReviewService:   services.NewReviewService(masteryRepo, eventRepo, queue),
		StatsService:    services.NewStatsService(eventRepo, statsRepo),
		WorkbookService: services.NewWorkbookService(workbookRepo, eventRepo),
		JobQueue:        queue,
		CORSOrigins:     []string{"*"},
		DefaultPageSize: 20,
		MaxPageSize:     100,
	}
	return srv.Routes(), queue
}

func doRequest(t *testing.T, handler http.Handler, method, path, userID, body string) (*httptest.ResponseRecorder, apiEnvelope) {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var env apiEnvelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func enroll(t *testing.T, handler http.Handler, userID, problemID string) int64 {
	t.Helper()
	rec, env := doRequest(t, handler, http.MethodPost, "/review/items", userID,
		fmt.Sprintf(`{"problemId":%q}`, problemID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var state models.MasteryState
	require.NoError(t, json.Unmarshal(env.Data, &state))
	return state.ID
}

func TestHealthz(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestReadyz(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMissingUserHeader(t *testing.T) {
	handler, _ := newTestServer(t)

	rec, env := doRequest(t, handler, http.MethodGet, "/review/today", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Message, "X-User-ID")
}

func TestEnrollAndTodayQueue(t *testing.T) {
	handler, _ := newTestServer(t)

	enroll(t, handler, "user-1", "prob-1")
	enroll(t, handler, "user-1", "prob-2")

	rec, env := doRequest(t, handler, http.MethodGet, "/review/today", "user-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 2, env.Pagination.Total)

	var items []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 2)
	assert.Equal(t, "prob-1", items[0]["problemId"])
	assert.EqualValues(t, 0, items[0]["masteryLevel"])
	assert.EqualValues(t, 0, items[0]["overdueDays"])
}

func TestEnrollIsIdempotent(t *testing.T) {
	handler, _ := newTestServer(t)

	first := enroll(t, handler, "user-1", "prob-1")
	second := enroll(t, handler, "user-1", "prob-1")
	assert.Equal(t, first, second)
}

func TestCompleteReviewFlow(t *testing.T) {
	handler, _ := newTestServer(t)
	recordID := enroll(t, handler, "user-1", "prob-1")

	path := fmt.Sprintf("/review/complete/%d", recordID)
	rec, env := doRequest(t, handler, http.MethodPost, path, "user-1",
		`{"isCorrect":true,"submissionId":"sub-1","timeSpent":41.5,"confidenceLevel":4}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result services.ReviewResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, models.Level0, result.PriorLevel)
	assert.Equal(t, models.Level1, result.NewLevel)
	assert.Equal(t, "increased", result.LevelChange)
	assert.False(t, result.Duplicate)
	require.NotNil(t, result.NewScheduledDate)
	assert.Equal(t, models.DayOf(time.Now()).AddDays(3), *result.NewScheduledDate)

	// Replaying the same submission returns the same transition.
	rec, env = doRequest(t, handler, http.MethodPost, path, "user-1",
		`{"isCorrect":true,"submissionId":"sub-1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.True(t, result.Duplicate)
	assert.Equal(t, models.Level1, result.NewLevel)
}

func TestCompleteReviewValidation(t *testing.T) {
	handler, _ := newTestServer(t)
	recordID := enroll(t, handler, "user-1", "prob-1")
	path := fmt.Sprintf("/review/complete/%d", recordID)

	tests := []struct {
		name string
		body string
	}{
		{"missing isCorrect", `{"submissionId":"sub-1"}`},
		{"confidence out of range", `{"isCorrect":true,"confidenceLevel":6}`},
		{"negative time spent", `{"isCorrect":true,"timeSpent":-2}`},
		{"malformed body", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := doRequest(t, handler, http.MethodPost, path, "user-1", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, env.Success)
		})
	}
}

func TestCompleteReviewOtherUsersRecord(t *testing.T) {
	handler, _ := newTestServer(t)
	recordID := enroll(t, handler, "user-1", "prob-1")

	rec, env := doRequest(t, handler, http.MethodPost,
		fmt.Sprintf("/review/complete/%d", recordID), "user-2", `{"isCorrect":true}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
}

func TestProgress(t *testing.T) {
	handler, _ := newTestServer(t)
	recordID := enroll(t, handler, "user-1", "prob-1")
	enroll(t, handler, "user-1", "prob-2")

	_, _ = doRequest(t, handler, http.MethodPost,
		fmt.Sprintf("/review/complete/%d", recordID), "user-1", `{"isCorrect":true}`)

	rec, env := doRequest(t, handler, http.MethodGet, "/review/progress", "user-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var progress services.ProgressSummary
	require.NoError(t, json.Unmarshal(env.Data, &progress))
	// prob-1 advanced to level 1 and left today's queue.
	assert.Equal(t, 1, progress.TodayTotal)
	assert.Equal(t, 1, progress.MasteryDistribution.Level0)
	assert.Equal(t, 1, progress.MasteryDistribution.Level1)
	assert.Equal(t, models.DayOf(time.Now()), progress.ReviewDate)
}

func TestDailyStats(t *testing.T) {
	handler, _ := newTestServer(t)
	recordID := enroll(t, handler, "user-1", "prob-1")
	_, _ = doRequest(t, handler, http.MethodPost,
		fmt.Sprintf("/review/complete/%d", recordID), "user-1", `{"isCorrect":true,"timeSpent":30}`)

	today := models.DayOf(time.Now())
	rec, env := doRequest(t, handler, http.MethodGet, "/review/stats/daily?date="+string(today), "user-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats models.DailyStats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 1, stats.TotalReviewsCompleted)
	assert.Equal(t, 1, stats.CorrectAnswers)
	assert.Equal(t, 1, stats.MasteryLevelChanges.Increased)

	// An absent date defaults to today.
	rec, env = doRequest(t, handler, http.MethodGet, "/review/stats/daily", "user-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, today, stats.Date)
	assert.Equal(t, 1, stats.TotalReviewsCompleted)

	rec, _ = doRequest(t, handler, http.MethodGet, "/review/stats/daily?date=not-a-day", "user-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEfficiencyReport(t *testing.T) {
	handler, _ := newTestServer(t)
	recordID := enroll(t, handler, "user-1", "prob-1")
	_, _ = doRequest(t, handler, http.MethodPost,
		fmt.Sprintf("/review/complete/%d", recordID), "user-1", `{"isCorrect":true,"timeSpent":30}`)

	today := models.DayOf(time.Now())
	path := fmt.Sprintf("/review/efficiency?startDate=%s&endDate=%s", today.AddDays(-7), today)
	rec, env := doRequest(t, handler, http.MethodGet, path, "user-1", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report models.EfficiencyReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, 1, report.TotalReviews)
	assert.Equal(t, 1, report.CorrectAnswers)
	assert.Equal(t, 1.0, report.Accuracy)
	assert.Equal(t, 1, report.ActiveDays)

	rec, _ = doRequest(t, handler, http.MethodGet, "/review/efficiency?startDate="+string(today), "user-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecomputeStats(t *testing.T) {
	handler, queue := newTestServer(t)

	rec, env := doRequest(t, handler, http.MethodPost, "/review/stats/recompute", "user-1",
		`{"startDate":"2026-03-01","endDate":"2026-03-14"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.True(t, env.Success)
	queue.AssertCalled(t, "EnqueueStatsRecompute", "user-1", models.Day("2026-03-01"), models.Day("2026-03-14"))

	rec, _ = doRequest(t, handler, http.MethodPost, "/review/stats/recompute", "user-1",
		`{"startDate":"2026-03-14","endDate":"2026-03-01"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWorkbookFlow(t *testing.T) {
	handler, _ := newTestServer(t)

	rec, env := doRequest(t, handler, http.MethodPost, "/review/workbooks", "user-1", `{"problemSetId":"set-1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var sched models.WorkbookReviewSchedule
	require.NoError(t, json.Unmarshal(env.Data, &sched))
	assert.Equal(t, 0, sched.ReviewStage)
	assert.Equal(t, models.DayOf(time.Now()), sched.NextReviewDate)

	rec, env = doRequest(t, handler, http.MethodPost,
		fmt.Sprintf("/review/workbooks/complete/%d", sched.ID), "user-1",
		`{"success":true,"submissionId":"sess-1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result services.SessionResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 0, result.PriorStage)
	assert.Equal(t, 1, result.NewStage)
	assert.Equal(t, models.DayOf(time.Now()).AddDays(7), result.NextReviewDate)

	rec, env = doRequest(t, handler, http.MethodGet, "/review/workbooks", "user-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var schedules []models.WorkbookReviewSchedule
	require.NoError(t, json.Unmarshal(env.Data, &schedules))
	require.Len(t, schedules, 1)
	assert.Equal(t, 1, schedules[0].ReviewStage)
}

func TestPriorityQueueRejectsBadCap(t *testing.T) {
	handler, _ := newTestServer(t)

	rec, _ := doRequest(t, handler, http.MethodGet, "/review/priority?maxOverdueDays=abc", "user-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doRequest(t, handler, http.MethodGet, "/review/priority?maxOverdueDays=-1", "user-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env := doRequest(t, handler, http.MethodGet, "/review/priority?maxOverdueDays=7", "user-1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}
