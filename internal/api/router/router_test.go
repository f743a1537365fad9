package router

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelarq/neo-tracker/internal/api/dto"
	"github.com/avelarq/neo-tracker/internal/api/handler"
	"github.com/avelarq/neo-tracker/internal/catalog"
	"github.com/avelarq/neo-tracker/internal/ingest"
	"github.com/avelarq/neo-tracker/internal/jobs"
)

type fakeQueue struct {
	enqueued []string
}

func (q *fakeQueue) Enqueue(_ context.Context, jobID string) error {
	q.enqueued = append(q.enqueued, jobID)
	return nil
}

type testEnv struct {
	router   *gin.Engine
	jobStore *jobs.MemoryStore
	results  *jobs.MemoryResults
	catalog  *catalog.MemoryStore
	queue    *fakeQueue
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.DiscardHandler)
	jobStore := jobs.NewMemoryStore()
	results := jobs.NewMemoryResults()
	queue := &fakeQueue{}
	catalogStore := catalog.NewMemoryStore()

	csvPath := filepath.Join(t.TempDir(), "cad.csv")
	csvData := `Object,Close-Approach (CA) Date,CA DistanceNominal (au),V relative(km/s),H(mag),Rarity,Diameter
(2019 YH2),2020-Jan-01 12:48 ± 00:01,0.0401,10.5,24.1,0,50 ± 10 m
(2017 AE5),2021-Feb-10 03:15 ± 00:02,0.0120,22.0,19.4,2,310 m - 680 m
`
	require.NoError(t, os.WriteFile(csvPath, []byte(csvData), 0o644))

	r := SetupRouter(&handler.Dependencies{
		Logger:   logger,
		Manager:  jobs.NewManager(jobStore, queue, results, logger),
		Catalog:  catalogStore,
		Ingestor: ingest.NewIngestor(catalogStore, csvPath, logger),
	})

	return &testEnv{
		router:   r,
		jobStore: jobStore,
		results:  results,
		catalog:  catalogStore,
		queue:    queue,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestHelpEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/help", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Routes []string `json:"routes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Routes, "POST /jobs")
	assert.Contains(t, resp.Routes, "GET /results/:job_id")
	assert.Contains(t, resp.Routes, "GET /now/:count")
}

func TestCreateJob(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		wantStatus int
	}{
		{
			name: "valid submission",
			body: dto.CreateJobRequest{
				StartDate: "2020-Jan-01",
				EndDate:   "2020-Feb-01",
				Kind:      "1",
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "malformed date",
			body: dto.CreateJobRequest{
				StartDate: "01/01/2020",
				EndDate:   "2020-Feb-01",
				Kind:      "1",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "start after end",
			body: dto.CreateJobRequest{
				StartDate: "2020-Mar-01",
				EndDate:   "2020-Feb-01",
				Kind:      "1",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "kind 2 across months",
			body: dto.CreateJobRequest{
				StartDate: "2020-Jan-15",
				EndDate:   "2020-Feb-15",
				Kind:      "2",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing fields",
			body:       map[string]string{"kind": "1"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			rec := env.do(t, http.MethodPost, "/jobs", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusCreated {
				var job jobs.Job
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))
				assert.Equal(t, jobs.StatusSubmitted, job.Status)
				assert.Equal(t, []string{job.ID}, env.queue.enqueued)
			} else {
				assert.Empty(t, env.queue.enqueued, "rejected submissions must not enqueue")
			}
		})
	}
}

func TestGetJob(t *testing.T) {
	env := newTestEnv(t)

	created := env.do(t, http.MethodPost, "/jobs", dto.CreateJobRequest{
		StartDate: "2020-Jan-01",
		EndDate:   "2020-Feb-01",
		Kind:      "1",
	})
	require.Equal(t, http.StatusCreated, created.Code)

	var job jobs.Job
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &job))

	t.Run("found", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/jobs/"+job.ID, nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		var got jobs.Job
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, job.ID, got.ID)
		assert.Equal(t, jobs.StatusSubmitted, got.Status)
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/jobs/"+uuid.New().String(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("not a uuid", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/jobs/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListJobs(t *testing.T) {
	env := newTestEnv(t)

	t.Run("empty catalog of jobs", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/jobs", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp dto.ListJobsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Empty(t, resp.JobIDs)
	})

	t.Run("lists submitted jobs", func(t *testing.T) {
		for range 2 {
			rec := env.do(t, http.MethodPost, "/jobs", dto.CreateJobRequest{
				StartDate: "2020-Jan-01",
				EndDate:   "2020-Feb-01",
				Kind:      "1",
			})
			require.Equal(t, http.StatusCreated, rec.Code)
		}

		rec := env.do(t, http.MethodGet, "/jobs", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp dto.ListJobsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.JobIDs, 2)
	})
}

func TestGetResult(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	created := env.do(t, http.MethodPost, "/jobs", dto.CreateJobRequest{
		StartDate: "2020-Jan-01",
		EndDate:   "2020-Feb-01",
		Kind:      "1",
	})
	require.Equal(t, http.StatusCreated, created.Code)

	var job jobs.Job
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &job))

	t.Run("conflict while submitted", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/results/"+job.ID, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("conflict after failure", func(t *testing.T) {
		failed := env.do(t, http.MethodPost, "/jobs", dto.CreateJobRequest{
			StartDate: "2020-Jan-01",
			EndDate:   "2020-Feb-01",
			Kind:      "1",
		})
		require.Equal(t, http.StatusCreated, failed.Code)

		var failedJob jobs.Job
		require.NoError(t, json.Unmarshal(failed.Body.Bytes(), &failedJob))

		_, err := env.jobStore.Claim(ctx, failedJob.ID)
		require.NoError(t, err)
		require.NoError(t, env.jobStore.MarkFailed(ctx, failedJob.ID, "no usable data"))

		rec := env.do(t, http.MethodGet, "/results/"+failedJob.ID, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("serves png once complete", func(t *testing.T) {
		_, err := env.jobStore.Claim(ctx, job.ID)
		require.NoError(t, err)
		require.NoError(t, env.results.Put(ctx, job.ID, []byte("png-bytes")))
		require.NoError(t, env.jobStore.MarkComplete(ctx, job.ID))

		rec := env.do(t, http.MethodGet, "/results/"+job.ID, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.Equal(t, "png-bytes", rec.Body.String())
	})

	t.Run("unknown job", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/results/"+uuid.New().String(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("not a uuid", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/results/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDataRoutes(t *testing.T) {
	env := newTestEnv(t)

	t.Run("ingest", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/data", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"records":2`)
	})

	t.Run("get all", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/data", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		var records map[string]*catalog.Record
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
		assert.Len(t, records, 2)
	})

	t.Run("dates", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/data/date", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		var keys []string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &keys))
		assert.Len(t, keys, 2)
	})

	t.Run("by year", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/data/years/2021", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		var records map[string]*catalog.Record
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
		assert.Len(t, records, 1)

		rec = env.do(t, http.MethodGet, "/data/years/twenty", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("distance with bounds", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/data/distance?min=0.02&max=0.05", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"count":1`)

		rec = env.do(t, http.MethodGet, "/data/distance?min=abc", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("velocity requires bounds", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/data/velocity?min=5&max=15", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		var records map[string]*catalog.Record
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
		assert.Len(t, records, 1)

		rec = env.do(t, http.MethodGet, "/data/velocity?min=5", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = env.do(t, http.MethodGet, "/data/velocity?min=15&max=5", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("max diameter", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/data/max-diam/100", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		var records map[string]*catalog.Record
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
		assert.Len(t, records, 1)

		rec = env.do(t, http.MethodGet, "/data/max-diam/wide", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("biggest", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/data/biggest/1", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		var ranked []map[string]*catalog.Record
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ranked))
		require.Len(t, ranked, 1)
		for _, record := range ranked[0] {
			assert.Equal(t, "(2017 AE5)", record.Object)
		}

		rec = env.do(t, http.MethodGet, "/data/biggest/-1", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("upcoming", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/now/5", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("flush", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/data", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = env.do(t, http.MethodGet, "/data/date", nil)
		var keys []string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &keys))
		assert.Empty(t, keys)
	})
}
