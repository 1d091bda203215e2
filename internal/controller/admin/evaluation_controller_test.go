package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/mockexam/internal/apperror"
	"github.com/lshigami/mockexam/internal/dto"
	"github.com/lshigami/mockexam/internal/model"
	"github.com/lshigami/mockexam/internal/service"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeEvaluation struct {
	service.EvaluationService
	err   error
	kind  model.EvaluationKind
	jobID uint
	limit int
}

func (f *fakeEvaluation) RetryJob(ctx context.Context, kind model.EvaluationKind, jobID uint) (*dto.EvaluationJobResponse, error) {
	f.kind, f.jobID = kind, jobID
	if f.err != nil {
		return nil, f.err
	}
	return &dto.EvaluationJobResponse{ID: jobID, Kind: string(kind), Status: string(model.StatusPending)}, nil
}

func (f *fakeEvaluation) ListFailed(ctx context.Context, kind model.EvaluationKind, limit int) (*dto.FailedJobsResponse, error) {
	f.kind, f.limit = kind, limit
	if f.err != nil {
		return nil, f.err
	}
	return &dto.FailedJobsResponse{Kind: string(kind), Jobs: []dto.EvaluationJobResponse{}}, nil
}

func newRouter(svc service.EvaluationService) *gin.Engine {
	r := gin.New()
	c := NewEvaluationController(svc)
	g := r.Group("/api/v1/admin/evaluations")
	g.GET("/:kind/failed", c.ListFailed)
	g.POST("/:kind/:job_id/retry", c.RetryJob)
	return r
}

func TestRetryJobHandler(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		err    error
		status int
	}{
		{"requeued", "/api/v1/admin/evaluations/speaking/12/retry", nil, http.StatusAccepted},
		{"unknown kind", "/api/v1/admin/evaluations/reading/12/retry", nil, http.StatusBadRequest},
		{"bad job id", "/api/v1/admin/evaluations/writing/-1/retry", nil, http.StatusBadRequest},
		{"partial submission", "/api/v1/admin/evaluations/speaking/12/retry", apperror.NewValidation("job_id", "job 12 is a partial submission"), http.StatusBadRequest},
		{"missing job", "/api/v1/admin/evaluations/writing/12/retry", gorm.ErrRecordNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeEvaluation{err: tt.err}
			w := httptest.NewRecorder()
			newRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, tt.path, nil))
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.status, w.Body.String())
			}
			if tt.status != http.StatusAccepted {
				return
			}
			var body dto.EvaluationJobResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if svc.kind != model.KindSpeaking || svc.jobID != 12 || body.Status != string(model.StatusPending) {
				t.Errorf("service got %s/%d, body = %+v", svc.kind, svc.jobID, body)
			}
		})
	}
}

func TestListFailedHandlerLimit(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		status int
		limit  int
	}{
		{"default", "", http.StatusOK, 0},
		{"explicit", "?limit=10", http.StatusOK, 10},
		{"negative", "?limit=-3", http.StatusBadRequest, 0},
		{"not a number", "?limit=all", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeEvaluation{}
			w := httptest.NewRecorder()
			newRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/evaluations/writing/failed"+tt.query, nil))
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			if tt.status == http.StatusOK && svc.limit != tt.limit {
				t.Errorf("limit = %d, want %d", svc.limit, tt.limit)
			}
		})
	}
}
