package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/mockexam/internal/apperror"
	"github.com/lshigami/mockexam/internal/dto"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", fmt.Errorf("submit: %w", apperror.NewValidation("content", "essay is empty")), http.StatusBadRequest, "essay is empty"},
		{"not found", fmt.Errorf("load: %w", gorm.ErrRecordNotFound), http.StatusNotFound, "Resource not found"},
		{"other", errors.New("connection reset"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(w)
			RespondError(ctx, "test", tt.err)

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			var body dto.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Message != tt.message {
				t.Errorf("message = %q, want %q", body.Message, tt.message)
			}
		})
	}
}

func TestParseParams(t *testing.T) {
	tests := []struct {
		name   string
		params gin.Params
		ok     bool
	}{
		{"numeric id", gin.Params{{Key: "attempt_id", Value: "12"}, {Key: "kind", Value: "speaking"}}, true},
		{"zero id", gin.Params{{Key: "attempt_id", Value: "0"}, {Key: "kind", Value: "writing"}}, false},
		{"text id", gin.Params{{Key: "attempt_id", Value: "abc"}, {Key: "kind", Value: "writing"}}, false},
		{"unknown kind", gin.Params{{Key: "attempt_id", Value: "3"}, {Key: "kind", Value: "listening"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(w)
			ctx.Params = tt.params

			_, idOK := ParseID(ctx, "attempt_id")
			ok := idOK
			if idOK {
				_, ok = ParseKind(ctx)
			}
			if ok != tt.ok {
				t.Errorf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok && w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}
