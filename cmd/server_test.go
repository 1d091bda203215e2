package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/mockexam/config"
)

func TestNewGinEngine(t *testing.T) {
	tests := []struct {
		name       string
		server     config.Server
		origin     string
		allowed    string
		swaggerHit int
	}{
		{"any origin", config.Server{Mode: gin.TestMode, AllowedOrigins: []string{"*"}, Swagger: true}, "https://app.example.com", "*", http.StatusOK},
		{"listed origin", config.Server{Mode: gin.TestMode, AllowedOrigins: []string{"https://app.example.com"}}, "https://app.example.com", "https://app.example.com", http.StatusNotFound},
		{"unlisted origin", config.Server{Mode: gin.TestMode, AllowedOrigins: []string{"https://app.example.com"}}, "https://other.example.com", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewGinEngine(&config.Config{Server: tt.server})

			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if tt.allowed == "" {
				if w.Code != http.StatusForbidden {
					t.Errorf("status = %d, want 403 for an unlisted origin", w.Code)
				}
			} else {
				if w.Code != http.StatusOK {
					t.Errorf("healthz status = %d, want 200", w.Code)
				}
				if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.allowed {
					t.Errorf("allow origin = %q, want %q", got, tt.allowed)
				}
			}

			w = httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
			if w.Code != tt.swaggerHit {
				t.Errorf("swagger status = %d, want %d", w.Code, tt.swaggerHit)
			}
		})
	}
}

func TestCorsConfigWildcard(t *testing.T) {
	c := corsConfig([]string{"https://a.example.com", "*"})
	if !c.AllowAllOrigins || c.AllowCredentials || len(c.AllowOrigins) != 0 {
		t.Errorf("config = %+v, want every origin allowed without credentials", c)
	}
	c = corsConfig(nil)
	if !c.AllowAllOrigins {
		t.Error("no configured origins should allow every origin")
	}
}
