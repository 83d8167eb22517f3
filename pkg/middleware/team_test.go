package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRequireTeam(t *testing.T) {
	e := echo.New()
	g := e.Group("/teams/:team", RequireTeam())
	g.GET("/roster", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get(TeamContextKey).(string))
	})

	tests := []struct {
		path string
		want int
	}{
		{"/teams/core/roster", http.StatusOK},
		{"/teams/web-platform_2/roster", http.StatusOK},
		{"/teams/-core/roster", http.StatusBadRequest},
		{"/teams/a%20b/roster", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}
