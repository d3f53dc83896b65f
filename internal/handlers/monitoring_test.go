package handlers

import (
	"net/http"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"linkmark/internal/monitoring"
	"linkmark/internal/password"
)

func newMonitoringRouter(t *testing.T, key string) (*gin.Engine, sqlmock.Sqlmock, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}

	h := New(db, zap.NewNop(), newTestTokens(t), password.Policy{MinLength: 8}, monitoring.NewService(time.Now(), db), key)

	router := gin.New()
	router.GET("/monitoring/status", h.MonitoringStatus)

	return router, mock, func() { _ = db.Close() }
}

func TestMonitoringStatusDisabledWithoutKey(t *testing.T) {
	router, _, cleanup := newMonitoringRouter(t, "")
	defer cleanup()

	resp := doJSON(t, router, http.MethodGet, "/monitoring/status", nil, nil)

	mustStatus(t, resp.Code, http.StatusServiceUnavailable)
	out := decodeJSON(t, resp)
	if out["error"] != "Monitoring API is disabled" {
		t.Fatalf("unexpected error: %v", out)
	}
}

func TestMonitoringStatusRejectsWrongKey(t *testing.T) {
	router, _, cleanup := newMonitoringRouter(t, "monitoring-secret")
	defer cleanup()

	resp := doJSON(t, router, http.MethodGet, "/monitoring/status", nil, map[string]string{
		"X-Monitoring-Key": "wrong-key",
	})

	mustStatus(t, resp.Code, http.StatusUnauthorized)
	out := decodeJSON(t, resp)
	if out["error"] != "Invalid monitoring key" {
		t.Fatalf("unexpected error: %v", out)
	}
}

func TestMonitoringStatusWithValidKey(t *testing.T) {
	router, mock, cleanup := newMonitoringRouter(t, "monitoring-secret")
	defer cleanup()

	mock.
		ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM users`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.
		ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM categories`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.
		ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM bookmarks`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	resp := doJSON(t, router, http.MethodGet, "/monitoring/status", nil, map[string]string{
		"X-Monitoring-Key": "monitoring-secret",
	})

	expectHTTP200(t, resp.Code)
	body := resp.Body.String()
	for _, line := range []string{"LinkMark Server Status", "users_total: 2", "categories_total: 3", "bookmarks_total: 5"} {
		if !strings.Contains(body, line) {
			t.Fatalf("expected %q in status body:\n%s", line, body)
		}
	}
	expectMet(t, mock)
}
