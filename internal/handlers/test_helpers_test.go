package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"linkmark/internal/middleware"
	"linkmark/internal/monitoring"
	"linkmark/internal/password"
	"linkmark/internal/token"
)

const testJWTSecret = "linkmark_test_jwt_secret_key_1234567890"

func newTestTokens(t *testing.T) *token.Service {
	t.Helper()
	tokens, err := token.NewService(testJWTSecret, "linkmark-api", 15*time.Minute, 24*time.Hour)
	if err != nil {
		t.Fatalf("token.NewService: %v", err)
	}
	return tokens
}

func newTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock, *token.Service, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}

	tokens := newTestTokens(t)
	h := New(db, zap.NewNop(), tokens, password.Policy{MinLength: 8}, monitoring.NewService(time.Now(), db), "")

	cleanup := func() {
		_ = db.Close()
	}

	return h, mock, tokens, cleanup
}

func withTestUserID(userID int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

// bookmarkRouter binds the bookmark/category routes the way main does,
// with RequireAuth replaced by a fixed test identity.
func bookmarkRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(withTestUserID(1))
	router.GET("/api/bookmarks/", h.ListBookmarks)
	router.POST("/api/bookmarks/", h.CreateBookmark)
	router.GET("/api/bookmarks/:id/", h.GetBookmark)
	router.PUT("/api/bookmarks/:id/", h.UpdateBookmark)
	router.DELETE("/api/bookmarks/:id/", h.DeleteBookmark)
	router.GET("/api/categories/", h.ListCategories)
	return router
}

// accountRouter binds the account routes with the real auth middleware.
func accountRouter(h *Handler, tokens *token.Service) *gin.Engine {
	router := gin.New()
	router.POST("/register/", h.Register)
	router.POST("/api/token/", h.TokenPair)
	router.POST("/api/token/refresh/", h.TokenRefresh)
	router.GET("/user-info/", middleware.RequireAuth(tokens), h.UserInfo)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json.Marshal: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for name, value := range headers {
		req.Header.Set(name, value)
	}

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decodeJSON(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("json.Unmarshal: %v (body %q)", err, resp.Body.String())
	}
	return out
}

func mustStatus(t *testing.T, actual int, expected int) {
	t.Helper()
	if actual != expected {
		t.Fatalf("expected status %d, got %d", expected, actual)
	}
}

func expectHTTP200(t *testing.T, status int) {
	t.Helper()
	mustStatus(t, status, http.StatusOK)
}

func expectMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func registrationErrors(t *testing.T, out map[string]any) map[string]any {
	t.Helper()
	raw, ok := out["errors"]
	if !ok {
		t.Fatalf("expected errors key in %v", out)
	}
	errs, ok := raw.(map[string]any)
	if !ok {
		t.Fatalf("expected errors object, got %T", raw)
	}
	return errs
}
