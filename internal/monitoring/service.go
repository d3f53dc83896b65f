package monitoring

import (
	"database/sql"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Service holds runtime context for monitoring and reporting.
type Service struct {
	startedAt time.Time
	db        *sql.DB
}

func NewService(startedAt time.Time, db *sql.DB) *Service {
	return &Service{startedAt: startedAt, db: db}
}

// StatusText renders a plain-text runtime snapshot.
func (s *Service) StatusText() string {
	dbState := "ok"
	if err := s.db.Ping(); err != nil {
		dbState = "error: " + err.Error()
	}

	uptime := time.Since(s.startedAt).Round(time.Second)
	activeHTTP, totalHTTP := getHTTPStats()
	pool := s.db.Stats()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	users := s.countRows("users")
	categories := s.countRows("categories")
	bookmarks := s.countRows("bookmarks")

	return strings.Join([]string{
		"LinkMark Server Status",
		fmt.Sprintf("timestamp_utc: %s", time.Now().UTC().Format(time.RFC3339)),
		fmt.Sprintf("uptime: %s", uptime),
		fmt.Sprintf("database: %s", dbState),
		fmt.Sprintf("db_open_connections: %d", pool.OpenConnections),
		fmt.Sprintf("db_in_use_connections: %d", pool.InUse),
		fmt.Sprintf("db_wait_count: %d", pool.WaitCount),
		fmt.Sprintf("http_active_requests: %d", activeHTTP),
		fmt.Sprintf("http_total_requests: %d", totalHTTP),
		fmt.Sprintf("goroutines: %d", runtime.NumGoroutine()),
		fmt.Sprintf("go_memory_alloc_bytes: %d", mem.Alloc),
		fmt.Sprintf("go_heap_in_use_bytes: %d", mem.HeapInuse),
		fmt.Sprintf("go_gc_count: %d", mem.NumGC),
		fmt.Sprintf("users_total: %d", users),
		fmt.Sprintf("categories_total: %d", categories),
		fmt.Sprintf("bookmarks_total: %d", bookmarks),
	}, "\n")
}

func (s *Service) countRows(table string) int64 {
	var count int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
		return -1
	}
	return count
}
