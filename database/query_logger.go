package database

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm/logger"
)

// QueryLog represents a single SQL query log entry
type QueryLog struct {
	ID        int           `json:"id"`
	SQL       string        `json:"sql"`
	Duration  time.Duration `json:"duration"`
	Rows      int64         `json:"rows"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// QueryLogger keeps the most recent SQL queries in a fixed-size ring so a
// busy sync burst cannot grow memory without bound.
type QueryLogger struct {
	mu      sync.RWMutex
	ring    []QueryLog
	next    int
	filled  bool
	counter int
}

// Global query logger instance
var SQLLogger = NewQueryLogger(100)

// NewQueryLogger creates a query logger holding up to size entries.
func NewQueryLogger(size int) *QueryLogger {
	if size < 1 {
		size = 1
	}
	return &QueryLogger{ring: make([]QueryLog, size)}
}

// LogQuery records one executed statement.
func (ql *QueryLogger) LogQuery(sql string, duration time.Duration, rows int64, err error) {
	ql.mu.Lock()
	defer ql.mu.Unlock()

	ql.counter++
	entry := QueryLog{
		ID:        ql.counter,
		SQL:       sql,
		Duration:  duration,
		Rows:      rows,
		Timestamp: time.Now(),
	}
	if err != nil {
		entry.Error = err.Error()
	}

	ql.ring[ql.next] = entry
	ql.next++
	if ql.next == len(ql.ring) {
		ql.next = 0
		ql.filled = true
	}
}

// GetQueries returns the stored queries, newest first.
func (ql *QueryLogger) GetQueries() []QueryLog {
	ql.mu.RLock()
	defer ql.mu.RUnlock()

	n := ql.next
	if ql.filled {
		n = len(ql.ring)
	}
	result := make([]QueryLog, 0, n)
	for i := 1; i <= n; i++ {
		idx := (ql.next - i + len(ql.ring)) % len(ql.ring)
		result = append(result, ql.ring[idx])
	}
	return result
}

// GetRecentQueries returns up to n of the newest queries.
func (ql *QueryLogger) GetRecentQueries(n int) []QueryLog {
	all := ql.GetQueries()
	if n < len(all) {
		all = all[:n]
	}
	return all
}

// Clear removes all logged queries
func (ql *QueryLogger) Clear() {
	ql.mu.Lock()
	defer ql.mu.Unlock()
	ql.next = 0
	ql.filled = false
	for i := range ql.ring {
		ql.ring[i] = QueryLog{}
	}
}

// CustomGormLogger feeds GORM query traces into the ring buffer
type CustomGormLogger struct {
	logger.Interface
}

// Trace implements the logger.Interface
func (l *CustomGormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.Interface != nil {
		l.Interface.Trace(ctx, begin, fc, err)
	}

	sql, rows := fc()
	SQLLogger.LogQuery(sql, time.Since(begin), rows, err)
}
